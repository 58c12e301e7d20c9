package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	dbpkg "github.com/yungbote/nodetree-backend/internal/data/db"
	"github.com/yungbote/nodetree-backend/internal/observability"
	"github.com/yungbote/nodetree-backend/internal/platform/envutil"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/platform/neo4jdb"
	"github.com/yungbote/nodetree-backend/internal/platform/redisdb"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type Config struct {
	Port            string
	MetricsAddr     string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	CORSOrigins     []string
	APIAuthRequired bool

	DB    dbpkg.Config
	Redis redisdb.Config
	Neo4j neo4jdb.Config
	Otel  observability.OtelConfig

	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	BcryptCost      int

	CaptchaTTL      time.Duration
	CaptchaRequired bool
	CaptchaFontPath string

	Tree         services.TreeConsistencyConfig
	MaxTreeDepth int
}

// LoadConfig reads the environment, after overlaying CONFIG_PATH when it is set.
func LoadConfig(log *logger.Logger) (Config, error) {
	if path := envutil.String("CONFIG_PATH", ""); path != "" {
		n, err := envutil.LoadYAML(path)
		if err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path, "keys", n)
	}

	policy, err := services.ParseDivergencePolicy(envutil.String("TREE_DIVERGENCE_POLICY", string(services.DivergenceFreeze)))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		MetricsAddr:     envutil.String("METRICS_ADDR", ":9090"),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		RequestTimeout:  envutil.Duration("REQUEST_TIMEOUT", 30*time.Second),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", nil),
		APIAuthRequired: envutil.Bool("API_AUTH_REQUIRED", false),

		DB: dbpkg.Config{
			Driver:           envutil.String("DB_DRIVER", dbpkg.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "nodetree"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "nodetree.db"),
			SlowThreshold:    envutil.Duration("DB_SLOW_THRESHOLD", time.Second),
		},
		Redis: redisdb.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		Neo4j: neo4jdb.Config{
			URI:         envutil.String("NEO4J_URI", ""),
			User:        envutil.String("NEO4J_USER", "neo4j"),
			Password:    envutil.String("NEO4J_PASSWORD", ""),
			Database:    envutil.String("NEO4J_DATABASE", ""),
			Timeout:     envutil.Duration("NEO4J_TIMEOUT", 10*time.Second),
			MaxPoolSize: envutil.Int("NEO4J_MAX_POOL_SIZE", 0),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "nodetree"),
			Environment: envutil.String("OTEL_ENVIRONMENT", envutil.String("ENV", "development")),
			Version:     envutil.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100)) / 100,
		},

		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", ""),
		AccessTokenTTL:  envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL: envutil.Duration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		BcryptCost:      envutil.Int("BCRYPT_COST", 12),

		CaptchaTTL:      envutil.Duration("CAPTCHA_TTL", services.DefaultCaptchaTTL),
		CaptchaRequired: envutil.Bool("CAPTCHA_REQUIRED", true),
		CaptchaFontPath: envutil.String("CAPTCHA_FONT_PATH", ""),

		Tree: services.TreeConsistencyConfig{
			Policy:   policy,
			Rollup:   envutil.Bool("TREE_STATE_ROLLUP", false),
			MaxDepth: envutil.Int("TREE_MAX_PROPAGATION_DEPTH", services.DefaultMaxPropagationDepth),
		},
		MaxTreeDepth: envutil.Int("TREE_MAX_DEPTH", services.DefaultMaxTreeDepth),
	}

	if strings.TrimSpace(cfg.JWTSecretKey) == "" {
		if cfg.DB.Driver == dbpkg.DriverSQLite {
			cfg.JWTSecretKey = "local-dev-secret"
			log.Warn("JWT_SECRET_KEY not set; using the local development secret")
		} else {
			return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
		}
	}
	if !strings.Contains(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	return cfg, nil
}

// LogMode falls back to development so local runs get readable output.
func LogMode() string {
	mode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if mode == "" {
		return "development"
	}
	return mode
}
