package redisdb

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New dials Redis and pings it. An empty address disables the client and returns (nil, nil).
func New(log *logger.Logger, cfg Config) (*goredis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if log != nil {
		log.Info("redis connected", "addr", cfg.Addr)
	}
	return rdb, nil
}
