package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/services"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("PORT", "7000")
	t.Setenv("TREE_DIVERGENCE_POLICY", "")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	require.Equal(t, ":7000", cfg.Port)
	require.NotEmpty(t, cfg.JWTSecretKey)
	require.Equal(t, services.DivergenceFreeze, cfg.Tree.Policy)
	require.Equal(t, services.DefaultCaptchaTTL, cfg.CaptchaTTL)
	require.Equal(t, time.Hour, cfg.AccessTokenTTL)
}

func TestLoadConfigRequiresSecretForPostgres(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("TREE_DIVERGENCE_POLICY", "")

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("TREE_DIVERGENCE_POLICY", "average")

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}

func TestLoadConfigResetPolicyAndRollup(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TREE_DIVERGENCE_POLICY", "reset")
	t.Setenv("TREE_STATE_ROLLUP", "true")
	t.Setenv("ACCESS_TOKEN_TTL", "900")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	require.Equal(t, services.DivergenceReset, cfg.Tree.Policy)
	require.True(t, cfg.Tree.Rollup)
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
}
