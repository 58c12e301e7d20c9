package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/platform/neo4jdb"
	"github.com/yungbote/nodetree-backend/internal/platform/redisdb"
)

// Clients are the optional external backends. Each is nil when not configured.
type Clients struct {
	Redis *goredis.Client
	Neo4j *neo4jdb.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	rdb, err := redisdb.New(log, cfg.Redis)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}

	graph, err := neo4jdb.New(log, cfg.Neo4j)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return Clients{}, fmt.Errorf("init neo4j: %w", err)
	}

	return Clients{Redis: rdb, Neo4j: graph}, nil
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}
