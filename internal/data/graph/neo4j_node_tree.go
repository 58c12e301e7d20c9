package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/platform/neo4jdb"
)

// NodeTreeMirror copies the node hierarchy into Neo4j as (:TreeNode)-[:CHILD_OF]->(:TreeNode).
// The relational store stays the source of truth; the mirror is written after commit and may lag.
type NodeTreeMirror struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

// NewNodeTreeMirror returns nil when the client is disabled.
func NewNodeTreeMirror(client *neo4jdb.Client, log *logger.Logger) *NodeTreeMirror {
	if client == nil || client.Driver == nil || log == nil {
		return nil
	}
	return &NodeTreeMirror{client: client, log: log.With("graph", "NodeTreeMirror")}
}

func (m *NodeTreeMirror) EnsureSchema(ctx context.Context) {
	if m == nil {
		return
	}
	session := m.client.WriteSession(ctx)
	defer session.Close(ctx)

	stmts := []string{
		`CREATE CONSTRAINT tree_node_id_unique IF NOT EXISTS FOR (n:TreeNode) REQUIRE n.id IS UNIQUE`,
	}
	for _, q := range stmts {
		if res, err := session.Run(ctx, q, nil); err != nil {
			m.log.Warn("neo4j schema init failed (continuing)", "error", err)
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}

// UpsertNodes merges the given nodes and re-points their CHILD_OF edge at the current parent.
func (m *NodeTreeMirror) UpsertNodes(ctx context.Context, nodes []*types.Node) error {
	if m == nil {
		return nil
	}
	recs := nodeRecords(nodes, time.Now().UTC())
	if len(recs) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	session := m.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (tn:TreeNode {id: n.id})
SET tn += n
WITH tn
OPTIONAL MATCH (tn)-[old:CHILD_OF]->()
DELETE old
`, map[string]any{"nodes": recs})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		res, err = tx.Run(ctx, `
UNWIND $nodes AS n
WITH n WHERE n.parent_id <> 0
MATCH (c:TreeNode {id: n.id})
MERGE (p:TreeNode {id: n.parent_id})
MERGE (c)-[:CHILD_OF]->(p)
`, map[string]any{"nodes": recs})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func (m *NodeTreeMirror) DeleteNodes(ctx context.Context, ids []int64) error {
	if m == nil || len(ids) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	session := m.client.WriteSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
UNWIND $ids AS id
MATCH (n:TreeNode {id: id})
DETACH DELETE n
`, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		_, err = res.Consume(ctx)
		return nil, err
	})
	return err
}

func nodeRecords(nodes []*types.Node, now time.Time) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	synced := now.Format(time.RFC3339Nano)
	for _, n := range nodes {
		if n == nil || n.NodeID == 0 {
			continue
		}
		out = append(out, map[string]any{
			"id":             n.NodeID,
			"name":           n.NodeName,
			"description":    n.Description,
			"state":          int64(n.State),
			"parent_id":      n.ParentID,
			"children_state": int64(n.ChildrenState),
			"updated_at":     n.UpdatedAt.UTC().Format(time.RFC3339Nano),
			"synced_at":      synced,
		})
	}
	return out
}
