package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/nodetree-backend/internal/domain"
)

func SeedNode(tb testing.TB, ctx context.Context, tx *gorm.DB, id, parentID int64, state int) *types.Node {
	tb.Helper()
	n := &types.Node{
		NodeID:   id,
		NodeName: "node",
		State:    state,
		ParentID: parentID,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed node: %v", err)
	}
	return n
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, id, nodeID int64, state int) *types.Project {
	tb.Helper()
	p := &types.Project{
		ProjectID:   id,
		ProjectName: "project",
		State:       state,
		NodeID:      nodeID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, username string) *types.User {
	tb.Helper()
	u := &types.User{
		UserID:     id,
		Username:   username,
		Password:   "pw",
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func PtrTime(v time.Time) *time.Time { return &v }
