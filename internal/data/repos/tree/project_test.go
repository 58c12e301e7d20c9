package tree

import (
	"context"
	"testing"

	"github.com/yungbote/nodetree-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
)

func TestProjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewProjectRepo(db, testutil.Logger(t))

	testutil.SeedNode(t, ctx, tx, 100000001, 0, 3)
	p1 := &types.Project{ProjectID: 100000001, ProjectName: "p1", NodeID: 100000001, State: 3}
	p2 := &types.Project{ProjectID: 100000002, ProjectName: "p2", NodeID: 100000001, State: 1}
	p3 := &types.Project{ProjectID: 100000003, ProjectName: "p3"}
	if _, err := repo.Create(dbc, []*types.Project{p1, p2, p3}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	linked, err := repo.GetByNodeIDs(dbc, []int64{100000001})
	if err != nil || len(linked) != 2 {
		t.Fatalf("GetByNodeIDs: len=%d err=%v", len(linked), err)
	}

	// Only p2 differs from the pushed state.
	n, err := repo.SetStateForNode(dbc, 100000001, 3)
	if err != nil || n != 1 {
		t.Fatalf("SetStateForNode: n=%d err=%v", n, err)
	}
	got, _ := repo.GetByID(dbc, p2.ProjectID)
	if got.State != 3 {
		t.Fatalf("p2 state: got %d", got.State)
	}
	if n, err := repo.SetStateForNode(dbc, 0, 9); err != nil || n != 0 {
		t.Fatalf("SetStateForNode unlinked: n=%d err=%v", n, err)
	}

	if n, err := repo.DetachNodes(dbc, []int64{100000001}); err != nil || n != 2 {
		t.Fatalf("DetachNodes: n=%d err=%v", n, err)
	}
	got, _ = repo.GetByID(dbc, p1.ProjectID)
	if got.NodeID != 0 {
		t.Fatalf("p1 still linked to %d", got.NodeID)
	}

	some, err := repo.GetByIDs(dbc, []int64{p3.ProjectID, p1.ProjectID, 5})
	if err != nil || len(some) != 2 || some[0].ProjectID != p1.ProjectID {
		t.Fatalf("GetByIDs: %v err=%v", some, err)
	}

	if err := repo.FullDeleteByIDs(dbc, []int64{p3.ProjectID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	all, err := repo.List(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("List: len=%d err=%v", len(all), err)
	}
	if max, err := repo.MaxID(dbc); err != nil || max != p2.ProjectID {
		t.Fatalf("MaxID: %d err=%v", max, err)
	}
}
