package tree

import (
	"context"
	"testing"

	"github.com/yungbote/nodetree-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
)

func TestNodeRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewNodeRepo(db, testutil.Logger(t))

	root := &types.Node{NodeID: 100000001, NodeName: "root", State: 1}
	if _, err := repo.Create(dbc, []*types.Node{root}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	testutil.SeedNode(t, ctx, tx, 100000003, root.NodeID, 2)
	testutil.SeedNode(t, ctx, tx, 100000002, root.NodeID, 1)
	testutil.SeedNode(t, ctx, tx, 100000004, 100000002, 0)

	got, err := repo.GetByID(dbc, root.NodeID)
	if err != nil || got == nil || got.NodeName != "root" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if missing, err := repo.GetByID(dbc, 42); err != nil || missing != nil {
		t.Fatalf("GetByID missing: got=%v err=%v", missing, err)
	}
	if ok, err := repo.Exists(dbc, 100000004); err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}

	children, err := repo.GetByParentIDs(dbc, []int64{root.NodeID})
	if err != nil || len(children) != 2 {
		t.Fatalf("GetByParentIDs: len=%d err=%v", len(children), err)
	}
	if children[0].NodeID != 100000002 || children[1].NodeID != 100000003 {
		t.Fatalf("children not ordered by id: %d, %d", children[0].NodeID, children[1].NodeID)
	}

	states, err := repo.ChildStates(dbc, root.NodeID)
	if err != nil || len(states) != 2 || states[0] != 1 || states[1] != 2 {
		t.Fatalf("ChildStates: %v err=%v", states, err)
	}
	if states, err := repo.ChildStates(dbc, 100000004); err != nil || len(states) != 0 {
		t.Fatalf("ChildStates leaf: %v err=%v", states, err)
	}

	if max, err := repo.MaxID(dbc); err != nil || max != 100000004 {
		t.Fatalf("MaxID: %d err=%v", max, err)
	}

	seven := 7
	if err := repo.UpdateDerived(dbc, root.NodeID, types.NodeDerived{ChildrenState: &seven}); err != nil {
		t.Fatalf("UpdateDerived: %v", err)
	}
	got, _ = repo.GetByID(dbc, root.NodeID)
	if got.ChildrenState != 7 || got.State != root.State {
		t.Fatalf("derived update: children_state=%d state=%d", got.ChildrenState, got.State)
	}
	if err := repo.UpdateDerived(dbc, root.NodeID, types.NodeDerived{}); err != nil {
		t.Fatalf("UpdateDerived empty: %v", err)
	}

	got.Description = "updated"
	if err := repo.Update(dbc, got); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := repo.FullDeleteByIDs(dbc, []int64{100000002, 100000004}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	all, err := repo.ListAll(dbc)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll after delete: len=%d err=%v", len(all), err)
	}
	if all[0].Description != "updated" {
		t.Fatalf("description not saved: %q", all[0].Description)
	}
}
