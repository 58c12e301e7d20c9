package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/pointers"
)

func TestNodeCreateAllocatesSequentialIDs(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	a, err := env.nodes.Create(bg(), types.NewNode{Name: "A"})
	require.NoError(t, err)
	require.Equal(t, int64(100000001), a.NodeID)

	b, err := env.nodes.Create(bg(), types.NewNode{Name: "B", ParentID: a.NodeID})
	require.NoError(t, err)
	require.Equal(t, int64(100000002), b.NodeID)

	_, err = env.nodes.Create(bg(), types.NewNode{Name: "orphan", ParentID: 42})
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	_, err = env.nodes.Create(bg(), types.NewNode{Name: "   "})
	require.True(t, apperr.IsCode(err, apperr.CodeInvalidArgument))

	// Failed creates must not leave gaps that collide later.
	c, err := env.nodes.Create(bg(), types.NewNode{Name: "C"})
	require.NoError(t, err)
	require.Greater(t, c.NodeID, b.NodeID)
}

func TestNodeCreateSkipsPastLegacyRows(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	require.NoError(t, env.db.Create(&types.Node{NodeID: 100000050, NodeName: "legacy"}).Error)

	n, err := env.nodes.Create(bg(), types.NewNode{Name: "fresh"})
	require.NoError(t, err)
	require.Equal(t, int64(100000051), n.NodeID)
}

func TestChildrenStateFreezePolicy(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{Policy: DivergenceFreeze})

	a, err := env.nodes.Create(bg(), types.NewNode{Name: "A", State: 0})
	require.NoError(t, err)
	_, err = env.nodes.Create(bg(), types.NewNode{Name: "B", State: 5, ParentID: a.NodeID})
	require.NoError(t, err)
	c, err := env.nodes.Create(bg(), types.NewNode{Name: "C", State: 5, ParentID: a.NodeID})
	require.NoError(t, err)

	got, err := env.nodes.Get(bg(), a.NodeID)
	require.NoError(t, err)
	require.Equal(t, 5, got.ChildrenState)

	_, err = env.nodes.Update(bg(), c.NodeID, types.NodePatch{State: pointers.Int(7)})
	require.NoError(t, err)

	got, err = env.nodes.Get(bg(), a.NodeID)
	require.NoError(t, err)
	require.Equal(t, 5, got.ChildrenState, "divergent children keep the last uniform value")
	require.Equal(t, 0, got.State)
}

func TestChildrenStateResetPolicy(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{Policy: DivergenceReset})

	a, _ := env.nodes.Create(bg(), types.NewNode{Name: "A"})
	b, _ := env.nodes.Create(bg(), types.NewNode{Name: "B", State: 5, ParentID: a.NodeID})
	c, _ := env.nodes.Create(bg(), types.NewNode{Name: "C", State: 5, ParentID: a.NodeID})

	_, err := env.nodes.Update(bg(), c.NodeID, types.NodePatch{State: pointers.Int(7)})
	require.NoError(t, err)
	got, _ := env.nodes.Get(bg(), a.NodeID)
	require.Equal(t, types.ChildrenStateMixed, got.ChildrenState)

	// Agreement again restores the derived value.
	_, err = env.nodes.Update(bg(), b.NodeID, types.NodePatch{State: pointers.Int(7)})
	require.NoError(t, err)
	got, _ = env.nodes.Get(bg(), a.NodeID)
	require.Equal(t, 7, got.ChildrenState)
}

func TestRollupPropagatesToGrandparent(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{Rollup: true})

	root, _ := env.nodes.Create(bg(), types.NewNode{Name: "root"})
	mid, _ := env.nodes.Create(bg(), types.NewNode{Name: "mid", ParentID: root.NodeID})
	leaf, _ := env.nodes.Create(bg(), types.NewNode{Name: "leaf", ParentID: mid.NodeID})
	p, err := env.projects.Create(bg(), types.NewProject{Name: "P", NodeID: mid.NodeID})
	require.NoError(t, err)

	_, err = env.nodes.Update(bg(), leaf.NodeID, types.NodePatch{State: pointers.Int(3)})
	require.NoError(t, err)

	gotMid, _ := env.nodes.Get(bg(), mid.NodeID)
	require.Equal(t, 3, gotMid.State)
	require.Equal(t, 3, gotMid.ChildrenState)
	gotRoot, _ := env.nodes.Get(bg(), root.NodeID)
	require.Equal(t, 3, gotRoot.ChildrenState)
	require.Equal(t, 3, gotRoot.State)

	gotP, _ := env.projects.Get(bg(), p.ProjectID)
	require.Equal(t, 3, gotP.State, "rollup pushes to projects linked to the ancestor")
}

func TestRecomputeStopsWhenOnlyChildrenStateChanges(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	root, _ := env.nodes.Create(bg(), types.NewNode{Name: "root", State: 2})
	mid, _ := env.nodes.Create(bg(), types.NewNode{Name: "mid", ParentID: root.NodeID})
	leaf, _ := env.nodes.Create(bg(), types.NewNode{Name: "leaf", ParentID: mid.NodeID})

	// Change the leaf behind the service so only the engine reacts.
	require.NoError(t, env.nodeRepo.UpdateDerived(bg(), leaf.NodeID, types.NodeDerived{State: pointers.Int(6)}))

	res, err := env.consistency.Recompute(bg(), mid.NodeID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Levels, "root is never visited")
	require.Len(t, res.Changed, 1)
	require.Equal(t, mid.NodeID, res.Changed[0].NodeID)
	require.Equal(t, 6, res.Changed[0].ChildrenState)

	gotMid, _ := env.nodes.Get(bg(), mid.NodeID)
	require.Equal(t, 6, gotMid.ChildrenState)
	require.Equal(t, 0, gotMid.State)
	gotRoot, _ := env.nodes.Get(bg(), root.NodeID)
	require.Equal(t, 0, gotRoot.ChildrenState)
}

func TestRecomputeStopsAtDepthLimit(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{Rollup: true, MaxDepth: 2})

	parent := int64(0)
	var chain []*types.Node
	for i := 0; i < 4; i++ {
		n, err := env.nodes.Create(bg(), types.NewNode{Name: "n", ParentID: parent})
		require.NoError(t, err)
		chain = append(chain, n)
		parent = n.NodeID
	}
	res, err := env.consistency.Recompute(bg(), chain[3].NodeID)
	require.NoError(t, err)
	require.Equal(t, 1, res.Levels)

	_, err = env.nodes.Update(bg(), chain[3].NodeID, types.NodePatch{State: pointers.Int(4)})
	require.NoError(t, err)
	top, _ := env.nodes.Get(bg(), chain[0].NodeID)
	require.Equal(t, 0, top.State, "propagation stops before the top of a deep chain")
	second, _ := env.nodes.Get(bg(), chain[1].NodeID)
	require.Equal(t, 4, second.State)
}

func TestReparentRejectsCycles(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	a, _ := env.nodes.Create(bg(), types.NewNode{Name: "A"})
	b, _ := env.nodes.Create(bg(), types.NewNode{Name: "B", ParentID: a.NodeID})
	c, _ := env.nodes.Create(bg(), types.NewNode{Name: "C", ParentID: b.NodeID})

	_, err := env.nodes.Update(bg(), a.NodeID, types.NodePatch{ParentID: pointers.Int64(c.NodeID)})
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))

	_, err = env.nodes.Update(bg(), a.NodeID, types.NodePatch{ParentID: pointers.Int64(a.NodeID)})
	require.True(t, apperr.IsCode(err, apperr.CodeConflict))

	_, err = env.nodes.Update(bg(), a.NodeID, types.NodePatch{ParentID: pointers.Int64(999)})
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	// A rejected move leaves the node where it was.
	got, _ := env.nodes.Get(bg(), a.NodeID)
	require.Equal(t, int64(0), got.ParentID)
}

func TestReparentRecomputesBothParents(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{Policy: DivergenceReset})

	p1, _ := env.nodes.Create(bg(), types.NewNode{Name: "P1"})
	p2, _ := env.nodes.Create(bg(), types.NewNode{Name: "P2"})
	_, _ = env.nodes.Create(bg(), types.NewNode{Name: "x", State: 1, ParentID: p1.NodeID})
	y, _ := env.nodes.Create(bg(), types.NewNode{Name: "y", State: 2, ParentID: p1.NodeID})
	_, _ = env.nodes.Create(bg(), types.NewNode{Name: "z", State: 3, ParentID: p2.NodeID})

	got, _ := env.nodes.Get(bg(), p1.NodeID)
	require.Equal(t, types.ChildrenStateMixed, got.ChildrenState)

	moved, err := env.nodes.Update(bg(), y.NodeID, types.NodePatch{ParentID: pointers.Int64(p2.NodeID)})
	require.NoError(t, err)
	require.Equal(t, p2.NodeID, moved.ParentID)

	got, _ = env.nodes.Get(bg(), p1.NodeID)
	require.Equal(t, 1, got.ChildrenState)
	got, _ = env.nodes.Get(bg(), p2.NodeID)
	require.Equal(t, types.ChildrenStateMixed, got.ChildrenState)
}

func TestDeleteCascadesAndDetachesProjects(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	root, _ := env.nodes.Create(bg(), types.NewNode{Name: "root"})
	a, _ := env.nodes.Create(bg(), types.NewNode{Name: "a", State: 1, ParentID: root.NodeID})
	b, _ := env.nodes.Create(bg(), types.NewNode{Name: "b", State: 2, ParentID: root.NodeID})
	a1, _ := env.nodes.Create(bg(), types.NewNode{Name: "a1", ParentID: a.NodeID})
	_, _ = env.nodes.Create(bg(), types.NewNode{Name: "a1x", ParentID: a1.NodeID})
	p, _ := env.projects.Create(bg(), types.NewProject{Name: "P", NodeID: a1.NodeID})

	res, err := env.nodes.Delete(bg(), a.NodeID)
	require.NoError(t, err)
	require.Len(t, res.DeletedIDs, 3)
	require.Equal(t, int64(1), res.DetachedProjects)

	_, err = env.nodes.Get(bg(), a1.NodeID)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))

	children, err := env.nodes.GetChildren(bg(), root.NodeID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	require.Equal(t, b.NodeID, children[0].NodeID)

	got, _ := env.nodes.Get(bg(), root.NodeID)
	require.Equal(t, 2, got.ChildrenState, "the remaining child now defines the parent")

	gotP, _ := env.projects.Get(bg(), p.ProjectID)
	require.Equal(t, int64(0), gotP.NodeID)

	_, err = env.nodes.Delete(bg(), a.NodeID)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestGetTreeShape(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	root, _ := env.nodes.Create(bg(), types.NewNode{Name: "root"})
	a, _ := env.nodes.Create(bg(), types.NewNode{Name: "a", ParentID: root.NodeID})
	_, _ = env.nodes.Create(bg(), types.NewNode{Name: "b", ParentID: root.NodeID})
	a1, _ := env.nodes.Create(bg(), types.NewNode{Name: "a1", ParentID: a.NodeID})
	_, _ = env.nodes.Create(bg(), types.NewNode{Name: "a1x", ParentID: a1.NodeID})
	_, _ = env.nodes.Create(bg(), types.NewNode{Name: "elsewhere"})

	tree, err := env.nodes.GetTree(bg(), root.NodeID)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Count())
	require.Equal(t, 4, tree.Depth())
	require.Equal(t, []int64{a.NodeID, a.NodeID + 1}, tree.ChildIDs)

	seen := map[int64]bool{}
	var walk func(n *types.NodeTree)
	walk = func(n *types.NodeTree) {
		require.False(t, seen[n.NodeID], "duplicate id %d", n.NodeID)
		seen[n.NodeID] = true
		for _, c := range n.Children {
			require.Equal(t, n.NodeID, c.ParentID)
			walk(c)
		}
	}
	walk(tree)

	_, err = env.nodes.GetTree(bg(), 12345)
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
}

func TestGetTreeReportsCorruptCycle(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})
	require.NoError(t, env.db.Create(&types.Node{NodeID: 1, NodeName: "x", ParentID: 2}).Error)
	require.NoError(t, env.db.Create(&types.Node{NodeID: 2, NodeName: "y", ParentID: 1}).Error)

	_, err := env.nodes.GetTree(bg(), 1)
	require.True(t, apperr.IsCode(err, apperr.CodeInternal))
}

func TestBatchUpdateIsAtomic(t *testing.T) {
	env := newTestEnv(t, TreeConsistencyConfig{})

	a, _ := env.nodes.Create(bg(), types.NewNode{Name: "a"})
	b, _ := env.nodes.Create(bg(), types.NewNode{Name: "b"})

	_, err := env.nodes.BatchUpdate(bg(), []NodeBatchItem{
		{NodeID: a.NodeID, Patch: types.NodePatch{State: pointers.Int(3)}},
		{NodeID: 999, Patch: types.NodePatch{State: pointers.Int(3)}},
	})
	require.True(t, apperr.IsCode(err, apperr.CodeNotFound))
	got, _ := env.nodes.Get(bg(), a.NodeID)
	require.Equal(t, 0, got.State, "failed batch rolls back earlier items")

	out, err := env.nodes.BatchUpdate(bg(), []NodeBatchItem{
		{NodeID: a.NodeID, Patch: types.NodePatch{State: pointers.Int(3)}},
		{NodeID: b.NodeID, Patch: types.NodePatch{Name: pointers.String("bee")}},
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "bee", out[1].NodeName)

	_, err = env.nodes.BatchUpdate(bg(), nil)
	require.True(t, apperr.IsCode(err, apperr.CodeInvalidArgument))
}
