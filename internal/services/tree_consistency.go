package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/observability"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type DivergencePolicy string

const (
	// DivergenceFreeze leaves children_state untouched when children disagree.
	DivergenceFreeze DivergencePolicy = "freeze"
	// DivergenceReset sets children_state to ChildrenStateMixed when children disagree.
	DivergenceReset DivergencePolicy = "reset"

	DefaultMaxPropagationDepth = 64
)

func ParseDivergencePolicy(raw string) (DivergencePolicy, error) {
	switch DivergencePolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", DivergenceFreeze:
		return DivergenceFreeze, nil
	case DivergenceReset:
		return DivergenceReset, nil
	}
	return "", fmt.Errorf("unknown divergence policy %q", raw)
}

type TreeConsistencyConfig struct {
	Policy DivergencePolicy
	// Rollup makes a parent adopt its children's agreed state as its own state.
	Rollup   bool
	MaxDepth int
}

// ConsistencyResult lists the ancestors rewritten by one recomputation.
type ConsistencyResult struct {
	Changed    []*types.Node
	Levels     int
	DepthLimit bool
}

type TreeConsistency interface {
	// Recompute re-derives children_state starting at parentID and walks up
	// while ancestors keep changing. It runs inside the caller's transaction.
	Recompute(dbc dbctx.Context, parentID int64) (*ConsistencyResult, error)
}

type treeConsistency struct {
	log         *logger.Logger
	nodeRepo    repos.NodeRepo
	projectSync ProjectSync
	cfg         TreeConsistencyConfig
}

func NewTreeConsistency(log *logger.Logger, nodeRepo repos.NodeRepo, projectSync ProjectSync, cfg TreeConsistencyConfig) TreeConsistency {
	if cfg.Policy == "" {
		cfg.Policy = DivergenceFreeze
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxPropagationDepth
	}
	return &treeConsistency{
		log:         log.With("service", "TreeConsistency"),
		nodeRepo:    nodeRepo,
		projectSync: projectSync,
		cfg:         cfg,
	}
}

func (tc *treeConsistency) Recompute(dbc dbctx.Context, parentID int64) (*ConsistencyResult, error) {
	const op = "tree.recompute"
	res := &ConsistencyResult{}
	visited := map[int64]bool{}

	current := parentID
	for current != 0 {
		if res.Levels >= tc.cfg.MaxDepth {
			res.DepthLimit = true
			tc.log.Warn("propagation depth limit reached", "node_id", current, "max_depth", tc.cfg.MaxDepth)
			break
		}
		if visited[current] {
			return nil, apperr.New(apperr.CodeInternal, op, fmt.Sprintf("parent cycle detected at node %d", current), nil)
		}
		visited[current] = true
		res.Levels++

		parent, err := tc.nodeRepo.GetByID(dbc, current)
		if err != nil {
			return nil, mapRepoErr(op, err)
		}
		if parent == nil {
			// Dangling parent_id; nothing above it can be derived.
			break
		}
		states, err := tc.nodeRepo.ChildStates(dbc, current)
		if err != nil {
			return nil, mapRepoErr(op, err)
		}
		d := tc.derive(parent, states)
		if d.Empty() {
			break
		}
		if err := tc.nodeRepo.UpdateDerived(dbc, current, d); err != nil {
			return nil, mapRepoErr(op, err)
		}
		if d.ChildrenState != nil {
			parent.ChildrenState = *d.ChildrenState
		}
		res.Changed = append(res.Changed, parent)
		// The grandparent only derives from its children's state, so a
		// children_state-only change ends the walk here.
		if d.State == nil {
			break
		}
		parent.State = *d.State
		if tc.projectSync != nil {
			if _, err := tc.projectSync.PushNodeState(dbc, parent.NodeID, parent.State); err != nil {
				return nil, err
			}
		}
		current = parent.ParentID
	}

	outcome := "stable"
	switch {
	case res.DepthLimit:
		outcome = "depth_limit"
	case len(res.Changed) > 0:
		outcome = "changed"
	}
	observability.ConsistencyRun(outcome, res.Levels)
	return res, nil
}

// derive computes the new children_state for parent, plus its own state when rollup applies.
func (tc *treeConsistency) derive(parent *types.Node, states []int) types.NodeDerived {
	var d types.NodeDerived
	if len(states) == 0 {
		return d
	}
	agreed, unanimous := unanimousState(states)
	if !unanimous {
		if tc.cfg.Policy == DivergenceReset && parent.ChildrenState != types.ChildrenStateMixed {
			mixed := types.ChildrenStateMixed
			d.ChildrenState = &mixed
		}
		return d
	}
	if parent.ChildrenState != agreed {
		d.ChildrenState = &agreed
	}
	if tc.cfg.Rollup && parent.State != agreed {
		d.State = &agreed
	}
	return d
}

func unanimousState(states []int) (int, bool) {
	if len(states) == 0 {
		return 0, false
	}
	first := states[0]
	for _, s := range states[1:] {
		if s != first {
			return 0, false
		}
	}
	return first, true
}
