package services

import (
	"context"
	"fmt"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/observability"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

const DefaultMaxTreeDepth = 1000

// NodeGraphMirror receives committed node changes. Failures are logged, never returned.
type NodeGraphMirror interface {
	UpsertNodes(ctx context.Context, nodes []*types.Node) error
	DeleteNodes(ctx context.Context, ids []int64) error
}

type NodeBatchItem struct {
	NodeID int64
	Patch  types.NodePatch
}

type NodeDeleteResult struct {
	DeletedIDs       []int64 `json:"deleted_ids"`
	DetachedProjects int64   `json:"detached_projects"`
}

type NodeService interface {
	Create(dbc dbctx.Context, in types.NewNode) (*types.Node, error)
	Get(dbc dbctx.Context, id int64) (*types.Node, error)
	Update(dbc dbctx.Context, id int64, patch types.NodePatch) (*types.Node, error)
	BatchUpdate(dbc dbctx.Context, items []NodeBatchItem) ([]*types.Node, error)
	Delete(dbc dbctx.Context, id int64) (*NodeDeleteResult, error)
	GetTree(dbc dbctx.Context, id int64) (*types.NodeTree, error)
	GetChildren(dbc dbctx.Context, id int64) ([]*types.Node, error)
}

type nodeService struct {
	log          *logger.Logger
	tx           txn.Runner
	nodeRepo     repos.NodeRepo
	ids          IDAllocator
	consistency  TreeConsistency
	projectSync  ProjectSync
	mirror       NodeGraphMirror
	maxTreeDepth int
}

func NewNodeService(
	log *logger.Logger,
	tx txn.Runner,
	nodeRepo repos.NodeRepo,
	ids IDAllocator,
	consistency TreeConsistency,
	projectSync ProjectSync,
	mirror NodeGraphMirror,
	maxTreeDepth int,
) NodeService {
	if maxTreeDepth <= 0 {
		maxTreeDepth = DefaultMaxTreeDepth
	}
	return &nodeService{
		log:          log.With("service", "NodeService"),
		tx:           tx,
		nodeRepo:     nodeRepo,
		ids:          ids,
		consistency:  consistency,
		projectSync:  projectSync,
		mirror:       mirror,
		maxTreeDepth: maxTreeDepth,
	}
}

func (s *nodeService) Create(dbc dbctx.Context, in types.NewNode) (*types.Node, error) {
	const op = "node.create"
	name, err := requireName(op, "node_name", in.Name)
	if err != nil {
		return nil, err
	}

	var (
		created *types.Node
		touched []*types.Node
	)
	err = s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		if in.ParentID != 0 {
			ok, err := s.nodeRepo.Exists(dbc, in.ParentID)
			if err != nil {
				return mapRepoErr(op, err)
			}
			if !ok {
				return apperr.NotFound(op, "parent node %d not found", in.ParentID)
			}
		}
		id, err := s.ids.Next(dbc, sequence.Node, s.nodeRepo.MaxID)
		if err != nil {
			return apperr.Internal(op, err)
		}
		row := &types.Node{
			NodeID:      id,
			NodeName:    name,
			Description: in.Description,
			State:       in.State,
			ParentID:    in.ParentID,
		}
		if _, err := s.nodeRepo.Create(dbc, []*types.Node{row}); err != nil {
			return mapRepoErr(op, err)
		}
		res, err := s.consistency.Recompute(dbc, in.ParentID)
		if err != nil {
			return err
		}
		created = row
		touched = append([]*types.Node{row}, res.Changed...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("node created", "node_id", created.NodeID, "parent_id", created.ParentID)
	s.mirrorUpsert(dbc.Ctx, touched)
	return created, nil
}

func (s *nodeService) Get(dbc dbctx.Context, id int64) (*types.Node, error) {
	const op = "node.get"
	n, err := s.nodeRepo.GetByID(dbc, id)
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if n == nil {
		return nil, apperr.NotFound(op, "node %d not found", id)
	}
	return n, nil
}

func (s *nodeService) Update(dbc dbctx.Context, id int64, patch types.NodePatch) (*types.Node, error) {
	var (
		updated *types.Node
		touched []*types.Node
	)
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		n, changed, err := s.update(dbc, id, patch)
		if err != nil {
			return err
		}
		updated = n
		touched = changed
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.mirrorUpsert(dbc.Ctx, touched)
	return updated, nil
}

func (s *nodeService) BatchUpdate(dbc dbctx.Context, items []NodeBatchItem) ([]*types.Node, error) {
	const op = "node.batch_update"
	if len(items) == 0 {
		return nil, apperr.InvalidArgument(op, "updates must not be empty")
	}
	out := make([]*types.Node, 0, len(items))
	var touched []*types.Node
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		for i, item := range items {
			n, changed, err := s.update(dbc, item.NodeID, item.Patch)
			if err != nil {
				return fmt.Errorf("updates[%d]: %w", i, err)
			}
			out = append(out, n)
			touched = append(touched, changed...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("nodes batch updated", "count", len(out))
	s.mirrorUpsert(dbc.Ctx, touched)
	return out, nil
}

// update applies patch inside the caller's transaction and returns the node
// plus every record rewritten along the way.
func (s *nodeService) update(dbc dbctx.Context, id int64, patch types.NodePatch) (*types.Node, []*types.Node, error) {
	const op = "node.update"
	n, err := s.nodeRepo.GetByID(dbc, id)
	if err != nil {
		return nil, nil, mapRepoErr(op, err)
	}
	if n == nil {
		return nil, nil, apperr.NotFound(op, "node %d not found", id)
	}
	if patch.Empty() {
		return n, nil, nil
	}

	if patch.Name != nil {
		name, err := requireName(op, "node_name", *patch.Name)
		if err != nil {
			return nil, nil, err
		}
		n.NodeName = name
	}
	if patch.Description != nil {
		n.Description = *patch.Description
	}

	oldParent := n.ParentID
	parentChanged := patch.ParentID != nil && *patch.ParentID != oldParent
	if parentChanged {
		if err := s.checkReparent(dbc, id, *patch.ParentID); err != nil {
			return nil, nil, err
		}
		n.ParentID = *patch.ParentID
	}
	stateChanged := patch.State != nil && *patch.State != n.State
	if stateChanged {
		n.State = *patch.State
	}

	if err := s.nodeRepo.Update(dbc, n); err != nil {
		return nil, nil, mapRepoErr(op, err)
	}
	touched := []*types.Node{n}

	if stateChanged {
		if _, err := s.projectSync.PushNodeState(dbc, n.NodeID, n.State); err != nil {
			return nil, nil, err
		}
	}

	var starts []int64
	switch {
	case parentChanged:
		starts = []int64{oldParent, n.ParentID}
	case stateChanged:
		starts = []int64{n.ParentID}
	}
	for _, start := range starts {
		res, err := s.consistency.Recompute(dbc, start)
		if err != nil {
			return nil, nil, err
		}
		touched = append(touched, res.Changed...)
	}

	s.log.Debug("node updated", "node_id", n.NodeID, "state_changed", stateChanged, "parent_changed", parentChanged)
	return n, touched, nil
}

// checkReparent rejects a missing parent and any move that would put the node under itself.
func (s *nodeService) checkReparent(dbc dbctx.Context, id, newParent int64) error {
	const op = "node.update"
	if newParent == 0 {
		return nil
	}
	if newParent == id {
		return apperr.Conflict(op, "node %d cannot be its own parent", id)
	}
	ancestor := newParent
	seen := map[int64]bool{}
	for steps := 0; ancestor != 0; steps++ {
		if steps > s.maxTreeDepth || seen[ancestor] {
			return apperr.New(apperr.CodeInternal, op, fmt.Sprintf("ancestor chain of node %d is corrupt", newParent), nil)
		}
		seen[ancestor] = true
		a, err := s.nodeRepo.GetByID(dbc, ancestor)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if a == nil {
			if ancestor == newParent {
				return apperr.NotFound(op, "parent node %d not found", newParent)
			}
			break
		}
		if a.NodeID == id {
			return apperr.Conflict(op, "cannot move node %d under its descendant %d", id, newParent)
		}
		ancestor = a.ParentID
	}
	return nil
}

func (s *nodeService) Delete(dbc dbctx.Context, id int64) (*NodeDeleteResult, error) {
	const op = "node.delete"
	res := &NodeDeleteResult{}
	var touched []*types.Node
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		n, err := s.nodeRepo.GetByID(dbc, id)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if n == nil {
			return apperr.NotFound(op, "node %d not found", id)
		}
		ids, err := s.subtreeIDs(dbc, n.NodeID)
		if err != nil {
			return err
		}
		detached, err := s.projectSync.DetachNodes(dbc, ids)
		if err != nil {
			return err
		}
		if err := s.nodeRepo.FullDeleteByIDs(dbc, ids); err != nil {
			return mapRepoErr(op, err)
		}
		cres, err := s.consistency.Recompute(dbc, n.ParentID)
		if err != nil {
			return err
		}
		res.DeletedIDs = ids
		res.DetachedProjects = detached
		touched = cres.Changed
		return nil
	})
	if err != nil {
		return nil, err
	}
	observability.SubtreeDeleted(len(res.DeletedIDs))
	s.log.Info("node subtree deleted", "node_id", id, "deleted", len(res.DeletedIDs), "detached_projects", res.DetachedProjects)
	if s.mirror != nil {
		if err := s.mirror.DeleteNodes(dbc.Ctx, res.DeletedIDs); err != nil {
			observability.MirrorError("delete")
			s.log.Warn("graph mirror delete failed", "error", err)
		}
	}
	s.mirrorUpsert(dbc.Ctx, touched)
	return res, nil
}

// subtreeIDs collects rootID and all of its descendants breadth first.
func (s *nodeService) subtreeIDs(dbc dbctx.Context, rootID int64) ([]int64, error) {
	const op = "node.subtree"
	out := []int64{rootID}
	seen := map[int64]bool{rootID: true}
	frontier := []int64{rootID}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth > s.maxTreeDepth {
			return nil, apperr.New(apperr.CodeInternal, op, fmt.Sprintf("subtree of node %d exceeds depth %d", rootID, s.maxTreeDepth), nil)
		}
		children, err := s.nodeRepo.GetByParentIDs(dbc, frontier)
		if err != nil {
			return nil, mapRepoErr(op, err)
		}
		frontier = frontier[:0]
		for _, c := range children {
			if seen[c.NodeID] {
				return nil, apperr.New(apperr.CodeInternal, op, fmt.Sprintf("cycle at node %d", c.NodeID), nil)
			}
			seen[c.NodeID] = true
			out = append(out, c.NodeID)
			frontier = append(frontier, c.NodeID)
		}
	}
	return out, nil
}

func (s *nodeService) GetTree(dbc dbctx.Context, id int64) (*types.NodeTree, error) {
	const op = "node.tree"
	root, err := s.Get(dbc, id)
	if err != nil {
		return nil, err
	}
	top := &types.NodeTree{Node: *root, ChildIDs: []int64{}, Children: []*types.NodeTree{}}
	byID := map[int64]*types.NodeTree{root.NodeID: top}
	frontier := []int64{root.NodeID}
	for depth := 0; len(frontier) > 0; depth++ {
		if depth > s.maxTreeDepth {
			return nil, apperr.New(apperr.CodeInternal, op, fmt.Sprintf("tree under node %d exceeds depth %d", id, s.maxTreeDepth), nil)
		}
		children, err := s.nodeRepo.GetByParentIDs(dbc, frontier)
		if err != nil {
			return nil, mapRepoErr(op, err)
		}
		next := make([]int64, 0, len(children))
		for _, c := range children {
			if _, dup := byID[c.NodeID]; dup {
				return nil, apperr.New(apperr.CodeInternal, op, fmt.Sprintf("cycle at node %d", c.NodeID), nil)
			}
			parent := byID[c.ParentID]
			t := &types.NodeTree{Node: *c, ChildIDs: []int64{}, Children: []*types.NodeTree{}}
			parent.ChildIDs = append(parent.ChildIDs, c.NodeID)
			parent.Children = append(parent.Children, t)
			byID[c.NodeID] = t
			next = append(next, c.NodeID)
		}
		frontier = next
	}
	return top, nil
}

func (s *nodeService) GetChildren(dbc dbctx.Context, id int64) ([]*types.Node, error) {
	const op = "node.children"
	if _, err := s.Get(dbc, id); err != nil {
		return nil, err
	}
	children, err := s.nodeRepo.GetByParentIDs(dbc, []int64{id})
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	return children, nil
}

func (s *nodeService) mirrorUpsert(ctx context.Context, nodes []*types.Node) {
	if s.mirror == nil || len(nodes) == 0 {
		return
	}
	if err := s.mirror.UpsertNodes(ctx, nodes); err != nil {
		observability.MirrorError("upsert")
		s.log.Warn("graph mirror upsert failed", "error", err)
	}
}
