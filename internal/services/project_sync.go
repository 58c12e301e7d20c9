package services

import (
	"github.com/yungbote/nodetree-backend/internal/data/repos"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/observability"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

// ProjectSync keeps project.state equal to the state of the node it links to.
// Push runs from the node write path, pull from the project write path; neither
// saves the other side's record, so the two cannot trigger each other.
type ProjectSync interface {
	PushNodeState(dbc dbctx.Context, nodeID int64, state int) (int64, error)
	// PullNodeState copies the linked node's state onto p without saving it.
	PullNodeState(dbc dbctx.Context, p *types.Project) error
	// DetachNodes unlinks every project pointing at one of nodeIDs.
	DetachNodes(dbc dbctx.Context, nodeIDs []int64) (int64, error)
}

type projectSync struct {
	log         *logger.Logger
	nodeRepo    repos.NodeRepo
	projectRepo repos.ProjectRepo
}

func NewProjectSync(log *logger.Logger, nodeRepo repos.NodeRepo, projectRepo repos.ProjectRepo) ProjectSync {
	return &projectSync{
		log:         log.With("service", "ProjectSync"),
		nodeRepo:    nodeRepo,
		projectRepo: projectRepo,
	}
}

func (s *projectSync) PushNodeState(dbc dbctx.Context, nodeID int64, state int) (int64, error) {
	n, err := s.projectRepo.SetStateForNode(dbc, nodeID, state)
	if err != nil {
		return 0, mapRepoErr("project.push_state", err)
	}
	if n > 0 {
		s.log.Debug("pushed node state to projects", "node_id", nodeID, "state", state, "projects", n)
	}
	observability.ProjectPushes(n)
	return n, nil
}

func (s *projectSync) PullNodeState(dbc dbctx.Context, p *types.Project) error {
	if p == nil || !p.Linked() {
		return nil
	}
	node, err := s.nodeRepo.GetByID(dbc, p.NodeID)
	if err != nil {
		return mapRepoErr("project.pull_state", err)
	}
	if node == nil {
		return apperr.NotFound("project.pull_state", "node %d not found", p.NodeID)
	}
	p.State = node.State
	return nil
}

func (s *projectSync) DetachNodes(dbc dbctx.Context, nodeIDs []int64) (int64, error) {
	n, err := s.projectRepo.DetachNodes(dbc, nodeIDs)
	if err != nil {
		return 0, mapRepoErr("project.detach", err)
	}
	if n > 0 {
		s.log.Info("detached projects from deleted nodes", "projects", n)
	}
	return n, nil
}
