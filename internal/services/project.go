package services

import (
	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type ProjectService interface {
	Create(dbc dbctx.Context, in types.NewProject) (*types.Project, error)
	Get(dbc dbctx.Context, id int64) (*types.Project, error)
	Update(dbc dbctx.Context, id int64, patch types.ProjectPatch) (*types.Project, error)
	Delete(dbc dbctx.Context, id int64) error
	// List returns every project, or only filterIDs when non-empty.
	List(dbc dbctx.Context, filterIDs []int64) ([]*types.Project, error)
}

type projectService struct {
	log             *logger.Logger
	tx              txn.Runner
	projectRepo     repos.ProjectRepo
	userProjectRepo repos.UserProjectRepo
	ids             IDAllocator
	sync            ProjectSync
}

func NewProjectService(
	log *logger.Logger,
	tx txn.Runner,
	projectRepo repos.ProjectRepo,
	userProjectRepo repos.UserProjectRepo,
	ids IDAllocator,
	sync ProjectSync,
) ProjectService {
	return &projectService{
		log:             log.With("service", "ProjectService"),
		tx:              tx,
		projectRepo:     projectRepo,
		userProjectRepo: userProjectRepo,
		ids:             ids,
		sync:            sync,
	}
}

func (s *projectService) Create(dbc dbctx.Context, in types.NewProject) (*types.Project, error) {
	const op = "project.create"
	name, err := requireName(op, "project_name", in.Name)
	if err != nil {
		return nil, err
	}
	var created *types.Project
	err = s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		row := &types.Project{
			ProjectName: name,
			Description: in.Description,
			State:       in.State,
			NodeID:      in.NodeID,
		}
		if err := s.sync.PullNodeState(dbc, row); err != nil {
			return err
		}
		id, err := s.ids.Next(dbc, sequence.Project, s.projectRepo.MaxID)
		if err != nil {
			return apperr.Internal(op, err)
		}
		row.ProjectID = id
		if _, err := s.projectRepo.Create(dbc, []*types.Project{row}); err != nil {
			return mapRepoErr(op, err)
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("project created", "project_id", created.ProjectID, "node_id", created.NodeID)
	return created, nil
}

func (s *projectService) Get(dbc dbctx.Context, id int64) (*types.Project, error) {
	const op = "project.get"
	p, err := s.projectRepo.GetByID(dbc, id)
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if p == nil {
		return nil, apperr.NotFound(op, "project %d not found", id)
	}
	return p, nil
}

func (s *projectService) Update(dbc dbctx.Context, id int64, patch types.ProjectPatch) (*types.Project, error) {
	const op = "project.update"
	var updated *types.Project
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		p, err := s.Get(dbc, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			name, err := requireName(op, "project_name", *patch.Name)
			if err != nil {
				return err
			}
			p.ProjectName = name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.NodeID != nil {
			p.NodeID = *patch.NodeID
		}
		// A linked project's state always comes from its node.
		if patch.State != nil && !p.Linked() {
			p.State = *patch.State
		}
		if err := s.sync.PullNodeState(dbc, p); err != nil {
			return err
		}
		if err := s.projectRepo.Update(dbc, p); err != nil {
			return mapRepoErr(op, err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *projectService) Delete(dbc dbctx.Context, id int64) error {
	const op = "project.delete"
	err := s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		if _, err := s.Get(dbc, id); err != nil {
			return err
		}
		if err := s.userProjectRepo.DeleteByProjectIDs(dbc, []int64{id}); err != nil {
			return mapRepoErr(op, err)
		}
		if err := s.projectRepo.FullDeleteByIDs(dbc, []int64{id}); err != nil {
			return mapRepoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("project deleted", "project_id", id)
	return nil
}

func (s *projectService) List(dbc dbctx.Context, filterIDs []int64) ([]*types.Project, error) {
	const op = "project.list"
	var (
		rows []*types.Project
		err  error
	)
	if len(filterIDs) > 0 {
		rows, err = s.projectRepo.GetByIDs(dbc, filterIDs)
	} else {
		rows, err = s.projectRepo.List(dbc)
	}
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if rows == nil {
		rows = []*types.Project{}
	}
	return rows, nil
}
