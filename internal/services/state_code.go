package services

import (
	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

// DefaultStateCodes is what seed-statecodes installs on an empty database.
var DefaultStateCodes = []*types.StateCode{
	{Code: 0, StateName: "pending"},
	{Code: 1, StateName: "in progress"},
	{Code: 2, StateName: "done"},
	{Code: 3, StateName: "paused"},
	{Code: 4, StateName: "failed"},
}

type StateCodeService interface {
	Create(dbc dbctx.Context, code *int, name string) (*types.StateCode, error)
	Get(dbc dbctx.Context, code int) (*types.StateCode, error)
	Rename(dbc dbctx.Context, code int, name string) (*types.StateCode, error)
	Delete(dbc dbctx.Context, code int) error
	List(dbc dbctx.Context) ([]*types.StateCode, error)
	Seed(dbc dbctx.Context, rows []*types.StateCode) error
}

type stateCodeService struct {
	log  *logger.Logger
	tx   txn.Runner
	repo repos.StateCodeRepo
}

func NewStateCodeService(log *logger.Logger, tx txn.Runner, repo repos.StateCodeRepo) StateCodeService {
	return &stateCodeService{log: log.With("service", "StateCodeService"), tx: tx, repo: repo}
}

func (s *stateCodeService) Create(dbc dbctx.Context, code *int, name string) (*types.StateCode, error) {
	const op = "statecode.create"
	if code == nil {
		return nil, apperr.InvalidArgument(op, "state_code is required")
	}
	name, err := optionalName(op, "state_name", name)
	if err != nil {
		return nil, err
	}
	var created *types.StateCode
	err = s.tx.InTx(dbc, func(dbc dbctx.Context) error {
		existing, err := s.repo.GetByCode(dbc, *code)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if existing != nil {
			return apperr.Conflict(op, "state code %d already exists", *code)
		}
		row := &types.StateCode{Code: *code, StateName: name}
		if _, err := s.repo.Create(dbc, []*types.StateCode{row}); err != nil {
			return mapRepoErr(op, err)
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *stateCodeService) Get(dbc dbctx.Context, code int) (*types.StateCode, error) {
	const op = "statecode.get"
	row, err := s.repo.GetByCode(dbc, code)
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if row == nil {
		return nil, apperr.NotFound(op, "state code %d not found", code)
	}
	return row, nil
}

func (s *stateCodeService) Rename(dbc dbctx.Context, code int, name string) (*types.StateCode, error) {
	const op = "statecode.update"
	name, err := optionalName(op, "state_name", name)
	if err != nil {
		return nil, err
	}
	n, err := s.repo.Rename(dbc, code, name)
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if n == 0 {
		return nil, apperr.NotFound(op, "state code %d not found", code)
	}
	return &types.StateCode{Code: code, StateName: name}, nil
}

func (s *stateCodeService) Delete(dbc dbctx.Context, code int) error {
	const op = "statecode.delete"
	n, err := s.repo.FullDeleteByCodes(dbc, []int{code})
	if err != nil {
		return mapRepoErr(op, err)
	}
	if n == 0 {
		return apperr.NotFound(op, "state code %d not found", code)
	}
	return nil
}

func (s *stateCodeService) List(dbc dbctx.Context) ([]*types.StateCode, error) {
	rows, err := s.repo.List(dbc)
	if err != nil {
		return nil, mapRepoErr("statecode.list", err)
	}
	if rows == nil {
		rows = []*types.StateCode{}
	}
	return rows, nil
}

func (s *stateCodeService) Seed(dbc dbctx.Context, rows []*types.StateCode) error {
	if len(rows) == 0 {
		rows = DefaultStateCodes
	}
	if err := s.repo.Upsert(dbc, rows); err != nil {
		return mapRepoErr("statecode.seed", err)
	}
	s.log.Info("state codes seeded", "count", len(rows))
	return nil
}
