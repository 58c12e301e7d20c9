package lookup

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type StateCodeRepo interface {
	Create(dbc dbctx.Context, rows []*types.StateCode) ([]*types.StateCode, error)
	// Upsert inserts missing codes and renames existing ones.
	Upsert(dbc dbctx.Context, rows []*types.StateCode) error
	GetByCode(dbc dbctx.Context, code int) (*types.StateCode, error)
	List(dbc dbctx.Context) ([]*types.StateCode, error)
	Rename(dbc dbctx.Context, code int, name string) (int64, error)
	FullDeleteByCodes(dbc dbctx.Context, codes []int) (int64, error)
}

type stateCodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStateCodeRepo(db *gorm.DB, baseLog *logger.Logger) StateCodeRepo {
	return &stateCodeRepo{db: db, log: baseLog.With("repo", "StateCodeRepo")}
}

func (r *stateCodeRepo) Create(dbc dbctx.Context, rows []*types.StateCode) ([]*types.StateCode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.StateCode{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *stateCodeRepo) Upsert(dbc dbctx.Context, rows []*types.StateCode) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "state_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"state_name"}),
		}).
		Create(&rows).Error
}

func (r *stateCodeRepo) GetByCode(dbc dbctx.Context, code int) (*types.StateCode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.StateCode
	if err := t.WithContext(dbc.Ctx).
		Where("state_code = ?", code).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *stateCodeRepo) List(dbc dbctx.Context) ([]*types.StateCode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.StateCode
	if err := t.WithContext(dbc.Ctx).Order("state_code ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stateCodeRepo) Rename(dbc dbctx.Context, code int, name string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.StateCode{}).
		Where("state_code = ?", code).
		Update("state_name", name)
	return res.RowsAffected, res.Error
}

func (r *stateCodeRepo) FullDeleteByCodes(dbc dbctx.Context, codes []int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(codes) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("state_code IN ?", codes).
		Delete(&types.StateCode{})
	return res.RowsAffected, res.Error
}
