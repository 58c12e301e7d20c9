package lookup

import (
	"gorm.io/gorm"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type PNTGRepo interface {
	Create(dbc dbctx.Context, rows []*types.PNTG) ([]*types.PNTG, error)
	GetByID(dbc dbctx.Context, id int64) (*types.PNTG, error)
	List(dbc dbctx.Context) ([]*types.PNTG, error)
	MaxID(dbc dbctx.Context) (int64, error)
	Update(dbc dbctx.Context, row *types.PNTG) error
	FullDeleteByIDs(dbc dbctx.Context, ids []int64) (int64, error)
}

type pntgRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPNTGRepo(db *gorm.DB, baseLog *logger.Logger) PNTGRepo {
	return &pntgRepo{db: db, log: baseLog.With("repo", "PNTGRepo")}
}

func (r *pntgRepo) Create(dbc dbctx.Context, rows []*types.PNTG) ([]*types.PNTG, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PNTG{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pntgRepo) GetByID(dbc dbctx.Context, id int64) (*types.PNTG, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.PNTG
	if err := t.WithContext(dbc.Ctx).
		Where("tg_id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *pntgRepo) List(dbc dbctx.Context) ([]*types.PNTG, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.PNTG
	if err := t.WithContext(dbc.Ctx).Order("tg_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *pntgRepo) MaxID(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.PNTG{}).
		Select("COALESCE(MAX(tg_id), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *pntgRepo) Update(dbc dbctx.Context, row *types.PNTG) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Save(row).Error
}

func (r *pntgRepo) FullDeleteByIDs(dbc dbctx.Context, ids []int64) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Where("tg_id IN ?", ids).
		Delete(&types.PNTG{})
	return res.RowsAffected, res.Error
}
