package sequence

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	seq "github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type IDSequenceRepo interface {
	// Next bumps the named counter and returns the new value. Callers must
	// hold a transaction so the increment and the insert that uses it commit together.
	Next(dbc dbctx.Context, name string) (int64, error)
	// AlignWith raises the counter to at least currentMax, for tables that
	// already hold rows written before the sequence existed.
	AlignWith(dbc dbctx.Context, name string, currentMax int64) error
	Current(dbc dbctx.Context, name string) (int64, error)
}

type idSequenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIDSequenceRepo(db *gorm.DB, baseLog *logger.Logger) IDSequenceRepo {
	return &idSequenceRepo{db: db, log: baseLog.With("repo", "IDSequenceRepo")}
}

func (r *idSequenceRepo) ensure(t *gorm.DB, name string) error {
	row := &types.IDSequence{Name: name, Value: seq.Floor[name]}
	return t.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

func (r *idSequenceRepo) Next(dbc dbctx.Context, name string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	t = t.WithContext(dbc.Ctx)
	if err := r.ensure(t, name); err != nil {
		return 0, err
	}
	// The UPDATE takes the row lock on Postgres; concurrent allocators queue
	// behind it instead of reading the same max.
	res := t.Model(&types.IDSequence{}).
		Where("name = ?", name).
		UpdateColumn("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected != 1 {
		return 0, fmt.Errorf("sequence %q not incremented", name)
	}
	var row types.IDSequence
	if err := t.Where("name = ?", name).Take(&row).Error; err != nil {
		return 0, err
	}
	return row.Value, nil
}

func (r *idSequenceRepo) AlignWith(dbc dbctx.Context, name string, currentMax int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	t = t.WithContext(dbc.Ctx)
	if err := r.ensure(t, name); err != nil {
		return err
	}
	return t.Model(&types.IDSequence{}).
		Where("name = ? AND value < ?", name, currentMax).
		UpdateColumn("value", currentMax).Error
}

func (r *idSequenceRepo) Current(dbc dbctx.Context, name string) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []types.IDSequence
	if err := t.WithContext(dbc.Ctx).Where("name = ?", name).Limit(1).Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return seq.Floor[name], nil
	}
	return rows[0].Value, nil
}
