package txn

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
)

// Runner provides the transaction boundary for multi-record writes.
type Runner interface {
	InTx(dbc dbctx.Context, fn func(dbc dbctx.Context) error) error
}

type gormRunner struct {
	db *gorm.DB
}

func NewRunner(db *gorm.DB) Runner {
	return &gormRunner{db: db}
}

// InTx joins dbc.Tx when the caller already holds one, so nested service
// calls commit or roll back together.
func (r *gormRunner) InTx(dbc dbctx.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if dbc.Ctx == nil {
		dbc.Ctx = context.Background()
	}
	if dbc.Tx != nil {
		return fn(dbc)
	}
	if r == nil || r.db == nil {
		return apperr.New(apperr.CodeInternal, "txn.InTx", "transaction runner has nil db", nil)
	}
	return r.db.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: dbc.Ctx, Tx: tx})
	})
}
