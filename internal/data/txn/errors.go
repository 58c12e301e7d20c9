package txn

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
)

// MapError maps infrastructure failures into typed application errors.
// Errors that are already typed pass through untouched.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.New(apperr.CodeNotFound, op, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.New(apperr.CodeConflict, op, "duplicate key", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Internal(op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return apperr.New(apperr.CodeConflict, op, "duplicate key", err) // unique_violation
		case "23503":
			return apperr.New(apperr.CodeNotFound, op, "referenced record missing", err) // foreign_key_violation
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed") {
		return apperr.New(apperr.CodeConflict, op, "duplicate key", err)
	}
	return apperr.Internal(op, err)
}
