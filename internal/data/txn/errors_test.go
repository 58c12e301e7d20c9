package txn

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperr.Code
	}{
		{"record not found", fmt.Errorf("get: %w", gorm.ErrRecordNotFound), apperr.CodeNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, apperr.CodeConflict},
		{"pg unique", &pgconn.PgError{Code: "23505"}, apperr.CodeConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.username"), apperr.CodeConflict},
		{"other", errors.New("connection reset"), apperr.CodeInternal},
		{"typed passthrough", apperr.NotFound("x", "gone"), apperr.CodeNotFound},
	}
	for _, tc := range cases {
		got := MapError("op", tc.err)
		if code := apperr.CodeOf(got); code != tc.want {
			t.Fatalf("%s: got %q want %q", tc.name, code, tc.want)
		}
	}
	if MapError("op", nil) != nil {
		t.Fatalf("nil should map to nil")
	}
}
