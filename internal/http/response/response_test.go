package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/platform/apierr"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.NotFound("x", "missing"), http.StatusNotFound, "not_found"},
		{fmt.Errorf("wrap: %w", apperr.Conflict("x", "dup")), http.StatusConflict, "conflict"},
		{apperr.InvalidArgument("x", "bad"), http.StatusBadRequest, "invalid_argument"},
		{apperr.Unauthorized("x", "no"), http.StatusUnauthorized, "unauthorized"},
		{apperr.Forbidden("x", "no"), http.StatusForbidden, "forbidden"},
		{apierr.BadRequest("invalid_json", errors.New("eof")), http.StatusBadRequest, "invalid_json"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, code := StatusOf(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%v: got (%d,%q) want (%d,%q)", tc.err, status, code, tc.status, tc.code)
		}
	}
}
