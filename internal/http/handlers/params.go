package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/apierr"
)

func dbcOf(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

func pathInt64(c *gin.Context, name string) (int64, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apierr.BadRequest("invalid_id", fmt.Errorf("invalid %s %q", name, raw))
	}
	return id, nil
}

func pathInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Param(name))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierr.BadRequest("invalid_id", fmt.Errorf("invalid %s %q", name, raw))
	}
	return v, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest("invalid_json", errors.New("invalid JSON body"))
	}
	return nil
}

// parseIDList accepts "1,2,3" and "[1,2,3]".
func parseIDList(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `"`)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, apierr.BadRequest("invalid_id", fmt.Errorf("invalid id %q", p))
		}
		out = append(out, id)
	}
	return out, nil
}
