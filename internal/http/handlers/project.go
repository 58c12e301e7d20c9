package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type ProjectHandler struct {
	projects services.ProjectService
}

func NewProjectHandler(projects services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		ProjectName string `json:"project_name"`
		Description string `json:"description"`
		State       int    `json:"state"`
		NodeID      int64  `json:"node_id"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	p, err := h.projects.Create(dbcOf(c), types.NewProject{
		Name:        req.ProjectName,
		Description: req.Description,
		State:       req.State,
		NodeID:      req.NodeID,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, p)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	p, err := h.projects.Get(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, p)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var patch types.ProjectPatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondError(c, err)
		return
	}
	p, err := h.projects.Update(dbcOf(c), id, patch)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, p)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.projects.Delete(dbcOf(c), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c)
}

// GET /api/project/list?project_ids=[1,2] (or 1,2); no filter lists everything.
func (h *ProjectHandler) List(c *gin.Context) {
	ids, err := parseIDList(c.Query("project_ids"))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	rows, err := h.projects.List(dbcOf(c), ids)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}
