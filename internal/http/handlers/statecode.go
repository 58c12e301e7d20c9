package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type StateCodeHandler struct {
	codes services.StateCodeService
}

func NewStateCodeHandler(codes services.StateCodeService) *StateCodeHandler {
	return &StateCodeHandler{codes: codes}
}

func (h *StateCodeHandler) Create(c *gin.Context) {
	var req struct {
		StateCode *int   `json:"state_code"`
		StateName string `json:"state_name"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.codes.Create(dbcOf(c), req.StateCode, req.StateName)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

func (h *StateCodeHandler) Get(c *gin.Context) {
	code, err := pathInt(c, "code")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.codes.Get(dbcOf(c), code)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

func (h *StateCodeHandler) Update(c *gin.Context) {
	code, err := pathInt(c, "code")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		StateName string `json:"state_name"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.codes.Rename(dbcOf(c), code, req.StateName)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

func (h *StateCodeHandler) Delete(c *gin.Context) {
	code, err := pathInt(c, "code")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.codes.Delete(dbcOf(c), code); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c)
}

func (h *StateCodeHandler) List(c *gin.Context) {
	rows, err := h.codes.List(dbcOf(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}
