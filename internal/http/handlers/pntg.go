package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type PNTGHandler struct {
	pntg services.PNTGService
}

func NewPNTGHandler(pntg services.PNTGService) *PNTGHandler {
	return &PNTGHandler{pntg: pntg}
}

func (h *PNTGHandler) Create(c *gin.Context) {
	var req struct {
		TgName    string `json:"tg_name"`
		BotToken  string `json:"bot_token"`
		ChatID    string `json:"chat_id"`
		URL       string `json:"url"`
		StateCode string `json:"state_code"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.pntg.Create(dbcOf(c), types.NewPNTG{
		TgName:    req.TgName,
		BotToken:  req.BotToken,
		ChatID:    req.ChatID,
		URL:       req.URL,
		StateCode: req.StateCode,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

func (h *PNTGHandler) Get(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.pntg.Get(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

func (h *PNTGHandler) Update(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var patch types.PNTGPatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondError(c, err)
		return
	}
	row, err := h.pntg.Update(dbcOf(c), id, patch)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// Delete is routed for both POST and DELETE; older clients only POST.
func (h *PNTGHandler) Delete(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := h.pntg.Delete(dbcOf(c), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c)
}

func (h *PNTGHandler) List(c *gin.Context) {
	rows, err := h.pntg.List(dbcOf(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, rows)
}
