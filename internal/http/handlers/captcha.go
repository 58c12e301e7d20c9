package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

const HeaderCaptchaID = "X-Captcha-Id"

type CaptchaHandler struct {
	captcha services.CaptchaService
}

func NewCaptchaHandler(captcha services.CaptchaService) *CaptchaHandler {
	return &CaptchaHandler{captcha: captcha}
}

// GET /api/captcha returns the PNG; the challenge id travels in X-Captcha-Id.
func (h *CaptchaHandler) Get(c *gin.Context) {
	cp, err := h.captcha.Generate(c.Request.Context())
	if err != nil {
		response.RespondError(c, err)
		return
	}
	c.Header(HeaderCaptchaID, cp.ID)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", cp.PNG)
}
