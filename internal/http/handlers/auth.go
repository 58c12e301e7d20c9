package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type AuthHandler struct {
	authService     services.AuthService
	captcha         services.CaptchaService
	captchaRequired bool
}

// NewAuthHandler checks captchas on register and login only when captchaRequired is set.
func NewAuthHandler(authService services.AuthService, captcha services.CaptchaService, captchaRequired bool) *AuthHandler {
	return &AuthHandler{authService: authService, captcha: captcha, captchaRequired: captchaRequired}
}

func (ah *AuthHandler) checkCaptcha(c *gin.Context, id, answer string) error {
	if !ah.captchaRequired || ah.captcha == nil {
		return nil
	}
	return ah.captcha.Verify(c.Request.Context(), id, answer)
}

// POST /api/auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Email     string `json:"email"`
		ProjectID int64  `json:"project_id"`
		CaptchaID string `json:"captcha_id"`
		Captcha   string `json:"captcha"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ah.checkCaptcha(c, req.CaptchaID, req.Captcha); err != nil {
		response.RespondError(c, err)
		return
	}
	u, err := ah.authService.Register(dbcOf(c), types.NewUser{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "registration successful", "user": u})
}

// POST /api/auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		CaptchaID string `json:"captcha_id"`
		Captcha   string `json:"captcha"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	if err := ah.checkCaptcha(c, req.CaptchaID, req.Captcha); err != nil {
		response.RespondError(c, err)
		return
	}
	session, err := ah.authService.Login(dbcOf(c), req.Username, req.Password)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, session)
}

// POST /api/auth/refresh
func (ah *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	session, err := ah.authService.Refresh(dbcOf(c), req.RefreshToken)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, session)
}

// POST /api/auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(dbcOf(c)); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "logged out"})
}
