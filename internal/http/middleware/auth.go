package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/platform/ctxutil"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAuth rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.RespondStatus(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		if !am.attach(c, tokenString) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches the caller when a token is sent and lets anonymous requests through.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := extractBearer(c); tokenString != "" {
			if !am.attach(c, tokenString) {
				return
			}
		}
		c.Next()
	}
}

// RequireStaff must run after RequireAuth.
func (am *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		if rd == nil || !rd.IsStaff {
			response.RespondStatus(c, http.StatusForbidden, "forbidden", "staff access required")
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) attach(c *gin.Context, tokenString string) bool {
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
	if err != nil {
		am.log.Debug("token rejected", "error", err)
		response.RespondError(c, err)
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
