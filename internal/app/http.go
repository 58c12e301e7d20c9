package app

import (
	"github.com/yungbote/nodetree-backend/internal/http"
	httpMW "github.com/yungbote/nodetree-backend/internal/http/middleware"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	return http.NewServer(cfg.Port, http.RouterConfig{
		Log:              log,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		CaptchaHandler:   handlers.Captcha,
		NodeHandler:      handlers.Node,
		ProjectHandler:   handlers.Project,
		PNTGHandler:      handlers.PNTG,
		StateCodeHandler: handlers.StateCode,
		CORSOrigins:      cfg.CORSOrigins,
		APIAuthRequired:  cfg.APIAuthRequired,
		RequestTimeout:   cfg.RequestTimeout,
		TracingService:   tracing,
	})
}
