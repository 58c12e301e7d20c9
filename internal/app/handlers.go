package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/nodetree-backend/internal/http/handlers"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Auth      *httpH.AuthHandler
	User      *httpH.UserHandler
	Captcha   *httpH.CaptchaHandler
	Node      *httpH.NodeHandler
	Project   *httpH.ProjectHandler
	PNTG      *httpH.PNTGHandler
	StateCode *httpH.StateCodeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(ping),
		Auth:      httpH.NewAuthHandler(services.Auth, services.Captcha, cfg.CaptchaRequired),
		User:      httpH.NewUserHandler(services.User),
		Captcha:   httpH.NewCaptchaHandler(services.Captcha),
		Node:      httpH.NewNodeHandler(services.Node),
		Project:   httpH.NewProjectHandler(services.Project),
		PNTG:      httpH.NewPNTGHandler(services.PNTG),
		StateCode: httpH.NewStateCodeHandler(services.StateCode),
	}
}
