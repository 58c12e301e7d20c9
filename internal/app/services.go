package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/data/graph"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type Services struct {
	Node        services.NodeService
	Project     services.ProjectService
	Consistency services.TreeConsistency
	PNTG        services.PNTGService
	StateCode   services.StateCodeService
	User        services.UserService
	Auth        services.AuthService
	Captcha     services.CaptchaService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	runner := txn.NewRunner(db)
	ids := services.NewIDAllocator(repos.IDSequence, log)
	projectSync := services.NewProjectSync(log, repos.Node, repos.Project)
	consistency := services.NewTreeConsistency(log, repos.Node, projectSync, cfg.Tree)

	var mirror services.NodeGraphMirror
	if m := graph.NewNodeTreeMirror(clients.Neo4j, log); m != nil {
		m.EnsureSchema(context.Background())
		mirror = m
	}

	users := services.NewUserService(log, runner, repos.User, repos.UserProject, repos.UserToken, repos.Project, ids, cfg.BcryptCost)

	var store services.CaptchaStore
	if clients.Redis != nil {
		store = services.NewRedisCaptchaStore(clients.Redis, "")
	} else {
		store = services.NewMemoryCaptchaStore()
	}
	captcha, err := services.NewCaptchaService(log, store, cfg.CaptchaTTL, cfg.CaptchaFontPath)
	if err != nil {
		return Services{}, fmt.Errorf("init captcha: %w", err)
	}

	return Services{
		Node:        services.NewNodeService(log, runner, repos.Node, ids, consistency, projectSync, mirror, cfg.MaxTreeDepth),
		Project:     services.NewProjectService(log, runner, repos.Project, repos.UserProject, ids, projectSync),
		Consistency: consistency,
		PNTG:        services.NewPNTGService(log, runner, repos.PNTG, ids),
		StateCode:   services.NewStateCodeService(log, runner, repos.StateCode),
		User:        users,
		Auth:        services.NewAuthService(log, runner, repos.User, repos.UserToken, users, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Captcha:     captcha,
	}, nil
}
