package services

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/repos/testutil"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
)

type testEnv struct {
	db *gorm.DB

	nodeRepo        repos.NodeRepo
	projectRepo     repos.ProjectRepo
	userRepo        repos.UserRepo
	userTokenRepo   repos.UserTokenRepo
	userProjectRepo repos.UserProjectRepo

	consistency TreeConsistency
	nodes       NodeService
	projects    ProjectService
	pntg        PNTGService
	stateCodes  StateCodeService
	users       UserService
	auth        AuthService
}

func newTestEnv(t *testing.T, cfg TreeConsistencyConfig) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	runner := txn.NewRunner(db)

	env := &testEnv{
		db:              db,
		nodeRepo:        repos.NewNodeRepo(db, log),
		projectRepo:     repos.NewProjectRepo(db, log),
		userRepo:        repos.NewUserRepo(db, log),
		userTokenRepo:   repos.NewUserTokenRepo(db, log),
		userProjectRepo: repos.NewUserProjectRepo(db, log),
	}
	ids := NewIDAllocator(repos.NewIDSequenceRepo(db, log), log)
	sync := NewProjectSync(log, env.nodeRepo, env.projectRepo)
	env.consistency = NewTreeConsistency(log, env.nodeRepo, sync, cfg)
	env.nodes = NewNodeService(log, runner, env.nodeRepo, ids, env.consistency, sync, nil, 0)
	env.projects = NewProjectService(log, runner, env.projectRepo, env.userProjectRepo, ids, sync)
	env.pntg = NewPNTGService(log, runner, repos.NewPNTGRepo(db, log), ids)
	env.stateCodes = NewStateCodeService(log, runner, repos.NewStateCodeRepo(db, log))
	env.users = NewUserService(log, runner, env.userRepo, env.userProjectRepo, env.userTokenRepo, env.projectRepo, ids, bcrypt.MinCost)
	env.auth = NewAuthService(log, runner, env.userRepo, env.userTokenRepo, env.users, "test-secret", 0, 0)
	return env
}

func bg() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }
