package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type Repos struct {
	IDSequence  repos.IDSequenceRepo
	Node        repos.NodeRepo
	Project     repos.ProjectRepo
	PNTG        repos.PNTGRepo
	StateCode   repos.StateCodeRepo
	User        repos.UserRepo
	UserProject repos.UserProjectRepo
	UserToken   repos.UserTokenRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		IDSequence:  repos.NewIDSequenceRepo(db, log),
		Node:        repos.NewNodeRepo(db, log),
		Project:     repos.NewProjectRepo(db, log),
		PNTG:        repos.NewPNTGRepo(db, log),
		StateCode:   repos.NewStateCodeRepo(db, log),
		User:        repos.NewUserRepo(db, log),
		UserProject: repos.NewUserProjectRepo(db, log),
		UserToken:   repos.NewUserTokenRepo(db, log),
	}
}
