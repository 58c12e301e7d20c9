package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/nodetree-backend/internal/data/repos/auth"
	"github.com/yungbote/nodetree-backend/internal/data/repos/lookup"
	"github.com/yungbote/nodetree-backend/internal/data/repos/sequence"
	"github.com/yungbote/nodetree-backend/internal/data/repos/tree"
	"github.com/yungbote/nodetree-backend/internal/data/repos/user"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type IDSequenceRepo = sequence.IDSequenceRepo

type NodeRepo = tree.NodeRepo
type ProjectRepo = tree.ProjectRepo

type PNTGRepo = lookup.PNTGRepo
type StateCodeRepo = lookup.StateCodeRepo

type UserRepo = user.UserRepo
type UserProjectRepo = user.UserProjectRepo
type UserTokenRepo = auth.UserTokenRepo

func NewIDSequenceRepo(db *gorm.DB, baseLog *logger.Logger) IDSequenceRepo {
	return sequence.NewIDSequenceRepo(db, baseLog)
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo { return tree.NewNodeRepo(db, baseLog) }
func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return tree.NewProjectRepo(db, baseLog)
}

func NewPNTGRepo(db *gorm.DB, baseLog *logger.Logger) PNTGRepo { return lookup.NewPNTGRepo(db, baseLog) }
func NewStateCodeRepo(db *gorm.DB, baseLog *logger.Logger) StateCodeRepo {
	return lookup.NewStateCodeRepo(db, baseLog)
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserProjectRepo(db *gorm.DB, baseLog *logger.Logger) UserProjectRepo {
	return user.NewUserProjectRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}
