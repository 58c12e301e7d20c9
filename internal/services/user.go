package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/nodetree-backend/internal/data/repos"
	"github.com/yungbote/nodetree-backend/internal/data/txn"
	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/pkg/apperr"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/ctxutil"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

const (
	maxUsernameLen    = 150
	minPasswordLength = 6
)

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	Create(dbc dbctx.Context, in types.NewUser) (*types.User, error)
	Get(dbc dbctx.Context, id int64) (*types.User, error)
	Update(dbc dbctx.Context, id int64, patch types.UserPatch) (*types.User, error)
	Delete(dbc dbctx.Context, id int64) error
	List(dbc dbctx.Context) ([]*types.User, error)
	SetProjects(dbc dbctx.Context, id int64, projectIDs []int64) (*types.User, error)
}

type userService struct {
	log             *logger.Logger
	tx              txn.Runner
	userRepo        repos.UserRepo
	userProjectRepo repos.UserProjectRepo
	userTokenRepo   repos.UserTokenRepo
	projectRepo     repos.ProjectRepo
	ids             IDAllocator
	bcryptCost      int
}

func NewUserService(
	log *logger.Logger,
	tx txn.Runner,
	userRepo repos.UserRepo,
	userProjectRepo repos.UserProjectRepo,
	userTokenRepo repos.UserTokenRepo,
	projectRepo repos.ProjectRepo,
	ids IDAllocator,
	bcryptCost int,
) UserService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		log:             log.With("service", "UserService"),
		tx:              tx,
		userRepo:        userRepo,
		userProjectRepo: userProjectRepo,
		userTokenRepo:   userTokenRepo,
		projectRepo:     projectRepo,
		ids:             ids,
		bcryptCost:      bcryptCost,
	}
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == 0 {
		us.log.Warn("Request data not set in context")
		return nil, apperr.Unauthorized("user.me", "not authenticated")
	}
	return us.Get(dbc, rd.UserID)
}

func (us *userService) Create(dbc dbctx.Context, in types.NewUser) (*types.User, error) {
	const op = "user.create"
	username, err := validateUsername(op, in.Username)
	if err != nil {
		return nil, err
	}
	hash, err := us.hashPassword(op, in.Password)
	if err != nil {
		return nil, err
	}

	var created *types.User
	err = us.tx.InTx(dbc, func(dbc dbctx.Context) error {
		exists, err := us.userRepo.UsernameExists(dbc, username)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if exists {
			return apperr.Conflict(op, "username already exists")
		}
		if err := us.checkProjects(dbc, op, []int64{in.ProjectID}); err != nil {
			return err
		}
		id, err := us.ids.Next(dbc, sequence.User, us.userRepo.MaxID)
		if err != nil {
			return apperr.Internal(op, err)
		}
		u := &types.User{
			UserID:     id,
			Username:   username,
			Password:   hash,
			Email:      strings.TrimSpace(in.Email),
			IsActive:   in.IsActive,
			IsStaff:    in.IsStaff,
			DateJoined: time.Now().UTC(),
		}
		if _, err := us.userRepo.Create(dbc, []*types.User{u}); err != nil {
			return mapRepoErr(op, err)
		}
		if err := us.userProjectRepo.Grant(dbc, id, []int64{in.ProjectID}); err != nil {
			return mapRepoErr(op, err)
		}
		u.ProjectIDs = []int64{}
		if in.ProjectID != 0 {
			u.ProjectIDs = []int64{in.ProjectID}
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	us.log.Info("user created", "user_id", created.UserID, "username", created.Username)
	return created, nil
}

func (us *userService) Get(dbc dbctx.Context, id int64) (*types.User, error) {
	const op = "user.get"
	u, err := us.userRepo.GetByID(dbc, id)
	if err != nil {
		return nil, mapRepoErr(op, err)
	}
	if u == nil {
		return nil, apperr.NotFound(op, "user %d not found", id)
	}
	if err := us.attachProjects(dbc, []*types.User{u}); err != nil {
		return nil, err
	}
	return u, nil
}

func (us *userService) Update(dbc dbctx.Context, id int64, patch types.UserPatch) (*types.User, error) {
	const op = "user.update"
	var updated *types.User
	err := us.tx.InTx(dbc, func(dbc dbctx.Context) error {
		u, err := us.Get(dbc, id)
		if err != nil {
			return err
		}
		if patch.Username != nil {
			username, err := validateUsername(op, *patch.Username)
			if err != nil {
				return err
			}
			if username != u.Username {
				exists, err := us.userRepo.UsernameExists(dbc, username)
				if err != nil {
					return mapRepoErr(op, err)
				}
				if exists {
					return apperr.Conflict(op, "username already exists")
				}
				u.Username = username
			}
		}
		if patch.Password != nil {
			hash, err := us.hashPassword(op, *patch.Password)
			if err != nil {
				return err
			}
			u.Password = hash
		}
		if patch.Email != nil {
			u.Email = strings.TrimSpace(*patch.Email)
		}
		if patch.IsActive != nil {
			u.IsActive = *patch.IsActive
		}
		if patch.IsStaff != nil {
			u.IsStaff = *patch.IsStaff
		}
		if err := us.userRepo.Update(dbc, u); err != nil {
			return mapRepoErr(op, err)
		}
		// A password change or deactivation ends existing sessions.
		if patch.Password != nil || (patch.IsActive != nil && !*patch.IsActive) {
			if err := us.userTokenRepo.FullDeleteByUserIDs(dbc, []int64{u.UserID}); err != nil {
				return mapRepoErr(op, err)
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (us *userService) Delete(dbc dbctx.Context, id int64) error {
	const op = "user.delete"
	err := us.tx.InTx(dbc, func(dbc dbctx.Context) error {
		u, err := us.userRepo.GetByID(dbc, id)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if u == nil {
			return apperr.NotFound(op, "user %d not found", id)
		}
		if err := us.userTokenRepo.FullDeleteByUserIDs(dbc, []int64{id}); err != nil {
			return mapRepoErr(op, err)
		}
		if err := us.userProjectRepo.DeleteByUserIDs(dbc, []int64{id}); err != nil {
			return mapRepoErr(op, err)
		}
		if err := us.userRepo.FullDeleteByIDs(dbc, []int64{id}); err != nil {
			return mapRepoErr(op, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	us.log.Info("user deleted", "user_id", id)
	return nil
}

func (us *userService) List(dbc dbctx.Context) ([]*types.User, error) {
	users, err := us.userRepo.List(dbc)
	if err != nil {
		return nil, mapRepoErr("user.list", err)
	}
	if users == nil {
		users = []*types.User{}
	}
	if err := us.attachProjects(dbc, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (us *userService) SetProjects(dbc dbctx.Context, id int64, projectIDs []int64) (*types.User, error) {
	const op = "user.projects"
	var updated *types.User
	err := us.tx.InTx(dbc, func(dbc dbctx.Context) error {
		u, err := us.userRepo.GetByID(dbc, id)
		if err != nil {
			return mapRepoErr(op, err)
		}
		if u == nil {
			return apperr.NotFound(op, "user %d not found", id)
		}
		if err := us.checkProjects(dbc, op, projectIDs); err != nil {
			return err
		}
		if err := us.userProjectRepo.Replace(dbc, id, projectIDs); err != nil {
			return mapRepoErr(op, err)
		}
		if err := us.attachProjects(dbc, []*types.User{u}); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (us *userService) attachProjects(dbc dbctx.Context, users []*types.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	byUser, err := us.userProjectRepo.ProjectIDsByUserIDs(dbc, ids)
	if err != nil {
		return mapRepoErr("user.projects", err)
	}
	for _, u := range users {
		u.ProjectIDs = byUser[u.UserID]
		if u.ProjectIDs == nil {
			u.ProjectIDs = []int64{}
		}
	}
	return nil
}

// checkProjects ensures every non-zero id names an existing project.
func (us *userService) checkProjects(dbc dbctx.Context, op string, projectIDs []int64) error {
	want := map[int64]bool{}
	for _, id := range projectIDs {
		if id != 0 {
			want[id] = true
		}
	}
	if len(want) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}
	found, err := us.projectRepo.GetByIDs(dbc, ids)
	if err != nil {
		return mapRepoErr(op, err)
	}
	for _, p := range found {
		delete(want, p.ProjectID)
	}
	for id := range want {
		return apperr.NotFound(op, "project %d not found", id)
	}
	return nil
}

func (us *userService) hashPassword(op, password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", apperr.InvalidArgument(op, "password must be at least %d characters", minPasswordLength)
	}
	if len(password) > 72 {
		return "", apperr.InvalidArgument(op, "password exceeds 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), us.bcryptCost)
	if err != nil {
		return "", apperr.Internal(op, err)
	}
	return string(hash), nil
}

func validateUsername(op, username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperr.InvalidArgument(op, "username is required")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return "", apperr.InvalidArgument(op, "username exceeds %d characters", maxUsernameLen)
	}
	return username, nil
}
