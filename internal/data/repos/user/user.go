package user

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id int64) (*types.User, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.User, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.User, error)
	UsernameExists(dbc dbctx.Context, username string) (bool, error)
	List(dbc dbctx.Context) ([]*types.User, error)
	MaxID(dbc dbctx.Context) (int64, error)
	Update(dbc dbctx.Context, u *types.User) error
	TouchLastLogin(dbc dbctx.Context, id int64, at time.Time) error
	FullDeleteByIDs(dbc dbctx.Context, ids []int64) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id int64) (*types.User, error) {
	rows, err := ur.GetByIDs(dbc, []int64{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (ur *userRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.User
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id IN ?", ids).
		Order("user_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) GetByUsername(dbc dbctx.Context, username string) (*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.User
	if err := transaction.WithContext(dbc.Ctx).
		Where("username = ?", username).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (ur *userRepo) UsernameExists(dbc dbctx.Context, username string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("username = ?", username).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(dbc dbctx.Context) ([]*types.User, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.User
	if err := transaction.WithContext(dbc.Ctx).Order("user_id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) MaxID(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	var max int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Select("COALESCE(MAX(user_id), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (ur *userRepo) Update(dbc dbctx.Context, u *types.User) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if u == nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).Save(u).Error
}

func (ur *userRepo) TouchLastLogin(dbc dbctx.Context, id int64, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.User{}).
		Where("user_id = ?", id).
		Update("last_login", at).Error
}

func (ur *userRepo) FullDeleteByIDs(dbc dbctx.Context, ids []int64) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Where("user_id IN ?", ids).
		Delete(&types.User{}).Error
}
