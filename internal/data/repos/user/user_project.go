package user

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type UserProjectRepo interface {
	Grant(dbc dbctx.Context, userID int64, projectIDs []int64) error
	// Replace swaps the user's access list for projectIDs.
	Replace(dbc dbctx.Context, userID int64, projectIDs []int64) error
	ProjectIDsByUserIDs(dbc dbctx.Context, userIDs []int64) (map[int64][]int64, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []int64) error
	DeleteByProjectIDs(dbc dbctx.Context, projectIDs []int64) error
}

type userProjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProjectRepo(db *gorm.DB, baseLog *logger.Logger) UserProjectRepo {
	return &userProjectRepo{db: db, log: baseLog.With("repo", "UserProjectRepo")}
}

func (r *userProjectRepo) Grant(dbc dbctx.Context, userID int64, projectIDs []int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	rows := make([]*types.UserProject, 0, len(projectIDs))
	seen := map[int64]bool{}
	for _, pid := range projectIDs {
		if pid == 0 || seen[pid] {
			continue
		}
		seen[pid] = true
		rows = append(rows, &types.UserProject{UserID: userID, ProjectID: pid})
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *userProjectRepo) Replace(dbc dbctx.Context, userID int64, projectIDs []int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Delete(&types.UserProject{}).Error; err != nil {
		return err
	}
	return r.Grant(dbctx.Context{Ctx: dbc.Ctx, Tx: t}, userID, projectIDs)
}

func (r *userProjectRepo) ProjectIDsByUserIDs(dbc dbctx.Context, userIDs []int64) (map[int64][]int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := make(map[int64][]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []*types.UserProject
	if err := t.WithContext(dbc.Ctx).
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, project_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.ProjectID)
	}
	return out, nil
}

func (r *userProjectRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(userIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.UserProject{}).Error
}

func (r *userProjectRepo) DeleteByProjectIDs(dbc dbctx.Context, projectIDs []int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(projectIDs) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("project_id IN ?", projectIDs).
		Delete(&types.UserProject{}).Error
}
