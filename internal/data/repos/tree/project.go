package tree

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type ProjectRepo interface {
	Create(dbc dbctx.Context, rows []*types.Project) ([]*types.Project, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Project, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Project, error)
	GetByNodeIDs(dbc dbctx.Context, nodeIDs []int64) ([]*types.Project, error)
	List(dbc dbctx.Context) ([]*types.Project, error)
	MaxID(dbc dbctx.Context) (int64, error)

	Update(dbc dbctx.Context, row *types.Project) error
	// SetStateForNode copies state onto every project linked to nodeID whose
	// state differs, returning the number of rows touched.
	SetStateForNode(dbc dbctx.Context, nodeID int64, state int) (int64, error)
	DetachNodes(dbc dbctx.Context, nodeIDs []int64) (int64, error)

	FullDeleteByIDs(dbc dbctx.Context, ids []int64) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(dbc dbctx.Context, rows []*types.Project) ([]*types.Project, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Project{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id int64) (*types.Project, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Project
	if err := t.WithContext(dbc.Ctx).
		Where("project_id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *projectRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Project, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Project
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("project_id IN ?", ids).
		Order("project_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectRepo) GetByNodeIDs(dbc dbctx.Context, nodeIDs []int64) ([]*types.Project, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Project
	if len(nodeIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("node_id IN ?", nodeIDs).
		Order("project_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectRepo) List(dbc dbctx.Context) ([]*types.Project, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Project
	if err := t.WithContext(dbc.Ctx).Order("project_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectRepo) MaxID(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Project{}).
		Select("COALESCE(MAX(project_id), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *projectRepo) Update(dbc dbctx.Context, row *types.Project) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Save(row).Error
}

func (r *projectRepo) SetStateForNode(dbc dbctx.Context, nodeID int64, state int) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if nodeID == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Project{}).
		Where("node_id = ? AND state <> ?", nodeID, state).
		Updates(map[string]interface{}{
			"state":      state,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *projectRepo) DetachNodes(dbc dbctx.Context, nodeIDs []int64) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(nodeIDs) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Project{}).
		Where("node_id IN ?", nodeIDs).
		Updates(map[string]interface{}{
			"node_id":    0,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *projectRepo) FullDeleteByIDs(dbc dbctx.Context, ids []int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("project_id IN ?", ids).
		Delete(&types.Project{}).Error
}
