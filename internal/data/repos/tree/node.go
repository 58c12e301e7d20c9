package tree

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/pkg/dbctx"
	"github.com/yungbote/nodetree-backend/internal/platform/logger"
)

type NodeRepo interface {
	Create(dbc dbctx.Context, rows []*types.Node) ([]*types.Node, error)
	GetByID(dbc dbctx.Context, id int64) (*types.Node, error)
	GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Node, error)
	Exists(dbc dbctx.Context, id int64) (bool, error)
	GetByParentIDs(dbc dbctx.Context, parentIDs []int64) ([]*types.Node, error)
	ChildStates(dbc dbctx.Context, parentID int64) ([]int, error)
	ListAll(dbc dbctx.Context) ([]*types.Node, error)
	MaxID(dbc dbctx.Context) (int64, error)

	Update(dbc dbctx.Context, row *types.Node) error
	UpdateDerived(dbc dbctx.Context, id int64, d types.NodeDerived) error

	FullDeleteByIDs(dbc dbctx.Context, ids []int64) error
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	return &nodeRepo{db: db, log: baseLog.With("repo", "NodeRepo")}
}

func (r *nodeRepo) Create(dbc dbctx.Context, rows []*types.Node) ([]*types.Node, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Node{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetByID returns nil, nil when the node does not exist.
func (r *nodeRepo) GetByID(dbc dbctx.Context, id int64) (*types.Node, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Node
	if err := t.WithContext(dbc.Ctx).
		Where("node_id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *nodeRepo) GetByIDs(dbc dbctx.Context, ids []int64) ([]*types.Node, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Node
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("node_id IN ?", ids).
		Order("node_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nodeRepo) Exists(dbc dbctx.Context, id int64) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var count int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Node{}).
		Where("node_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByParentIDs returns the direct children of every given parent, ordered by id.
func (r *nodeRepo) GetByParentIDs(dbc dbctx.Context, parentIDs []int64) ([]*types.Node, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Node
	if len(parentIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("parent_id IN ?", parentIDs).
		Order("node_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nodeRepo) ChildStates(dbc dbctx.Context, parentID int64) ([]int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var states []int
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Node{}).
		Where("parent_id = ?", parentID).
		Order("node_id ASC").
		Pluck("state", &states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

func (r *nodeRepo) ListAll(dbc dbctx.Context) ([]*types.Node, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var out []*types.Node
	if err := t.WithContext(dbc.Ctx).Order("node_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *nodeRepo) MaxID(dbc dbctx.Context) (int64, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	var max int64
	if err := t.WithContext(dbc.Ctx).
		Model(&types.Node{}).
		Select("COALESCE(MAX(node_id), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *nodeRepo) Update(dbc dbctx.Context, row *types.Node) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil
	}
	return t.WithContext(dbc.Ctx).Save(row).Error
}

func (r *nodeRepo) UpdateDerived(dbc dbctx.Context, id int64, d types.NodeDerived) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if d.Empty() {
		return nil
	}
	cols := map[string]interface{}{"updated_at": time.Now().UTC()}
	if d.ChildrenState != nil {
		cols["children_state"] = *d.ChildrenState
	}
	if d.State != nil {
		cols["state"] = *d.State
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Node{}).
		Where("node_id = ?", id).
		Updates(cols).Error
}

func (r *nodeRepo) FullDeleteByIDs(dbc dbctx.Context, ids []int64) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Where("node_id IN ?", ids).
		Delete(&types.Node{}).Error
}
