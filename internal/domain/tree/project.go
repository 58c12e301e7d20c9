package tree

import "time"

// Project references at most one node and mirrors that node's state.
type Project struct {
	ProjectID   int64     `gorm:"column:project_id;primaryKey;autoIncrement:false" json:"project_id"`
	ProjectName string    `gorm:"column:project_name;type:varchar(255);not null" json:"project_name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	State       int       `gorm:"column:state;not null;index" json:"state"`
	NodeID      int64     `gorm:"column:node_id;not null;index" json:"node_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Linked() bool { return p.NodeID != 0 }

type ProjectPatch struct {
	Name        *string `json:"project_name"`
	Description *string `json:"description"`
	State       *int    `json:"state"`
	NodeID      *int64  `json:"node_id"`
}

func (p ProjectPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.State == nil && p.NodeID == nil
}

type NewProject struct {
	Name        string
	Description string
	State       int
	NodeID      int64
}
