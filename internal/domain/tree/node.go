package tree

import "time"

// ChildrenStateMixed marks a parent whose children disagree, under the reset divergence policy.
const ChildrenStateMixed = -1

// Node is one record of the hierarchy. Children are never stored on the parent;
// they are found through the parent_id reverse lookup.
type Node struct {
	NodeID        int64     `gorm:"column:node_id;primaryKey;autoIncrement:false" json:"node_id"`
	NodeName      string    `gorm:"column:node_name;type:varchar(255);not null" json:"node_name"`
	Description   string    `gorm:"column:description;type:text" json:"description"`
	State         int       `gorm:"column:state;not null;index" json:"state"`
	ParentID      int64     `gorm:"column:parent_id;not null;index" json:"parent_id"`
	ChildrenState int       `gorm:"column:children_state;not null" json:"children_state"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Node) TableName() string { return "nodes" }

func (n *Node) IsRoot() bool { return n.ParentID == 0 }

// NodeTree is a node with its subtree materialized. ChildIDs mirrors the
// direct children so clients that only need ids do not walk Children.
type NodeTree struct {
	Node
	ChildIDs []int64     `json:"childrens"`
	Children []*NodeTree `json:"children"`
}

// Count returns the number of nodes in the subtree, including the root.
func (t *NodeTree) Count() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.Count()
	}
	return n
}

// Depth returns the longest root-to-leaf chain, counting the root as 1.
func (t *NodeTree) Depth() int {
	if t == nil {
		return 0
	}
	best := 0
	for _, c := range t.Children {
		if d := c.Depth(); d > best {
			best = d
		}
	}
	return best + 1
}

// NodePatch is a partial update. Nil fields are left untouched.
type NodePatch struct {
	Name        *string `json:"node_name"`
	Description *string `json:"description"`
	State       *int    `json:"state"`
	ParentID    *int64  `json:"parent_id"`
}

func (p NodePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.State == nil && p.ParentID == nil
}

// NewNode carries the fields accepted on creation.
// NodeDerived carries the values the consistency engine recomputes for a parent.
// Nil fields are left untouched.
type NodeDerived struct {
	ChildrenState *int
	State         *int
}

func (d NodeDerived) Empty() bool { return d.ChildrenState == nil && d.State == nil }

type NewNode struct {
	Name        string
	Description string
	State       int
	ParentID    int64
}
