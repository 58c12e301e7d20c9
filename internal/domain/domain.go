package domain

import (
	"github.com/yungbote/nodetree-backend/internal/domain/auth"
	"github.com/yungbote/nodetree-backend/internal/domain/lookup"
	"github.com/yungbote/nodetree-backend/internal/domain/sequence"
	"github.com/yungbote/nodetree-backend/internal/domain/tree"
	"github.com/yungbote/nodetree-backend/internal/domain/user"
)

const (
	ChildrenStateMixed   = tree.ChildrenStateMixed
	DefaultPNTGStateCode = lookup.DefaultPNTGStateCode
)

type Node = tree.Node
type NodeTree = tree.NodeTree
type NodePatch = tree.NodePatch
type NewNode = tree.NewNode
type NodeDerived = tree.NodeDerived

type Project = tree.Project
type ProjectPatch = tree.ProjectPatch
type NewProject = tree.NewProject

type PNTG = lookup.PNTG
type PNTGSummary = lookup.PNTGSummary
type PNTGPatch = lookup.PNTGPatch
type NewPNTG = lookup.NewPNTG
type StateCode = lookup.StateCode

type User = user.User
type UserProject = user.UserProject
type UserPatch = user.UserPatch
type NewUser = user.NewUser
type UserToken = auth.UserToken

type IDSequence = sequence.IDSequence

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&IDSequence{},
		&Node{},
		&Project{},
		&PNTG{},
		&StateCode{},
		&User{},
		&UserProject{},
		&UserToken{},
	}
}
