package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type NodeHandler struct {
	nodes services.NodeService
}

func NewNodeHandler(nodes services.NodeService) *NodeHandler {
	return &NodeHandler{nodes: nodes}
}

// POST /api/node/create
func (h *NodeHandler) Create(c *gin.Context) {
	var req struct {
		NodeName    string `json:"node_name"`
		Description string `json:"description"`
		State       int    `json:"state"`
		ParentID    int64  `json:"parent_id"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	n, err := h.nodes.Create(dbcOf(c), types.NewNode{
		Name:        req.NodeName,
		Description: req.Description,
		State:       req.State,
		ParentID:    req.ParentID,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, n)
}

// GET /api/node/get/:id
func (h *NodeHandler) Get(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	n, err := h.nodes.Get(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, n)
}

// POST /api/node/update/:id
func (h *NodeHandler) Update(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var patch types.NodePatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondError(c, err)
		return
	}
	n, err := h.nodes.Update(dbcOf(c), id, patch)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, n)
}

// POST /api/node/batch_update
func (h *NodeHandler) BatchUpdate(c *gin.Context) {
	var req struct {
		Updates []struct {
			NodeID int64 `json:"node_id"`
			types.NodePatch
		} `json:"updates"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	items := make([]services.NodeBatchItem, 0, len(req.Updates))
	for _, u := range req.Updates {
		items = append(items, services.NodeBatchItem{NodeID: u.NodeID, Patch: u.NodePatch})
	}
	nodes, err := h.nodes.BatchUpdate(dbcOf(c), items)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"nodes": nodes})
}

// DELETE /api/node/delete/:id removes the node and its whole subtree.
func (h *NodeHandler) Delete(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	res, err := h.nodes.Delete(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"status":            "success",
		"deleted_ids":       res.DeletedIDs,
		"detached_projects": res.DetachedProjects,
	})
}

// GET /api/node/tree/:id
func (h *NodeHandler) Tree(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	tree, err := h.nodes.GetTree(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, tree)
}

// GET /api/node/children/:id
func (h *NodeHandler) Children(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	children, err := h.nodes.GetChildren(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if children == nil {
		children = []*types.Node{}
	}
	response.RespondOK(c, children)
}
