package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/nodetree-backend/internal/domain"
	"github.com/yungbote/nodetree-backend/internal/http/response"
	"github.com/yungbote/nodetree-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/user/info
func (uh *UserHandler) Info(c *gin.Context) {
	me, err := uh.userService.GetMe(dbcOf(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// POST /api/user/create (staff)
func (uh *UserHandler) Create(c *gin.Context) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Email     string `json:"email"`
		IsActive  *bool  `json:"is_active"`
		IsStaff   bool   `json:"is_staff"`
		ProjectID int64  `json:"project_id"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	u, err := uh.userService.Create(dbcOf(c), types.NewUser{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		IsActive:  active,
		IsStaff:   req.IsStaff,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, u)
}

func (uh *UserHandler) Get(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	u, err := uh.userService.Get(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, u)
}

func (uh *UserHandler) Update(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var patch types.UserPatch
	if err := bindJSON(c, &patch); err != nil {
		response.RespondError(c, err)
		return
	}
	u, err := uh.userService.Update(dbcOf(c), id, patch)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, u)
}

func (uh *UserHandler) Delete(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	if err := uh.userService.Delete(dbcOf(c), id); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondSuccess(c)
}

func (uh *UserHandler) List(c *gin.Context) {
	users, err := uh.userService.List(dbcOf(c))
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, users)
}

// GET /api/user/projects/:id
func (uh *UserHandler) GetProjects(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	u, err := uh.userService.Get(dbcOf(c), id)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": u.UserID, "project_ids": u.ProjectIDs})
}

// POST /api/user/projects/:id replaces the user's project access list.
func (uh *UserHandler) SetProjects(c *gin.Context) {
	id, err := pathInt64(c, "id")
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var req struct {
		ProjectIDs []int64 `json:"project_ids"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, err)
		return
	}
	u, err := uh.userService.SetProjects(dbcOf(c), id, req.ProjectIDs)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": u.UserID, "project_ids": u.ProjectIDs})
}
