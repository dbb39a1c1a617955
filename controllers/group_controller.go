package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/vivemedellin/middleware"
	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/utils"
)

// GroupController exposes group lifecycle and membership operations.
type GroupController struct {
	svc *services.Service
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(svc *services.Service) *GroupController {
	return &GroupController{svc: svc}
}

// ListGroups returns every group visible to the caller.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.svc.GetAllGroups(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": groups})
}

// ListMyGroups returns the groups the caller belongs to.
func (g *GroupController) ListMyGroups(ctx *gin.Context) {
	groups, err := g.svc.GetUserGroups(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": groups})
}

// GetGroup returns one group by id.
func (g *GroupController) GetGroup(ctx *gin.Context) {
	group, err := g.svc.GetGroup(ctx.Request.Context(), ctx.Param("id"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// GetGroupBySlug returns one group by slug.
func (g *GroupController) GetGroupBySlug(ctx *gin.Context) {
	group, err := g.svc.GetGroupBySlug(ctx.Request.Context(), ctx.Param("slug"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// CreateGroup creates a group owned by the caller.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	var req services.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	group, err := g.svc.CreateGroup(ctx.Request.Context(), req, middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"group": group})
}

// UpdateGroup patches a group's descriptive fields.
func (g *GroupController) UpdateGroup(ctx *gin.Context) {
	var req services.UpdateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	group, err := g.svc.UpdateGroup(ctx.Request.Context(), ctx.Param("id"), req, middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if err := g.svc.DeleteGroup(ctx.Request.Context(), ctx.Param("id"), middleware.UserID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}

// JoinGroup adds the caller to a public group.
func (g *GroupController) JoinGroup(ctx *gin.Context) {
	group, err := g.svc.JoinGroup(ctx.Request.Context(), ctx.Param("id"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// LeaveGroup removes the caller from a group.
func (g *GroupController) LeaveGroup(ctx *gin.Context) {
	if err := g.svc.LeaveGroup(ctx.Request.Context(), ctx.Param("id"), middleware.UserID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "left group"})
}

// ChangeRole sets another member's role.
func (g *GroupController) ChangeRole(ctx *gin.Context) {
	var req struct {
		Role models.Role `json:"role" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	group, err := g.svc.ChangeUserRole(ctx.Request.Context(), ctx.Param("id"), ctx.Param("userId"), req.Role, middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// Activity returns the dashboard summary for the caller.
func (g *GroupController) Activity(ctx *gin.Context) {
	summary, err := g.svc.GetGroupActivitySummary(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, summary)
}
