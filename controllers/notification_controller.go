package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/vivemedellin/middleware"
	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/utils"
)

// NotificationController serves the caller's notifications.
type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: n}
}

func (n *NotificationController) List(ctx *gin.Context) {
	items, err := n.notifications.List(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

func (n *NotificationController) UnreadCount(ctx *gin.Context) {
	count, err := n.notifications.UnreadCount(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"unread": count})
}

func (n *NotificationController) MarkRead(ctx *gin.Context) {
	item, err := n.notifications.MarkRead(ctx.Request.Context(), ctx.Param("id"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"notification": item})
}

func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	changed, err := n.notifications.MarkAllRead(ctx.Request.Context(), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"updated": changed})
}
