package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/vivemedellin/vivemedellin/middleware"
	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/utils"
)

// PostController manages posts and comments inside groups.
type PostController struct {
	svc *services.Service
}

// NewPostController creates a new PostController instance.
func NewPostController(svc *services.Service) *PostController {
	return &PostController{svc: svc}
}

// ListPosts returns a group's posts, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.svc.GetGroupPosts(ctx.Request.Context(), ctx.Param("id"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": renderPosts(posts)})
}

// SearchPosts matches posts of a group against the q parameter.
func (p *PostController) SearchPosts(ctx *gin.Context) {
	posts, err := p.svc.SearchGroupPosts(ctx.Request.Context(), ctx.Param("id"), ctx.Query("q"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": renderPosts(posts)})
}

// CreatePost publishes a post in a group.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req services.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	post, err := p.svc.CreateGroupPost(ctx.Request.Context(), ctx.Param("id"), req, middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"post": renderPost(post)})
}

// DeletePost removes a post.
func (p *PostController) DeletePost(ctx *gin.Context) {
	if err := p.svc.DeleteGroupPost(ctx.Request.Context(), ctx.Param("id"), ctx.Param("postId"), middleware.UserID(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment adds a comment to a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badPayload(ctx)
		return
	}
	comment, err := p.svc.AddCommentToPost(ctx.Request.Context(), ctx.Param("id"), services.AddCommentRequest{
		PostID:  ctx.Param("postId"),
		Content: req.Content,
	}, middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"comment": renderComment(comment)})
}

// DeleteComment removes a comment.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	err := p.svc.DeletePostComment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("postId"), ctx.Param("commentId"), middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}
