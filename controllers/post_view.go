package controllers

import (
	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/utils"
)

// postView adds the rendered HTML of a post's text next to the stored one.
type postView struct {
	models.GroupPost
	ContentHTML string        `json:"contentHtml,omitempty"`
	Comments    []commentView `json:"comments"`
}

type commentView struct {
	models.GroupPostComment
	ContentHTML string `json:"contentHtml"`
}

func renderComment(c models.GroupPostComment) commentView {
	return commentView{GroupPostComment: c, ContentHTML: utils.RenderHTML(c.Content)}
}

func renderPost(p models.GroupPost) postView {
	comments := make([]commentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, renderComment(c))
	}
	return postView{GroupPost: p, ContentHTML: utils.RenderHTML(p.Content), Comments: comments}
}

func renderPosts(posts []models.GroupPost) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, renderPost(p))
	}
	return views
}
