package models

import "time"

// GroupPost is a content item published inside a group. At least one of
// Content, Link, Image or File is always set.
type GroupPost struct {
	ID         string             `json:"id"`
	GroupID    string             `json:"groupId"`
	AuthorID   string             `json:"authorId"`
	AuthorName string             `json:"authorName"`
	Content    string             `json:"content,omitempty"`
	Link       string             `json:"link,omitempty"`
	Image      *GroupPostMedia    `json:"image,omitempty"`
	File       *GroupPostMedia    `json:"file,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	Comments   []GroupPostComment `json:"comments"`
}

// GroupPostMedia is an inline attachment. URL holds a data URI.
type GroupPostMedia struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// GroupPostComment is a reply attached to a post.
type GroupPostComment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
