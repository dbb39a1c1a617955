package models

import "time"

// NotificationType classifies a notification for the UI.
type NotificationType string

const (
	NotificationGroupDeleted NotificationType = "group_deleted"
	NotificationNewMember    NotificationType = "new_member"
	NotificationMemberLeft   NotificationType = "member_left"
	NotificationNewPost      NotificationType = "new_post"
	NotificationPostDeleted  NotificationType = "post_deleted"
	NotificationNewComment   NotificationType = "new_comment"
	NotificationSystem       NotificationType = "system"
)

// Notification is a message addressed to a single user.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	GroupID   string           `json:"groupId,omitempty"`
	GroupSlug string           `json:"groupSlug,omitempty"`
	PostID    string           `json:"postId,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}
