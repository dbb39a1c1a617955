package models

import "time"

// Role is a member's permission level inside one group.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleMember:
		return true
	}
	return false
}

// Group is a named community with its members, posts and events.
// The whole record, including the nested slices, is persisted as one
// element of the groups collection.
type Group struct {
	ID                 string        `json:"id"`
	Slug               string        `json:"slug"`
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Category           string        `json:"category"`
	Theme              string        `json:"theme,omitempty"`
	ParticipationRules string        `json:"participationRules,omitempty"`
	Location           string        `json:"location,omitempty"`
	ImageURL           string        `json:"imageUrl,omitempty"`
	CreatorID          string        `json:"creatorId"`
	CreatedAt          time.Time     `json:"createdAt"`
	IsPublic           bool          `json:"isPublic"`
	Members            []GroupMember `json:"members"`
	Posts              []GroupPost   `json:"posts"`
	Events             []GroupEvent  `json:"events"`
}

// GroupMember associates a user with a role inside a group.
type GroupMember struct {
	UserID   string    `json:"userId"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

// GroupEvent is a scheduled meetup attached to a group.
type GroupEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member returns the membership record for userID, or nil.
func (g *Group) Member(userID string) *GroupMember {
	for i := range g.Members {
		if g.Members[i].UserID == userID {
			return &g.Members[i]
		}
	}
	return nil
}

// IsMember reports whether userID has a membership record.
func (g *Group) IsMember(userID string) bool {
	return g.Member(userID) != nil
}

// HasRole reports whether userID is a member holding role.
func (g *Group) HasRole(userID string, role Role) bool {
	m := g.Member(userID)
	return m != nil && m.Role == role
}

// IsCreator reports whether userID created the group.
func (g *Group) IsCreator(userID string) bool {
	return userID != "" && g.CreatorID == userID
}

// CanAccess reports whether userID may read the group's content:
// public groups are open to everyone, private ones to the creator and members.
func (g *Group) CanAccess(userID string) bool {
	return g.IsPublic || g.IsCreator(userID) || g.IsMember(userID)
}

// Post returns the post with postID, or nil.
func (g *Group) Post(postID string) *GroupPost {
	for i := range g.Posts {
		if g.Posts[i].ID == postID {
			return &g.Posts[i]
		}
	}
	return nil
}
