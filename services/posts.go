package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/utils"
)

const previewLength = 80

// CreatePostRequest is the content of a new post. At least one field must
// survive validation.
type CreatePostRequest struct {
	Content string                 `json:"content"`
	Link    string                 `json:"link"`
	Image   *models.GroupPostMedia `json:"image"`
	File    *models.GroupPostMedia `json:"file"`
}

// AddCommentRequest targets a post inside the group.
type AddCommentRequest struct {
	PostID  string `json:"postId"`
	Content string `json:"content"`
}

func canParticipate(g *models.Group, userID string) bool {
	return userID != "" && (g.IsCreator(userID) || g.IsMember(userID))
}

func canModerate(g *models.Group, userID string) bool {
	return g.IsCreator(userID) || g.HasRole(userID, models.RoleAdmin)
}

// buildPost validates req and returns the post fields it produces.
func (s *Service) buildPost(req CreatePostRequest) (models.GroupPost, error) {
	var post models.GroupPost

	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) > MaxPostContentLength {
		return post, newError(KindValidation, MsgContentTooLong)
	}
	post.Content = content

	if strings.TrimSpace(req.Link) != "" {
		link, err := CanonicalLink(req.Link)
		if err != nil {
			return post, newError(KindValidation, MsgInvalidLink)
		}
		post.Link = link
	}

	attach := func(m *models.GroupPostMedia, validate func(*models.GroupPostMedia) error) (*models.GroupPostMedia, error) {
		if m == nil {
			return nil, nil
		}
		if err := validate(m); err != nil {
			var me *MediaError
			if errors.As(err, &me) {
				return nil, newError(KindValidation, me.Message)
			}
			return nil, newError(KindValidation, err.Error())
		}
		out := *m
		if out.ID == "" {
			out.ID = s.newID()
		}
		out.MimeType = strings.ToLower(strings.TrimSpace(out.MimeType))
		return &out, nil
	}
	var err error
	if post.Image, err = attach(req.Image, ValidateImage); err != nil {
		return post, err
	}
	if post.File, err = attach(req.File, ValidateFile); err != nil {
		return post, err
	}

	if post.Content == "" && post.Link == "" && post.Image == nil && post.File == nil {
		return post, newError(KindValidation, MsgEmptyPost)
	}
	return post, nil
}

// CreateGroupPost publishes a post in the group on behalf of userID.
// New posts are kept at the front of the group's post list.
func (s *Service) CreateGroupPost(ctx context.Context, groupID string, req CreatePostRequest, userID string) (models.GroupPost, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return models.GroupPost{}, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return models.GroupPost{}, err
	}
	idx, err := findGroup(groups, groupID)
	if err != nil {
		return models.GroupPost{}, err
	}
	g := &groups[idx]
	if !canParticipate(g, userID) {
		return models.GroupPost{}, newError(KindForbidden, MsgMembersOnly)
	}

	post, err := s.buildPost(req)
	if err != nil {
		return models.GroupPost{}, err
	}
	post.ID = s.newID()
	post.GroupID = g.ID
	post.AuthorID = userID
	post.AuthorName = s.users.DisplayName(ctx, userID)
	post.CreatedAt = s.now()
	post.Comments = []models.GroupPostComment{}

	g.Posts = append([]models.GroupPost{post}, g.Posts...)
	if err := s.save(ctx, groups); err != nil {
		return models.GroupPost{}, err
	}
	s.log.Info("post created", zap.String("group", g.ID), zap.String("post", post.ID), zap.String("user", userID))

	message := fmt.Sprintf("%s publicó en \"%s\"", post.AuthorName, g.Name)
	if preview := postPreview(&post); preview != "" {
		message += ": " + preview
	}
	s.notify(ctx, s.fanOut(memberIDs(g, userID), models.Notification{
		Type:      models.NotificationNewPost,
		Title:     "Nueva publicación",
		Message:   message,
		GroupID:   g.ID,
		GroupSlug: g.Slug,
		PostID:    post.ID,
	})...)
	return post, nil
}

func postPreview(p *models.GroupPost) string {
	text := p.Content
	if text == "" {
		text = p.Link
	}
	return utils.Truncate(text, previewLength)
}

// DeleteGroupPost removes a post. Its author, the group creator and admins may do it.
func (s *Service) DeleteGroupPost(ctx context.Context, groupID, postID, userID string) error {
	unlock, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return err
	}
	idx, err := findGroup(groups, groupID)
	if err != nil {
		return err
	}
	g := &groups[idx]

	pos := -1
	for i := range g.Posts {
		if g.Posts[i].ID == postID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return newError(KindNotFound, MsgPostNotFound)
	}
	post := g.Posts[pos]
	if userID == "" || !(post.AuthorID == userID || canModerate(g, userID)) {
		return newError(KindForbidden, MsgCannotDeletePost)
	}

	g.Posts = append(g.Posts[:pos], g.Posts[pos+1:]...)
	if err := s.save(ctx, groups); err != nil {
		return err
	}
	s.log.Info("post deleted", zap.String("group", g.ID), zap.String("post", postID), zap.String("user", userID))

	message := fmt.Sprintf("Tu publicación en \"%s\" fue eliminada", g.Name)
	if post.AuthorID != userID {
		message = fmt.Sprintf("Tu publicación en \"%s\" fue eliminada por un administrador", g.Name)
	}
	s.notify(ctx, s.fanOut([]string{post.AuthorID}, models.Notification{
		Type:      models.NotificationSystem,
		Title:     "Publicación eliminada",
		Message:   message,
		GroupID:   g.ID,
		GroupSlug: g.Slug,
		PostID:    postID,
	})...)
	return nil
}

// GetGroupPosts lists the group's posts newest first, each with its
// comments oldest first.
func (s *Service) GetGroupPosts(ctx context.Context, groupID, userID string) ([]models.GroupPost, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.readableGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	return sortPosts(g.Posts), nil
}

// readableGroup loads the collection and returns groupID if userID may read it.
func (s *Service) readableGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := findGroup(groups, groupID)
	if err != nil {
		return nil, err
	}
	g := &groups[idx]
	if !g.CanAccess(userID) {
		return nil, newError(KindForbidden, MsgGroupPrivate)
	}
	return g, nil
}

// sortPosts returns a copy of posts ordered newest first with comments
// ordered oldest first.
func sortPosts(posts []models.GroupPost) []models.GroupPost {
	out := make([]models.GroupPost, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	for i := range out {
		out[i].Comments = sortComments(out[i].Comments)
	}
	return out
}

func sortComments(comments []models.GroupPostComment) []models.GroupPostComment {
	out := make([]models.GroupPostComment, len(comments))
	copy(out, comments)
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.Before(out[b].CreatedAt) })
	return out
}
