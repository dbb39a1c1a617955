package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/utils"
)

// AddCommentToPost appends a comment to a post of the group.
func (s *Service) AddCommentToPost(ctx context.Context, groupID string, req AddCommentRequest, userID string) (models.GroupPostComment, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return models.GroupPostComment{}, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return models.GroupPostComment{}, err
	}
	idx, err := findGroup(groups, groupID)
	if err != nil {
		return models.GroupPostComment{}, err
	}
	g := &groups[idx]
	if !canParticipate(g, userID) {
		return models.GroupPostComment{}, newError(KindForbidden, MsgMembersOnly)
	}
	post := g.Post(req.PostID)
	if post == nil {
		return models.GroupPostComment{}, newError(KindNotFound, MsgPostNotFound)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return models.GroupPostComment{}, newError(KindValidation, MsgEmptyComment)
	}

	comment := models.GroupPostComment{
		ID:         s.newID(),
		PostID:     post.ID,
		AuthorID:   userID,
		AuthorName: s.users.DisplayName(ctx, userID),
		Content:    content,
		CreatedAt:  s.now(),
	}
	post.Comments = append(post.Comments, comment)
	sort.SliceStable(post.Comments, func(a, b int) bool {
		return post.Comments[a].CreatedAt.Before(post.Comments[b].CreatedAt)
	})

	if err := s.save(ctx, groups); err != nil {
		return models.GroupPostComment{}, err
	}
	s.log.Info("comment added", zap.String("group", g.ID), zap.String("post", post.ID), zap.String("user", userID))

	if post.AuthorID != userID {
		s.notify(ctx, s.fanOut([]string{post.AuthorID}, models.Notification{
			Type:      models.NotificationNewComment,
			Title:     "Nuevo comentario",
			Message:   fmt.Sprintf("%s comentó tu publicación en \"%s\": %s", comment.AuthorName, g.Name, utils.Truncate(content, previewLength)),
			GroupID:   g.ID,
			GroupSlug: g.Slug,
			PostID:    post.ID,
		})...)
	}
	return comment, nil
}

// DeletePostComment removes a comment. Its author, the group creator and admins may do it.
func (s *Service) DeletePostComment(ctx context.Context, groupID, postID, commentID, userID string) error {
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
	post := g.Post(postID)
	if post == nil {
		return newError(KindNotFound, MsgPostNotFound)
	}

	pos := -1
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return newError(KindNotFound, MsgCommentNotFound)
	}
	if userID == "" || !(post.Comments[pos].AuthorID == userID || canModerate(g, userID)) {
		return newError(KindForbidden, MsgCannotDeleteComment)
	}

	post.Comments = append(post.Comments[:pos], post.Comments[pos+1:]...)
	if err := s.save(ctx, groups); err != nil {
		return err
	}
	s.log.Info("comment deleted", zap.String("group", g.ID), zap.String("post", postID), zap.String("comment", commentID))
	return nil
}
