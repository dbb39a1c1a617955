package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
)

// JoinGroup adds userID to a public group as a plain member.
func (s *Service) JoinGroup(ctx context.Context, groupID, userID string) (models.Group, error) {
	if err := requireUser(userID); err != nil {
		return models.Group{}, err
	}
	unlock, err := s.begin(ctx)
	if err != nil {
		return models.Group{}, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return models.Group{}, err
	}
	idx, err := findGroup(groups, groupID)
	if err != nil {
		return models.Group{}, err
	}
	g := &groups[idx]
	if !g.IsPublic {
		return models.Group{}, newError(KindForbidden, MsgGroupPrivate)
	}
	if g.IsMember(userID) {
		return models.Group{}, newError(KindConflict, MsgAlreadyMember)
	}

	g.Members = append(g.Members, models.GroupMember{
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: s.now(),
	})
	if err := s.save(ctx, groups); err != nil {
		return models.Group{}, err
	}
	s.log.Info("member joined", zap.String("group", g.ID), zap.String("user", userID))

	// the message carries the raw user id, as the original notifications did
	s.notify(ctx, s.fanOut(admins(g, userID), models.Notification{
		Type:      models.NotificationNewMember,
		Title:     "Nuevo miembro",
		Message:   fmt.Sprintf("El usuario %s se unió al grupo \"%s\"", userID, g.Name),
		GroupID:   g.ID,
		GroupSlug: g.Slug,
	})...)
	return *g, nil
}

// LeaveGroup removes userID's membership. The creator can never leave.
func (s *Service) LeaveGroup(ctx context.Context, groupID, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}
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
	if g.IsCreator(userID) {
		return newError(KindForbidden, MsgCreatorCannotLeave)
	}

	kept := g.Members[:0]
	found := false
	for _, m := range g.Members {
		if m.UserID == userID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return newError(KindNotFound, MsgNotMember)
	}
	g.Members = kept

	if err := s.save(ctx, groups); err != nil {
		return err
	}
	s.log.Info("member left", zap.String("group", g.ID), zap.String("user", userID))

	s.notify(ctx, s.fanOut(admins(g, userID), models.Notification{
		Type:      models.NotificationMemberLeft,
		Title:     "Un miembro salió del grupo",
		Message:   fmt.Sprintf("El usuario %s abandonó el grupo \"%s\"", userID, g.Name),
		GroupID:   g.ID,
		GroupSlug: g.Slug,
	})...)
	return nil
}

// ChangeUserRole sets the role of targetUserID. Only admins may do it.
func (s *Service) ChangeUserRole(ctx context.Context, groupID, targetUserID string, role models.Role, callerID string) (models.Group, error) {
	if !role.Valid() {
		return models.Group{}, newError(KindValidation, MsgInvalidRole)
	}
	unlock, err := s.begin(ctx)
	if err != nil {
		return models.Group{}, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return models.Group{}, err
	}
	idx, err := findGroup(groups, groupID)
	if err != nil {
		return models.Group{}, err
	}
	g := &groups[idx]
	if !g.HasRole(callerID, models.RoleAdmin) {
		return models.Group{}, newError(KindForbidden, MsgNotGroupAdmin)
	}
	target := g.Member(targetUserID)
	if target == nil {
		return models.Group{}, newError(KindNotFound, MsgTargetNotMember)
	}
	target.Role = role

	if err := s.save(ctx, groups); err != nil {
		return models.Group{}, err
	}
	s.log.Info("member role changed",
		zap.String("group", g.ID),
		zap.String("target", targetUserID),
		zap.String("role", string(role)),
		zap.String("by", callerID),
	)
	return *g, nil
}
