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

// CreateGroupRequest carries the fields a user fills in for a new group.
type CreateGroupRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	Theme              string `json:"theme"`
	ParticipationRules string `json:"participationRules"`
	Location           string `json:"location"`
	ImageURL           string `json:"imageUrl"`
	IsPublic           bool   `json:"isPublic"`
}

// UpdateGroupRequest is a partial update; nil fields are left untouched.
type UpdateGroupRequest struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Category           *string `json:"category"`
	Theme              *string `json:"theme"`
	ParticipationRules *string `json:"participationRules"`
	Location           *string `json:"location"`
	ImageURL           *string `json:"imageUrl"`
	IsPublic           *bool   `json:"isPublic"`
}

func nameTaken(groups []models.Group, name, exceptID string) bool {
	for i := range groups {
		if groups[i].ID != exceptID && strings.EqualFold(strings.TrimSpace(groups[i].Name), name) {
			return true
		}
	}
	return false
}

// CreateGroup creates a group owned by userID, who becomes its only admin.
func (s *Service) CreateGroup(ctx context.Context, req CreateGroupRequest, userID string) (models.Group, error) {
	if err := requireUser(userID); err != nil {
		return models.Group{}, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Group{}, newError(KindValidation, MsgGroupNameRequired)
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
	if nameTaken(groups, name, "") {
		return models.Group{}, newError(KindConflict, MsgGroupNameTaken)
	}

	now := s.now()
	group := models.Group{
		ID:                 s.newID(),
		Slug:               utils.MakeUniqueSlug(utils.Slugify(name), utils.ReservedSlugs(groups)),
		Name:               name,
		Description:        strings.TrimSpace(req.Description),
		Category:           strings.TrimSpace(req.Category),
		Theme:              strings.TrimSpace(req.Theme),
		ParticipationRules: strings.TrimSpace(req.ParticipationRules),
		Location:           strings.TrimSpace(req.Location),
		ImageURL:           strings.TrimSpace(req.ImageURL),
		CreatorID:          userID,
		CreatedAt:          now,
		IsPublic:           req.IsPublic,
		Members:            []models.GroupMember{{UserID: userID, Role: models.RoleAdmin, JoinedAt: now}},
		Posts:              []models.GroupPost{},
		Events:             []models.GroupEvent{},
	}
	groups = append(groups, group)
	if err := s.save(ctx, groups); err != nil {
		return models.Group{}, err
	}
	s.log.Info("group created", zap.String("group", group.ID), zap.String("slug", group.Slug), zap.String("user", userID))
	return group, nil
}

// UpdateGroup applies patch to the group. Only admins may update.
func (s *Service) UpdateGroup(ctx context.Context, groupID string, patch UpdateGroupRequest, userID string) (models.Group, error) {
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
	if !g.HasRole(userID, models.RoleAdmin) {
		return models.Group{}, newError(KindForbidden, MsgNotGroupAdmin)
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Group{}, newError(KindValidation, MsgGroupNameRequired)
		}
		if nameTaken(groups, name, g.ID) {
			return models.Group{}, newError(KindConflict, MsgGroupNameTaken)
		}
		g.Name = name
	}
	if patch.Description != nil {
		g.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		g.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Theme != nil {
		g.Theme = strings.TrimSpace(*patch.Theme)
	}
	if patch.ParticipationRules != nil {
		g.ParticipationRules = strings.TrimSpace(*patch.ParticipationRules)
	}
	if patch.Location != nil {
		g.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.ImageURL != nil {
		g.ImageURL = strings.TrimSpace(*patch.ImageURL)
	}
	if patch.IsPublic != nil {
		g.IsPublic = *patch.IsPublic
	}

	if err := s.save(ctx, groups); err != nil {
		return models.Group{}, err
	}
	return *g, nil
}

// DeleteGroup removes the group. The creator or any admin may delete it.
func (s *Service) DeleteGroup(ctx context.Context, groupID, userID string) error {
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
	removed := groups[idx]
	if userID == "" || !(removed.IsCreator(userID) || removed.HasRole(userID, models.RoleAdmin)) {
		return newError(KindForbidden, MsgCannotDeleteGroup)
	}

	groups = append(groups[:idx], groups[idx+1:]...)
	if err := s.save(ctx, groups); err != nil {
		return err
	}
	s.log.Info("group deleted", zap.String("group", groupID), zap.String("user", userID))

	s.notify(ctx, s.fanOut(memberIDs(&removed, userID), models.Notification{
		Type:    models.NotificationGroupDeleted,
		Title:   "Grupo eliminado",
		Message: fmt.Sprintf("El grupo \"%s\" ha sido eliminado", removed.Name),
		GroupID: removed.ID,
	})...)
	return nil
}

// GetAllGroups lists the groups userID can see, newest first: every public
// group plus private groups the user created or belongs to.
func (s *Service) GetAllGroups(ctx context.Context, userID string) ([]models.Group, error) {
	return s.listGroups(ctx, func(g *models.Group) bool { return g.CanAccess(userID) })
}

// GetUserGroups lists the groups userID created or belongs to, newest first.
func (s *Service) GetUserGroups(ctx context.Context, userID string) ([]models.Group, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.listGroups(ctx, func(g *models.Group) bool { return g.IsCreator(userID) || g.IsMember(userID) })
}

func (s *Service) listGroups(ctx context.Context, keep func(*models.Group) bool) ([]models.Group, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Group, 0, len(groups))
	for i := range groups {
		if keep(&groups[i]) {
			out = append(out, groups[i])
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

// GetGroup returns one group if userID may see it.
func (s *Service) GetGroup(ctx context.Context, groupID, userID string) (models.Group, error) {
	return s.getGroup(ctx, userID, func(g *models.Group) bool { return g.ID == groupID })
}

// GetGroupBySlug is GetGroup keyed by slug.
func (s *Service) GetGroupBySlug(ctx context.Context, slug, userID string) (models.Group, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	return s.getGroup(ctx, userID, func(g *models.Group) bool { return g.Slug == slug })
}

func (s *Service) getGroup(ctx context.Context, userID string, match func(*models.Group) bool) (models.Group, error) {
	unlock, err := s.begin(ctx)
	if err != nil {
		return models.Group{}, err
	}
	defer unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return models.Group{}, err
	}
	for i := range groups {
		if !match(&groups[i]) {
			continue
		}
		if !groups[i].CanAccess(userID) {
			return models.Group{}, newError(KindForbidden, MsgGroupPrivate)
		}
		g := groups[i]
		g.Posts = sortPosts(g.Posts)
		return g, nil
	}
	return models.Group{}, newError(KindNotFound, MsgGroupNotFound)
}
