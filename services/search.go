package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/utils"
)

const minSearchLength = 3

// SearchGroupPosts finds posts whose text, author, link or attachment
// names contain query, ignoring case and accents.
func (s *Service) SearchGroupPosts(ctx context.Context, groupID, query, userID string) ([]models.GroupPost, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < minSearchLength {
		return nil, newError(KindValidation, MsgSearchTooShort)
	}

	unlock, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	g, err := s.readableGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	needle := utils.Fold(q)
	matches := make([]models.GroupPost, 0)
	for _, p := range g.Posts {
		if postMatches(&p, needle) {
			matches = append(matches, p)
		}
	}
	return sortPosts(matches), nil
}

func postMatches(p *models.GroupPost, needle string) bool {
	fields := []string{p.Content, p.AuthorName, p.Link}
	if p.Image != nil {
		fields = append(fields, p.Image.Name)
	}
	if p.File != nil {
		fields = append(fields, p.File.Name)
	}
	for _, f := range fields {
		if f != "" && strings.Contains(utils.Fold(f), needle) {
			return true
		}
	}
	return false
}
