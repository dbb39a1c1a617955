package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/utils"
)

// Groups is the persisted group collection. Every Load returns the full
// list with unique slugs; every Save rewrites the full list.
type Groups struct {
	backend Backend
	key     string
	log     *zap.Logger
}

// NewGroups binds the collection to a slot.
func NewGroups(backend Backend, key string, log *zap.Logger) *Groups {
	return &Groups{backend: backend, key: key, log: orNop(log)}
}

// Load reads all groups, backfilling and persisting slugs when needed.
func (s *Groups) Load(ctx context.Context) ([]models.Group, error) {
	groups, skipped, err := loadArray[models.Group](ctx, s.backend, s.key, s.log)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		normalizeGroup(&groups[i])
	}
	if !utils.EnsureSlugs(groups) {
		return groups, nil
	}
	// A write-back would drop the skipped records, so it waits until the
	// slot decodes cleanly.
	if skipped > 0 {
		s.log.Warn("backfilled group slugs in memory only",
			zap.String("key", s.key),
			zap.Int("groups", len(groups)),
			zap.Int("skipped", skipped),
		)
		return groups, nil
	}
	s.log.Info("backfilled group slugs", zap.String("key", s.key), zap.Int("groups", len(groups)))
	if err := s.Save(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Save overwrites the stored collection with groups.
func (s *Groups) Save(ctx context.Context, groups []models.Group) error {
	return saveArray(ctx, s.backend, s.key, groups)
}

// normalizeGroup replaces absent collections with empty ones so records
// written by older clients behave like fresh ones.
func normalizeGroup(g *models.Group) {
	if g.Members == nil {
		g.Members = []models.GroupMember{}
	}
	if g.Posts == nil {
		g.Posts = []models.GroupPost{}
	}
	if g.Events == nil {
		g.Events = []models.GroupEvent{}
	}
	for i := range g.Posts {
		if g.Posts[i].Comments == nil {
			g.Posts[i].Comments = []models.GroupPostComment{}
		}
	}
}
