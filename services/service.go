// Package services implements the group, membership, post and comment
// operations. Every operation loads the whole group collection, changes
// one record and writes the whole collection back; that round trip is the
// transaction boundary.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
)

// GroupStore loads and saves the complete group collection.
type GroupStore interface {
	Load(ctx context.Context) ([]models.Group, error)
	Save(ctx context.Context, groups []models.Group) error
}

// Notifier receives notifications produced by group activity.
type Notifier interface {
	Notify(ctx context.Context, items []models.Notification) error
}

// UserDirectory resolves display names for denormalised author fields.
type UserDirectory interface {
	DisplayName(ctx context.Context, userID string) string
}

// DefaultDisplayName is used when a user cannot be resolved.
const DefaultDisplayName = "Usuario"

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, []models.Notification) error { return nil }

type anonymousDirectory struct{}

func (anonymousDirectory) DisplayName(context.Context, string) string { return DefaultDisplayName }

// Service runs the group operations against a GroupStore.
type Service struct {
	groups   GroupStore
	notifier Notifier
	users    UserDirectory
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	latency  time.Duration

	// serialises load-mutate-save so concurrent requests in this process
	// cannot overwrite each other's changes
	mu sync.Mutex
}

// Option customises a Service.
type Option func(*Service)

func WithNotifier(n Notifier) Option          { return func(s *Service) { s.notifier = n } }
func WithUserDirectory(d UserDirectory) Option { return func(s *Service) { s.users = d } }
func WithLogger(l *zap.Logger) Option          { return func(s *Service) { s.log = l } }
func WithClock(now func() time.Time) Option    { return func(s *Service) { s.now = now } }
func WithIDGenerator(f func() string) Option   { return func(s *Service) { s.newID = f } }

// WithLatency adds an artificial delay before each operation.
func WithLatency(d time.Duration) Option { return func(s *Service) { s.latency = d } }

// NewService creates a Service over groups.
func NewService(groups GroupStore, opts ...Option) *Service {
	s := &Service{
		groups:   groups,
		notifier: nopNotifier{},
		users:    anonymousDirectory{},
		log:      zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin waits out the artificial latency and takes the collection lock.
// The caller must call the returned unlock.
func (s *Service) begin(ctx context.Context) (func(), error) {
	if s.latency > 0 {
		t := time.NewTimer(s.latency)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, internalError(ctx.Err())
		case <-t.C:
		}
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

func (s *Service) load(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.Load(ctx)
	if err != nil {
		s.log.Error("load groups failed", zap.Error(err))
		return nil, internalError(err)
	}
	return groups, nil
}

func (s *Service) save(ctx context.Context, groups []models.Group) error {
	if err := s.groups.Save(ctx, groups); err != nil {
		s.log.Error("save groups failed", zap.Error(err))
		return internalError(err)
	}
	return nil
}

// notify hands notifications to the notifier. Delivery problems are
// logged and never fail the calling operation.
func (s *Service) notify(ctx context.Context, items ...models.Notification) {
	if len(items) == 0 {
		return
	}
	if err := s.notifier.Notify(ctx, items); err != nil {
		s.log.Warn("notification delivery failed", zap.Int("count", len(items)), zap.Error(err))
	}
}

func requireUser(userID string) error {
	if userID == "" {
		return newError(KindForbidden, MsgLoginRequired)
	}
	return nil
}

func findGroup(groups []models.Group, groupID string) (int, error) {
	for i := range groups {
		if groups[i].ID == groupID {
			return i, nil
		}
	}
	return -1, newError(KindNotFound, MsgGroupNotFound)
}

// admins returns the ids of members holding the admin role, plus the
// creator, excluding skip.
func admins(g *models.Group, skip string) []string {
	seen := map[string]bool{skip: true}
	var ids []string
	if !seen[g.CreatorID] && g.CreatorID != "" {
		seen[g.CreatorID] = true
		ids = append(ids, g.CreatorID)
	}
	for _, m := range g.Members {
		if m.Role == models.RoleAdmin && !seen[m.UserID] {
			seen[m.UserID] = true
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// memberIDs returns every member id except skip.
func memberIDs(g *models.Group, skip string) []string {
	ids := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if m.UserID != skip {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

func (s *Service) fanOut(recipients []string, n models.Notification) []models.Notification {
	out := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		item := n
		item.UserID = id
		item.CreatedAt = s.now()
		out = append(out, item)
	}
	return out
}
