package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
)

// NotificationStore loads and saves the complete notification collection.
type NotificationStore interface {
	Load(ctx context.Context) ([]models.Notification, error)
	Save(ctx context.Context, items []models.Notification) error
}

// NotificationService keeps per-user notifications. It implements Notifier.
type NotificationService struct {
	store NotificationStore
	log   *zap.Logger
	now   func() time.Time
	newID func() string
	mu    sync.Mutex
}

func NewNotificationService(store NotificationStore, log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{store: store, log: log, now: time.Now, newID: uuid.NewString}
}

func (n *NotificationService) load(ctx context.Context) ([]models.Notification, error) {
	items, err := n.store.Load(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return items, nil
}

func (n *NotificationService) save(ctx context.Context, items []models.Notification) error {
	if err := n.store.Save(ctx, items); err != nil {
		return internalError(err)
	}
	return nil
}

// Notify stores items, filling in ids and timestamps that are missing.
func (n *NotificationService) Notify(ctx context.Context, items []models.Notification) error {
	if len(items) == 0 {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	all, err := n.load(ctx)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.UserID == "" {
			continue
		}
		if it.ID == "" {
			it.ID = n.newID()
		}
		if it.CreatedAt.IsZero() {
			it.CreatedAt = n.now()
		}
		it.Read = false
		all = append(all, it)
	}
	if err := n.save(ctx, all); err != nil {
		return err
	}
	n.log.Debug("notifications stored", zap.Int("count", len(items)))
	return nil
}

// List returns userID's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	all, err := n.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Notification, 0)
	for _, it := range all {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, nil
}

// UnreadCount counts userID's unread notifications.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	items, err := n.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, it := range items {
		if !it.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead flags one of userID's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) (models.Notification, error) {
	if err := requireUser(userID); err != nil {
		return models.Notification{}, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	all, err := n.load(ctx)
	if err != nil {
		return models.Notification{}, err
	}
	for i := range all {
		if all[i].ID != id || all[i].UserID != userID {
			continue
		}
		if !all[i].Read {
			all[i].Read = true
			if err := n.save(ctx, all); err != nil {
				return models.Notification{}, err
			}
		}
		return all[i], nil
	}
	return models.Notification{}, newError(KindNotFound, MsgNotificationMissing)
}

// MarkAllRead flags every notification of userID as read and returns how
// many changed.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if err := requireUser(userID); err != nil {
		return 0, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()

	all, err := n.load(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range all {
		if all[i].UserID == userID && !all[i].Read {
			all[i].Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if err := n.save(ctx, all); err != nil {
		return 0, err
	}
	return changed, nil
}
