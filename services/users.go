package services

import (
	"context"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/models"
	"github.com/vivemedellin/vivemedellin/utils"
)

const minPasswordLength = 6

// UserStore loads and saves the complete account collection.
type UserStore interface {
	Load(ctx context.Context) ([]models.User, error)
	Save(ctx context.Context, users []models.User) error
}

// RegisterRequest holds the sign-up form.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserService manages accounts. It implements UserDirectory.
type UserService struct {
	store UserStore
	log   *zap.Logger
	now   func() time.Time
	newID func() string
	mu    sync.Mutex
}

func NewUserService(store UserStore, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{store: store, log: log, now: time.Now, newID: uuid.NewString}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a bcrypt-hashed password.
func (u *UserService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	email := normalizeEmail(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return models.User{}, newError(KindValidation, MsgInvalidEmail)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.User{}, newError(KindValidation, MsgNameRequired)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return models.User{}, newError(KindValidation, MsgPasswordTooShort)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.store.Load(ctx)
	if err != nil {
		return models.User{}, internalError(err)
	}
	for _, existing := range users {
		if existing.Email == email {
			return models.User{}, newError(KindConflict, MsgEmailTaken)
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return models.User{}, internalError(err)
	}
	user := models.User{
		ID:           u.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    u.now(),
	}
	users = append(users, user)
	if err := u.store.Save(ctx, users); err != nil {
		return models.User{}, internalError(err)
	}
	u.log.Info("user registered", zap.String("user", user.ID))
	return user, nil
}

// Authenticate returns the account matching email and password.
func (u *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = normalizeEmail(email)
	users, err := u.loadLocked(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.Email == email && utils.CheckPassword(user.PasswordHash, password) {
			return user, nil
		}
	}
	return models.User{}, newError(KindForbidden, MsgBadCredentials)
}

// GetUser returns the account with id.
func (u *UserService) GetUser(ctx context.Context, id string) (models.User, error) {
	users, err := u.loadLocked(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, newError(KindNotFound, MsgUserNotFound)
}

// DisplayName resolves a user's name, falling back to DefaultDisplayName.
func (u *UserService) DisplayName(ctx context.Context, userID string) string {
	user, err := u.GetUser(ctx, userID)
	if err != nil || user.Name == "" {
		return DefaultDisplayName
	}
	return user.Name
}

func (u *UserService) loadLocked(ctx context.Context) ([]models.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	users, err := u.store.Load(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return users, nil
}
