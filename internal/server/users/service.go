// Package users implements account management on top of UserStorage:
// listing, creation, self and admin updates, deletion and admin bootstrap.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmvit/garudar/internal/crypto"
	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/identity"
	"github.com/mmvit/garudar/internal/server/storage"
	"github.com/mmvit/garudar/internal/validation"
)

// ErrInvalidInput оборачивает ошибки валидации входных данных
var ErrInvalidInput = errors.New("invalid input")

// CreateParams - данные нового пользователя
type CreateParams struct {
	Active   *bool  // nil означает true
	Username string
	Password string
	Role     string // пусто означает USER
}

// UpdateParams - частичное обновление; nil поля не меняются
type UpdateParams struct {
	Username *string
	Password *string
	Role     *string
	Active   *bool
}

// Service управляет пользователями
type Service struct {
	logger *slog.Logger
	store  storage.UserStorage
}

// NewService создает Service
func NewService(logger *slog.Logger, store storage.UserStorage) *Service {
	return &Service{
		logger: logger,
		store:  store,
	}
}

// List возвращает всех пользователей
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// GetByID возвращает пользователя по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// GetByUsername возвращает пользователя по username (пробелы по краям отбрасываются)
func (s *Service) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
}

// Create validates params and stores a new user with a hashed password.
// Returns storage.ErrUserAlreadyExists if the username is taken.
func (s *Service) Create(ctx context.Context, params CreateParams) (*models.User, error) {
	if err := validation.ValidateUsername(params.Username); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := validation.ValidatePassword(params.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	role, ok := models.ParseRole(params.Role)
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, validation.ValidateRole(role))
	}

	active := true
	if params.Active != nil {
		active = *params.Active
	}

	// Пароль из запроса всегда сырой, даже если похож на bcrypt хеш
	hash, err := crypto.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	user := &models.User{
		Username:     params.Username,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
	}

	if err := s.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID),
		slog.String("role", string(user.Role)))

	return user, nil
}

// Update applies params to the target user on behalf of actor.
// Администратор может менять username, роль, активность и пароль;
// владелец записи - только пароль, остальные поля игнорируются.
func (s *Service) Update(ctx context.Context, actor identity.Identity, targetID int64, params UpdateParams) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if params.Password != nil {
		if err := validation.ValidatePassword(*params.Password); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		hash, err := crypto.HashPassword(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		user.PasswordHash = hash
	}

	if actor.IsAdmin() {
		if params.Username != nil {
			if err := validation.ValidateUsername(*params.Username); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			user.Username = *params.Username
		}
		if params.Role != nil {
			role := models.Role(*params.Role)
			if err := validation.ValidateRole(role); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			user.Role = role
		}
		if params.Active != nil {
			user.Active = *params.Active
		}
	} else if actor.UserID != targetID {
		// authz.Gate не пропускает такой запрос, проверка на случай прямого вызова
		return nil, fmt.Errorf("user %d cannot modify user %d", actor.UserID, targetID)
	}

	if err := s.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.Int64("user_id", user.ID),
		slog.String("by", actor.Username))

	return user, nil
}

// Delete удаляет пользователя по ID
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", slog.Int64("user_id", id))
	return nil
}

// SaveUser is the single write path for users: a raw password in
// PasswordHash is hashed, an existing bcrypt hash is kept as is.
// Create and Update hash request passwords themselves, so a raw password
// that happens to start with a bcrypt prefix never reaches this check.
// Пользователь с ID == 0 создается, иначе обновляется.
func (s *Service) SaveUser(ctx context.Context, user *models.User) error {
	hash, err := crypto.EnsureHashed(user.PasswordHash)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	user.PasswordHash = hash

	if user.ID == 0 {
		return s.store.CreateUser(ctx, user)
	}
	return s.store.UpdateUser(ctx, user)
}

// RecordLogin обновляет время последнего входа
func (s *Service) RecordLogin(ctx context.Context, id int64, at time.Time) error {
	return s.store.UpdateLastLogin(ctx, id, at)
}

// EnsureAdmin creates an active ADMIN with the given credentials unless
// a user with that username already exists. Existing users are left untouched.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.store.GetUserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return false, fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	if _, err := s.Create(ctx, CreateParams{
		Username: username,
		Password: password,
		Role:     string(models.RoleAdmin),
	}); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	return true, nil
}
