package storage

import (
	"context"
	"time"

	"github.com/mmvit/garudar/internal/models"
)

// UserStorage defines interface for user data persistence.
// Implementations store PasswordHash as given; hashing is the caller's job.
type UserStorage interface {
	// CreateUser creates a new user and assigns user.ID
	// Returns ErrUserAlreadyExists if username is taken
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username (case-sensitive)
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// ListUsers returns all users ordered by ID
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUser updates username, password hash, role and active flag
	// Returns ErrUserNotFound if user doesn't exist
	// Returns ErrUserAlreadyExists if the new username is taken
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes user by ID
	// Returns ErrUserNotFound if user doesn't exist
	DeleteUser(ctx context.Context, userID int64) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID int64, lastLogin time.Time) error
}
