// Package auth checks a username and password against stored credentials.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmvit/garudar/internal/crypto"
	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

// ErrAuthFailed is the single failure callers surface for any rejected login
var ErrAuthFailed = errors.New("authentication failed")

// UserFinder - часть UserStorage, нужная для проверки учетных данных
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Verifier проверяет учетные данные пользователя
type Verifier struct {
	logger *slog.Logger
	users  UserFinder
}

// NewVerifier создает Verifier
func NewVerifier(logger *slog.Logger, users UserFinder) *Verifier {
	return &Verifier{
		logger: logger,
		users:  users,
	}
}

// Verify returns the user when the password matches an active account.
// Every rejection wraps ErrAuthFailed; an unknown username additionally
// wraps storage.ErrUserNotFound.
func (v *Verifier) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := v.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// выравниваем время ответа с веткой существующего пользователя
			crypto.BurnCompare(password)
			v.logger.WarnContext(ctx, "login rejected: unknown user", slog.String("username", username))
			return nil, fmt.Errorf("%w: %w", ErrAuthFailed, storage.ErrUserNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.Active {
		crypto.BurnCompare(password)
		v.logger.WarnContext(ctx, "login rejected: account disabled", slog.String("username", username))
		return nil, fmt.Errorf("%w: account disabled", ErrAuthFailed)
	}

	if err := crypto.VerifyPassword(user.PasswordHash, password); err != nil {
		v.logger.WarnContext(ctx, "login rejected: bad password",
			slog.String("username", username),
			slog.Any("error", err))
		return nil, ErrAuthFailed
	}

	return user, nil
}
