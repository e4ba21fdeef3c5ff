package storage

import (
	"context"
	"time"
)

// SessionStorage defines interface for keeping the CLI login session on disk
type SessionStorage interface {
	// SaveSession stores the session, replacing any previous one
	SaveSession(ctx context.Context, session *Session) error

	// GetSession retrieves the stored session
	// Returns ErrSessionNotFound if nobody is logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the stored session (logout)
	// Returns ErrSessionNotFound if nobody is logged in
	DeleteSession(ctx context.Context) error
}

// Session - результат успешного входа, сохраненный локально.
// Токен хранится как есть: файл БД создается с правами 0600.
type Session struct {
	Username  string `json:"username"`
	Token     string `json:"token"`
	ServerURL string `json:"server_url"`
	ExpiresAt int64  `json:"expires_at"` // unix seconds
}

// Expired сообщает, истек ли токен к моменту now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(time.Unix(s.ExpiresAt, 0))
}

// Remaining возвращает оставшееся время жизни токена (не меньше нуля)
func (s *Session) Remaining(now time.Time) time.Duration {
	d := time.Unix(s.ExpiresAt, 0).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
