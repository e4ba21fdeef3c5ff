// Package identity carries the authenticated caller through a request context.
package identity

import (
	"context"

	"github.com/mmvit/garudar/internal/models"
)

// Identity - кто выполняет запрос. Живет только в контексте запроса.
type Identity struct {
	Username string
	Role     models.Role
	UserID   int64
}

// FromUser builds an Identity from a stored user
func FromUser(u *models.User) Identity {
	return Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// IsAdmin сообщает, есть ли у identity роль ADMIN
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request identity; ok is false for anonymous requests
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
