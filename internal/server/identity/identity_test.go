package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmvit/garudar/internal/models"
)

func TestFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	want := FromUser(&models.User{ID: 7, Username: "alice", Role: models.RoleUser})
	ctx := WithIdentity(context.Background(), want)

	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.False(t, got.IsAdmin())
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Identity{Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, Identity{Role: models.RoleUser}.IsAdmin())
	assert.False(t, Identity{}.IsAdmin())
}
