package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmvit/garudar/internal/server/storage"
)

var _ storage.Storage = (*Storage)(nil)

// setupTestStorage создает in-memory хранилище с примененными миграциями
func setupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()

	s, err := New(context.Background(), ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func timePtr(t time.Time) *time.Time {
	return &t
}
