package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Expired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name          string
		expiresAt     int64
		wantExpired   bool
		wantRemaining time.Duration
	}{
		{name: "in the future", expiresAt: now.Unix() + 90, wantRemaining: 90 * time.Second},
		{name: "exactly now", expiresAt: now.Unix(), wantExpired: true},
		{name: "in the past", expiresAt: now.Unix() - 1, wantExpired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.wantExpired, s.Expired(now))
			assert.Equal(t, tt.wantRemaining, s.Remaining(now))
		})
	}
}
