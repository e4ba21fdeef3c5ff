package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/auth"
	"github.com/mmvit/garudar/internal/server/metrics"
	"github.com/mmvit/garudar/internal/server/storage"
	"github.com/mmvit/garudar/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockVerifier принимает только пары из creds
type mockVerifier struct {
	creds map[string]string
	users map[string]*models.User
	err   error
}

func (m *mockVerifier) Verify(_ context.Context, username, password string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	want, ok := m.creds[username]
	if !ok {
		return nil, fmt.Errorf("%w: %w", auth.ErrAuthFailed, storage.ErrUserNotFound)
	}
	if want != password {
		return nil, auth.ErrAuthFailed
	}
	return m.users[username], nil
}

type mockIssuer struct {
	err       error
	expiresAt time.Time
}

func (m *mockIssuer) Issue(user *models.User) (string, time.Time, error) {
	if m.err != nil {
		return "", time.Time{}, m.err
	}
	return "token-for-" + user.Username, m.expiresAt, nil
}

type mockLoginRecorder struct {
	err   error
	calls []int64
}

func (m *mockLoginRecorder) RecordLogin(_ context.Context, id int64, _ time.Time) error {
	m.calls = append(m.calls, id)
	return m.err
}

func doLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Login(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	alice := &models.User{ID: 7, Username: "alice", Role: models.RoleUser, Active: true}

	tests := []struct {
		verifierErr error
		issuerErr   error
		recordErr   error
		name        string
		body        string
		wantMessage string
		wantStatus  int
		wantOutcome string
	}{
		{
			name:        "success",
			body:        `{"username":"alice","password":"wonderland"}`,
			wantStatus:  http.StatusOK,
			wantOutcome: metrics.LoginSuccess,
		},
		{
			name:        "last login failure is not fatal",
			body:        `{"username":"alice","password":"wonderland"}`,
			recordErr:   errors.New("db is read-only"),
			wantStatus:  http.StatusOK,
			wantOutcome: metrics.LoginSuccess,
		},
		{
			name:        "wrong password",
			body:        `{"username":"alice","password":"nope-nope"}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid credentials",
			wantOutcome: metrics.LoginFailure,
		},
		{
			name:        "unknown user looks the same",
			body:        `{"username":"mallory","password":"wonderland"}`,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid credentials",
			wantOutcome: metrics.LoginFailure,
		},
		{
			name:        "storage failure",
			body:        `{"username":"alice","password":"wonderland"}`,
			verifierErr: errors.New("connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantOutcome: metrics.LoginError,
		},
		{
			name:        "issuer failure",
			body:        `{"username":"alice","password":"wonderland"}`,
			issuerErr:   errors.New("clock skew"),
			wantStatus:  http.StatusInternalServerError,
			wantOutcome: metrics.LoginError,
		},
		{
			name:        "invalid json",
			body:        `{"username":`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
		{
			name:        "missing password",
			body:        `{"username":"alice"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "username and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New("test")
			verifier := &mockVerifier{
				creds: map[string]string{"alice": "wonderland"},
				users: map[string]*models.User{"alice": alice},
				err:   tt.verifierErr,
			}
			issuer := &mockIssuer{err: tt.issuerErr, expiresAt: now.Add(15 * time.Minute)}
			recorder := &mockLoginRecorder{err: tt.recordErr}

			h := NewAuthHandler(setupTestLogger(), verifier, issuer, recorder, m)
			h.now = func() time.Time { return now }

			w := doLogin(t, h, tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			if tt.wantStatus == http.StatusOK {
				var resp api.TokenResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, "token-for-alice", resp.Token)
				assert.Equal(t, api.TokenTypeBearer, resp.TokenType)
				assert.Equal(t, int64(900), resp.ExpiresIn)
				assert.Equal(t, []int64{7}, recorder.calls)
			} else {
				var resp api.ErrorResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, http.StatusText(tt.wantStatus), resp.Error)
				if tt.wantMessage != "" {
					assert.Equal(t, tt.wantMessage, resp.Message)
				}
				assert.Empty(t, recorder.calls)
			}

			count, err := testutil.GatherAndCount(m.Registry(), "test_login_attempts_total")
			require.NoError(t, err)
			if tt.wantOutcome != "" {
				assert.Equal(t, 1, count)
			} else {
				assert.Zero(t, count)
			}
		})
	}
}
