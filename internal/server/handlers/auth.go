package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/auth"
	"github.com/mmvit/garudar/internal/server/metrics"
	"github.com/mmvit/garudar/internal/server/respond"
	"github.com/mmvit/garudar/pkg/api"
)

// CredentialVerifier проверяет пару username/password
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (*models.User, error)
}

// TokenIssuer выпускает подписанные токены доступа
type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

// LoginRecorder фиксирует время последнего входа
type LoginRecorder interface {
	RecordLogin(ctx context.Context, id int64, at time.Time) error
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	verifier CredentialVerifier
	issuer   TokenIssuer
	logins   LoginRecorder
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, verifier CredentialVerifier, issuer TokenIssuer, logins LoginRecorder, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		verifier: verifier,
		issuer:   issuer,
		logins:   logins,
		metrics:  m,
		now:      time.Now,
	}
}

// Login обрабатывает POST /api/v1/auth/login
// Проверяет учетные данные и выдает JWT
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		respond.Error(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, h.logger, "username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.verifier.Verify(ctx, username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthFailed) {
			// причина отказа только в логе, клиенту - общий ответ
			h.logger.WarnContext(ctx, "login failed",
				slog.String("username", username),
				slog.Any("error", err))
			h.metrics.LoginAttempt(metrics.LoginFailure)
			respond.Error(w, h.logger, "invalid credentials", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to verify credentials", slog.Any("error", err))
		h.metrics.LoginAttempt(metrics.LoginError)
		respond.Error(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.issuer.Issue(user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue access token", slog.Any("error", err))
		h.metrics.LoginAttempt(metrics.LoginError)
		respond.Error(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	now := h.now()
	if err := h.logins.RecordLogin(ctx, user.ID, now.UTC()); err != nil {
		// Не критичная ошибка, логируем но не прерываем
		h.logger.WarnContext(ctx, "failed to update last login", slog.Any("error", err))
	}

	h.metrics.LoginAttempt(metrics.LoginSuccess)
	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	respond.JSON(w, h.logger, api.TokenResponse{
		Token:     token,
		TokenType: api.TokenTypeBearer,
		ExpiresIn: int64(expiresAt.Sub(now).Round(time.Second) / time.Second),
	}, http.StatusOK)
}
