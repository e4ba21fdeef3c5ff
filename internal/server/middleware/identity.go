package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/identity"
	"github.com/mmvit/garudar/internal/server/jwt"
	"github.com/mmvit/garudar/internal/server/respond"
	"github.com/mmvit/garudar/internal/server/storage"
)

// TokenValidator проверяет bearer токен и возвращает username (subject)
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserLookup - часть UserStorage, нужная для разрешения identity
type UserLookup interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// TokenRejectionRecorder учитывает отклоненные токены (реализуется metrics.Metrics)
type TokenRejectionRecorder interface {
	TokenRejected(reason string)
}

// IdentityMiddleware resolves the caller once per request.
//
// Без заголовка Authorization запрос идет дальше анонимно. Заголовок не в формате
// "Bearer <token>" сразу дает 401. Невалидный токен, неизвестный или заблокированный
// пользователь дают анонимный запрос: решение 401/403 принимает authz.Gate.
func IdentityMiddleware(logger *slog.Logger, validator TokenValidator, users UserLookup, recorder TokenRejectionRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := parseBearer(authHeader)
			if !ok {
				logger.WarnContext(ctx, "invalid Authorization header format")
				w.Header().Set("WWW-Authenticate", `Bearer realm="garudar", error="invalid_request"`)
				respond.Error(w, logger, "invalid authorization header", http.StatusUnauthorized)
				return
			}

			username, err := validator.Validate(token)
			if err != nil {
				reason := rejectionReason(err)
				logger.WarnContext(ctx, "bearer token rejected",
					slog.String("reason", reason),
					slog.Any("error", err))
				if recorder != nil {
					recorder.TokenRejected(reason)
				}
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByUsername(ctx, username)
			if err != nil {
				if errors.Is(err, storage.ErrUserNotFound) {
					logger.WarnContext(ctx, "token subject not found", slog.String("username", username))
					next.ServeHTTP(w, r)
					return
				}
				logger.ErrorContext(ctx, "failed to resolve token subject", slog.Any("error", err))
				respond.Error(w, logger, "internal server error", http.StatusInternalServerError)
				return
			}

			if !user.Active {
				logger.WarnContext(ctx, "token subject is disabled", slog.String("username", username))
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(ctx, "identity resolved",
				slog.String("username", user.Username),
				slog.Int64("user_id", user.ID))

			ctx = identity.WithIdentity(ctx, identity.FromUser(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseBearer извлекает токен из "Bearer <token>". Схема без учета регистра.
func parseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}

	return token, true
}

// rejectionReason - метка причины отказа для логов и метрик
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return "expired"
	case errors.Is(err, jwt.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, jwt.ErrMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
