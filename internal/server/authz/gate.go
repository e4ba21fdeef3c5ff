package authz

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmvit/garudar/internal/server/identity"
	"github.com/mmvit/garudar/internal/server/respond"
)

// OwnerParam - имя path-параметра с id владельца для SelfOrAdmin
const OwnerParam = "id"

// DecisionRecorder учитывает принятые решения (реализуется metrics.Metrics)
type DecisionRecorder interface {
	AuthzDecision(rule, decision string)
}

// Gate wraps next so that rule is enforced before next runs.
// Маршрут должен быть зарегистрирован в ServeMux, чтобы PathValue был доступен.
func Gate(logger *slog.Logger, recorder DecisionRecorder, rule Rule, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var id *identity.Identity
		if resolved, ok := identity.FromContext(ctx); ok {
			id = &resolved
		}

		var ownerID int64
		if rule == SelfOrAdmin && IsAuthenticated(id) {
			parsed, err := strconv.ParseInt(r.PathValue(OwnerParam), 10, 64)
			if err != nil {
				respond.Error(w, logger, "invalid id", http.StatusBadRequest)
				return
			}
			ownerID = parsed
		}

		decision := Decide(id, rule, ownerID)
		if recorder != nil {
			recorder.AuthzDecision(rule.String(), decision.String())
		}

		switch decision {
		case Allow:
			next.ServeHTTP(w, r)
		case Unauthenticated:
			w.Header().Set("WWW-Authenticate", `Bearer realm="garudar"`)
			respond.Error(w, logger, "authentication required", http.StatusUnauthorized)
		default:
			logger.WarnContext(ctx, "access denied",
				slog.String("username", id.Username),
				slog.String("rule", rule.String()),
				slog.String("method", r.Method),
				slog.String("route", r.Pattern))
			respond.Error(w, logger, "access denied", decision.Status())
		}
	})
}
