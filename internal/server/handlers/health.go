package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmvit/garudar/internal/server/respond"
	"github.com/mmvit/garudar/pkg/api"
)

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// healthPingTimeout ограничивает проверку хранилища
const healthPingTimeout = 2 * time.Second

// HealthHandler обрабатывает health check запросы
type HealthHandler struct {
	logger  *slog.Logger
	db      Pinger
	version string
}

// NewHealthHandler создает новый handler для health check
func NewHealthHandler(logger *slog.Logger, db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		db:      db,
		version: version,
	}
}

// Health обрабатывает GET /api/v1/health
// Health check endpoint для мониторинга
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	resp := api.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}

	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "storage ping failed", slog.Any("error", err))
		resp.Status = "degraded"
		respond.JSON(w, h.logger, resp, http.StatusServiceUnavailable)
		return
	}

	respond.JSON(w, h.logger, resp, http.StatusOK)
}
