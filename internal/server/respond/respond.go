// Package respond writes JSON responses in the API's common shape.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mmvit/garudar/pkg/api"
)

// JSON отправляет data с заданным статусом
func JSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// Error отправляет api.ErrorResponse: error - текст статуса, message - детали
func Error(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	JSON(w, logger, api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
