package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/identity"
	"github.com/mmvit/garudar/internal/server/respond"
	"github.com/mmvit/garudar/internal/server/storage"
	"github.com/mmvit/garudar/internal/server/users"
	"github.com/mmvit/garudar/pkg/api"
)

// UserService - операции над пользователями, нужные handler'у
type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, params users.CreateParams) (*models.User, error)
	Update(ctx context.Context, actor identity.Identity, targetID int64, params users.UpdateParams) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// UsersHandler обрабатывает запросы /api/v1/users
type UsersHandler struct {
	logger  *slog.Logger
	service UserService
}

// NewUsersHandler создает новый handler для пользователей
func NewUsersHandler(logger *slog.Logger, service UserService) *UsersHandler {
	return &UsersHandler{
		logger:  logger,
		service: service,
	}
}

// List обрабатывает GET /api/v1/users
// Администратор без параметров получает всех пользователей;
// с параметром username любой пользователь получает только {id, username}.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, _ := identity.FromContext(ctx)

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		if !caller.IsAdmin() {
			respond.Error(w, h.logger, "username is required", http.StatusBadRequest)
			return
		}

		list, err := h.service.List(ctx)
		if err != nil {
			h.internalError(w, r, "failed to list users", err)
			return
		}

		resp := make([]api.UserResponse, 0, len(list))
		for _, u := range list {
			resp = append(resp, toUserResponse(u))
		}
		respond.JSON(w, h.logger, resp, http.StatusOK)
		return
	}

	user, err := h.service.GetByUsername(ctx, username)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	respond.JSON(w, h.logger, api.UserSummary{ID: user.ID, Username: user.Username}, http.StatusOK)
}

// Create обрабатывает POST /api/v1/users
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create user request", slog.Any("error", err))
		respond.Error(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Create(ctx, users.CreateParams{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	respond.JSON(w, h.logger, toUserResponse(user), http.StatusCreated)
}

// Me обрабатывает GET /api/v1/users/me
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.FromContext(r.Context())
	h.get(w, r, caller.UserID)
}

// Get обрабатывает GET /api/v1/users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.get(w, r, id)
}

// UpdateMe обрабатывает PUT /api/v1/users/me
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.FromContext(r.Context())
	h.update(w, r, caller.UserID)
}

// Update обрабатывает PUT /api/v1/users/{id}
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.update(w, r, id)
}

// DeleteMe обрабатывает DELETE /api/v1/users/me
func (h *UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	caller, _ := identity.FromContext(r.Context())
	h.delete(w, r, caller.UserID)
}

// Delete обрабатывает DELETE /api/v1/users/{id}
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	h.delete(w, r, id)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	respond.JSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request, id int64) {
	ctx := r.Context()
	caller, _ := identity.FromContext(ctx)

	var req api.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode update user request", slog.Any("error", err))
		respond.Error(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Update(ctx, caller, id, users.UpdateParams{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	respond.JSON(w, h.logger, toUserResponse(user), http.StatusOK)
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.storageError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID разбирает {id}; на ошибке отвечает 400
func (h *UsersHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, h.logger, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// storageError переводит ошибки сервиса в HTTP статусы
func (h *UsersHandler) storageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrUserNotFound):
		respond.Error(w, h.logger, "user not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrUserAlreadyExists):
		h.logger.WarnContext(r.Context(), "username already taken", slog.Any("error", err))
		respond.Error(w, h.logger, "username already taken", http.StatusConflict)
	case errors.Is(err, users.ErrInvalidInput):
		respond.Error(w, h.logger, err.Error(), http.StatusBadRequest)
	default:
		h.internalError(w, r, "user operation failed", err)
	}
}

func (h *UsersHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	respond.Error(w, h.logger, "internal server error", http.StatusInternalServerError)
}

func toUserResponse(u *models.User) api.UserResponse {
	return api.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		LastLogin: u.LastLogin,
	}
}
