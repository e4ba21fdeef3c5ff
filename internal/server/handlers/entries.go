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
	"github.com/mmvit/garudar/internal/server/entries"
	"github.com/mmvit/garudar/internal/server/respond"
	"github.com/mmvit/garudar/internal/server/storage"
	"github.com/mmvit/garudar/pkg/api"
)

// EntryService - операции над записями, нужные handler'у
type EntryService interface {
	Search(ctx context.Context, search models.EntrySearch) ([]*models.Entry, error)
	Get(ctx context.Context, id int64) (*models.Entry, error)
	List(ctx context.Context) ([]*models.Entry, error)
	Update(ctx context.Context, id int64, patch *models.Entry) (*models.Entry, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, batch []*models.Entry) (int, error)
}

// EntriesHandler обрабатывает запросы /api/v1/entries
type EntriesHandler struct {
	logger  *slog.Logger
	service EntryService
}

// NewEntriesHandler создает новый handler для записей
func NewEntriesHandler(logger *slog.Logger, service EntryService) *EntriesHandler {
	return &EntriesHandler{
		logger:  logger,
		service: service,
	}
}

// Search обрабатывает GET /api/v1/entries/search?query=&entryType=&allSearch=
func (h *EntriesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	code := api.EntryTypeParamIndividual
	if v := q.Get("entryType"); v != "" {
		code = v
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		respond.Error(w, h.logger, "entryType must be a number", http.StatusBadRequest)
		return
	}

	// неизвестный код типа - пустой результат, а не ошибка
	entryType, ok := entries.TypeFromCode(n)
	if !ok {
		respond.JSON(w, h.logger, []api.Entry{}, http.StatusOK)
		return
	}

	search := models.EntrySearch{
		Query:     q.Get("query"),
		EntryType: entryType,
		Scope:     models.SearchNames,
	}
	if q.Get("allSearch") == "1" {
		search.Scope = models.SearchAllFields
	}

	found, err := h.service.Search(r.Context(), search)
	if err != nil {
		h.internalError(w, r, "failed to search entries", err)
		return
	}

	respond.JSON(w, h.logger, toEntryList(found), http.StatusOK)
}

// List обрабатывает GET /api/v1/entries/all
func (h *EntriesHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.internalError(w, r, "failed to list entries", err)
		return
	}
	respond.JSON(w, h.logger, toEntryList(list), http.StatusOK)
}

// Get обрабатывает GET /api/v1/entries/{id}
func (h *EntriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respond.JSON(w, h.logger, toEntryDTO(entry), http.StatusOK)
}

// Update обрабатывает PUT /api/v1/entries/{id}
// Непустые поля запроса перезаписывают сохраненные.
func (h *EntriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req api.Entry
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode entry", slog.Any("error", err))
		respond.Error(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Update(ctx, id, fromEntryDTO(req))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	respond.JSON(w, h.logger, toEntryDTO(entry), http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/entries/{id}
func (h *EntriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bulk обрабатывает POST /api/v1/entries/bulk
func (h *EntriesHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.BulkEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode bulk request", slog.Any("error", err))
		respond.Error(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	batch := make([]*models.Entry, 0, len(req.Entries))
	for _, dto := range req.Entries {
		batch = append(batch, fromEntryDTO(dto))
	}

	if _, err := h.service.Import(ctx, batch); err != nil {
		h.serviceError(w, r, err)
		return
	}

	respond.JSON(w, h.logger, toEntryList(batch), http.StatusOK)
}

func (h *EntriesHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, h.logger, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *EntriesHandler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrEntryNotFound):
		respond.Error(w, h.logger, "entry not found", http.StatusNotFound)
	case errors.Is(err, entries.ErrEmptyImport), errors.Is(err, entries.ErrInvalidEntryType):
		respond.Error(w, h.logger, err.Error(), http.StatusBadRequest)
	default:
		h.internalError(w, r, "entry operation failed", err)
	}
}

func (h *EntriesHandler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	respond.Error(w, h.logger, "internal server error", http.StatusInternalServerError)
}

func toEntryList(list []*models.Entry) []api.Entry {
	resp := make([]api.Entry, 0, len(list))
	for _, e := range list {
		resp = append(resp, toEntryDTO(e))
	}
	return resp
}

func toEntryDTO(e *models.Entry) api.Entry {
	return api.Entry{
		ID:             e.ID,
		LoadDate:       e.LoadDate,
		SourceList:     e.SourceList,
		EntryType:      e.EntryType,
		FullName:       e.FullName,
		Name1:          e.Name1,
		Name2:          e.Name2,
		Name3:          e.Name3,
		Name4:          e.Name4,
		Title:          e.Title,
		JobTitle:       e.JobTitle,
		DOB:            e.DOB,
		POB:            e.POB,
		Alias:          e.Alias,
		Nationality:    e.Nationality,
		PassportNo:     e.PassportNo,
		IdentityNo:     e.IdentityNo,
		Address:        e.Address,
		AdditionalInfo: e.AdditionalInfo,
	}
}

// fromEntryDTO не переносит ID и LoadDate: их назначает сервер
func fromEntryDTO(d api.Entry) *models.Entry {
	return &models.Entry{
		SourceList:     strings.TrimSpace(d.SourceList),
		EntryType:      strings.TrimSpace(d.EntryType),
		FullName:       d.FullName,
		Name1:          d.Name1,
		Name2:          d.Name2,
		Name3:          d.Name3,
		Name4:          d.Name4,
		Title:          d.Title,
		JobTitle:       d.JobTitle,
		DOB:            d.DOB,
		POB:            d.POB,
		Alias:          d.Alias,
		Nationality:    d.Nationality,
		PassportNo:     d.PassportNo,
		IdentityNo:     d.IdentityNo,
		Address:        d.Address,
		AdditionalInfo: d.AdditionalInfo,
	}
}
