// Package entries implements watchlist search, maintenance and bulk import.
package entries

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

// ErrEmptyImport возвращается при пакетной загрузке пустого списка
var ErrEmptyImport = errors.New("no entries to import")

// ErrInvalidEntryType - тип записи вне набора Individual/Entity
var ErrInvalidEntryType = errors.New("invalid entry type")

// Коды типа записи в параметре entryType поискового запроса
const (
	TypeCodeIndividual = 1
	TypeCodeEntity     = 2
)

// TypeFromCode переводит числовой код в EntryType.
// ok == false для кодов вне набора.
func TypeFromCode(code int) (string, bool) {
	switch code {
	case TypeCodeIndividual:
		return models.EntryTypeIndividual, true
	case TypeCodeEntity:
		return models.EntryTypeEntity, true
	default:
		return "", false
	}
}

// Service работает с записями санкционного списка
type Service struct {
	logger *slog.Logger
	store  storage.EntryStorage
	now    func() time.Time
}

// NewService создает Service
func NewService(logger *slog.Logger, store storage.EntryStorage) *Service {
	return &Service{
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}

// Search returns entries matching search. A blank query yields an empty,
// non-nil slice without touching storage.
func (s *Service) Search(ctx context.Context, search models.EntrySearch) ([]*models.Entry, error) {
	search.Query = strings.TrimSpace(search.Query)
	if search.Query == "" {
		return []*models.Entry{}, nil
	}
	if search.EntryType == "" {
		search.EntryType = models.EntryTypeIndividual
	}
	if !validType(search.EntryType) {
		return []*models.Entry{}, nil
	}

	found, err := s.store.SearchEntries(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to search entries: %w", err)
	}
	if found == nil {
		found = []*models.Entry{}
	}
	return found, nil
}

// Get возвращает запись по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.Entry, error) {
	return s.store.GetEntry(ctx, id)
}

// List возвращает все записи
func (s *Service) List(ctx context.Context) ([]*models.Entry, error) {
	return s.store.ListEntries(ctx)
}

// Update overwrites the stored entry with every non-empty field of patch.
// ID и LoadDate не меняются.
func (s *Service) Update(ctx context.Context, id int64, patch *models.Entry) (*models.Entry, error) {
	entry, err := s.store.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.EntryType != "" && !validType(patch.EntryType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEntryType, patch.EntryType)
	}

	merge(&entry.SourceList, patch.SourceList)
	merge(&entry.EntryType, patch.EntryType)
	merge(&entry.FullName, patch.FullName)
	merge(&entry.Name1, patch.Name1)
	merge(&entry.Name2, patch.Name2)
	merge(&entry.Name3, patch.Name3)
	merge(&entry.Name4, patch.Name4)
	merge(&entry.Title, patch.Title)
	merge(&entry.JobTitle, patch.JobTitle)
	merge(&entry.DOB, patch.DOB)
	merge(&entry.POB, patch.POB)
	merge(&entry.Alias, patch.Alias)
	merge(&entry.Nationality, patch.Nationality)
	merge(&entry.PassportNo, patch.PassportNo)
	merge(&entry.IdentityNo, patch.IdentityNo)
	merge(&entry.Address, patch.Address)
	merge(&entry.AdditionalInfo, patch.AdditionalInfo)

	if err := s.store.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete удаляет запись по ID
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteEntry(ctx, id)
}

// Import stores a batch of entries in one transaction. Every entry gets
// the same LoadDate (UTC, truncated to the day); missing types default to Individual.
func (s *Service) Import(ctx context.Context, batch []*models.Entry) (int, error) {
	if len(batch) == 0 {
		return 0, ErrEmptyImport
	}

	loadDate := s.now().UTC().Truncate(24 * time.Hour)
	for i, e := range batch {
		if e.EntryType == "" {
			e.EntryType = models.EntryTypeIndividual
		}
		if !validType(e.EntryType) {
			return 0, fmt.Errorf("entry %d: %w: %q", i, ErrInvalidEntryType, e.EntryType)
		}
		e.ID = 0
		e.LoadDate = loadDate
	}

	if err := s.store.CreateEntries(ctx, batch); err != nil {
		return 0, fmt.Errorf("failed to import entries: %w", err)
	}

	s.logger.InfoContext(ctx, "entries imported",
		slog.Int("count", len(batch)),
		slog.Time("load_date", loadDate))

	return len(batch), nil
}

func validType(t string) bool {
	return t == models.EntryTypeIndividual || t == models.EntryTypeEntity
}

func merge(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
