package storage

import (
	"context"

	"github.com/mmvit/garudar/internal/models"
)

// EntryStorage defines interface for watchlist entry persistence
type EntryStorage interface {
	// CreateEntries inserts entries in a single transaction and assigns IDs
	CreateEntries(ctx context.Context, entries []*models.Entry) error

	// GetEntry retrieves a single entry by ID
	// Returns ErrEntryNotFound if entry doesn't exist
	GetEntry(ctx context.Context, id int64) (*models.Entry, error)

	// ListEntries returns all entries ordered by ID
	ListEntries(ctx context.Context) ([]*models.Entry, error)

	// SearchEntries returns entries of the given type where any field in the
	// search scope contains the query (case-insensitive)
	// Returns empty slice if nothing matches
	SearchEntries(ctx context.Context, search models.EntrySearch) ([]*models.Entry, error)

	// UpdateEntry replaces all fields of an existing entry
	// Returns ErrEntryNotFound if entry doesn't exist
	UpdateEntry(ctx context.Context, entry *models.Entry) error

	// DeleteEntry deletes entry by ID
	// Returns ErrEntryNotFound if entry doesn't exist
	DeleteEntry(ctx context.Context, id int64) error
}
