package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

const entryFieldCount = 18

// CreateEntries inserts entries in a single transaction
func (s *Storage) CreateEntries(ctx context.Context, entries []*models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO entries (` + storage.EntryInsertColumns + `)
		VALUES (` + placeholders(1, entryFieldCount) + `)
		RETURNING id`

	for _, e := range entries {
		if err := tx.QueryRowContext(ctx, query, storage.EntryArgs(e)...).Scan(&e.ID); err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEntry retrieves a single entry by ID
func (s *Storage) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	query := `SELECT ` + storage.EntryColumns + ` FROM entries WHERE id = $1`

	entry, err := storage.ScanEntry(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// ListEntries returns all entries ordered by ID
func (s *Storage) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	return s.queryEntries(ctx, `SELECT `+storage.EntryColumns+` FROM entries ORDER BY id`)
}

// SearchEntries searches entries by substring within the given scope.
// Шаблон передается одним параметром и переиспользуется во всех условиях.
func (s *Storage) SearchEntries(ctx context.Context, search models.EntrySearch) ([]*models.Entry, error) {
	columns := storage.SearchColumns(search.Scope)

	conds := make([]string, 0, len(columns))
	for _, col := range columns {
		conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE $2 ESCAPE '\'`, col))
	}

	query := `SELECT ` + storage.EntryColumns + ` FROM entries WHERE entry_type = $1 AND (` +
		strings.Join(conds, " OR ") + `) ORDER BY id`

	return s.queryEntries(ctx, query, search.EntryType, storage.LikePattern(search.Query))
}

// UpdateEntry replaces all fields of an existing entry
func (s *Storage) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	cols := strings.Split(storage.EntryInsertColumns, ",")
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", strings.TrimSpace(col), i+1)
	}

	query := `UPDATE entries SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(` WHERE id = $%d`, len(cols)+1)

	args := append(storage.EntryArgs(entry), entry.ID)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	return checkAffected(result, storage.ErrEntryNotFound)
}

// DeleteEntry deletes entry by ID
func (s *Storage) DeleteEntry(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	return checkAffected(result, storage.ErrEntryNotFound)
}

func (s *Storage) queryEntries(ctx context.Context, query string, args ...any) ([]*models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.Entry, 0)
	for rows.Next() {
		entry, err := storage.ScanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	return entries, nil
}
