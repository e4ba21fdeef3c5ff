package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

// CreateEntries inserts entries in a single transaction
func (s *Storage) CreateEntries(ctx context.Context, entries []*models.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (` + storage.EntryInsertColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		result, err := stmt.ExecContext(ctx, storage.EntryArgs(e)...)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get entry id: %w", err)
		}
		e.ID = id
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEntry retrieves a single entry by ID
func (s *Storage) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	query := `SELECT ` + storage.EntryColumns + ` FROM entries WHERE id = ?`

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

// SearchEntries searches entries by substring within the given scope
func (s *Storage) SearchEntries(ctx context.Context, search models.EntrySearch) ([]*models.Entry, error) {
	columns := storage.SearchColumns(search.Scope)
	pattern := storage.LikePattern(search.Query)

	conds := make([]string, 0, len(columns))
	args := []any{search.EntryType}
	for _, col := range columns {
		conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
		args = append(args, pattern)
	}

	query := `SELECT ` + storage.EntryColumns + ` FROM entries WHERE entry_type = ? AND (` +
		strings.Join(conds, " OR ") + `) ORDER BY id`

	return s.queryEntries(ctx, query, args...)
}

// UpdateEntry replaces all fields of an existing entry
func (s *Storage) UpdateEntry(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET source_list = ?, entry_type = ?, full_name = ?, name1 = ?, name2 = ?, name3 = ?, name4 = ?,
			title = ?, job_title = ?, dob = ?, pob = ?, alias = ?, nationality = ?, passport_no = ?,
			identity_no = ?, address = ?, additional_info = ?, load_date = ?
		WHERE id = ?
	`

	args := append(storage.EntryArgs(entry), entry.ID)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	return checkAffected(result, storage.ErrEntryNotFound)
}

// DeleteEntry deletes entry by ID
func (s *Storage) DeleteEntry(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
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
