package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

var _ storage.Storage = (*Storage)(nil)

var userRowColumns = []string{"id", "username", "password_hash", "role", "active", "created_at", "updated_at", "last_login"}

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	return NewWithDB(db), mock
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", placeholders(1, 3))
	assert.Equal(t, "$4", placeholders(4, 1))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(errors.Join(errors.New("wrapped"), &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("duplicate key")))
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		dbErr     error
		wantError error
		name      string
		wantID    int64
	}{
		{
			name:   "success",
			wantID: 42,
		},
		{
			name:      "duplicate username",
			dbErr:     &pgconn.PgError{Code: uniqueViolation},
			wantError: storage.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			expect := mock.ExpectQuery(`(?s)INSERT INTO users.*RETURNING id`).
				WithArgs("alice", "hash", "USER", true, sqlmock.AnyArg(), sqlmock.AnyArg(), nil)
			if tt.dbErr != nil {
				expect.WillReturnError(tt.dbErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(tt.wantID))
			}

			user := &models.User{Username: "alice", PasswordHash: "hash", Role: models.RoleUser, Active: true}
			err := s.CreateUser(context.Background(), user)

			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetUserByID(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow(int64(7), "root", "hash", "ADMIN", true, created, created, nil))

		user, err := s.GetUserByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "root", user.Username)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.Nil(t, user.LastLogin)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(int64(8)).
			WillReturnError(sql.ErrNoRows)

		user, err := s.GetUserByID(context.Background(), 8)
		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		assert.Nil(t, user)
	})

	t.Run("db error is wrapped", func(t *testing.T) {
		s, mock := newStorageWithMock(t)
		mock.ExpectQuery(`SELECT .* FROM users WHERE username = \$1`).
			WithArgs("alice").
			WillReturnError(errors.New("db down"))

		_, err := s.GetUserByUsername(context.Background(), "alice")
		require.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrUserNotFound)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestUpdateUser(t *testing.T) {
	tests := []struct {
		dbErr     error
		wantError error
		name      string
		affected  int64
	}{
		{name: "updated", affected: 1},
		{name: "missing", affected: 0, wantError: storage.ErrUserNotFound},
		{name: "duplicate", dbErr: &pgconn.PgError{Code: uniqueViolation}, wantError: storage.ErrUserAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)

			expect := mock.ExpectExec(`UPDATE users\s+SET username = \$1`).
				WithArgs("bob", "hash", "ADMIN", false, sqlmock.AnyArg(), int64(3))
			if tt.dbErr != nil {
				expect.WillReturnError(tt.dbErr)
			} else {
				expect.WillReturnResult(sqlmock.NewResult(0, tt.affected))
			}

			err := s.UpdateUser(context.Background(), &models.User{
				ID: 3, Username: "bob", PasswordHash: "hash", Role: models.RoleAdmin,
			})
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCreateEntries(t *testing.T) {
	t.Run("commits and assigns ids", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO entries`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO entries`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectCommit()

		entries := []*models.Entry{
			{FullName: "A", EntryType: models.EntryTypeIndividual},
			{FullName: "B", EntryType: models.EntryTypeEntity},
		}
		require.NoError(t, s.CreateEntries(context.Background(), entries))
		assert.Equal(t, int64(1), entries[0].ID)
		assert.Equal(t, int64(2), entries[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		s, mock := newStorageWithMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO entries`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectQuery(`INSERT INTO entries`).WillReturnError(errors.New("boom"))
		mock.ExpectRollback()

		entries := []*models.Entry{{FullName: "A"}, {FullName: "B"}}
		err := s.CreateEntries(context.Background(), entries)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchEntries_UsesScopeAndEscapedPattern(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectQuery(`WHERE entry_type = \$1 AND \(LOWER\(full_name\) LIKE \$2 .* LOWER\(alias\) LIKE \$2 ESCAPE '\\'\) ORDER BY id`).
		WithArgs(models.EntryTypeEntity, `%50\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.SearchEntries(context.Background(), models.EntrySearch{
		Query:     "50%",
		EntryType: models.EntryTypeEntity,
		Scope:     models.SearchNames,
	})
	// пустой набор колонок не сканируется, ошибки быть не должно
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntry_NotFound(t *testing.T) {
	s, mock := newStorageWithMock(t)

	mock.ExpectExec(`DELETE FROM entries WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.DeleteEntry(context.Background(), 5), storage.ErrEntryNotFound)
}
