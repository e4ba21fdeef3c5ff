package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

var (
	_ storage.UserStorage  = (*Storage)(nil)
	_ storage.EntryStorage = (*Storage)(nil)
	_ storage.Storage      = (*Storage)(nil)
)

func TestStorage_Users(t *testing.T) {
	ctx := context.Background()
	s := New()

	alice := &models.User{Username: "alice", PasswordHash: "h1", Role: models.RoleUser, Active: true}
	bob := &models.User{Username: "bob", PasswordHash: "h2", Role: models.RoleAdmin, Active: true}
	require.NoError(t, s.CreateUser(ctx, alice))
	require.NoError(t, s.CreateUser(ctx, bob))
	assert.Equal(t, int64(1), alice.ID)
	assert.Equal(t, int64(2), bob.ID)

	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Username: "alice"}), storage.ErrUserAlreadyExists)

	got, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	// возвращается копия
	got.Username = "mutated"
	again, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)

	rename := *again
	rename.Username = "bob"
	assert.ErrorIs(t, s.UpdateUser(ctx, &rename), storage.ErrUserAlreadyExists)

	rename.Username = "alice2"
	rename.Active = false
	require.NoError(t, s.UpdateUser(ctx, &rename))
	_, err = s.GetUserByUsername(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	login := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, s.UpdateLastLogin(ctx, alice.ID, login))
	updated, err := s.GetUserByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastLogin)
	assert.True(t, login.Equal(*updated.LastLogin))
	assert.False(t, updated.Active)

	list, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice2", list[0].Username)

	require.NoError(t, s.DeleteUser(ctx, bob.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, bob.ID), storage.ErrUserNotFound)
	assert.ErrorIs(t, s.UpdateLastLogin(ctx, bob.ID, login), storage.ErrUserNotFound)
}

func TestStorage_Entries(t *testing.T) {
	ctx := context.Background()
	s := New()

	entries := []*models.Entry{
		{EntryType: models.EntryTypeIndividual, FullName: "Ivan Petrov", PassportNo: "X1"},
		{EntryType: models.EntryTypeEntity, FullName: "Petrov LLC"},
		{EntryType: models.EntryTypeIndividual, FullName: "John Smith", Nationality: "Petrovia"},
	}
	require.NoError(t, s.CreateEntries(ctx, entries))

	found, err := s.SearchEntries(ctx, models.EntrySearch{Query: "PETROV", EntryType: models.EntryTypeIndividual})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ivan Petrov", found[0].FullName)

	found, err = s.SearchEntries(ctx, models.EntrySearch{
		Query: "petrov", EntryType: models.EntryTypeIndividual, Scope: models.SearchAllFields,
	})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = s.SearchEntries(ctx, models.EntrySearch{Query: "x1", EntryType: models.EntryTypeIndividual})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NotNil(t, found)

	e, err := s.GetEntry(ctx, entries[1].ID)
	require.NoError(t, err)
	e.FullName = "Renamed LLC"
	require.NoError(t, s.UpdateEntry(ctx, e))

	list, err := s.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Renamed LLC", list[1].FullName)

	require.NoError(t, s.DeleteEntry(ctx, e.ID))
	_, err = s.GetEntry(ctx, e.ID)
	assert.ErrorIs(t, err, storage.ErrEntryNotFound)
	assert.ErrorIs(t, s.UpdateEntry(ctx, e), storage.ErrEntryNotFound)
}
