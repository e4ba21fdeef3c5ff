// Package memory implements the storage interfaces on top of maps.
// Данные живут только в памяти процесса: драйвер для разработки и тестов.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mmvit/garudar/internal/models"
	"github.com/mmvit/garudar/internal/server/storage"
)

// Storage is a threadsafe in-memory UserStorage and EntryStorage.
// IDs are assigned incrementally starting from 1.
type Storage struct {
	users       map[int64]*models.User
	entries     map[int64]*models.Entry
	nextUserID  int64
	nextEntryID int64
	mu          sync.RWMutex
}

// New returns an empty storage
func New() *Storage {
	return &Storage{
		users:       make(map[int64]*models.User),
		entries:     make(map[int64]*models.Entry),
		nextUserID:  1,
		nextEntryID: 1,
	}
}

// Close is a no-op
func (s *Storage) Close() error {
	return nil
}

// Ping always succeeds
func (s *Storage) Ping(context.Context) error {
	return nil
}

func cloneUser(u *models.User) *models.User {
	c := *u
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}

// CreateUser creates a new user and assigns user.ID
func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUsername(user.Username) != nil {
		return storage.ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	user.ID = s.nextUserID
	s.nextUserID++
	s.users[user.ID] = cloneUser(user)

	return nil
}

// GetUserByUsername retrieves user by username
func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user := s.findByUsername(username)
	if user == nil {
		return nil, storage.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(_ context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// ListUsers returns all users ordered by ID
func (s *Storage) ListUsers(context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// UpdateUser updates username, password hash, role and active flag
func (s *Storage) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}
	if other := s.findByUsername(user.Username); other != nil && other.ID != user.ID {
		return storage.ErrUserAlreadyExists
	}

	user.UpdatedAt = time.Now().UTC()
	existing.Username = user.Username
	existing.PasswordHash = user.PasswordHash
	existing.Role = user.Role
	existing.Active = user.Active
	existing.UpdatedAt = user.UpdatedAt

	return nil
}

// DeleteUser deletes user by ID
func (s *Storage) DeleteUser(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return storage.ErrUserNotFound
	}
	delete(s.users, userID)

	return nil
}

// UpdateLastLogin updates the last login timestamp
func (s *Storage) UpdateLastLogin(_ context.Context, userID int64, lastLogin time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return storage.ErrUserNotFound
	}
	user.LastLogin = &lastLogin

	return nil
}

// findByUsername вызывается под блокировкой
func (s *Storage) findByUsername(username string) *models.User {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

// CreateEntries inserts all entries and assigns IDs
func (s *Storage) CreateEntries(_ context.Context, entries []*models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		e.ID = s.nextEntryID
		s.nextEntryID++
		c := *e
		s.entries[e.ID] = &c
	}

	return nil
}

// GetEntry retrieves a single entry by ID
func (s *Storage) GetEntry(_ context.Context, id int64) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrEntryNotFound
	}
	c := *e
	return &c, nil
}

// ListEntries returns all entries ordered by ID
func (s *Storage) ListEntries(context.Context) ([]*models.Entry, error) {
	return s.filterEntries(func(*models.Entry) bool { return true }), nil
}

// SearchEntries returns entries of the given type where any field in scope contains the query
func (s *Storage) SearchEntries(_ context.Context, search models.EntrySearch) ([]*models.Entry, error) {
	query := strings.ToLower(search.Query)
	columns := storage.SearchColumns(search.Scope)

	return s.filterEntries(func(e *models.Entry) bool {
		if e.EntryType != search.EntryType {
			return false
		}
		for _, col := range columns {
			if strings.Contains(strings.ToLower(entryField(e, col)), query) {
				return true
			}
		}
		return false
	}), nil
}

// UpdateEntry replaces all fields of an existing entry
func (s *Storage) UpdateEntry(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.ID]; !ok {
		return storage.ErrEntryNotFound
	}
	c := *entry
	s.entries[entry.ID] = &c

	return nil
}

// DeleteEntry deletes entry by ID
func (s *Storage) DeleteEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return storage.ErrEntryNotFound
	}
	delete(s.entries, id)

	return nil
}

func (s *Storage) filterEntries(keep func(*models.Entry) bool) []*models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Entry, 0)
	for _, e := range s.entries {
		if keep(e) {
			c := *e
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result
}

// entryField возвращает значение поля записи по имени колонки
func entryField(e *models.Entry, column string) string {
	switch column {
	case "full_name":
		return e.FullName
	case "name1":
		return e.Name1
	case "name2":
		return e.Name2
	case "name3":
		return e.Name3
	case "name4":
		return e.Name4
	case "alias":
		return e.Alias
	case "job_title":
		return e.JobTitle
	case "dob":
		return e.DOB
	case "pob":
		return e.POB
	case "nationality":
		return e.Nationality
	case "passport_no":
		return e.PassportNo
	case "identity_no":
		return e.IdentityNo
	case "address":
		return e.Address
	case "additional_info":
		return e.AdditionalInfo
	case "source_list":
		return e.SourceList
	case "title":
		return e.Title
	default:
		return ""
	}
}
