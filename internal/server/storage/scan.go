package storage

import (
	"database/sql"

	"github.com/mmvit/garudar/internal/models"
)

// UserColumns - порядок колонок users, который ожидает ScanUser
const UserColumns = `id, username, password_hash, role, active, created_at, updated_at, last_login`

// EntryColumns - порядок колонок entries, который ожидает ScanEntry
const EntryColumns = `id, source_list, entry_type, full_name, name1, name2, name3, name4, title,
	job_title, dob, pob, alias, nationality, passport_no, identity_no, address, additional_info, load_date`

// EntryInsertColumns - EntryColumns без id, в порядке EntryArgs
const EntryInsertColumns = `source_list, entry_type, full_name, name1, name2, name3, name4, title,
	job_title, dob, pob, alias, nationality, passport_no, identity_no, address, additional_info, load_date`

// RowScanner - общий интерфейс *sql.Row и *sql.Rows
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanUser читает строку в порядке UserColumns
func ScanUser(row RowScanner) (*models.User, error) {
	user := &models.User{}
	var role string
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&role,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLogin,
	)
	if err != nil {
		return nil, err
	}

	user.Role = models.Role(role)
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}

	return user, nil
}

// ScanEntry читает строку в порядке EntryColumns
func ScanEntry(row RowScanner) (*models.Entry, error) {
	e := &models.Entry{}
	err := row.Scan(
		&e.ID, &e.SourceList, &e.EntryType, &e.FullName,
		&e.Name1, &e.Name2, &e.Name3, &e.Name4, &e.Title,
		&e.JobTitle, &e.DOB, &e.POB, &e.Alias, &e.Nationality,
		&e.PassportNo, &e.IdentityNo, &e.Address, &e.AdditionalInfo, &e.LoadDate,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EntryArgs возвращает значения полей записи в порядке EntryInsertColumns
func EntryArgs(e *models.Entry) []any {
	return []any{
		e.SourceList, e.EntryType, e.FullName,
		e.Name1, e.Name2, e.Name3, e.Name4, e.Title,
		e.JobTitle, e.DOB, e.POB, e.Alias, e.Nationality,
		e.PassportNo, e.IdentityNo, e.Address, e.AdditionalInfo, e.LoadDate,
	}
}
