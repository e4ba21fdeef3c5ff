package models

import "time"

// Role определяет уровень привилегий пользователя
type Role string

const (
	RoleUser  Role = "USER"  // обычный пользователь: поиск записей, собственный профиль
	RoleAdmin Role = "ADMIN" // администратор: управление пользователями и записями
)

// Valid сообщает, входит ли роль в фиксированный набор ролей
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole разбирает строковое представление роли.
// Пустая строка означает RoleUser.
func ParseRole(s string) (Role, bool) {
	if s == "" {
		return RoleUser, true
	}
	r := Role(s)
	return r, r.Valid()
}

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time  `json:"created_at"`           // время создания
	UpdatedAt    time.Time  `json:"updated_at"`           // время последнего обновления
	LastLogin    *time.Time `json:"last_login,omitempty"` // время последнего успешного входа
	Username     string     `json:"username"`             // уникальный username (регистр учитывается)
	PasswordHash string     `json:"-"`                    // bcrypt хеш пароля, наружу не отдается
	Role         Role       `json:"role"`                 // USER или ADMIN
	ID           int64      `json:"id"`                   // числовой идентификатор, назначается хранилищем
	Active       bool       `json:"active"`               // false блокирует вход
}

// IsAdmin сообщает, имеет ли пользователь роль ADMIN
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
