package api

import "time"

// UserResponse - представление пользователя для владельца и администратора.
// Хеш пароля не передается никогда.
type UserResponse struct {
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	ID        int64      `json:"id"`
	Active    bool       `json:"active"`
}

// UserSummary - урезанное представление для поиска пользователя по username
type UserSummary struct {
	Username string `json:"username"`
	ID       int64  `json:"id"`
}

// CreateUserRequest представляет запрос администратора на создание пользователя
type CreateUserRequest struct {
	Active   *bool  `json:"active,omitempty"` // по умолчанию true
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // USER или ADMIN, по умолчанию USER
}

// UpdateUserRequest представляет частичное обновление пользователя.
// Nil поля не меняются. Без прав администратора учитывается только Password.
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *string `json:"role,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}
