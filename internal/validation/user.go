package validation

import (
	"fmt"
	"regexp"

	"github.com/mmvit/garudar/internal/models"
)

// UsernamePattern определяет допустимый формат username:
// латинские буквы, цифры, '_', '.', '-'; первый символ - буква или цифра
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 64
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 8
	// MaxPasswordLen - bcrypt не принимает пароли длиннее 72 байт
	MaxPasswordLen = 72
)

// ValidateUsername проверяет, что username соответствует требованиям
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, '_', '.' and '-' and must start with a letter or number")
	}

	return nil
}

// ValidatePassword проверяет требования к сырому паролю перед хешированием
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordLen)
	}

	return nil
}

// ValidateRole проверяет, что роль входит в фиксированный набор
func ValidateRole(role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("role must be one of %s, %s", models.RoleUser, models.RoleAdmin)
	}
	return nil
}
