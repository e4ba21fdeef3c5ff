package crypto

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch возвращается, если пароль не соответствует хешу
var ErrPasswordMismatch = errors.New("password does not match")

// bcryptPrefixes - префиксы, с которых всегда начинается bcrypt хеш.
// По ним save-path отличает уже захешированный пароль от сырого.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// dummyHash используется для сравнения, когда пользователь не найден,
// чтобы время ответа не выдавало существование username.
var dummyHash = mustHash("garudar-dummy-password")

// HashPassword хеширует пароль с использованием bcrypt (DefaultCost)
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет пароль против сохраненного bcrypt хеша.
// Сравнение выполняется за постоянное время (свойство bcrypt).
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return ErrPasswordMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}

	return nil
}

// BurnCompare выполняет холостое сравнение с фиктивным хешем
func BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}

// IsHashed сообщает, выглядит ли значение как bcrypt хеш
func IsHashed(value string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// EnsureHashed хеширует значение, если оно еще не является bcrypt хешем
func EnsureHashed(value string) (string, error) {
	if IsHashed(value) {
		return value, nil
	}
	return HashPassword(value)
}

func mustHash(password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}
