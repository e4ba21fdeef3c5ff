package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	client "github.com/mmvit/garudar/internal/client/api"
	"github.com/mmvit/garudar/internal/client/iocli"
	"github.com/mmvit/garudar/internal/client/storage"
	"github.com/mmvit/garudar/pkg/api"
)

//go:generate moq -out api_mock.go . APIClient

// PasswordEnv - переменная окружения с паролем для неинтерактивного входа
const PasswordEnv = "GARUDAR_PASSWORD"

// Ошибки состояния локальной сессии
var (
	ErrNotAuthenticated = errors.New("not authenticated, run 'garudar login' first")
	ErrSessionExpired   = errors.New("session expired, run 'garudar login' again")
	ErrSessionRejected  = errors.New("session was rejected by the server, run 'garudar login' again")
)

// APIClient - операции сервера, которые использует CLI
type APIClient interface {
	Login(ctx context.Context, username, password string) (*api.TokenResponse, error)
	Me(ctx context.Context, token string) (*api.UserResponse, error)
	Search(ctx context.Context, token string, q client.SearchQuery) ([]api.Entry, error)
	ListUsers(ctx context.Context, token string) ([]api.UserResponse, error)
	FindUser(ctx context.Context, token, username string) (*api.UserSummary, error)
}

// SessionStore - локальное хранилище сессии с освобождением ресурсов
type SessionStore interface {
	storage.SessionStorage
	io.Closer
}

// Passwords - источники пароля, заданные флагами
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io        iocli.IO
	api       APIClient
	sessions  storage.SessionStorage
	closer    io.Closer
	now       func() time.Time
	getenv    func(string) string
	serverURL string
}

func New(out iocli.IO, apiClient APIClient, sessions storage.SessionStorage, serverURL string) *Cli {
	return &Cli{
		io:        out,
		api:       apiClient,
		sessions:  sessions,
		now:       time.Now,
		getenv:    os.Getenv,
		serverURL: serverURL,
	}
}

// close освобождает хранилище сессии, если оно было открыто
func (c *Cli) close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// getPassword retrieves password from various sources with priority:
// 1. Environment variable GARUDAR_PASSWORD
// 2. File specified with --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	// Priority 1: Environment variable
	if envPassword := c.getenv(PasswordEnv); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: CLI parameter
	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

// session возвращает действующую сессию для запросов к серверу
func (c *Cli) session(ctx context.Context) (*storage.Session, error) {
	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if session.Expired(c.now()) {
		return nil, ErrSessionExpired
	}

	// Токен выдан другим сервером, отправлять его сюда нельзя
	if session.ServerURL != "" && session.ServerURL != c.serverURL {
		return nil, fmt.Errorf("session belongs to %s, run 'garudar login' for %s", session.ServerURL, c.serverURL)
	}

	return session, nil
}

// apiError переводит ошибку сервера в сообщение для пользователя.
// 401 означает, что токен больше не принимается: локальная сессия удаляется.
func (c *Cli) apiError(ctx context.Context, action string, err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if delErr := c.sessions.DeleteSession(ctx); delErr != nil && !errors.Is(delErr, storage.ErrSessionNotFound) {
			return fmt.Errorf("%s: failed to drop rejected session: %w", action, delErr)
		}
		return ErrSessionRejected
	case errors.Is(err, client.ErrForbidden):
		return fmt.Errorf("%s: permission denied", action)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
