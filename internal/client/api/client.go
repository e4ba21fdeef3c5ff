package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmvit/garudar/pkg/api"
)

// ErrUnauthorized - сервер ответил 401: токен отсутствует, истек или недействителен
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden - сервер ответил 403: недостаточно прав
var ErrForbidden = errors.New("forbidden")

// StatusError описывает неуспешный ответ сервера
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap позволяет сравнивать ошибку с ErrUnauthorized/ErrForbidden через errors.Is
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	default:
		return nil
	}
}

// SearchQuery - параметры поиска записей
type SearchQuery struct {
	Query     string
	EntryType string // api.EntryTypeParamIndividual или api.EntryTypeParamEntity
	AllFields bool
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Токен не уходит на другой хост
				if len(via) > 0 && req.URL.Host == via[0].URL.Host {
					if auth := via[0].Header.Get("Authorization"); auth != "" {
						req.Header.Set("Authorization", auth)
					}
				}
				return nil
			},
		},
	}
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, username, password string) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	req := api.LoginRequest{Username: username, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Me возвращает профиль владельца токена
func (c *Client) Me(ctx context.Context, token string) (*api.UserResponse, error) {
	var resp api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users/me", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	return &resp, nil
}

// Search ищет записи санкционного списка
func (c *Client) Search(ctx context.Context, token string, q SearchQuery) ([]api.Entry, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	if q.EntryType != "" {
		params.Set("entryType", q.EntryType)
	}
	if q.AllFields {
		params.Set("allSearch", "1")
	}

	var resp []api.Entry
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/entries/search?"+params.Encode(), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	return resp, nil
}

// ListUsers возвращает всех пользователей (только для администратора)
func (c *Client) ListUsers(ctx context.Context, token string) ([]api.UserResponse, error) {
	var resp []api.UserResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/users", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return resp, nil
}

// FindUser ищет пользователя по username и возвращает {id, username}
func (c *Client) FindUser(ctx context.Context, token, username string) (*api.UserSummary, error) {
	var resp api.UserSummary
	path := "/api/v1/users?" + url.Values{"username": {username}}.Encode()
	if err := c.doRequest(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("find user request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос; непустой token уходит в заголовке Authorization
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", api.TokenTypeBearer+" "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Message
		} else {
			statusErr.Message = strings.TrimSpace(string(respBody))
		}
		return statusErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
