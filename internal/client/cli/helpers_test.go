package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	client "github.com/mmvit/garudar/internal/client/api"
	"github.com/mmvit/garudar/internal/client/iocli"
	"github.com/mmvit/garudar/internal/client/storage"
)

const testServerURL = "http://localhost:8080"

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// memSessions - хранилище сессии в памяти для тестов
type memSessions struct {
	session *storage.Session
	closed  bool
}

func (m *memSessions) SaveSession(_ context.Context, s *storage.Session) error {
	cp := *s
	m.session = &cp
	return nil
}

func (m *memSessions) GetSession(_ context.Context) (*storage.Session, error) {
	if m.session == nil {
		return nil, storage.ErrSessionNotFound
	}
	cp := *m.session
	return &cp, nil
}

func (m *memSessions) DeleteSession(_ context.Context) error {
	if m.session == nil {
		return storage.ErrSessionNotFound
	}
	m.session = nil
	return nil
}

func (m *memSessions) Close() error {
	m.closed = true
	return nil
}

// newTestIO возвращает IOMock, весь вывод которого попадает в буфер.
// ReadInput отдает inputs по очереди, затем io.EOF.
func newTestIO(inputs ...string) (*iocli.IOMock, *bytes.Buffer) {
	out := &bytes.Buffer{}
	mockIO := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			_, _ = fmt.Fprintln(out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			_, _ = fmt.Fprintf(out, format, a...)
		},
		WriteFunc: func(p []byte) (int, error) {
			return out.Write(p)
		},
		ReadInputFunc: func(prompt string) (string, error) {
			if len(inputs) == 0 {
				return "", io.EOF
			}
			next := inputs[0]
			inputs = inputs[1:]
			return next, nil
		},
		ReadPasswordFunc: func(prompt string) (string, error) {
			return "", io.EOF
		},
	}
	return mockIO, out
}

// newTestCli собирает Cli с фиксированным временем и пустым окружением
func newTestCli(mockIO iocli.IO, apiClient APIClient, sessions storage.SessionStorage) *Cli {
	c := New(mockIO, apiClient, sessions, testServerURL)
	c.now = func() time.Time { return testNow }
	c.getenv = func(string) string { return "" }
	return c
}

// activeSession - действующая сессия alice на тестовом сервере
func activeSession() *memSessions {
	return &memSessions{session: &storage.Session{
		Username:  "alice",
		Token:     "alice-token",
		ServerURL: testServerURL,
		ExpiresAt: testNow.Add(time.Hour).Unix(),
	}}
}

func statusErr(code int) error {
	return &client.StatusError{StatusCode: code, Message: http.StatusText(code)}
}
