package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	client "github.com/mmvit/garudar/internal/client/api"
	"github.com/mmvit/garudar/internal/client/storage"
)

func (c *Cli) runLogin(ctx context.Context, username string, passwords Passwords) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	// Запрашиваем username, если не передан флагом
	if username == "" {
		input, err := c.io.ReadInput("Username: ")
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = input
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	password, err := c.getPassword(passwords)
	if err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	issuedAt := c.now()
	resp, err := c.api.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return fmt.Errorf("login failed: invalid credentials")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	ttl := time.Duration(resp.ExpiresIn) * time.Second
	session := &storage.Session{
		Username:  username,
		Token:     resp.Token,
		ServerURL: c.serverURL,
		ExpiresAt: issuedAt.Add(ttl).Unix(),
	}
	if err := c.sessions.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Username: %s\n", username)
	c.io.Printf("Token expires in: %s\n", ttl)

	return nil
}
