package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmvit/garudar/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	session, err := c.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'garudar login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	now := c.now()
	c.io.Println("Status: Authenticated")
	c.io.Printf("Username: %s\n", session.Username)
	if session.ServerURL != "" {
		c.io.Printf("Server: %s\n", session.ServerURL)
	}
	c.io.Printf("Token expires: %s\n", time.Unix(session.ExpiresAt, 0).UTC().Format(time.RFC3339))

	if session.Expired(now) {
		c.io.Println("⚠️  Token has expired. Please login again.")
	} else {
		c.io.Printf("Time remaining: %s\n", session.Remaining(now).Round(time.Second))
	}

	return nil
}
