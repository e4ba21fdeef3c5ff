package cli

import (
	"context"
	"time"
)

func (c *Cli) runMe(ctx context.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	user, err := c.api.Me(ctx, session.Token)
	if err != nil {
		return c.apiError(ctx, "failed to get profile", err)
	}

	c.io.Println("=== Profile ===")
	c.io.Printf("ID: %d\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)
	c.io.Printf("Role: %s\n", user.Role)
	c.io.Printf("Active: %t\n", user.Active)
	c.io.Printf("Created: %s\n", user.CreatedAt.Format(time.RFC3339))
	if user.LastLogin != nil {
		c.io.Printf("Last login: %s\n", user.LastLogin.Format(time.RFC3339))
	}

	return nil
}
