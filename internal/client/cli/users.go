package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"
)

func (c *Cli) runUsersList(ctx context.Context) error {
	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	users, err := c.api.ListUsers(ctx, session.Token)
	if err != nil {
		return c.apiError(ctx, "failed to list users", err)
	}

	if len(users) == 0 {
		c.io.Println("No users found.")
		return nil
	}

	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tACTIVE\tLAST LOGIN")
	for _, u := range users {
		lastLogin := "never"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%s\n", u.ID, u.Username, u.Role, u.Active, lastLogin)
	}
	return w.Flush()
}

func (c *Cli) runUsersFind(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	user, err := c.api.FindUser(ctx, session.Token, username)
	if err != nil {
		return c.apiError(ctx, "failed to find user", err)
	}

	c.io.Printf("ID: %d\n", user.ID)
	c.io.Printf("Username: %s\n", user.Username)

	return nil
}
