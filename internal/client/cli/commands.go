package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmvit/garudar/internal/client/iocli"
)

// Значения глобальных флагов по умолчанию
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultDBPath    = "garudar-client.db"
)

// Opener открывает API клиент и хранилище сессии по глобальным флагам
type Opener func(ctx context.Context, serverURL, dbPath string) (APIClient, SessionStore, error)

// BuildInfo - версия клиента, задается через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Execute собирает дерево команд, выполняет args и закрывает хранилище сессии
func Execute(ctx context.Context, out iocli.IO, open Opener, build BuildInfo, args []string) (err error) {
	c := &Cli{io: out}
	root := newRootCommand(c, open, build)
	root.SetArgs(args)

	defer func() {
		if closeErr := c.close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close database: %w", closeErr))
		}
	}()

	return root.ExecuteContext(ctx)
}

func newRootCommand(c *Cli, open Opener, build BuildInfo) *cobra.Command {
	var serverURL, dbPath string

	root := &cobra.Command{
		Use:           "garudar",
		Short:         "Sanctions watchlist lookup client",
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			apiClient, sessions, err := open(cmd.Context(), serverURL, dbPath)
			if err != nil {
				return err
			}
			opened := New(c.io, apiClient, sessions, serverURL)
			opened.closer = sessions
			*c = *opened
			return nil
		},
	}
	root.SetOut(c.io)
	root.SetErr(c.io)
	root.SetVersionTemplate(fmt.Sprintf("Garudar Client\nVersion:    %s\nBuild Date: %s\nGit Commit: %s\n",
		build.Version, build.BuildDate, build.GitCommit))

	root.PersistentFlags().StringVar(&serverURL, "server", DefaultServerURL, "Server URL")
	root.PersistentFlags().StringVar(&dbPath, "db", DefaultDBPath, "Path to local database")

	root.AddCommand(
		newLoginCommand(c),
		newLogoutCommand(c),
		newStatusCommand(c),
		newMeCommand(c),
		newSearchCommand(c),
		newUsersCommand(c),
	)

	return root
}

func newLoginCommand(c *Cli) *cobra.Command {
	var username string
	var passwords Passwords

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to server and save the session",
		Long: `Login to server and save the session locally.

Password priority (highest to lowest):
  1. GARUDAR_PASSWORD environment variable
  2. --password-file (file path)
  3. --password (command line, not recommended)
  4. Interactive prompt (fallback)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runLogin(cmd.Context(), username, passwords)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username (prompted if empty)")
	cmd.Flags().StringVar(&passwords.FromFile, "password-file", "", "Path to file containing password")
	cmd.Flags().StringVar(&passwords.FromArgs, "password", "", "Password (not recommended, use env var or file)")

	return cmd
}

func newLogoutCommand(c *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the local session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runLogout(cmd.Context())
		},
	}
}

func newStatusCommand(c *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runStatus(cmd.Context())
		},
	}
}

func newMeCommand(c *Cli) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the profile of the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runMe(cmd.Context())
		},
	}
}

func newSearchCommand(c *Cli) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search the watchlist by name",
		Example: "  garudar search ivan petrov\n  garudar search --entity --all acme",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.entity, "entity", false, "Search entities instead of individuals")
	cmd.Flags().BoolVar(&opts.allFields, "all", false, "Match against all text fields, not only the name")

	return cmd
}

func newUsersCommand(c *Cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect server users",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all users (admin only)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.runUsersList(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "find <username>",
			Short: "Find a user by username",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runUsersFind(cmd.Context(), args[0])
			},
		},
	)

	return cmd
}
