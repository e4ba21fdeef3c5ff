package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmvit/garudar/internal/client/api"
	"github.com/mmvit/garudar/internal/client/cli"
	"github.com/mmvit/garudar/internal/client/iocli"
	"github.com/mmvit/garudar/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	build := cli.BuildInfo{Version: Version, BuildDate: BuildDate, GitCommit: GitCommit}
	err := cli.Execute(ctx, iocli.NewStdio(), open, build, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// open открывает BoltDB с сессией и создает API клиент
func open(ctx context.Context, serverURL, dbPath string) (cli.APIClient, cli.SessionStore, error) {
	store, err := boltdb.New(ctx, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return api.NewClient(serverURL), store, nil
}
