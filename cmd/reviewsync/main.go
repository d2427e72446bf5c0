package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/reviewsync/internal/adapter/driven/filestore"
	gitadapter "github.com/ericfisherdev/reviewsync/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/reviewsync/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/reviewsync/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewsync/internal/adapter/driving/cli"
	"github.com/ericfisherdev/reviewsync/internal/application"
	"github.com/ericfisherdev/reviewsync/internal/config"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		// The CLI has already printed the error.
		os.Exit(1)
	}
}

func run() error {
	// 1. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Hand off to the command tree. Configuration is loaded per command
	// because --config and --log-level are flags.
	app := &cli.App{
		LoadConfig: config.Load,
		Build:      buildServices,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
	return app.Execute(ctx, os.Args[1:])
}

// buildServices wires adapters into application services for one command.
func buildServices(ctx context.Context, cfg *config.Config, online bool) (*cli.Services, error) {
	locator := gitadapter.NewLocator("")
	output := filestore.NewStore(cfg.Output.Dir)

	// Optional local ledger.
	var (
		history driven.HistoryStore
		closeFn func() error
	)
	if cfg.HistoryEnabled() {
		db, err := sqliteadapter.NewDB(ctx, cfg.History.DB)
		if err != nil {
			return nil, err
		}
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			db.Close()
			return nil, err
		}
		slog.Debug("history ledger opened", "path", db.Path())
		history = sqliteadapter.NewHistoryRepo(db)
		closeFn = db.Close
	}

	svc := &cli.Services{
		History: application.NewHistoryService(history),
		Output:  output,
		Close:   closeFn,
	}

	if !online {
		svc.Refs = application.NewRefResolver(locator, nil)
		return svc, nil
	}

	client, err := githubadapter.NewClient(cfg.GitHub.Token, cfg.GitHub.APIURL)
	if err != nil {
		if closeFn != nil {
			closeFn()
		}
		return nil, err
	}

	svc.Sync = application.NewSyncService(client, output, history)
	svc.Resolve = application.NewResolveService(client, history)
	svc.Refs = application.NewRefResolver(locator, client)
	return svc, nil
}
