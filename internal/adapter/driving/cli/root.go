// Package cli is the command-line driving adapter. The root command syncs a
// pull request; subcommands resolve entities and read back local state.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsync/internal/application"
	"github.com/ericfisherdev/reviewsync/internal/config"
	"github.com/ericfisherdev/reviewsync/internal/domain/port/driven"
)

// Services bundles what the commands need. Sync and Resolve are nil when the
// services were built offline.
type Services struct {
	Sync    *application.SyncService
	Resolve *application.ResolveService
	History *application.HistoryService
	Refs    *application.RefResolver
	Output  driven.OutputStore

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Factory builds Services from the effective configuration. online is false
// for commands that never reach GitHub; the factory must not require a token
// in that case.
type Factory func(ctx context.Context, cfg *config.Config, online bool) (*Services, error)

// App holds the collaborators of the command tree.
type App struct {
	LoadConfig func(path string) (*config.Config, error)
	Build      Factory
	Stdout     io.Writer
	Stderr     io.Writer
}

var errNoToken = errors.New("no GitHub token configured (set github.token, REVIEWSYNC_GITHUB_TOKEN, GITHUB_TOKEN, or GH_TOKEN)")

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	logLevel   string
	quiet      bool
	repo       string
}

type syncFlags struct {
	output string
	json   bool
	html   bool
}

// NewRootCommand assembles the command tree.
func NewRootCommand(app *App) *cobra.Command {
	var (
		global globalFlags
		flags  syncFlags
	)

	root := &cobra.Command{
		Use:   "reviewsync [pr]",
		Short: "Sync pull request review conversations to local files",
		Long: `Fetch review threads, reviews, and conversation comments for a pull request
and write them as a JSONL entity stream with a status for each entry.

The PR may be a number, owner/repo#number, owner/repo/number, or a GitHub URL.
Without an argument, the open PR for the current branch is used.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runSync(cmd.Context(), &global, &flags, firstArg(args))
		},
	}
	root.SetOut(app.Stdout)
	root.SetErr(app.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&global.configPath, "config", "", "config file (default $HOME/.config/reviewsync/config.toml)")
	pf.StringVar(&global.logLevel, "log-level", "", "log level: debug, info, warn, or error")
	pf.BoolVarP(&global.quiet, "quiet", "q", false, "suppress progress messages")
	pf.StringVarP(&global.repo, "repo", "R", "", "repository in OWNER/REPO format (auto-detected from cwd)")

	root.Flags().StringVarP(&flags.output, "output", "o", "", "output directory (default "+config.DefaultOutputDir+")")
	root.Flags().BoolVarP(&flags.json, "json", "j", false, "print a JSON summary instead of the output directory")
	root.Flags().BoolVar(&flags.html, "html", false, "also render reviews.html")

	root.AddCommand(
		newResolveCommand(app, &global),
		newHistoryCommand(app, &global),
		newShowCommand(app, &global),
	)

	return root
}

// Execute runs the command tree with args and prints any error as
// "Error: <msg>" to stderr. The returned error is non-nil on failure.
func (app *App) Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(app.Stderr, "Error: %s\n", err)
		return err
	}
	return nil
}

// setup loads configuration, applies flag overrides, and installs the
// default logger. It then builds the services.
func (app *App) setup(ctx context.Context, global *globalFlags, online bool, override func(*config.Config)) (*config.Config, *Services, error) {
	cfg, err := app.LoadConfig(global.configPath)
	if err != nil {
		return nil, nil, err
	}

	if global.logLevel != "" {
		if _, err := config.ParseLevel(global.logLevel); err != nil {
			return nil, nil, fmt.Errorf("--log-level: %w", err)
		}
		cfg.Log.Level = global.logLevel
	}
	if override != nil {
		override(cfg)
	}

	level := cfg.SlogLevel()
	if global.quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(app.Stderr, &slog.HandlerOptions{Level: level})))

	if online && !cfg.HasGitHubToken() {
		return nil, nil, errNoToken
	}

	svc, err := app.Build(ctx, cfg, online)
	if err != nil {
		return nil, nil, err
	}
	return cfg, svc, nil
}

func (app *App) runSync(ctx context.Context, global *globalFlags, flags *syncFlags, arg string) error {
	cfg, svc, err := app.setup(ctx, global, true, func(cfg *config.Config) {
		if flags.output != "" {
			cfg.Output.Dir = flags.output
		}
		if flags.html {
			cfg.Output.HTML = true
		}
	})
	if err != nil {
		return err
	}
	defer closeServices(svc)

	ref, err := svc.Refs.Resolve(ctx, arg, global.repo)
	if err != nil {
		return err
	}

	result, err := svc.Sync.Sync(ctx, application.SyncRequest{Ref: ref, Digest: cfg.Output.HTML})
	if err != nil {
		return err
	}

	if !global.quiet {
		fmt.Fprintf(app.Stderr, "\n%s\n\n", application.FormatSummary(result.Stats))
	}

	if flags.json {
		return writeJSON(app.Stdout, newSyncSummary(result))
	}
	fmt.Fprintln(app.Stdout, result.OutputDir)
	return nil
}

// syncSummary is the --json output of the root command.
type syncSummary struct {
	OutputDir string `json:"outputDir"`
	PRNumber  int    `json:"prNumber"`
	Owner     string `json:"owner"`
	Repo      string `json:"repo"`
	application.Stats
}

func newSyncSummary(result *application.SyncResult) syncSummary {
	return syncSummary{
		OutputDir: result.OutputDir,
		PRNumber:  result.Ref.Number,
		Owner:     result.Ref.Owner,
		Repo:      result.Ref.Repo,
		Stats:     result.Stats,
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func closeServices(svc *Services) {
	if svc == nil || svc.Close == nil {
		return
	}
	if err := svc.Close(); err != nil {
		slog.Error("error closing resources", "error", err)
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
