package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

type historyFlags struct {
	limit    int
	resolves bool
}

func newHistoryCommand(app *App, global *globalFlags) *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history [pr]",
		Short: "List recorded sync runs or resolve actions from the local ledger",
		Long: `List recent sync runs for a pull request, newest first. With --resolves, list
the resolve actions recorded for the repository instead.

Requires history.db to be configured.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runHistory(cmd.Context(), global, &flags, firstArg(args))
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 20, "maximum number of rows")
	cmd.Flags().BoolVar(&flags.resolves, "resolves", false, "list resolve actions instead of sync runs")

	return cmd
}

func (app *App) runHistory(ctx context.Context, global *globalFlags, flags *historyFlags, arg string) error {
	_, svc, err := app.setup(ctx, global, false, nil)
	if err != nil {
		return err
	}
	defer closeServices(svc)

	if flags.resolves {
		owner, repo, err := svc.Refs.Repo(ctx, global.repo)
		if err != nil {
			return err
		}
		records, err := svc.History.RecentResolves(ctx, owner, repo, flags.limit)
		if err != nil {
			return err
		}
		printResolves(app.Stdout, records)
		return nil
	}

	ref, err := svc.Refs.Resolve(ctx, arg, global.repo)
	if err != nil {
		return err
	}

	records, err := svc.History.Recent(ctx, ref, flags.limit)
	if err != nil {
		return err
	}
	printSyncs(app.Stdout, ref, records)
	return nil
}

func printSyncs(w io.Writer, ref model.PRRef, records []model.SyncRecord) {
	if len(records) == 0 {
		fmt.Fprintf(w, "No syncs recorded for %s\n", ref)
		return
	}

	for _, r := range records {
		fmt.Fprintf(w, "%s  %s  head=%s  entries=%d  pending=%d",
			r.SyncedAt.UTC().Format(time.RFC3339), r.RunID, shortSHA(r.HeadSHA), r.TotalEntries, r.PendingEntries)
		if n := len(r.Warnings); n > 0 {
			fmt.Fprintf(w, "  warnings=%d", n)
		}
		fmt.Fprintln(w)
	}
}

func printResolves(w io.Writer, records []model.ResolveRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No resolve actions recorded")
		return
	}

	for _, r := range records {
		replied := ""
		if r.Replied {
			replied = "  replied"
		}
		fmt.Fprintf(w, "%s  %s  %s  %s  %s%s\n",
			r.ResolvedAt.UTC().Format(time.RFC3339), r.EntityID, r.EntityType, r.Status, r.Reaction, replied)
	}
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
