package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsync/internal/application"
	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

type resolveFlags struct {
	status  string
	comment string
}

func newResolveCommand(app *App, global *globalFlags) *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve <entity-id>",
		Short: "Mark an entity as done, skip, or in_progress by adding a reaction",
		Long: `Write an entity's status back to GitHub as a reaction on the thread's first
comment or on the conversation comment. Reviews cannot be resolved.

  done         +1
  skip         -1
  in_progress  eyes

With --comment, a reply is posted after the reaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runResolve(cmd.Context(), global, &flags, args[0])
		},
	}

	cmd.Flags().StringVarP(&flags.status, "status", "s", "", "status to set (done, skip, in_progress)")
	cmd.Flags().StringVarP(&flags.comment, "comment", "c", "", "add a comment with the status change")
	_ = cmd.MarkFlagRequired("status")

	return cmd
}

func (app *App) runResolve(ctx context.Context, global *globalFlags, flags *resolveFlags, entityID string) error {
	status, err := model.ParseStatus(flags.status)
	if err != nil {
		return err
	}

	_, svc, err := app.setup(ctx, global, true, nil)
	if err != nil {
		return err
	}
	defer closeServices(svc)

	owner, repo, err := svc.Refs.Repo(ctx, global.repo)
	if err != nil {
		return err
	}

	if err := svc.Resolve.Resolve(ctx, application.ResolveRequest{
		Owner:    owner,
		Repo:     repo,
		EntityID: entityID,
		Status:   status,
		Reply:    flags.comment,
	}); err != nil {
		return fmt.Errorf("resolving %s: %w", entityID, err)
	}
	return nil
}
