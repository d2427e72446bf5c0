package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewsync/internal/application"
	"github.com/ericfisherdev/reviewsync/internal/config"
	"github.com/ericfisherdev/reviewsync/internal/domain/model"
)

type showFlags struct {
	output  string
	pending bool
}

func newShowCommand(app *App, global *globalFlags) *cobra.Command {
	var flags showFlags

	cmd := &cobra.Command{
		Use:   "show [pr]",
		Short: "Print the entities of the last sync without contacting GitHub",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runShow(cmd.Context(), global, &flags, firstArg(args))
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output directory the sync wrote to")
	cmd.Flags().BoolVar(&flags.pending, "pending", false, "only show pending entities")

	return cmd
}

func (app *App) runShow(ctx context.Context, global *globalFlags, flags *showFlags, arg string) error {
	_, svc, err := app.setup(ctx, global, false, func(cfg *config.Config) {
		if flags.output != "" {
			cfg.Output.Dir = flags.output
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

	data, err := svc.Output.ReadEntities(ref)
	if err != nil {
		return fmt.Errorf("reading entities for %s (run a sync first): %w", ref, err)
	}

	entities, err := application.DecodeJSONL(data)
	if err != nil {
		return err
	}

	for _, e := range entities {
		base := e.Base()
		if flags.pending && base.Action != model.ActionPending {
			continue
		}
		fmt.Fprintf(app.Stdout, "%s\t%s\t%s\n", base.ID, base.Type, base.Action)
	}
	return nil
}
