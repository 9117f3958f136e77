package cli

import (
	"context"

	"github.com/gokepelemo/biensperience/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Experiences service.ExperienceService
	Plans       service.PlanService
	Sync        service.SyncService
	Import      service.ImportService

	// User is the acting user for every command. --user overrides it.
	User string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Serve runs the HTTP API on addr until ctx is cancelled. Nil disables
	// the serve command.
	Serve func(ctx context.Context, addr string) error
	// HTTPAddr is the default listen address for serve.
	HTTPAddr string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "biensperience" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	// --user binds into a per-invocation copy so the caller's App is not changed.
	cfg := *app
	app = &cfg

	root := &cobra.Command{
		Use:           "biensperience",
		Short:         "Plan experiences and keep plans in sync with them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.User, "user", app.User, "Acting user (defaults to BIENS_USER or $USER)")

	root.AddCommand(
		newExperienceCmd(app),
		newPlanCmd(app),
		newSyncCmd(app),
		newServeCmd(app),
	)

	return root
}
