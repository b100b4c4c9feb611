package cli

import (
	"time"

	"github.com/emree-sen/idea-box-app/internal/conversation"
	"github.com/emree-sen/idea-box-app/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Projects service.ProjectService

	// NewSession starts a conversation wired to the model and, when
	// enabled, the prediction service. It fails when the model settings
	// are incomplete, so commands that only read projects still work.
	NewSession func(opts ...conversation.Option) (*conversation.Session, error)

	ExportDir     string
	Color         bool
	IsInteractive func() bool
	Now           func() time.Time

	// PredictionWait bounds how long "new" waits for the success
	// prediction before saving without it.
	PredictionWait time.Duration

	// Setup, when set, runs before any command with the --config value
	// and fills in the fields above.
	Setup func(app *App, configPath string) error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

const defaultPredictionWait = 5 * time.Second

func (a *App) predictionWait() time.Duration {
	if a.PredictionWait > 0 {
		return a.PredictionWait
	}
	return defaultPredictionWait
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "ideabox" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "ideabox",
		Short:         "Turn app ideas into project templates",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Setup == nil {
				return nil
			}
			return app.Setup(app, configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.ideabox/config.toml)")

	root.AddCommand(
		newNewCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newEditCmd(app),
		newDeleteCmd(app),
		newClearCmd(app),
		newExportCmd(app),
	)

	return root
}
