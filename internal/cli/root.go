// Package cli is the `todo` command line: one-shot commands over the
// controller, the interactive TUI when no subcommand is given, and the
// in-memory dev backend.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/api"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/config"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/controller"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/tui"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
)

type App struct {
	ConfigPath string
	BaseURL    string
	Theme      string
	PrettyJSON bool

	// Confirm answers delete prompts; nil prompts on the terminal.
	Confirm controller.ConfirmFunc

	cfg    config.Config
	log    *slog.Logger
	closer io.Closer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Client for the todo REST service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo ls --filter pending
  todo add "Buy milk" -d "2 litres"
  todo done 2
  todo rm 3 --yes

  # Local backend for trying things out
  todo serve-dev --addr localhost:5000
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd.ErrOrStderr())
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closer != nil {
			return app.closer.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config file (default $XDG_CONFIG_HOME/todo/config.json)")
	cmd.PersistentFlags().StringVar(&app.BaseURL, "api", "", "Base URL of the todo service, e.g. "+config.DefaultBaseURL)
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Color theme ("+strings.Join(ui.Themes, "|")+")")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usagef(err.Error(), "Run `todo --help` for usage")
	})

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newServeDevCmd(app))

	return cmd
}

// setup resolves configuration, applies the theme and opens the logger.
func (app *App) setup(stderr io.Writer) error {
	cfg, err := config.Load(app.ConfigPath, config.Overrides{BaseURL: app.BaseURL, Theme: app.Theme})
	if err != nil {
		return usagef(err.Error(), "Check --api, --theme and the config file")
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return usagef(err.Error(), "")
	}
	log, closer, err := cfg.Logger(stderr)
	if err != nil {
		return err
	}
	app.cfg, app.log, app.closer = cfg, log, closer
	return nil
}

func (app *App) client() (*api.Client, error) {
	c, err := api.New(app.cfg.BaseURL,
		api.WithTimeout(timeDuration(app.cfg.RequestTimeout)),
		api.WithLogger(app.log),
	)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return c, nil
}

func runTUI(ctx context.Context, app *App) error {
	// The alt screen owns the terminal; only a log file may receive records.
	if app.cfg.LogFile == "" {
		app.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c, err := app.client()
	if err != nil {
		return err
	}
	return tui.Run(ctx, c, tui.Options{
		BaseURL: c.BaseURL(),
		Theme:   ui.Current(),
		Logger:  app.log,
	})
}
