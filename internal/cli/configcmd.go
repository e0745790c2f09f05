package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/config"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
		// The file may not exist or parse yet; subcommands load it themselves.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(newConfigInitCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	return cmd
}

func newConfigInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults (and any --api/--theme given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.configPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return usagef("config already exists: "+path, "Pass --force to overwrite")
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}

			cfg := config.Default()
			if app.BaseURL != "" {
				cfg.BaseURL = app.BaseURL
			}
			if app.Theme != "" {
				cfg.Theme = app.Theme
			}
			if err := cfg.Validate(); err != nil {
				return usagef(err.Error(), "")
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			ui.FprintOK(cmd.OutOrStdout(), "wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.setup(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return format.WriteJSON(cmd.OutOrStdout(), app.cfg, true)
		},
	}
}

func (app *App) configPath() (string, error) {
	if app.ConfigPath != "" {
		return app.ConfigPath, nil
	}
	return config.Path()
}
