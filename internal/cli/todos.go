package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/controller"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/ui"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/view"
)

type listOutput struct {
	Filter model.Filter `json:"filter"`
	Counts model.Counts `json:"counts"`
	Todos  []model.Todo `json:"todos"`
}

func newListCmd(app *App) *cobra.Command {
	var (
		filter model.Filter
		out    string
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List todos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), escapeFor(out))
			if err != nil {
				return err
			}
			s.ctl.ChangeFilter(filter)
			return writeList(cmd.OutOrStdout(), s, out, app.PrettyJSON)
		},
	}
	addFilterFlag(cmd.Flags(), &filter)
	addFormatFlag(cmd.Flags(), &out)
	return cmd
}

func writeList(w io.Writer, s *session, out string, pretty bool) error {
	switch out {
	case formatJSON:
		snap := s.ctl.Store().Snapshot()
		return format.WriteJSON(w, listOutput{
			Filter: snap.Filter,
			Counts: snap.Counts,
			Todos:  snap.Visible,
		}, pretty)
	case formatHTML:
		_, err := io.WriteString(w, view.HTML(s.ctl.View()))
		return err
	}
	_, err := fmt.Fprintln(w, view.Text(s.ctl.View(), ui.Current()))
	return err
}

func newAddCmd(app *App) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Create a todo (the title can be multiple words)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), format.EscapeTerminal)
			if err != nil {
				return err
			}
			if err := s.run(s.ctl.Create(cmd.Context(), strings.Join(args, " "), description)); err != nil {
				return err
			}
			created := s.ctl.Store().All()[0]
			ui.FprintOK(cmd.OutOrStdout(), "added "+format.EscapeTerminal(created.Title)+" ("+format.EscapeTerminal(created.ID)+")")
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Optional description")
	return cmd
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id|index>",
		Short: "Toggle a todo between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.open(cmd.Context(), format.EscapeTerminal)
			if err != nil {
				return err
			}
			id, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.run(s.ctl.Toggle(cmd.Context(), id)); err != nil {
				return err
			}
			t, _ := s.ctl.Store().Get(id)
			state := "reopened"
			if t.Completed {
				state = "completed"
			}
			ui.FprintOK(cmd.OutOrStdout(), state+" "+format.EscapeTerminal(t.Title))
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	var title, description string
	cmd := &cobra.Command{
		Use:   "edit <id|index>",
		Short: "Change the title and/or description of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			titleSet, descSet := cmd.Flags().Changed("title"), cmd.Flags().Changed("description")
			if !titleSet && !descSet {
				return usagef("edit: nothing to change", "Pass --title and/or --description")
			}
			s, err := app.open(cmd.Context(), format.EscapeTerminal)
			if err != nil {
				return err
			}
			id, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			if err := s.run(s.ctl.OpenEdit(id)); err != nil {
				return err
			}
			form := s.ctl.View().Edit
			if titleSet {
				form.Title = title
			}
			if descSet {
				form.Description = description
			}
			if err := s.run(s.ctl.SubmitEdit(cmd.Context(), form.Title, form.Description)); err != nil {
				return err
			}
			ui.FprintOK(cmd.OutOrStdout(), "updated "+format.EscapeTerminal(id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description (empty clears it)")
	return cmd
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <id|index>",
		Short: "Delete a todo after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirm controller.ConfirmFunc
			if yes {
				confirm = func(context.Context, string) (bool, error) { return true, nil }
			}
			s, err := app.openWith(cmd.Context(), format.EscapeTerminal, confirm)
			if err != nil {
				return err
			}
			id, err := s.resolve(args[0])
			if err != nil {
				return err
			}
			err = s.ctl.Delete(cmd.Context(), id)
			if errors.Is(err, controller.ErrCanceled) {
				ui.Hint(cmd.OutOrStdout(), "Not deleted.")
				return nil
			}
			if err := s.run(err); err != nil {
				return err
			}
			ui.FprintOK(cmd.OutOrStdout(), "removed "+format.EscapeTerminal(id))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
