package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/peterh/liner"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/controller"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/store"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/view"
)

// session is one controller run for a one-shot command. It keeps the last
// view the controller drew so failures can be reported with its banner.
type session struct {
	ctl *controller.Controller

	mu   sync.Mutex
	last view.View
}

func (s *session) Draw(v view.View) {
	s.mu.Lock()
	s.last = v
	s.mu.Unlock()
}

func (s *session) lastView() view.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// open builds the controller and loads the list.
func (app *App) open(ctx context.Context, escape func(string) string) (*session, error) {
	return app.openWith(ctx, escape, nil)
}

// openWith is open with a delete confirmation overriding App.Confirm.
func (app *App) openWith(ctx context.Context, escape func(string) string, confirm controller.ConfirmFunc) (*session, error) {
	c, err := app.client()
	if err != nil {
		return nil, err
	}
	s := &session{}
	if confirm == nil {
		confirm = app.Confirm
	}
	if confirm == nil {
		confirm = promptConfirm
	}
	s.ctl = controller.New(c, store.New(), view.NewRenderer(escape), controller.Options{
		Surface: s,
		Confirm: confirm,
		Logger:  app.log,
		BaseURL: c.BaseURL(),
	})
	if err := s.run(s.ctl.Startup(ctx)); err != nil {
		return nil, err
	}
	return s, nil
}

// run turns a controller error into what the user should see.
func (s *session) run(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrEmptyTitle):
		return usagef("title is required", `Example: todo add "Buy milk"`)
	case errors.Is(err, controller.ErrUnknownTodo):
		return usagef(err.Error(), "Run `todo ls` to see valid ids and indexes")
	}
	if msg := s.lastView().Error; msg != "" {
		return &shownError{msg: msg, err: err}
	}
	return err
}

// resolve maps a 1-based index from `todo ls`, a full id or a unique id
// prefix onto a todo id.
func (s *session) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	todos := s.ctl.Store().All()
	hint := "Run `todo ls` to see valid ids and indexes"

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(todos) {
			return "", usagef(fmt.Sprintf("index out of range: have %d, got %d", len(todos), n), hint)
		}
		return todos[n-1].ID, nil
	}

	var match string
	for _, t := range todos {
		if t.ID == ref {
			return t.ID, nil
		}
		if ref != "" && strings.HasPrefix(t.ID, ref) {
			if match != "" {
				return "", usagef(fmt.Sprintf("ambiguous id prefix %q", ref), hint)
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", usagef(fmt.Sprintf("no todo matches %q", ref), hint)
	}
	return match, nil
}

func escapeFor(out string) func(string) string {
	if out == formatHTML {
		return format.EscapeHTML
	}
	return format.EscapeTerminal
}

// promptConfirm asks on the terminal; anything but y/yes declines.
func promptConfirm(_ context.Context, prompt string) (bool, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(prompt + " (y/N): ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("prompt: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
