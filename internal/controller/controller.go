// Package controller turns user intents into remote calls and, once the
// service has answered, into store updates and re-renders.
package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/api"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/store"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/view"
)

// User-facing messages, one per action kind.
const (
	MsgLoadFailed   = "Failed to load todos. Make sure the backend server is running at %s."
	MsgCreateFailed = "Failed to create todo. Please try again."
	MsgUpdateFailed = "Failed to update todo. Please try again."
	MsgDeleteFailed = "Failed to delete todo. Please try again."

	// DeletePrompt is what Confirm is asked before a delete.
	DeletePrompt = "Are you sure you want to delete this todo?"
)

var (
	ErrEmptyTitle  = errors.New("title is required")
	ErrNotEditing  = errors.New("no todo is open for editing")
	ErrUnknownTodo = errors.New("todo not found")
	ErrCanceled    = errors.New("canceled")
)

// Surface receives every view the controller renders.
type Surface interface {
	Draw(v view.View)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(view.View)

func (f SurfaceFunc) Draw(v view.View) { f(v) }

// ConfirmFunc asks the user a yes/no question and waits for the answer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

type Options struct {
	Surface Surface
	Confirm ConfirmFunc
	Logger  *slog.Logger
	// BaseURL is named in the load-failure message.
	BaseURL string
}

// Controller owns the store, the renderer and the transient form state.
type Controller struct {
	remote   api.Remote
	store    *store.Store
	renderer *view.Renderer
	surface  Surface
	confirm  ConfirmFunc
	log      *slog.Logger
	baseURL  string

	mu     sync.Mutex
	create view.CreateForm
	edit   view.EditSurface

	handlers map[Kind]handler
}

// New wires a controller. A nil Confirm declines every delete; a nil
// Surface discards renders.
func New(remote api.Remote, st *store.Store, r *view.Renderer, opts Options) *Controller {
	c := &Controller{
		remote:   remote,
		store:    st,
		renderer: r,
		surface:  opts.Surface,
		confirm:  opts.Confirm,
		log:      opts.Logger,
		baseURL:  opts.BaseURL,
		create:   view.CreateForm{Focus: view.FieldTitle},
	}
	if c.surface == nil {
		c.surface = SurfaceFunc(func(view.View) {})
	}
	if c.confirm == nil {
		c.confirm = func(context.Context, string) (bool, error) { return false, nil }
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.baseURL == "" {
		c.baseURL = "the configured address"
	}
	c.handlers = c.dispatchTable()
	return c
}

func (c *Controller) Store() *store.Store { return c.store }

// View renders the current state without side effects.
func (c *Controller) View() view.View {
	v := c.renderer.Render(c.store)
	c.mu.Lock()
	v.Create, v.Edit = c.create, c.edit
	c.mu.Unlock()
	return v
}

func (c *Controller) render() { c.surface.Draw(c.View()) }

// drawBanners pushes the banners without touching the rendered list.
func (c *Controller) drawBanners() {
	v := c.renderer.Banners()
	c.mu.Lock()
	v.Create, v.Edit = c.create, c.edit
	c.mu.Unlock()
	c.surface.Draw(v)
}

// drawStatus redraws the banners, keeping the list on screen whenever the
// store still holds the rows it was last rendered from.
func (c *Controller) drawStatus() {
	if c.store.Len() > 0 {
		c.render()
		return
	}
	c.drawBanners()
}

// Startup fetches the list. On failure the store keeps what it had, so a
// failed reload leaves the previous rows on screen under the error banner.
func (c *Controller) Startup(ctx context.Context) error {
	c.renderer.ShowLoading()
	c.renderer.HideError()
	c.drawStatus()

	todos, err := c.remote.List(ctx)
	if err != nil {
		c.renderer.HideLoading()
		c.renderer.ShowError(fmt.Sprintf(MsgLoadFailed, c.baseURL))
		c.log.Error("Error fetching todos", "err", err)
		c.drawStatus()
		return err
	}

	c.store.ReplaceAll(todos)
	c.renderer.HideLoading()
	c.renderer.HideError()
	c.render()
	return nil
}

// Create submits the new-todo form. Title and description are trimmed; an
// empty title issues no request.
func (c *Controller) Create(ctx context.Context, title, description string) error {
	c.mu.Lock()
	c.create.Title, c.create.Description = title, description
	c.mu.Unlock()

	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	if title == "" {
		return ErrEmptyTitle
	}

	t, err := c.remote.Create(ctx, title, description)
	if err != nil {
		c.renderer.ShowError(MsgCreateFailed)
		c.log.Error("Error creating todo", "err", err)
		c.render()
		return err
	}

	c.store.InsertFront(t)
	c.mu.Lock()
	c.create = view.CreateForm{Focus: view.FieldTitle}
	c.mu.Unlock()
	c.renderer.HideError()
	c.render()
	return nil
}

// Toggle flips the completed flag of id on the server, then mirrors the
// server's answer. Nothing changes locally if the call fails.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	cur, ok := c.store.Get(id)
	if !ok {
		return ErrUnknownTodo
	}
	return c.update(ctx, id, model.CompletedPatch(!cur.Completed))
}

func (c *Controller) update(ctx context.Context, id string, patch model.Patch) error {
	t, err := c.remote.Update(ctx, id, patch)
	if err != nil {
		c.renderer.ShowError(MsgUpdateFailed)
		c.log.Error("Error updating todo", "id", id, "err", err)
		c.render()
		return err
	}
	c.store.ReplaceOne(id, t)
	c.renderer.HideError()
	c.render()
	return nil
}

// OpenEdit opens the edit surface pre-filled from the stored todo.
func (c *Controller) OpenEdit(id string) error {
	t, ok := c.store.Get(id)
	if !ok {
		return ErrUnknownTodo
	}
	c.store.SetEditing(id)
	c.mu.Lock()
	c.edit = view.EditSurface{Open: true, TargetID: id, Title: t.Title, Description: t.Description}
	c.mu.Unlock()
	c.render()
	return nil
}

// SubmitEdit sends the edited title and description for the open target.
// The surface stays open when the call fails.
func (c *Controller) SubmitEdit(ctx context.Context, title, description string) error {
	c.mu.Lock()
	if c.edit.Open {
		c.edit.Title, c.edit.Description = title, description
	}
	c.mu.Unlock()

	title, description = strings.TrimSpace(title), strings.TrimSpace(description)
	id, editing := c.store.Editing()
	if title == "" {
		return ErrEmptyTitle
	}
	if !editing {
		return ErrNotEditing
	}

	if err := c.update(ctx, id, model.TextPatch(title, description)); err != nil {
		return err
	}
	c.closeEdit()
	c.render()
	return nil
}

// CancelEdit closes the edit surface without a request.
func (c *Controller) CancelEdit() {
	c.closeEdit()
	c.render()
}

func (c *Controller) closeEdit() {
	c.store.ClearEditing()
	c.mu.Lock()
	c.edit = view.EditSurface{}
	c.mu.Unlock()
}

// Delete asks for confirmation, then deletes id on the server and locally.
func (c *Controller) Delete(ctx context.Context, id string) error {
	ok, err := c.confirm(ctx, DeletePrompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCanceled
	}

	if err := c.remote.Delete(ctx, id); err != nil {
		c.renderer.ShowError(MsgDeleteFailed)
		c.log.Error("Error deleting todo", "id", id, "err", err)
		c.render()
		return err
	}
	c.store.RemoveOne(id)
	c.renderer.HideError()
	c.render()
	return nil
}

// ChangeFilter switches the visible subset without a request.
func (c *Controller) ChangeFilter(f model.Filter) {
	c.store.SetFilter(f)
	c.render()
}
