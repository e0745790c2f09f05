// Package view derives what the user sees from the store: the filtered,
// formatted rows, the summary counts, and the loading and error banners.
package view

import (
	"sync"
	"time"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/format"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/store"
)

// View is one complete rendering instruction set.
type View struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	// List is nil when only the banners were rendered.
	List   *List       `json:"list,omitempty"`
	Create CreateForm  `json:"-"`
	Edit   EditSurface `json:"-"`
}

type List struct {
	Filter model.Filter `json:"filter"`
	Empty  bool         `json:"empty"`
	Rows   []Row        `json:"rows"`
	Counts model.Counts `json:"counts"`
}

// Row is one visible todo. Title and Description are already escaped for
// the target surface; Description is empty when the todo has none.
type Row struct {
	ID          string `json:"id"`
	Completed   bool   `json:"completed"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created"`
}

// Field names a form input.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
)

// CreateForm is the new-todo form as the controller left it.
type CreateForm struct {
	Title       string
	Description string
	Focus       Field
}

// EditSurface is the edit modal. TargetID is empty when it is closed.
type EditSurface struct {
	Open        bool
	TargetID    string
	Title       string
	Description string
}

// Renderer turns store state into Views. Banners are flags it keeps between
// renders; everything else is recomputed each time.
type Renderer struct {
	// Escape prepares user text for the surface, e.g. format.EscapeHTML.
	Escape func(string) string
	// Now is the wall clock relative labels are computed against.
	Now func() time.Time

	mu      sync.Mutex
	loading bool
	errMsg  string
}

// NewRenderer returns a renderer using escape and the real clock.
func NewRenderer(escape func(string) string) *Renderer {
	if escape == nil {
		escape = format.EscapeHTML
	}
	return &Renderer{Escape: escape, Now: time.Now}
}

func (r *Renderer) ShowLoading() { r.setLoading(true) }
func (r *Renderer) HideLoading() { r.setLoading(false) }

func (r *Renderer) setLoading(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loading = v
}

// ShowError replaces any message already shown.
func (r *Renderer) ShowError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errMsg = msg
}

func (r *Renderer) HideError() { r.ShowError("") }

// Banners renders only the loading and error banners.
func (r *Renderer) Banners() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return View{Loading: r.loading, Error: r.errMsg}
}

// Render builds the full view. With unchanged store, banners and clock it
// returns an identical View.
func (r *Renderer) Render(s *store.Store) View {
	v := r.Banners()
	now := r.Now()

	snap := s.Snapshot()
	l := &List{Filter: snap.Filter, Counts: snap.Counts, Empty: len(snap.Visible) == 0}
	if !l.Empty {
		l.Rows = make([]Row, 0, len(snap.Visible))
		for _, t := range snap.Visible {
			l.Rows = append(l.Rows, r.row(t, now))
		}
	}
	v.List = l
	return v
}

func (r *Renderer) row(t model.Todo, now time.Time) Row {
	row := Row{
		ID:        t.ID,
		Completed: t.Completed,
		Title:     r.Escape(t.Title),
		Created:   format.RelativeLabel(t.CreatedAt, now),
	}
	if t.Description != "" {
		row.Description = r.Escape(t.Description)
	}
	return row
}
