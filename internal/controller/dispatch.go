package controller

import (
	"context"
	"fmt"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
)

// Kind names a user intent.
type Kind string

const (
	KindStartup      Kind = "startup"
	KindReload       Kind = "reload"
	KindCreate       Kind = "create"
	KindToggle       Kind = "toggle"
	KindOpenEdit     Kind = "open-edit"
	KindSubmitEdit   Kind = "submit-edit"
	KindCancelEdit   Kind = "cancel-edit"
	KindDelete       Kind = "delete"
	KindChangeFilter Kind = "change-filter"
)

// Intent is one user action, independent of how the surface captured it.
// Only the fields its Kind needs are read.
type Intent struct {
	Kind        Kind
	ID          string
	Title       string
	Description string
	Filter      model.Filter
}

type handler func(ctx context.Context, in Intent) error

func (c *Controller) dispatchTable() map[Kind]handler {
	return map[Kind]handler{
		KindStartup: func(ctx context.Context, _ Intent) error { return c.Startup(ctx) },
		KindReload:  func(ctx context.Context, _ Intent) error { return c.Startup(ctx) },
		KindCreate: func(ctx context.Context, in Intent) error {
			return c.Create(ctx, in.Title, in.Description)
		},
		KindToggle: func(ctx context.Context, in Intent) error { return c.Toggle(ctx, in.ID) },
		KindOpenEdit: func(_ context.Context, in Intent) error {
			return c.OpenEdit(in.ID)
		},
		KindSubmitEdit: func(ctx context.Context, in Intent) error {
			return c.SubmitEdit(ctx, in.Title, in.Description)
		},
		KindCancelEdit: func(context.Context, Intent) error {
			c.CancelEdit()
			return nil
		},
		KindDelete: func(ctx context.Context, in Intent) error { return c.Delete(ctx, in.ID) },
		KindChangeFilter: func(_ context.Context, in Intent) error {
			c.ChangeFilter(in.Filter)
			return nil
		},
	}
}

// Dispatch runs the handler registered for in.Kind.
func (c *Controller) Dispatch(ctx context.Context, in Intent) error {
	h, ok := c.handlers[in.Kind]
	if !ok {
		return fmt.Errorf("unknown intent %q", in.Kind)
	}
	return h(ctx, in)
}
