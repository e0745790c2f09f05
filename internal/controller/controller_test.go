package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/api"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/devserver"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/store"
	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/view"
)

var now = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRemote records calls and answers from an in-memory list.
type fakeRemote struct {
	mu     sync.Mutex
	todos  []model.Todo
	calls  []string
	fail   map[api.Op]bool
	nextID int
}

func newFakeRemote(todos ...model.Todo) *fakeRemote {
	return &fakeRemote{todos: todos, fail: map[api.Op]bool{}}
}

func (f *fakeRemote) record(op api.Op, arg string) error {
	f.calls = append(f.calls, fmt.Sprintf("%s %s", op, arg))
	if f.fail[op] {
		return &api.TransportError{Op: op, Status: 500, Err: errors.New("forced")}
	}
	return nil
}

func (f *fakeRemote) List(context.Context) ([]model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpList, ""); err != nil {
		return nil, err
	}
	return append([]model.Todo(nil), f.todos...), nil
}

func (f *fakeRemote) Create(_ context.Context, title, description string) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpCreate, title+"|"+description); err != nil {
		return model.Todo{}, err
	}
	f.nextID++
	t := model.Todo{ID: fmt.Sprintf("new-%d", f.nextID), Title: title, Description: description, CreatedAt: now}
	f.todos = append([]model.Todo{t}, f.todos...)
	return t, nil
}

func (f *fakeRemote) Update(_ context.Context, id string, p model.Patch) (model.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(api.OpUpdate, id); err != nil {
		return model.Todo{}, err
	}
	for i, t := range f.todos {
		if t.ID != id {
			continue
		}
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		if p.Completed != nil {
			t.Completed = *p.Completed
		}
		f.todos[i] = t
		return t, nil
	}
	return model.Todo{}, &api.TransportError{Op: api.OpUpdate, Status: 404, Err: errors.New("not found")}
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(api.OpDelete, id)
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// recorder keeps every drawn view.
type recorder struct {
	mu    sync.Mutex
	views []view.View
}

func (r *recorder) Draw(v view.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, v)
}

func (r *recorder) Last() view.View {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.views) == 0 {
		return view.View{}
	}
	return r.views[len(r.views)-1]
}

func (r *recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

type harness struct {
	ctrl    *Controller
	remote  *fakeRemote
	surface *recorder
	answer  bool
	asked   []string
}

func newHarness(t *testing.T, todos ...model.Todo) *harness {
	t.Helper()
	h := &harness{remote: newFakeRemote(todos...), surface: &recorder{}, answer: true}
	r := view.NewRenderer(nil)
	r.Now = func() time.Time { return now }
	h.ctrl = New(h.remote, store.New(), r, Options{
		Surface: h.surface,
		BaseURL: "http://localhost:5000/api",
		Confirm: func(_ context.Context, prompt string) (bool, error) {
			h.asked = append(h.asked, prompt)
			return h.answer, nil
		},
	})
	return h
}

func started(t *testing.T, todos ...model.Todo) *harness {
	t.Helper()
	h := newHarness(t, todos...)
	require.NoError(t, h.ctrl.Startup(context.Background()))
	return h
}

func sample() []model.Todo {
	return []model.Todo{
		{ID: "a", Title: "alpha", Description: "first", CreatedAt: now.Add(-time.Hour)},
		{ID: "b", Title: "beta", Completed: true, CreatedAt: now.Add(-2 * time.Hour)},
	}
}

func TestStartup_Success(t *testing.T) {
	h := newHarness(t, sample()...)
	require.NoError(t, h.ctrl.Startup(context.Background()))

	first := h.surface.views[0]
	assert.True(t, first.Loading, "loading is shown while the list is fetched")

	v := h.surface.Last()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	require.NotNil(t, v.List)
	assert.Len(t, v.List.Rows, 2)
	assert.Equal(t, model.Counts{Total: 2, Pending: 1, Completed: 1}, v.List.Counts)
}

func TestStartup_Failure(t *testing.T) {
	h := newHarness(t, sample()...)
	h.remote.fail[api.OpList] = true

	err := h.ctrl.Startup(context.Background())
	require.Error(t, err)
	assert.True(t, api.IsTransport(err))

	v := h.surface.Last()
	assert.False(t, v.Loading)
	assert.Equal(t, "Failed to load todos. Make sure the backend server is running at http://localhost:5000/api.", v.Error)
	assert.Nil(t, v.List, "the list is not rendered when the load fails")
	assert.Zero(t, h.ctrl.Store().Len())
}

func TestReload_FailureKeepsRows(t *testing.T) {
	h := started(t, sample()...)
	before := h.surface.Len()
	h.remote.fail[api.OpList] = true

	err := h.ctrl.Dispatch(context.Background(), Intent{Kind: KindReload})
	require.Error(t, err)

	h.surface.mu.Lock()
	drawn := append([]view.View(nil), h.surface.views[before:]...)
	h.surface.mu.Unlock()
	require.Len(t, drawn, 2)
	assert.True(t, drawn[0].Loading)
	for _, v := range drawn {
		require.NotNil(t, v.List, "rows stay on screen while the store holds them")
		assert.Len(t, v.List.Rows, 2)
	}

	v := h.surface.Last()
	assert.False(t, v.Loading)
	assert.Equal(t, fmt.Sprintf(MsgLoadFailed, "http://localhost:5000/api"), v.Error)
	assert.Equal(t, 2, h.ctrl.Store().Len())
}

func TestEmptyStore_RendersEmptyIndicator(t *testing.T) {
	h := started(t)
	v := h.surface.Last()

	require.NotNil(t, v.List)
	assert.True(t, v.List.Empty)
	assert.Equal(t, model.Counts{}, v.List.Counts)
}

func TestCreate_Success(t *testing.T) {
	h := started(t, sample()...)
	h.ctrl.renderer.ShowError("stale")

	require.NoError(t, h.ctrl.Create(context.Background(), "  gamma ", " third  "))

	assert.Equal(t, []string{"list ", "create gamma|third"}, h.remote.Calls())
	all := h.ctrl.Store().All()
	require.Len(t, all, 3)
	assert.Equal(t, "new-1", all[0].ID, "created todos are prepended")

	v := h.surface.Last()
	assert.Empty(t, v.Error)
	assert.Equal(t, view.CreateForm{Focus: view.FieldTitle}, v.Create, "form resets with focus on the title")
}

func TestCreate_EmptyTitleIssuesNoCall(t *testing.T) {
	h := started(t, sample()...)
	before := h.ctrl.Store().All()

	err := h.ctrl.Create(context.Background(), "   ", "desc")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, []string{"list "}, h.remote.Calls())
	if diff := cmp.Diff(before, h.ctrl.Store().All()); diff != "" {
		t.Fatalf("store changed:\n%s", diff)
	}
}

func TestCreate_Failure(t *testing.T) {
	h := started(t, sample()...)
	h.remote.fail[api.OpCreate] = true
	before := h.ctrl.Store().All()

	err := h.ctrl.Create(context.Background(), "gamma", "keep me")
	require.Error(t, err)

	if diff := cmp.Diff(before, h.ctrl.Store().All()); diff != "" {
		t.Fatalf("store changed:\n%s", diff)
	}
	v := h.surface.Last()
	assert.Equal(t, MsgCreateFailed, v.Error)
	assert.False(t, v.Loading)
	assert.Equal(t, "gamma", v.Create.Title, "input is retained for retry")
	assert.Equal(t, "keep me", v.Create.Description)
	require.NotNil(t, v.List, "the view is re-rendered on failure")
}

func TestToggle(t *testing.T) {
	h := started(t, sample()...)

	require.NoError(t, h.ctrl.Toggle(context.Background(), "a"))
	got, _ := h.ctrl.Store().Get("a")
	assert.True(t, got.Completed)

	require.NoError(t, h.ctrl.Toggle(context.Background(), "a"))
	got, _ = h.ctrl.Store().Get("a")
	assert.False(t, got.Completed)

	assert.ErrorIs(t, h.ctrl.Toggle(context.Background(), "zzz"), ErrUnknownTodo)
}

func TestToggle_FailureKeepsLocalState(t *testing.T) {
	h := started(t, sample()...)
	h.remote.fail[api.OpUpdate] = true

	require.Error(t, h.ctrl.Toggle(context.Background(), "a"))
	got, _ := h.ctrl.Store().Get("a")
	assert.False(t, got.Completed, "no optimistic flip")
	assert.Equal(t, MsgUpdateFailed, h.surface.Last().Error)
}

func TestEditFlow(t *testing.T) {
	h := started(t, sample()...)
	ctx := context.Background()

	require.NoError(t, h.ctrl.OpenEdit("b"))
	v := h.surface.Last()
	assert.Equal(t, view.EditSurface{Open: true, TargetID: "b", Title: "beta"}, v.Edit,
		"description defaults to empty")
	id, ok := h.ctrl.Store().Editing()
	require.True(t, ok)
	assert.Equal(t, "b", id)

	require.NoError(t, h.ctrl.SubmitEdit(ctx, " beta 2 ", " now described "))
	got, _ := h.ctrl.Store().Get("b")
	assert.Equal(t, "beta 2", got.Title)
	assert.Equal(t, "now described", got.Description)
	assert.True(t, got.Completed, "fields not sent are kept by the server")

	assert.Equal(t, view.EditSurface{}, h.surface.Last().Edit)
	_, ok = h.ctrl.Store().Editing()
	assert.False(t, ok)
}

func TestSubmitEdit_Guards(t *testing.T) {
	h := started(t, sample()...)
	ctx := context.Background()

	assert.ErrorIs(t, h.ctrl.SubmitEdit(ctx, "title", ""), ErrNotEditing)

	require.NoError(t, h.ctrl.OpenEdit("a"))
	assert.ErrorIs(t, h.ctrl.SubmitEdit(ctx, "  ", "x"), ErrEmptyTitle)
	assert.Equal(t, []string{"list "}, h.remote.Calls())
	assert.True(t, h.surface.Last().Edit.Open)

	assert.ErrorIs(t, h.ctrl.OpenEdit("zzz"), ErrUnknownTodo)
}

func TestSubmitEdit_FailureKeepsSurfaceOpen(t *testing.T) {
	h := started(t, sample()...)
	h.remote.fail[api.OpUpdate] = true

	require.NoError(t, h.ctrl.OpenEdit("a"))
	require.Error(t, h.ctrl.SubmitEdit(context.Background(), "renamed", "d"))

	v := h.surface.Last()
	assert.Equal(t, MsgUpdateFailed, v.Error)
	assert.True(t, v.Edit.Open)
	assert.Equal(t, "renamed", v.Edit.Title)
	got, _ := h.ctrl.Store().Get("a")
	assert.Equal(t, "alpha", got.Title)
}

func TestCancelEdit(t *testing.T) {
	h := started(t, sample()...)
	require.NoError(t, h.ctrl.OpenEdit("a"))

	h.ctrl.CancelEdit()
	assert.Equal(t, view.EditSurface{}, h.surface.Last().Edit)
	_, ok := h.ctrl.Store().Editing()
	assert.False(t, ok)
	assert.Equal(t, []string{"list "}, h.remote.Calls())
}

func TestDelete(t *testing.T) {
	h := started(t, sample()...)

	require.NoError(t, h.ctrl.Delete(context.Background(), "a"))
	assert.Equal(t, []string{DeletePrompt}, h.asked)
	_, ok := h.ctrl.Store().Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, h.surface.Last().List.Counts.Total)
}

func TestDelete_DeclinedIssuesNoCall(t *testing.T) {
	h := started(t, sample()...)
	h.answer = false

	assert.ErrorIs(t, h.ctrl.Delete(context.Background(), "a"), ErrCanceled)
	assert.Equal(t, []string{"list "}, h.remote.Calls())
	assert.Equal(t, 2, h.ctrl.Store().Len())
}

func TestDelete_Failure(t *testing.T) {
	h := started(t, sample()...)
	h.remote.fail[api.OpDelete] = true

	require.Error(t, h.ctrl.Delete(context.Background(), "a"))
	assert.Equal(t, 2, h.ctrl.Store().Len())
	assert.Equal(t, MsgDeleteFailed, h.surface.Last().Error)
}

func TestChangeFilter_NoNetwork(t *testing.T) {
	h := started(t, sample()...)

	h.ctrl.ChangeFilter(model.FilterCompleted)
	v := h.surface.Last()
	require.Len(t, v.List.Rows, 1)
	assert.Equal(t, "b", v.List.Rows[0].ID)
	assert.Equal(t, []string{"list "}, h.remote.Calls())
}

func TestDispatch(t *testing.T) {
	h := newHarness(t, sample()...)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindStartup}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindCreate, Title: "c"}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindToggle, ID: "a"}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindOpenEdit, ID: "a"}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindCancelEdit}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindDelete, ID: "b"}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindChangeFilter, Filter: model.FilterPending}))
	require.NoError(t, h.ctrl.Dispatch(ctx, Intent{Kind: KindReload}))

	assert.Equal(t, []string{"list ", "create c|", "update a", "delete b", "list "}, h.remote.Calls())
	assert.Error(t, h.ctrl.Dispatch(ctx, Intent{Kind: "teleport"}))
}

func TestOverlappingTogglesOnDifferentRows(t *testing.T) {
	h := started(t, sample()...)

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, h.ctrl.Toggle(context.Background(), id))
		}(id)
	}
	wg.Wait()

	a, _ := h.ctrl.Store().Get("a")
	b, _ := h.ctrl.Store().Get("b")
	assert.True(t, a.Completed)
	assert.False(t, b.Completed)
}

func TestAgainstDevServer(t *testing.T) {
	backend := devserver.New(devserver.DefaultPrefix, devserver.WithTodos(sample()...),
		devserver.WithLogger(quietLogger()))
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	client, err := api.New(ts.URL+"/api", api.WithLogger(quietLogger()))
	require.NoError(t, err)
	surface := &recorder{}
	ctrl := New(client, store.New(), view.NewRenderer(nil), Options{
		Surface: surface,
		Confirm: func(context.Context, string) (bool, error) { return true, nil },
	})
	ctx := context.Background()

	require.NoError(t, ctrl.Startup(ctx))
	require.NoError(t, ctrl.Create(ctx, "from test", ""))
	first := ctrl.Store().All()[0]
	require.NoError(t, ctrl.Toggle(ctx, first.ID))
	require.NoError(t, ctrl.Delete(ctx, "a"))

	if diff := cmp.Diff(backend.Todos(), ctrl.Store().All()); diff != "" {
		t.Fatalf("local store diverged from the service (-service +local):\n%s", diff)
	}

	backend.Fail("create", true)
	require.Error(t, ctrl.Create(ctx, "nope", ""))
	v := surface.Last()
	assert.Equal(t, MsgCreateFailed, v.Error)
	assert.False(t, v.Loading)
	assert.Equal(t, 2, ctrl.Store().Len())
}
