package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
)

var t0 = time.Date(2026, time.October, 1, 9, 0, 0, 0, time.UTC)

func todo(id string, completed bool) model.Todo {
	return model.Todo{ID: id, Title: "task " + id, Completed: completed, CreatedAt: t0}
}

func seeded() *Store {
	s := New()
	s.ReplaceAll([]model.Todo{
		todo("a", false),
		todo("b", true),
		todo("c", false),
		todo("d", true),
	})
	return s
}

func ids(todos []model.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, t := range todos {
		out = append(out, t.ID)
	}
	return out
}

func TestFiltered_KeepsStoreOrder(t *testing.T) {
	s := seeded()

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(s.Filtered()))

	s.SetFilter(model.FilterPending)
	assert.Equal(t, []string{"a", "c"}, ids(s.Filtered()))

	s.SetFilter(model.FilterCompleted)
	assert.Equal(t, []string{"b", "d"}, ids(s.Filtered()))
}

func TestCounts_IgnoreFilter(t *testing.T) {
	s := seeded()
	s.SetFilter(model.FilterCompleted)

	assert.Equal(t, model.Counts{Total: 4, Pending: 2, Completed: 2}, s.Counts())
}

func TestCounts_PendingPlusCompletedIsTotal(t *testing.T) {
	s := New()
	for i := 0; i < 20; i++ {
		c := s.Counts()
		require.Equal(t, c.Total, c.Pending+c.Completed, "after %d inserts", i)
		s.InsertFront(todo(fmt.Sprint(i), i%3 == 0))
	}
	s.RemoveOne("3")
	c := s.Counts()
	assert.Equal(t, c.Total, c.Pending+c.Completed)
	assert.Equal(t, 19, c.Total)
}

func TestInsertFront_NewTodoFirst(t *testing.T) {
	s := seeded()
	s.InsertFront(todo("new", false))

	assert.Equal(t, []string{"new", "a", "b", "c", "d"}, ids(s.Filtered()))
}

func TestReplaceOne_LeavesOthersUntouched(t *testing.T) {
	s := seeded()
	before := s.All()

	updated := todo("c", true)
	updated.Title = "renamed"
	s.ReplaceOne("c", updated)

	after := s.All()
	want := append([]model.Todo(nil), before...)
	want[2] = updated
	if diff := cmp.Diff(want, after); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceOne_AbsentIsNoop(t *testing.T) {
	s := seeded()
	before := s.All()
	s.ReplaceOne("zzz", todo("zzz", true))

	if diff := cmp.Diff(before, s.All()); diff != "" {
		t.Fatalf("store changed (-before +after):\n%s", diff)
	}
}

func TestRemoveOne(t *testing.T) {
	s := seeded()
	before := s.All()

	s.RemoveOne("missing")
	if diff := cmp.Diff(before, s.All()); diff != "" {
		t.Fatalf("removing an absent id changed the store:\n%s", diff)
	}

	s.RemoveOne("b")
	assert.Equal(t, []string{"a", "c", "d"}, ids(s.All()))
	// The earlier snapshot must not see the removal.
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(before))
}

func TestAll_ReturnsCopy(t *testing.T) {
	s := seeded()
	got := s.All()
	got[0].Title = "mutated"

	first, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "task a", first.Title)
}

func TestEditingTarget(t *testing.T) {
	s := New()
	_, ok := s.Editing()
	assert.False(t, ok)

	s.SetEditing("a")
	id, ok := s.Editing()
	assert.True(t, ok)
	assert.Equal(t, "a", id)

	s.ClearEditing()
	_, ok = s.Editing()
	assert.False(t, ok)
}

func TestConcurrentReplaceByID(t *testing.T) {
	s := seeded()
	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			cur, _ := s.Get(id)
			cur.Completed = !cur.Completed
			s.ReplaceOne(id, cur)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(s.All()))
	assert.Equal(t, model.Counts{Total: 4, Pending: 2, Completed: 2}, s.Counts())
}

func TestSnapshot_ConsistentUnderWrites(t *testing.T) {
	s := seeded()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			id := fmt.Sprintf("n%d", i)
			s.InsertFront(todo(id, i%2 == 0))
			s.RemoveOne(id)
		}
	}()

	for i := 0; i < 500; i++ {
		snap := s.Snapshot()
		require.Equal(t, model.FilterAll, snap.Filter)
		require.Equal(t, snap.Counts.Total, len(snap.Visible))
		completed := 0
		for _, td := range snap.Visible {
			if td.Completed {
				completed++
			}
		}
		require.Equal(t, snap.Counts.Completed, completed)
	}
	close(stop)
	wg.Wait()
}

func TestSnapshot_AppliesFilter(t *testing.T) {
	s := seeded()
	s.SetFilter(model.FilterPending)
	snap := s.Snapshot()
	assert.Equal(t, model.FilterPending, snap.Filter)
	assert.Equal(t, []string{"a", "c"}, ids(snap.Visible))
	assert.Equal(t, model.Counts{Total: 4, Pending: 2, Completed: 2}, snap.Counts)
}
