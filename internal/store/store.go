// Package store holds the local copy of the remote todo list together with
// the current UI selection (filter and edit target).
//
// The store is only ever changed after the remote service confirmed a change;
// it never holds speculative state.
package store

import (
	"sync"

	"github.com/Abhishek-Chamlagain/todo-app-frontend/internal/model"
)

// Store is an ordered todo list plus selection state.
// It is safe for concurrent use; replace and remove key by id, never by
// position, so overlapping actions on different todos do not interfere.
type Store struct {
	mu      sync.RWMutex
	todos   []model.Todo
	filter  model.Filter
	editing string
}

// New returns an empty store showing all todos.
func New() *Store {
	return &Store{filter: model.FilterAll}
}

// ReplaceAll overwrites the list, keeping the given order.
func (s *Store) ReplaceAll(todos []model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append([]model.Todo(nil), todos...)
}

// InsertFront prepends t. The caller guarantees t.ID is not already present.
func (s *Store) InsertFront(t model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.todos = append([]model.Todo{t}, s.todos...)
}

// ReplaceOne swaps in t for the entry with the given id. No-op if absent.
func (s *Store) ReplaceOne(id string, t model.Todo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		s.todos[i] = t
	}
}

// RemoveOne drops the entry with the given id. No-op if absent.
func (s *Store) RemoveOne(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return
	}
	out := make([]model.Todo, 0, len(s.todos)-1)
	out = append(out, s.todos[:i]...)
	s.todos = append(out, s.todos[i+1:]...)
}

// Get returns the entry with the given id.
func (s *Store) Get(id string) (model.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.todos[i], true
	}
	return model.Todo{}, false
}

// All returns a copy of the full list.
func (s *Store) All() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Todo(nil), s.todos...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.todos)
}

func (s *Store) SetFilter(f model.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func (s *Store) Filter() model.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetEditing records the todo open in the edit form.
func (s *Store) SetEditing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = id
}

func (s *Store) ClearEditing() { s.SetEditing("") }

// Editing returns the edit target, if any.
func (s *Store) Editing() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing, s.editing != ""
}

// Snapshot is the visible subset, the filter that produced it and the
// counts of the whole list, all read under one lock.
type Snapshot struct {
	Filter  model.Filter
	Visible []model.Todo
	Counts  model.Counts
}

// Snapshot reads everything a render needs at once.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Filter: s.filter, Visible: s.filtered(), Counts: s.counts()}
}

// Filtered returns the entries matching the current filter, in store order.
func (s *Store) Filtered() []model.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered()
}

// Counts summarizes the whole list in one pass, ignoring the filter.
func (s *Store) Counts() model.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts()
}

func (s *Store) filtered() []model.Todo {
	out := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if s.filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) counts() model.Counts {
	c := model.Counts{Total: len(s.todos)}
	for _, t := range s.todos {
		if t.Completed {
			c.Completed++
		} else {
			c.Pending++
		}
	}
	return c
}

func (s *Store) index(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}
