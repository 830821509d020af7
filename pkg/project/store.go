// Package project tracks which project the dashboard user is acting in.
//
// The selection is an explicit store handed to its consumers, not ambient
// global state. Observers subscribe for changes; the notification is
// best-effort and carries no ordering or delivery guarantee, so consumers
// must tolerate it arriving zero or more times.
package project

import "sync"

// Selection is the active project.
type Selection struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

// Store holds the current selection and notifies subscribers on change.
type Store struct {
	mu          sync.Mutex
	current     Selection
	subscribers map[int]func(Selection)
	next        int
}

func NewStore() *Store {
	return &Store{subscribers: map[int]func(Selection){}}
}

func (s *Store) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the selection. Subscribers are notified once per actual
// change; setting the same selection again is a no-op, which also keeps the
// file bridge from echoing its own writes back as changes.
func (s *Store) Set(sel Selection) {
	s.mu.Lock()
	if s.current == sel {
		s.mu.Unlock()
		return
	}
	s.current = sel
	notify := make([]func(Selection), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		notify = append(notify, fn)
	}
	s.mu.Unlock()

	for _, fn := range notify {
		fn(sel)
	}
}

// Subscribe registers fn for future changes and returns its cancel.
func (s *Store) Subscribe(fn func(Selection)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next += 1
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
