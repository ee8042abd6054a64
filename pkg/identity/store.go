// Package identity holds the per-process user → display color mapping.
//
// Records live for the process lifetime and are never evicted; a restart
// starts from zero. Assignment is lazy: the first event seen from a user
// creates the record, every later call returns it unchanged.
package identity

import "sync"

// User is one identity record.
type User struct {
	ID    int64  `json:"id"`
	Color string `json:"color"`
}

// Store maps user IDs to assigned colors. Safe for concurrent use: the
// check-and-insert in EnsureUser is atomic under one lock, so a user keeps
// the same color no matter how many events are in flight.
type Store struct {
	mu       sync.Mutex
	users    map[int64]User
	newColor func() string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithColorFunc overrides the color generator, primarily for tests.
func WithColorFunc(f func() string) StoreOption {
	return func(s *Store) { s.newColor = f }
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		users:    make(map[int64]User),
		newColor: RandomInternetColor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureUser returns the record for userID, creating it with a fresh color
// if this is the first time the user is seen. Total over any input.
func (s *Store) EnsureUser(userID int64) User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[userID]; ok {
		return u
	}
	u := User{ID: userID, Color: s.newColor()}
	s.users[userID] = u
	return u
}

// Lookup returns the record for userID without creating one.
func (s *Store) Lookup(userID int64) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	return u, ok
}

// Len returns the number of identity records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
