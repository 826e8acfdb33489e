// Package collection keeps several independently fetched, filterable, paged
// views synchronized with a remote source of truth. Each logical collection
// is addressed by a string key and carries its own request lifecycle state.
package collection

import (
	"context"
	"sync"
)

type RequestState string

const (
	StateIdle    RequestState = "idle"
	StateLoading RequestState = "loading"
	StateError   RequestState = "error"
)

type Query struct {
	Page   int
	Limit  int
	Filter string
}

// Page is one fetched page of a remote list plus its pagination metadata.
type Page[T any] struct {
	Items []T
	Page  int
	Limit int
	Total int
}

// FetchFunc resolves one request against the remote boundary. It is called on
// a fresh goroutine and must be safe for concurrent use.
type FetchFunc[T any] func(ctx context.Context, key string, q Query) (Page[T], error)

// PagedCollection is the observable snapshot for one collection key.
type PagedCollection[T any] struct {
	Items     []T
	Page      int
	Limit     int
	Total     int
	Filter    string
	State     RequestState
	LastError string
}

type entry[T any] struct {
	// seq is the sequence number of the newest issued request. Only that
	// request's response may touch the snapshot; anything older is inert,
	// and the store stays loading until the newest request completes.
	seq       uint64
	lastQuery Query
	snap      PagedCollection[T]
}

// Store holds one PagedCollection per key. A response lands only when it
// belongs to the newest request issued for the key, so a burst of page or
// filter changes can never surface an earlier response, not even briefly.
type Store[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	entries map[string]*entry[T]
}

func New[T any](fetch FetchFunc[T]) *Store[T] {
	return &Store[T]{
		fetch:   fetch,
		entries: make(map[string]*entry[T]),
	}
}

// Request issues an asynchronous fetch for the key. It never blocks; the
// caller observes progress through Observe. A filter different from the
// previous request's resets the page to 1.
func (s *Store[T]) Request(ctx context.Context, key string, q Query) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		e = &entry[T]{snap: PagedCollection[T]{Page: 1, Limit: q.Limit, State: StateIdle}}
		s.entries[key] = e
	}
	if e.seq > 0 && q.Filter != e.lastQuery.Filter {
		q.Page = 1
	}
	e.seq++
	seq := e.seq
	e.lastQuery = q
	e.snap.State = StateLoading
	s.mu.Unlock()

	go func() {
		page, err := s.fetch(ctx, key, q)
		s.complete(key, seq, q, page, err)
	}()
}

func (s *Store[T]) complete(key string, seq uint64, q Query, page Page[T], err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return
	}
	// A response superseded by a newer issued request is inert either way:
	// neither its items nor its error may show while the newer one is
	// outstanding, and the state stays loading until it resolves.
	if seq != e.seq {
		return
	}

	if err != nil {
		e.snap.State = StateError
		e.snap.LastError = err.Error()
		return
	}

	e.snap.Items = page.Items
	e.snap.Page = page.Page
	e.snap.Limit = page.Limit
	e.snap.Total = page.Total
	e.snap.Filter = q.Filter
	e.snap.LastError = ""
	e.snap.State = StateIdle
}

// Observe returns the current snapshot for the key. Unknown keys observe an
// idle, empty collection.
func (s *Store[T]) Observe(key string) PagedCollection[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return PagedCollection[T]{Page: 1, State: StateIdle}
	}
	snap := e.snap
	snap.Items = append([]T(nil), e.snap.Items...)
	return snap
}

// Refresh re-issues the most recent query for the key, typically in response
// to a ledger refresh signal. Keys never requested are left alone.
func (s *Store[T]) Refresh(ctx context.Context, key string) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok || e.seq == 0 {
		s.mu.Unlock()
		return
	}
	q := e.lastQuery
	s.mu.Unlock()
	s.Request(ctx, key, q)
}
