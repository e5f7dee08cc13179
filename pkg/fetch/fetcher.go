// Package fetch implements the page-level data-fetch lifecycle shared
// by every dashboard page: a resource moves through loading into
// exactly one of success, empty, or error, and a fetch superseded by a
// newer resource key can never overwrite the newer key's state.
package fetch

import (
	"context"
	"sync"

	"seopanel-go/pkg/backend"
)

// State is the display state of one fetched resource.
type State int

const (
	// StateIdle means no fetch has been issued (the key is unset).
	StateIdle State = iota
	// StateLoading means a fetch is in flight for the current key.
	StateLoading
	// StateSuccess means the latest fetch returned data.
	StateSuccess
	// StateEmpty means the latest fetch succeeded with zero results.
	// Distinct from StateError: the page renders a "no data"
	// affordance, not a failure.
	StateEmpty
	// StateError means the latest fetch failed. Previously fetched
	// data is cleared so it cannot be shown stale next to the error.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is one observable point of the lifecycle.
type Snapshot[R any] struct {
	State   State  `json:"state"`
	Key     string `json:"key"`
	Data    R      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Fetcher owns the lifecycle of one logical resource. R is the decoded
// result type. Completions may arrive from concurrent goroutines in any
// order; only the newest request for the current key is applied.
type Fetcher[R any] struct {
	mu       sync.Mutex
	seq      uint64
	snap     Snapshot[R]
	resource string
	isEmpty  func(R) bool
}

// New creates a fetcher for the named resource. The resource name is
// used for not-found error wording. isEmpty decides whether a
// successful result transitions to StateEmpty; nil means results are
// never considered empty.
func New[R any](resource string, isEmpty func(R) bool) *Fetcher[R] {
	return &Fetcher[R]{
		resource: resource,
		isEmpty:  isEmpty,
	}
}

// NewList creates a fetcher for a list-shaped resource, where an empty
// slice transitions to StateEmpty.
func NewList[T any](resource string) *Fetcher[[]T] {
	return New(resource, func(items []T) bool { return len(items) == 0 })
}

// Request is one in-flight fetch. It is handed back to the fetcher via
// Apply once the backend call completes.
type Request[R any] struct {
	fetcher *Fetcher[R]
	key     string
	seq     uint64
}

// Begin registers a fetch for key and transitions the fetcher to
// loading. It returns nil when key is empty: a fetch must not be
// issued without a resource key, and the fetcher state is untouched.
func (f *Fetcher[R]) Begin(key string) *Request[R] {
	if key == "" {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	var zero R
	f.snap = Snapshot[R]{
		State: StateLoading,
		Key:   key,
		Data:  zero,
	}

	return &Request[R]{fetcher: f, key: key, seq: f.seq}
}

// Apply delivers the result of a request. It returns false and leaves
// the state untouched when a newer request was begun in the meantime
// (last-request-wins). On error the data is cleared and the message is
// the user-facing mapping of the failure.
func (r *Request[R]) Apply(data R, err error) bool {
	f := r.fetcher

	f.mu.Lock()
	defer f.mu.Unlock()

	if r.seq != f.seq {
		return false
	}

	var zero R
	if err != nil {
		f.snap = Snapshot[R]{
			State:   StateError,
			Key:     r.key,
			Data:    zero,
			Message: backend.UserMessage(err, f.resource),
		}
		return true
	}

	state := StateSuccess
	if f.isEmpty != nil && f.isEmpty(data) {
		state = StateEmpty
		data = zero
	}
	f.snap = Snapshot[R]{
		State: state,
		Key:   r.key,
		Data:  data,
	}
	return true
}

// Run performs one full fetch cycle synchronously: begin, load, apply.
// With an empty key no fetch is issued and the current snapshot is
// returned unchanged.
func (f *Fetcher[R]) Run(ctx context.Context, key string, load func(ctx context.Context, key string) (R, error)) Snapshot[R] {
	req := f.Begin(key)
	if req == nil {
		return f.Snapshot()
	}
	data, err := load(ctx, key)
	req.Apply(data, err)
	return f.Snapshot()
}

// Snapshot returns the current display state.
func (f *Fetcher[R]) Snapshot() Snapshot[R] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Reset discards all state, as on navigation away from the owning page.
func (f *Fetcher[R]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.snap = Snapshot[R]{}
}
