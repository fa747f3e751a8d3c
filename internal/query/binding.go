package query

import (
	"context"
	"encoding/json"
)

// Status is the lifecycle state of a cache entry.
type Status int

const (
	// StatusPending means no committed result yet, or a revalidation is in
	// flight. Not an error; the last good value may still be displayed.
	StatusPending Status = iota
	// StatusSuccess means the entry holds a committed result.
	StatusSuccess
	// StatusError means the service or transport failed. Never retried
	// automatically; the caller owns any retry surface.
	StatusError
)

// String returns the lowercase status label.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Runner executes a query operation. Each call must be independent and
// idempotent for identical arguments; cancellation is by ignoring the reply.
type Runner interface {
	Run(ctx context.Context, operation string, args map[string]any) (json.RawMessage, error)
}

// Entry is a snapshot of the binding's current state. Value carries the
// last committed good value, which may predate Key when a newer request is
// still in flight (stale-while-revalidate) or the key changed.
type Entry[T any] struct {
	Key      Key
	Status   Status
	Value    T
	HasValue bool
	Err      error
	Version  int
}

// Request identifies one issued fetch. The version stamps the reply so a
// resolution for a superseded request can be discarded on arrival.
type Request struct {
	Key     Key
	Version int
}

// Result is the resolution of a Request, carrying the stamp back.
type Result[T any] struct {
	Key     Key
	Version int
	Value   T
	Err     error
}

type entryState[T any] struct {
	key     Key
	status  Status
	value   T
	hasVal  bool
	err     error
	version int
}

// Binding ties one operation to its cached entries. All mutating methods
// must be called from the same goroutine (the event loop); Do is the only
// method safe to call elsewhere.
type Binding[T any] struct {
	runner Runner
	decode func(json.RawMessage) (T, error)

	// never evicted; the key space per binding is a handful of
	// page/filter combinations and entries are only overwritten
	entries map[string]*entryState[T]

	current  *entryState[T]
	skipped  bool
	lastGood T
	hasGood  bool
}

// NewBinding builds a binding that executes through runner and decodes raw
// replies with decode.
func NewBinding[T any](runner Runner, decode func(json.RawMessage) (T, error)) *Binding[T] {
	return &Binding[T]{
		runner:  runner,
		decode:  decode,
		entries: make(map[string]*entryState[T]),
	}
}

// Bind re-evaluates the binding against key and skip. It returns a Request
// when a new fetch must be issued, nil otherwise.
//
// skip=true keeps the binding pending with no network effect and without
// clearing the last good value, so dependent views keep their layout. A key
// change while not skipped issues a request, bumps the entry's version and
// marks it pending while prior data stays readable. Binding an unchanged
// key is a no-op; errors are sticky until an explicit Refetch.
func (b *Binding[T]) Bind(key Key, skip bool) *Request {
	if skip {
		b.skipped = true
		return nil
	}
	wasSkipped := b.skipped
	b.skipped = false

	if b.current != nil && b.current.key.Equal(key) && !wasSkipped {
		return nil
	}

	id := key.String()
	state, ok := b.entries[id]
	if !ok {
		state = &entryState[T]{key: key}
		b.entries[id] = state
	}
	b.current = state

	state.version++
	state.status = StatusPending
	state.err = nil
	return &Request{Key: key, Version: state.version}
}

// Refetch issues a fresh request for the current key, superseding any reply
// still in flight. This is the retry path after StatusError.
func (b *Binding[T]) Refetch() *Request {
	if b.current == nil || b.skipped {
		return nil
	}
	b.current.version++
	b.current.status = StatusPending
	b.current.err = nil
	return &Request{Key: b.current.key, Version: b.current.version}
}

// Do executes a request and packages the stamped result. It performs no
// state mutation and is safe to run on any goroutine.
func (b *Binding[T]) Do(ctx context.Context, req Request) Result[T] {
	res := Result[T]{Key: req.Key, Version: req.Version}
	raw, err := b.runner.Run(ctx, req.Key.Operation, req.Key.Args)
	if err != nil {
		res.Err = err
		return res
	}
	res.Value, res.Err = b.decode(raw)
	return res
}

// Resolve commits a result if its version still matches the entry's current
// version; replies to superseded requests are dropped. A committed success
// replaces the entry's value wholesale; paginated results never accumulate
// across keys. Returns whether the result was committed.
func (b *Binding[T]) Resolve(res Result[T]) bool {
	state, ok := b.entries[res.Key.String()]
	if !ok || state.version != res.Version {
		return false
	}
	if res.Err != nil {
		state.status = StatusError
		state.err = res.Err
		return true
	}
	state.status = StatusSuccess
	state.value = res.Value
	state.hasVal = true
	state.err = nil
	// only the active entry feeds the stale-while-revalidate display; a
	// late commit to a background key must not hijack it
	if state == b.current {
		b.lastGood = res.Value
		b.hasGood = true
	}
	return true
}

// Entry snapshots the binding for rendering. While pending (or skipped, or
// after an error) the snapshot still carries the last committed good value
// so callers can keep stale data on screen during revalidation.
func (b *Binding[T]) Entry() Entry[T] {
	if b.current == nil {
		return Entry[T]{Status: StatusPending, Value: b.lastGood, HasValue: b.hasGood}
	}
	e := Entry[T]{
		Key:     b.current.key,
		Status:  b.current.status,
		Err:     b.current.err,
		Version: b.current.version,
	}
	if b.skipped {
		e.Status = StatusPending
		e.Err = nil
	}
	switch {
	case b.current.status == StatusSuccess && !b.skipped:
		e.Value = b.current.value
		e.HasValue = b.current.hasVal
	case b.hasGood:
		e.Value = b.lastGood
		e.HasValue = true
	}
	return e
}

// Pending reports whether the binding is waiting on a request (or skipped).
func (b *Binding[T]) Pending() bool {
	return b.skipped || b.current == nil || b.current.status == StatusPending
}
