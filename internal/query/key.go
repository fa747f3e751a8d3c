// Package query binds a query signature (operation + arguments) to a cached
// result and owns the async request lifecycle: pending/success/error status,
// stale-while-revalidate display, and version-stamped suppression of
// superseded responses. It is transport-agnostic; a Runner collaborator
// executes the actual request.
package query

import (
	"fmt"
	"sort"
	"strings"
)

// Key is the normalized identity of a query request, used for cache lookup
// and staleness comparison. Two keys are equal iff the operation and every
// argument match by value.
type Key struct {
	Operation string
	Args      map[string]any
}

// NewKey builds a key, copying the argument map so later caller mutation
// cannot alias into the cache.
func NewKey(operation string, args map[string]any) Key {
	copied := make(map[string]any, len(args))
	for name, value := range args {
		copied[name] = value
	}
	return Key{Operation: operation, Args: copied}
}

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool {
	return k.Operation == "" && len(k.Args) == 0
}

// String renders the normalized form: operation plus arguments in sorted
// name order. Equal keys always produce equal strings.
func (k Key) String() string {
	if len(k.Args) == 0 {
		return k.Operation
	}
	names := make([]string, 0, len(k.Args))
	for name := range k.Args {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(k.Operation)
	b.WriteByte('(')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", name, k.Args[name])
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports value equality of operation and arguments.
func (k Key) Equal(other Key) bool {
	if k.Operation != other.Operation || len(k.Args) != len(other.Args) {
		return false
	}
	for name, value := range k.Args {
		got, ok := other.Args[name]
		if !ok || fmt.Sprintf("%v", got) != fmt.Sprintf("%v", value) {
			return false
		}
	}
	return true
}
