package tree

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValueRequired is returned by [New] when the value is the zero value
	// of its type. Every node must wrap a present value.
	ErrValueRequired = errors.New("node value is required")

	// ErrFrozen is returned by mutating calls on a frozen node, or when an
	// edge would change the parent list of a frozen child.
	ErrFrozen = errors.New("graph frozen")

	// ErrCycle is returned by [Node.AddChild] when the new edge would let a
	// node reach itself. The concrete error is a [*CycleError].
	ErrCycle = errors.New("cycle detected")

	// ErrResolutionFailed is returned by [Decode] when a deferred record cannot
	// be resolved to a canonical node. The concrete error is a
	// [*ResolutionError], or several of them combined.
	ErrResolutionFailed = errors.New("resolution failed")

	// ErrUnknownResolver is wrapped by a [*ResolutionError] when a record
	// names a resolver that was not supplied to [Decode].
	ErrUnknownResolver = errors.New("unknown resolver")

	// ErrCanonicalNotFrozen is wrapped by a [*ResolutionError] when a
	// resolver returns an unfrozen node for a record written by value.
	ErrCanonicalNotFrozen = errors.New("canonical node is not frozen")

	// ErrMalformed is returned by [Decode] when the document is structurally
	// invalid (bad root or edge references, undecodable values, edge lists
	// that disagree or form a cycle).
	ErrMalformed = errors.New("malformed document")
)

// CycleError reports an edge that was rejected by the cycle guard.
//
// Path is a diagnostic chain of values ending at Parent. It starts above
// Child by following first parents only, so when nodes have several parents
// it is not necessarily the exact closing path. Treat it as a hint.
type CycleError[V cmp.Ordered] struct {
	Child  V
	Parent V
	Path   []V
}

func (e *CycleError[V]) Error() string {
	parts := make([]string, len(e.Path))
	for i, v := range e.Path {
		parts[i] = fmt.Sprint(v)
	}
	return fmt.Sprintf("%v: adding '%v' to '%v' closes %s", ErrCycle, e.Child, e.Parent, strings.Join(parts, " -> "))
}

// Is reports whether target is [ErrCycle].
func (e *CycleError[V]) Is(target error) bool { return target == ErrCycle }

// ResolutionError reports a deferred record whose resolver lookup failed.
type ResolutionError[V cmp.Ordered] struct {
	Resolver string // resolver name from the record
	Value    V      // value that was looked up
	Err      error  // underlying cause, may be nil
}

func (e *ResolutionError[V]) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: resolver %q, value '%v': %v", ErrResolutionFailed, e.Resolver, e.Value, e.Err)
	}
	return fmt.Sprintf("%v: resolver %q, value '%v': no node", ErrResolutionFailed, e.Resolver, e.Value)
}

// Is reports whether target is [ErrResolutionFailed].
func (e *ResolutionError[V]) Is(target error) bool { return target == ErrResolutionFailed }

// Unwrap returns the underlying cause.
func (e *ResolutionError[V]) Unwrap() error { return e.Err }
