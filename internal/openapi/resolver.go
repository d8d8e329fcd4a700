package openapi

import (
	"fmt"
	"strings"
)

// State is the outcome of resolving a possibly-referenced value
type State int

const (
	// Absent means nothing was declared
	Absent State = iota
	// Resolved means a literal value was reached
	Resolved
	// Broken means something was declared but could not be resolved
	Broken
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Resolved:
		return "resolved"
	case Broken:
		return "broken"
	default:
		return "unknown"
	}
}

// Resolution is the result of following a reference chain to a literal
type Resolution[T any] struct {
	State State
	Value *T
	// Ref is the reference the chain started from, empty for inline values
	Ref string
	// Err explains a Broken resolution
	Err error
}

// Ok reports whether a literal value was reached
func (r Resolution[T]) Ok() bool {
	return r.State == Resolved
}

// Lookup returns the component registered under category and name. The
// component may itself be a reference, in which case ref is non-empty.
type Lookup[T any] func(category, name string) (ref string, value *T, found bool)

// Resolve follows ref through lookup until a literal is reached. An empty ref
// means value is inline. Every (category, name) pair may be visited once per
// call, so self-referencing and mutually-referencing chains end as Broken
// with ErrReferenceCycle.
func Resolve[T any](ref string, value *T, lookup Lookup[T]) Resolution[T] {
	if ref == "" {
		if value == nil {
			return Resolution[T]{State: Absent}
		}
		return Resolution[T]{State: Resolved, Value: value}
	}

	origin := ref
	visited := make(map[string]struct{})

	for {
		category, name, ok := SplitReference(ref)
		if !ok {
			return broken[T](origin, fmt.Errorf("%w: %q", ErrMalformedReference, ref))
		}

		key := category + "/" + name
		if _, seen := visited[key]; seen {
			return broken[T](origin, fmt.Errorf("%w: %s revisited from %s", ErrReferenceCycle, key, origin))
		}
		visited[key] = struct{}{}

		next, literal, found := lookup(category, name)
		if !found {
			return broken[T](origin, fmt.Errorf("%w: %s", ErrUnresolvedReference, ref))
		}

		if next == "" {
			if literal == nil {
				return broken[T](origin, fmt.Errorf("%w: %s has no definition", ErrUnresolvedReference, ref))
			}
			return Resolution[T]{State: Resolved, Value: literal, Ref: origin}
		}

		ref = next
	}
}

func broken[T any](ref string, err error) Resolution[T] {
	return Resolution[T]{State: Broken, Ref: ref, Err: err}
}

// SplitReference returns the last two segments of a reference such as
// "#/components/parameters/petId". Any leading segments are ignored.
func SplitReference(ref string) (category, name string, ok bool) {
	parts := strings.Split(ref, "/")
	if len(parts) < 2 {
		return "", "", false
	}

	name = parts[len(parts)-1]
	category = parts[len(parts)-2]
	if name == "" || category == "" {
		return "", "", false
	}

	return category, name, true
}
