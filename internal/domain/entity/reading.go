package entity

// Placeholder is shown in place of a value that could not be read.
const Placeholder = "—"

// Reading is the result of a soft-failing read: either a value or a display-safe fallback.
type Reading[T any] struct {
	Value    T
	Fallback string
	Err      error
	ok       bool
}

// ValueOf wraps a successfully read value.
func ValueOf[T any](v T) Reading[T] {
	return Reading[T]{Value: v, ok: true}
}

// FallbackOf records a failed read together with the text to show instead.
func FallbackOf[T any](fallback string, err error) Reading[T] {
	return Reading[T]{Fallback: fallback, Err: err}
}

// OK reports whether the read produced a value.
func (r Reading[T]) OK() bool {
	return r.ok
}
