// Package option provides a two-state optional value: present with exactly
// one inner value, or absent. It is the value type that expanded guard
// invocations test and extract, and is deliberately a tagged struct rather
// than a nullable pointer so the two states stay disjoint.
package option

// Option represents an optional value of type T.
// The zero value is absent.
type Option[T any] struct {
	value T
	some  bool
}

// Some returns an Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, some: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// IsSome reports whether o holds a value.
func (o Option[T]) IsSome() bool { return o.some }

// IsNone reports whether o is absent.
func (o Option[T]) IsNone() bool { return !o.some }

// Get returns the inner value and whether it is present.
// Expanded guard invocations call Get exactly once per target evaluation.
func (o Option[T]) Get() (T, bool) { return o.value, o.some }

// Or returns the inner value if present, otherwise fallback.
func (o Option[T]) Or(fallback T) T {
	if o.some {
		return o.value
	}

	return fallback
}

// Map applies fn to the inner value if present.
func Map[T, U any](o Option[T], fn func(T) U) Option[U] {
	if o.some {
		return Some(fn(o.value))
	}

	return None[U]()
}
