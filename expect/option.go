// Package expect is the runtime support imported by generated extractor
// code. It is deliberately dependency-free: every generated file pulls it in.
//
// The type parameters are constrained to comparable because extractors only
// ever carry values that were compared with == to the caller's expectations.
package expect

// Option is a value that may be absent. Extractors return an empty Option to
// signal that the union value did not match the expected variant, or matched
// it with different field values; the two cases are indistinguishable.
type Option[T comparable] struct {
	Value   T
	Defined bool
}

// Some returns a present Option holding v.
func Some[T comparable](v T) Option[T] {
	return Option[T]{Value: v, Defined: true}
}

// None returns an empty Option.
func None[T comparable]() Option[T] {
	return Option[T]{}
}

// IsDefined reports whether the Option holds a value.
func (o Option[T]) IsDefined() bool {
	return o.Defined
}

// IsEmpty reports whether the Option is empty.
func (o Option[T]) IsEmpty() bool {
	return !o.Defined
}

// Get returns the held value, panicking if the Option is empty.
func (o Option[T]) Get() T {
	if !o.Defined {
		panic("expect: Option.Get on empty Option")
	}
	return o.Value
}

// GetOrElse returns the held value, or fallback if the Option is empty.
func (o Option[T]) GetOrElse(fallback T) T {
	if o.Defined {
		return o.Value
	}
	return fallback
}

// Equal reports whether two Options are both empty or hold equal values.
func (o Option[T]) Equal(other Option[T]) bool {
	if o.Defined != other.Defined {
		return false
	}
	return !o.Defined || o.Value == other.Value
}
