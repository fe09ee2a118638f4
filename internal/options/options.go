// Package options implements the functional option pattern shared by the tablet, engine and
// store constructors.
package options

// Option configures a target of type T. An option may reject its argument by returning an error.
type Option[T any] func(T) error

// Apply runs opts against target in order and stops at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError adapts a setter that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}
