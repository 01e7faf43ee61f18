// Package pool provides a bounded pool of reusable values.
package pool

// Pool hands out values and takes them back.
type Pool[T any] interface {
	// Get returns a value from the pool, blocking while none is available.
	Get() T

	// Put returns a value obtained from Get back to the pool.
	Put(T)
}
