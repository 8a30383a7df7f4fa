// Package ring provides a fixed-capacity FIFO buffer that evicts its oldest
// element when a push would exceed capacity.
package ring

// Buffer stores up to Cap elements in a circular slice. The zero value is not
// usable; construct with New. Not safe for concurrent use.
type Buffer[T any] struct {
	data  []T
	head  int
	count int
}

// New constructs a buffer with the provided capacity (minimum 1).
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer[T]{data: make([]T, capacity)}
}

// Cap reports the maximum number of elements the buffer can hold.
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Len reports the number of stored elements.
func (b *Buffer[T]) Len() int { return b.count }

// Push appends v, evicting the oldest element when full. It reports whether
// an element was evicted.
func (b *Buffer[T]) Push(v T) bool {
	if b.count == len(b.data) {
		b.data[b.head] = v
		b.head = (b.head + 1) % len(b.data)
		return true
	}
	b.data[(b.head+b.count)%len(b.data)] = v
	b.count++
	return false
}

// At returns the i-th element in FIFO order (0 is the oldest).
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.count {
		panic("ring: index out of range")
	}
	return b.data[(b.head+i)%len(b.data)]
}

// Last returns the newest element, or false when empty.
func (b *Buffer[T]) Last() (T, bool) {
	var zero T
	if b.count == 0 {
		return zero, false
	}
	return b.At(b.count - 1), true
}

// Items returns a copy of the stored elements, oldest first.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.data[(b.head+i)%len(b.data)]
	}
	return out
}

// Tail returns a copy of the newest n elements, oldest first.
func (b *Buffer[T]) Tail(n int) []T {
	if n > b.count {
		n = b.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, n)
	start := b.count - n
	for i := 0; i < n; i++ {
		out[i] = b.data[(b.head+start+i)%len(b.data)]
	}
	return out
}

// RemoveFunc drops every element for which match returns true, preserving
// order. It reports how many elements were removed.
func (b *Buffer[T]) RemoveFunc(match func(T) bool) int {
	items := b.Items()
	kept := items[:0]
	for _, it := range items {
		if !match(it) {
			kept = append(kept, it)
		}
	}
	removed := len(items) - len(kept)
	if removed > 0 {
		b.Reset(kept)
	}
	return removed
}

// Reset replaces the contents with items, keeping only the newest Cap of them.
func (b *Buffer[T]) Reset(items []T) {
	var zero T
	for i := range b.data {
		b.data[i] = zero
	}
	b.head = 0
	b.count = 0
	if len(items) > len(b.data) {
		items = items[len(items)-len(b.data):]
	}
	for _, it := range items {
		b.Push(it)
	}
}

// Clear removes all elements.
func (b *Buffer[T]) Clear() { b.Reset(nil) }
