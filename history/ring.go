package history

// Ring is a fixed capacity FIFO.  Once full each Push overwrites the oldest
// entry in place so the backing store is allocated once.  Ring is not safe
// for concurrent use, Buffer provides the locking.
type Ring[T any] struct {
	items []T
	// head is the index the next Push writes to
	head int
	// count of items held
	count int
}

// NewRing returns a ring holding at most size items
func NewRing[T any](size int) *Ring[T] {
	if size < 1 {
		size = 1
	}

	return &Ring[T]{
		items: make([]T, size),
	}
}

// Push appends an item, evicting the oldest when at capacity.  It returns
// the evicted item and true if one was evicted.
func (r *Ring[T]) Push(item T) (T, bool) {

	var evicted T
	full := r.count == len(r.items)

	if full {
		evicted = r.items[r.head]
	} else {
		r.count++
	}

	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)

	return evicted, full
}

// Len returns the number of items held
func (r *Ring[T]) Len() int {
	return r.count
}

// Cap returns the ring capacity
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Last returns the most recent item
func (r *Ring[T]) Last() (T, bool) {
	return r.At(r.count - 1)
}

// At returns the item at index i in chronological order, 0 being the oldest
func (r *Ring[T]) At(i int) (T, bool) {

	var zero T

	if i < 0 || i >= r.count {
		return zero, false
	}

	start := (r.head - r.count + len(r.items)) % len(r.items)

	return r.items[(start+i)%len(r.items)], true
}

// Recent copies the last n items in chronological order into dst, reusing
// its storage when large enough, and returns the result.  n larger than Len
// returns everything held.
func (r *Ring[T]) Recent(n int, dst []T) []T {

	if n > r.count {
		n = r.count
	}

	if n < 0 {
		n = 0
	}

	if cap(dst) < n {
		dst = make([]T, n)
	}

	dst = dst[:n]

	// index of the first item to copy
	first := (r.head - n + len(r.items)) % len(r.items)

	// copy in at most two runs either side of the wrap point
	m := copy(dst, r.items[first:min(first+n, len(r.items))])
	copy(dst[m:], r.items[:n-m])

	return dst
}

// Reset empties the ring keeping its backing store
func (r *Ring[T]) Reset() {

	var zero T

	for i := range r.items {
		r.items[i] = zero
	}

	r.head = 0
	r.count = 0
}
