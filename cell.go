package wsi

// LazyCell holds a value that is written once and read many times.
//
// The zero value is an empty cell. Init on a present cell and Get on an
// empty cell are programming errors and panic. LazyCell is not safe for
// concurrent use.
type LazyCell[T any] struct {
	value   T
	present bool
}

// Init stores v. It panics if the cell already holds a value.
func (c *LazyCell[T]) Init(v T) {
	if c.present {
		panic("wsi: LazyCell initialized twice")
	}
	c.value = v
	c.present = true
}

// Get returns the stored value. It panics if Init has not been called.
func (c *LazyCell[T]) Get() T {
	if !c.present {
		panic("wsi: LazyCell read before Init")
	}
	return c.value
}

// IsPresent reports whether Init has been called.
func (c *LazyCell[T]) IsPresent() bool { return c.present }

// DiscardableCell holds a value whose validity depends on outside
// conditions. It may be set, read and discarded any number of times in any
// order. An empty cell means "needs rebuild", never an error.
//
// DiscardableCell is not safe for concurrent use.
type DiscardableCell[T any] struct {
	value   T
	present bool
}

// Set stores v, replacing any current value.
func (c *DiscardableCell[T]) Set(v T) {
	c.value = v
	c.present = true
}

// Get returns the stored value. It panics if the cell is discarded.
func (c *DiscardableCell[T]) Get() T {
	if !c.present {
		panic("wsi: DiscardableCell read while discarded")
	}
	return c.value
}

// Discard clears the cell. Discarding an empty cell is a no-op.
func (c *DiscardableCell[T]) Discard() {
	var zero T
	c.value = zero
	c.present = false
}

// IsDiscarded reports whether the cell is empty.
func (c *DiscardableCell[T]) IsDiscarded() bool { return !c.present }

// Take clears the cell and returns the value it held, so the caller can
// release it. ok is false if the cell was already empty.
func (c *DiscardableCell[T]) Take() (v T, ok bool) {
	v, ok = c.value, c.present
	c.Discard()
	return v, ok
}
