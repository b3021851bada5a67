package pipeline

// Cursor hands out correlation ids. The id given to a match is the row it
// will occupy in the sink, so ids must be taken in the same order rows are
// appended.
type Cursor struct {
	next int
}

// NewCursor starts at first, usually History.NextRow().
func NewCursor(first int) *Cursor {
	return &Cursor{next: first}
}

// Next returns the current id and advances.
func (c *Cursor) Next() int {
	id := c.next
	c.next++
	return id
}

// Peek returns the id the next call to Next will return.
func (c *Cursor) Peek() int { return c.next }
