// Package pages provides a cache of sequentially fetched result pages with a
// movable "current page" cursor. Pages are retained for the lifetime of the
// process and are assumed immutable for the session, so revisiting an already
// fetched page never costs a remote call.
package pages

// Cache holds every page fetched so far for one paginated resource.
type Cache[T any] struct {
	pages  []T
	cursor int
}

// Len reports the number of cached pages.
func (c *Cache[T]) Len() int {
	return len(c.pages)
}

// Cursor returns the index of the current page.
func (c *Cache[T]) Cursor() int {
	return c.cursor
}

// Get returns the page at the given index.
func (c *Cache[T]) Get(at int) (T, bool) {
	if at < 0 || at >= len(c.pages) {
		var zero T
		return zero, false
	}
	return c.pages[at], true
}

// Current returns the page under the cursor, or false while the cache is
// still empty.
func (c *Cache[T]) Current() (T, bool) {
	return c.Get(c.cursor)
}

// Add appends a freshly fetched page and moves the cursor onto it. This is
// the only mutator; pages are never removed or reordered.
func (c *Cache[T]) Add(page T) {
	c.pages = append(c.pages, page)
	c.cursor = len(c.pages) - 1
}

// Advance moves the cursor to the next cached page and reports whether it
// moved. A false return means the next page has not been fetched yet and the
// caller should issue a fetch instead.
func (c *Cache[T]) Advance() bool {
	if c.cursor+1 >= len(c.pages) {
		return false
	}
	c.cursor++
	return true
}

// Retreat moves the cursor to the previous cached page. Going backward never
// refetches; the first page is the floor.
func (c *Cache[T]) Retreat() bool {
	if c.cursor <= 0 {
		return false
	}
	c.cursor--
	return true
}
