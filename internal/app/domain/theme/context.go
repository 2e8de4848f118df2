package theme

import "sync"

// Change is delivered to observers when the active palette is replaced.
type Change struct {
	Destination string
	Previous    Palette
	Current     Palette
}

type Observer func(Change)

// Context owns the active palette for one view tree. It is passed to
// whatever renders, instead of living in process-wide state.
type Context struct {
	selector *Selector

	mu        sync.RWMutex
	current   Palette
	observers map[int]Observer
	nextID    int
}

func NewContext(selector *Selector) *Context {
	return &Context{
		selector:  selector,
		current:   palettes[Default],
		observers: make(map[int]Observer),
	}
}

// Current returns the active palette.
func (c *Context) Current() Palette {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Observe registers fn and returns a function that removes it.
func (c *Context) Observe(fn Observer) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Apply selects the palette for destination and notifies observers if it
// differs from the active one.
func (c *Context) Apply(destination string) Palette {
	next := c.selector.Select(destination)

	c.mu.Lock()
	prev := c.current
	c.current = next
	var notify []Observer
	if prev.Name != next.Name {
		notify = make([]Observer, 0, len(c.observers))
		for _, fn := range c.observers {
			notify = append(notify, fn)
		}
	}
	c.mu.Unlock()

	change := Change{Destination: destination, Previous: prev, Current: next}
	for _, fn := range notify {
		fn(change)
	}
	return next
}
