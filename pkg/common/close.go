package common

import (
	"errors"
	"sync/atomic"
)

var (
	ClosedErr = errors.New("closed")
)

// Closable guards a component that is shut down exactly once.
type Closable struct {
	closed atomic.Bool
}

func (c *Closable) Closed() bool {
	return c.closed.Load()
}

// TryClose reports whether this call performed the close.
func (c *Closable) TryClose() bool {
	return c.closed.CompareAndSwap(false, true)
}
