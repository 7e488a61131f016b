// Package permission decides whether output injection is allowed.
package permission

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL bounds how often a Cached gate re-evaluates.
const DefaultTTL = time.Second

// Gate reports whether output injection is currently authorized.
type Gate interface {
	IsAuthorized() bool
}

// Func adapts a function to Gate.
type Func func() bool

func (f Func) IsAuthorized() bool { return f() }

// Static always answers the same.
type Static bool

func (s Static) IsAuthorized() bool { return bool(s) }

// Check turns an error-returning test into a Gate. Transitions between
// authorized and unauthorized are logged once.
func Check(name string, test func() error, logger *slog.Logger) Gate {
	c := &check{name: name, test: test, logger: logger}
	c.last.Store(true)
	return c
}

type check struct {
	name   string
	test   func() error
	logger *slog.Logger
	last   atomic.Bool
}

func (c *check) IsAuthorized() bool {
	err := c.test()
	ok := err == nil
	if c.last.Swap(ok) != ok {
		if ok {
			c.logger.Info("Output injection authorized", "backend", c.name)
		} else {
			c.logger.Warn("Output injection not authorized", "backend", c.name, "error", err)
		}
	}
	return ok
}

// Cached evaluates g at most once per ttl and answers from the last result
// in between. A zero ttl means DefaultTTL.
func Cached(g Gate, ttl time.Duration) Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &cached{gate: g, ttl: ttl, now: time.Now}
}

type cached struct {
	gate Gate
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	checked time.Time
	result  bool
}

func (c *cached) IsAuthorized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.checked.IsZero() && now.Sub(c.checked) < c.ttl {
		return c.result
	}
	c.result = c.gate.IsAuthorized()
	c.checked = now
	return c.result
}
