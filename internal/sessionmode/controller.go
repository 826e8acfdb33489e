// Package sessionmode tracks the automatic/manual round-progression flag for
// each game type on the client side. A mode is unknown until the first
// successful sync with the server, and overlapping transitions are rejected
// rather than raced.
package sessionmode

import (
	"context"
	"sync"
)

type Mode string

const (
	ModeUnset     Mode = ""
	ModeAutomatic Mode = "automatic"
	ModeManual    Mode = "manual"
)

// API is the remote boundary for session mode operations.
type API interface {
	GetSessionMode(ctx context.Context, game string) (Mode, error)
	SetSessionMode(ctx context.Context, game string, mode Mode) (Mode, error)
}

// Status is the observable state for one game type. Consumers must treat
// ModeUnset as unknown, not as a default.
type Status struct {
	Mode      Mode
	Pending   bool
	LastError string
}

type Controller struct {
	api API

	mu     sync.Mutex
	byGame map[string]*Status
}

func NewController(api API) *Controller {
	return &Controller{api: api, byGame: make(map[string]*Status)}
}

// Get fetches the current mode from the server and records it. The pending
// guard applies the same way as for Set so a Get cannot race a toggle.
func (c *Controller) Get(ctx context.Context, game string) (Status, error) {
	if err := c.begin(game); err != nil {
		return c.Observe(game), err
	}
	mode, err := c.api.GetSessionMode(ctx, game)
	return c.finish(game, mode, err), err
}

// Set requests a mode transition. While one is in flight for the game, any
// further Set (or Get) is rejected with ErrTransitionInProgress and the
// displayed mode is left unchanged.
func (c *Controller) Set(ctx context.Context, game string, mode Mode) (Status, error) {
	if mode != ModeAutomatic && mode != ModeManual {
		return c.Observe(game), ErrInvalidMode
	}
	if err := c.begin(game); err != nil {
		return c.Observe(game), err
	}
	applied, err := c.api.SetSessionMode(ctx, game, mode)
	return c.finish(game, applied, err), err
}

// Observe returns the current status without contacting the server.
func (c *Controller) Observe(game string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.byGame[game]; ok {
		return *st
	}
	return Status{Mode: ModeUnset}
}

func (c *Controller) begin(game string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.byGame[game]
	if !ok {
		st = &Status{Mode: ModeUnset}
		c.byGame[game] = st
	}
	if st.Pending {
		return ErrTransitionInProgress
	}
	st.Pending = true
	return nil
}

func (c *Controller) finish(game string, mode Mode, err error) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.byGame[game]
	st.Pending = false
	if err != nil {
		st.LastError = err.Error()
	} else {
		st.Mode = mode
		st.LastError = ""
	}
	return *st
}
