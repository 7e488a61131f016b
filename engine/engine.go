package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Alia5/padmapper/binding"
)

// DefaultRate is the tick rate in Hz.
const DefaultRate = 120

type Options struct {
	Source   Source
	Pointer  Pointer
	Keyboard Keyboard
	Gate     Gate
	Table    binding.Table
	// Rate is the tick rate in Hz. Zero means DefaultRate.
	Rate   int
	Logger *slog.Logger
}

// Engine runs Core on its own goroutine at a fixed rate.
type Engine struct {
	src      Source
	pointer  Pointer
	keyboard Keyboard
	gate     Gate
	rate     int
	logger   *slog.Logger

	mu     sync.Mutex
	table  binding.Table
	cancel context.CancelFunc
	done   chan struct{}
	swaps  chan swapRequest

	status  atomic.Pointer[Status]
	updates chan Status
}

type swapRequest struct {
	table binding.Table
	done  chan struct{}
}

func New(o Options) *Engine {
	rate := o.Rate
	if rate <= 0 {
		rate = DefaultRate
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		src:      o.Source,
		pointer:  o.Pointer,
		keyboard: o.Keyboard,
		gate:     o.Gate,
		rate:     rate,
		logger:   logger.With("component", "engine"),
		table:    o.Table,
		swaps:    make(chan swapRequest),
		updates:  make(chan Status, 1),
	}
}

// Start begins ticking. It returns false without side effects when the engine
// is already running or output is not authorized.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.aliveLocked() {
		return false
	}
	if e.gate != nil && !e.gate.IsAuthorized() {
		e.logger.Warn("Output injection is not authorized, engine not started")
		return false
	}

	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})

	core := NewCore(e.pointer, e.keyboard, e.table, 1/float64(e.rate))
	e.publish(coreStatus(core, true, e.src.Connected()))
	e.logger.Info("Engine started", "rate", e.rate, "bindings", e.table.Len())

	go e.run(ctx, core, e.done)
	return true
}

// Stop halts ticking and returns once every output the engine asserted has
// been released. Calling Stop on a stopped engine does nothing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done == nil {
		return
	}
	e.cancel()
	<-e.done
	e.done = nil
	e.cancel = nil
}

// Running reports whether the tick loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.aliveLocked()
}

// Table returns the binding table in effect.
func (e *Engine) Table() binding.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table
}

// Reconfigure replaces the binding table. While running, everything pressed
// under the old table is released on the engine goroutine before the new one
// takes effect; Reconfigure returns after the swap.
func (e *Engine) Reconfigure(t binding.Table) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.table = t
	if !e.aliveLocked() {
		return
	}
	req := swapRequest{table: t, done: make(chan struct{})}
	select {
	case e.swaps <- req:
		<-req.done
	case <-e.done:
	}
}

func (e *Engine) aliveLocked() bool {
	if e.done == nil {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

func (e *Engine) run(ctx context.Context, core *Core, done chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(e.rate))
	connected := e.src.Connected()

	defer func() {
		ticker.Stop()
		core.Reset()
		e.publish(coreStatus(core, false, connected))
		e.logger.Info("Engine stopped")
		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-e.swaps:
			core.Swap(req.table)
			e.logger.Info("Binding table replaced", "bindings", req.table.Len())
			close(req.done)
			e.publish(coreStatus(core, true, connected))

		case c := <-e.src.Connections():
			e.logger.Debug("Controller connection changed", "connected", c)
			connected = e.checkConnection(core, connected)
			e.publish(coreStatus(core, true, connected))

		case <-ticker.C:
			if e.gate != nil && !e.gate.IsAuthorized() {
				e.logger.Warn("Output injection authorization revoked, stopping engine")
				return
			}
			connected = e.checkConnection(core, connected)
			if connected {
				core.Tick(e.src.Current())
			}
			e.publish(coreStatus(core, true, connected))
		}
	}
}

// checkConnection re-reads the source's connectivity. Losing the controller
// releases everything and returns the core to PhaseIdle; a later connection
// starts over from a baseline tick.
func (e *Engine) checkConnection(core *Core, was bool) bool {
	now := e.src.Connected()
	if was && !now {
		e.logger.Info("Controller disconnected, releasing outputs")
		core.Reset()
	}
	if !was && now {
		e.logger.Info("Controller connected")
		core.Reset()
	}
	return now
}
