package viiperout

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Alia5/padmapper/internal/viiper"
	"github.com/Alia5/padmapper/permission"
)

// DefaultPingInterval is how often Pinger checks the server.
const DefaultPingInterval = 2 * time.Second

var errNotPinged = errors.New("server not reached yet")

// Pinger pings the VIIPER server in the background so that the engine's
// per-tick gate check never waits on the network.
type Pinger struct {
	client   *viiper.Client
	interval time.Duration
	logger   *slog.Logger
	last     atomic.Pointer[error]
}

func NewPinger(client *viiper.Client, interval time.Duration, logger *slog.Logger) *Pinger {
	if interval <= 0 {
		interval = DefaultPingInterval
	}
	p := &Pinger{client: client, interval: interval, logger: logger}
	p.store(errNotPinged)
	return p
}

// Ping checks the server once and records the outcome.
func (p *Pinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()
	_, err := p.client.PingCtx(ctx)
	p.store(err)
	return err
}

// Err returns the outcome of the last ping.
func (p *Pinger) Err() error {
	return *p.last.Load()
}

// Gate answers from the last ping and logs when the answer changes.
func (p *Pinger) Gate() permission.Gate {
	return permission.Check("viiper", p.Err, p.logger)
}

// Run pings until ctx is done.
func (p *Pinger) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		_ = p.Ping(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (p *Pinger) store(err error) {
	p.last.Store(&err)
}
