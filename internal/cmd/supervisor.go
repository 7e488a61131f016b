package cmd

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Alia5/padmapper/engine"
)

const superviseInterval = time.Second

type lifecycle interface {
	Start() bool
	Stop()
	Running() bool
}

// supervisor remembers whether mapping is wanted and restarts the engine
// once output becomes authorized again after a failed start or a
// revocation.
type supervisor struct {
	eng    lifecycle
	gate   engine.Gate
	logger *slog.Logger
	wanted atomic.Bool
}

func newSupervisor(eng lifecycle, gate engine.Gate, logger *slog.Logger) *supervisor {
	return &supervisor{eng: eng, gate: gate, logger: logger}
}

func (s *supervisor) Start() bool {
	s.wanted.Store(true)
	return s.eng.Start()
}

func (s *supervisor) Stop() {
	s.wanted.Store(false)
	s.eng.Stop()
}

func (s *supervisor) Running() bool { return s.eng.Running() }

// check restarts the engine if it should run but does not. The gate is
// consulted first so an unauthorized engine is not asked to start.
func (s *supervisor) check() {
	if !s.wanted.Load() || s.eng.Running() {
		return
	}
	if s.gate != nil && !s.gate.IsAuthorized() {
		return
	}
	if s.eng.Start() {
		s.logger.Info("Mapping resumed")
	}
}

func (s *supervisor) run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.check()
		}
	}
}
