package status

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Alia5/padmapper/engine"
)

// FullSyncInterval is how often the full status is resent even without
// changes.
const FullSyncInterval = 5 * time.Second

// Source publishes engine statuses.
type Source interface {
	Status() engine.Status
	Updates() <-chan engine.Status
}

// Broadcaster forwards status changes from a Source to the hub. Updates
// that differ only in tick count are not forwarded.
type Broadcaster struct {
	hub    *Hub
	src    Source
	logger *slog.Logger

	mu   sync.Mutex
	last engine.Status
	seq  int64
}

func NewBroadcaster(h *Hub, src Source, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{hub: h, src: src, logger: logger, last: src.Status()}
}

// Run forwards updates until ctx is done.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(FullSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case st := <-b.src.Updates():
			b.mu.Lock()
			if !changed(b.last, st) {
				b.last = st
				b.mu.Unlock()
				continue
			}
			b.last = st
			b.seq++
			data := b.encode(newMessage("change", b.seq, st))
			b.mu.Unlock()
			if data != nil {
				b.hub.Broadcast(data)
			}
		case <-ticker.C:
			if data := b.full(); data != nil {
				b.hub.Broadcast(data)
			}
		}
	}
}

// SendInitial queues the full current status for a new client.
func (b *Broadcaster) SendInitial(c *Client) {
	data := b.full()
	if data == nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (b *Broadcaster) full() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return b.encode(newMessage("full", b.seq, b.last))
}

func (b *Broadcaster) encode(m *Message) []byte {
	data, err := json.Marshal(m)
	if err != nil {
		b.logger.Error("Failed to encode status message", "error", err)
		return nil
	}
	return data
}
