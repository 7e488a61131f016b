package status

import (
	"slices"
	"time"

	"github.com/Alia5/padmapper/engine"
)

// Message is what a status client receives.
type Message struct {
	Type      string         `json:"type"` // "full" or "change"
	Seq       int64          `json:"seq"`
	Timestamp int64          `json:"timestamp"` // unix milliseconds
	Status    *engine.Status `json:"status"`
}

func newMessage(kind string, seq int64, st engine.Status) *Message {
	return &Message{
		Type:      kind,
		Seq:       seq,
		Timestamp: time.Now().UnixMilli(),
		Status:    &st,
	}
}

// changed reports whether b differs from a in anything but the tick count.
func changed(a, b engine.Status) bool {
	return a.Running != b.Running ||
		a.Phase != b.Phase ||
		a.Connected != b.Connected ||
		!slices.Equal(a.Pressed, b.Pressed) ||
		!slices.Equal(a.Asserted, b.Asserted)
}

