package display

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kbinani/screenshot"
)

// DefaultPollInterval is how often the watcher re-reads the layout.
const DefaultPollInterval = 2 * time.Second

var ErrNoDisplays = errors.New("no active displays")

// Provider reports the active display layout.
type Provider interface {
	Displays() ([]Rect, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() ([]Rect, error)

func (f ProviderFunc) Displays() ([]Rect, error) { return f() }

// Screens reads the layout from the OS through the screenshot library.
type Screens struct{}

func (Screens) Displays() ([]Rect, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplays
	}
	rects := make([]Rect, 0, n)
	for i := range n {
		rects = append(rects, FromImage(screenshot.GetDisplayBounds(i)))
	}
	return rects, nil
}

// Watcher keeps a Cache in sync with a Provider.
type Watcher struct {
	provider Provider
	cache    *Cache
	interval time.Duration
	logger   *slog.Logger
}

func NewWatcher(p Provider, c *Cache, interval time.Duration, logger *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{provider: p, cache: c, interval: interval, logger: logger}
}

// Refresh reads the layout once and replaces the cache if it changed.
func (w *Watcher) Refresh() (bool, error) {
	rects, err := w.provider.Displays()
	if err != nil {
		return false, err
	}
	if Equal(rects, w.cache.Rects()) {
		return false, nil
	}
	w.cache.Replace(rects)
	w.logger.Info("Display layout changed", "displays", rects)
	return true, nil
}

// Run refreshes the cache until ctx is done. Provider errors keep the last
// known layout.
func (w *Watcher) Run(ctx context.Context) {
	if _, err := w.Refresh(); err != nil {
		w.logger.Warn("Failed to read display layout", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.Refresh(); err != nil {
				w.logger.Debug("Failed to read display layout", "error", err)
			}
		}
	}
}
