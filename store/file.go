// Package store persists the binding table to a JSON, YAML or TOML file and
// tells subscribers when it changes.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Alia5/padmapper/binding"
	"github.com/Alia5/padmapper/internal/configpaths"
)

// ErrFutureVersion marks a file written by a newer schema.
var ErrFutureVersion = errors.New("unsupported future schema version")

// File is a binding-table provider backed by one file. The encoding follows
// the file extension.
type File struct {
	path   string
	format binding.Format
	logger *slog.Logger

	mu      sync.RWMutex
	current binding.Table

	subMu  sync.Mutex
	subs   map[int]func(binding.Table)
	nextID int
}

// NewFile returns a store for path holding the default table until Load.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	return &File{
		path:    path,
		format:  binding.FormatFromPath(path),
		logger:  logger.With("component", "store"),
		current: binding.Default(),
		subs:    map[int]func(binding.Table){},
	}
}

func (f *File) Path() string { return f.path }

// Current returns the table in effect.
func (f *File) Current() binding.Table {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Load reads the file and makes it current. A missing file yields the
// default table; an unreadable, malformed, invalid or future-version file
// yields the default table with a warning.
func (f *File) Load() binding.Table {
	t, err := f.read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.logger.Debug("Bindings file not found, using defaults", "path", f.path)
		t = binding.Default()
	case err != nil:
		f.logger.Warn("Bindings file unusable, using defaults", "path", f.path, "error", err)
		t = binding.Default()
	default:
		f.logger.Info("Bindings loaded", "path", f.path, "bindings", t.Len())
	}
	f.set(t)
	return t
}

// Save validates t, writes it atomically and makes it current.
func (f *File) Save(t binding.Table) error {
	t.SchemaVersion = binding.CurrentSchemaVersion
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid bindings: %w", err)
	}
	data, err := binding.Encode(binding.ToDocument(t), f.format)
	if err != nil {
		return fmt.Errorf("encode bindings: %w", err)
	}
	if err := writeAtomic(f.path, data); err != nil {
		return err
	}
	f.set(t)
	return nil
}

// Reset saves and returns the default table.
func (f *File) Reset() (binding.Table, error) {
	t := binding.Default()
	if err := f.Save(t); err != nil {
		return f.Current(), err
	}
	return t, nil
}

// Subscribe registers fn for every change of the current table. fn runs on
// the goroutine that made the change.
func (f *File) Subscribe(fn func(binding.Table)) (cancel func()) {
	f.subMu.Lock()
	defer f.subMu.Unlock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	return func() {
		f.subMu.Lock()
		defer f.subMu.Unlock()
		delete(f.subs, id)
	}
}

func (f *File) read() (binding.Table, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return binding.Table{}, err
	}
	doc, err := binding.Decode(data, f.format)
	if err != nil {
		return binding.Table{}, err
	}
	doc, err = migrate(doc)
	if err != nil {
		return binding.Table{}, err
	}
	t, err := doc.Table()
	if err != nil {
		return binding.Table{}, err
	}
	if err := t.Validate(); err != nil {
		return binding.Table{}, err
	}
	return t, nil
}

// migrate upgrades older documents to the current schema. Version 0 is a
// file written before the version field existed.
func migrate(doc binding.Document) (binding.Document, error) {
	switch {
	case doc.SchemaVersion > binding.CurrentSchemaVersion:
		return doc, fmt.Errorf("%w %d", ErrFutureVersion, doc.SchemaVersion)
	case doc.SchemaVersion < 0:
		return doc, fmt.Errorf("invalid schema version %d", doc.SchemaVersion)
	case doc.SchemaVersion == 0:
		doc.SchemaVersion = 1
		if doc.TriggerThreshold == 0 {
			doc.TriggerThreshold = binding.DefaultTriggerThreshold
		}
	}
	return doc, nil
}

func (f *File) set(t binding.Table) {
	f.mu.Lock()
	changed := !f.current.Equal(t)
	f.current = t
	f.mu.Unlock()
	if changed {
		f.notify(t)
	}
}

func (f *File) notify(t binding.Table) {
	f.subMu.Lock()
	subs := make([]func(binding.Table), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.subMu.Unlock()

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					f.logger.Error("Bindings subscriber panicked", "panic", r)
				}
			}()
			fn(t)
		}()
	}
}

func writeAtomic(path string, data []byte) error {
	if err := configpaths.EnsureDir(path); err != nil {
		return fmt.Errorf("create bindings dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace bindings file: %w", err)
	}
	return nil
}
