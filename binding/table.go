package binding

import (
	"errors"
	"fmt"
)

const (
	// CurrentSchemaVersion is the binding-table schema written by this build.
	CurrentSchemaVersion = 1
	// DefaultTriggerThreshold digitizes the analog triggers.
	DefaultTriggerThreshold = 0.60
)

// Table maps inputs to actions. A Table is immutable; the With/Without
// helpers return modified copies.
type Table struct {
	SchemaVersion    int
	TriggerThreshold float64
	bindings         map[InputID]Action
}

// NewTable returns a table with the given bindings. Entries bound to none are
// dropped.
func NewTable(threshold float64, bindings map[InputID]Action) Table {
	t := Table{
		SchemaVersion:    CurrentSchemaVersion,
		TriggerThreshold: threshold,
		bindings:         make(map[InputID]Action, len(bindings)),
	}
	for id, a := range bindings {
		if !a.IsNone() {
			t.bindings[id] = a
		}
	}
	return t
}

// Default returns the built-in binding table.
func Default() Table {
	return NewTable(DefaultTriggerThreshold, map[InputID]Action{
		FaceSouth: MouseLeftHold(),
		L2:        MouseRightHold(),
		L1:        MouseButton4(),
		R1:        MouseButton5(),
		DpadLeft:  KeyHold(KeySpec{Code: KeyZ}),
		DpadRight: KeyHold(KeySpec{Code: KeyX}),
		DpadUp:    KeyCombo(KeySpec{Code: KeyTab, Modifiers: Modifiers(Option)}),
	})
}

// Lookup returns the action bound to id, or none.
func (t Table) Lookup(id InputID) Action {
	return t.bindings[id]
}

// Len returns the number of bound inputs.
func (t Table) Len() int { return len(t.bindings) }

// With returns a copy of t with id bound to a.
func (t Table) With(id InputID, a Action) Table {
	out := t.clone()
	if a.IsNone() {
		delete(out.bindings, id)
	} else {
		out.bindings[id] = a
	}
	return out
}

// Without returns a copy of t with id unbound.
func (t Table) Without(id InputID) Table { return t.With(id, None()) }

// WithThreshold returns a copy of t using the given trigger threshold.
func (t Table) WithThreshold(v float64) Table {
	out := t.clone()
	out.TriggerThreshold = v
	return out
}

// Entry is one bound input.
type Entry struct {
	Input  InputID
	Action Action
}

// Bindings returns the bound entries in dispatch order.
func (t Table) Bindings() []Entry {
	out := make([]Entry, 0, len(t.bindings))
	for _, id := range Order {
		if a, ok := t.bindings[id]; ok {
			out = append(out, Entry{Input: id, Action: a})
		}
	}
	return out
}

// Equal reports whether both tables bind the same actions with the same tunables.
func (t Table) Equal(o Table) bool {
	if t.SchemaVersion != o.SchemaVersion || t.TriggerThreshold != o.TriggerThreshold || len(t.bindings) != len(o.bindings) {
		return false
	}
	for id, a := range t.bindings {
		if b, ok := o.bindings[id]; !ok || a != b {
			return false
		}
	}
	return true
}

var ErrThreshold = errors.New("trigger threshold must be within (0, 1)")

// Validate checks the tunables and every bound action.
func (t Table) Validate() error {
	if !(t.TriggerThreshold > 0 && t.TriggerThreshold < 1) {
		return ErrThreshold
	}
	for id, a := range t.bindings {
		if !id.Valid() {
			return fmt.Errorf("invalid input id %d", uint8(id))
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	return nil
}

func (t Table) clone() Table {
	out := t
	out.bindings = make(map[InputID]Action, len(t.bindings)+1)
	for id, a := range t.bindings {
		out.bindings[id] = a
	}
	return out
}
