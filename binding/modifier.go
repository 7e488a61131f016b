package binding

import (
	"fmt"
	"strings"
)

// Modifier is a keyboard modifier that can accompany a key.
type Modifier uint8

const (
	Command Modifier = iota
	Option
	Control
	Shift

	numModifiers = int(Shift) + 1
)

var modifierNames = [numModifiers]string{
	Command: "command",
	Option:  "option",
	Control: "control",
	Shift:   "shift",
}

// HID usage codes of the left-hand modifier keys.
var modifierCodes = [numModifiers]uint16{
	Command: KeyLeftGUI,
	Option:  KeyLeftAlt,
	Control: KeyLeftCtrl,
	Shift:   KeyLeftShift,
}

func (m Modifier) String() string {
	if int(m) >= numModifiers {
		return fmt.Sprintf("Modifier(%d)", uint8(m))
	}
	return modifierNames[m]
}

// Code returns the key code emitted for the modifier.
func (m Modifier) Code() uint16 { return modifierCodes[m] }

// ParseModifier accepts the canonical names plus the usual platform aliases.
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "command", "cmd", "gui", "super", "meta", "win":
		return Command, nil
	case "option", "opt", "alt":
		return Option, nil
	case "control", "ctrl":
		return Control, nil
	case "shift":
		return Shift, nil
	}
	return 0, fmt.Errorf("unknown modifier %q", s)
}

// ModifierSet is an unordered set of modifiers.
type ModifierSet uint8

// Modifiers builds a set from the given modifiers.
func Modifiers(ms ...Modifier) ModifierSet {
	var s ModifierSet
	for _, m := range ms {
		s = s.With(m)
	}
	return s
}

func (s ModifierSet) Has(m Modifier) bool { return s&(1<<m) != 0 }

func (s ModifierSet) With(m Modifier) ModifierSet { return s | 1<<m }

func (s ModifierSet) Empty() bool { return s == 0 }

// List returns the members in press order (command, option, control, shift).
func (s ModifierSet) List() []Modifier {
	var out []Modifier
	for m := Modifier(0); int(m) < numModifiers; m++ {
		if s.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Names returns the canonical names of the members in press order.
func (s ModifierSet) Names() []string {
	ms := s.List()
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

func (s ModifierSet) String() string { return strings.Join(s.Names(), "+") }

// ParseModifiers parses a list of modifier names into a set.
func ParseModifiers(names []string) (ModifierSet, error) {
	var s ModifierSet
	for _, n := range names {
		m, err := ParseModifier(n)
		if err != nil {
			return 0, err
		}
		s = s.With(m)
	}
	return s, nil
}
