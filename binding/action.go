package binding

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the tag of an Action.
type Kind uint8

const (
	KindNone Kind = iota
	KindMouseLeftHold
	KindMouseRightHold
	KindMouseMiddleClick
	KindMouseButton4
	KindMouseButton5
	KindKeyTap
	KindKeyHold
	KindKeyCombo
	KindModifiersHold

	numKinds = int(KindModifiersHold) + 1
)

var kindNames = [numKinds]string{
	KindNone:             "none",
	KindMouseLeftHold:    "mouseLeftHold",
	KindMouseRightHold:   "mouseRightHold",
	KindMouseMiddleClick: "mouseMiddleClick",
	KindMouseButton4:     "mouseButton4",
	KindMouseButton5:     "mouseButton5",
	KindKeyTap:           "keyTap",
	KindKeyHold:          "keyHold",
	KindKeyCombo:         "keyCombo",
	KindModifiersHold:    "modifiersHold",
}

func (k Kind) String() string {
	if int(k) >= numKinds {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind resolves the text form of a kind.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if strings.EqualFold(n, s) {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action type %q", s)
}

// KeySpec is a key code plus the modifiers held around it.
type KeySpec struct {
	Code      uint16
	Modifiers ModifierSet
}

func (k KeySpec) String() string {
	if k.Modifiers.Empty() {
		return KeyName(k.Code)
	}
	return k.Modifiers.String() + "+" + KeyName(k.Code)
}

// Action is the effect bound to an input. It is a closed tagged value: Key is
// meaningful for the key kinds and Modifiers for KindModifiersHold.
type Action struct {
	Kind      Kind
	Key       KeySpec
	Modifiers ModifierSet
}

func None() Action             { return Action{} }
func MouseLeftHold() Action    { return Action{Kind: KindMouseLeftHold} }
func MouseRightHold() Action   { return Action{Kind: KindMouseRightHold} }
func MouseMiddleClick() Action { return Action{Kind: KindMouseMiddleClick} }
func MouseButton4() Action     { return Action{Kind: KindMouseButton4} }
func MouseButton5() Action     { return Action{Kind: KindMouseButton5} }

func KeyTap(k KeySpec) Action   { return Action{Kind: KindKeyTap, Key: k} }
func KeyHold(k KeySpec) Action  { return Action{Kind: KindKeyHold, Key: k} }
func KeyCombo(k KeySpec) Action { return Action{Kind: KindKeyCombo, Key: k} }

func ModifiersHold(s ModifierSet) Action { return Action{Kind: KindModifiersHold, Modifiers: s} }

// IsNone reports whether the action does nothing.
func (a Action) IsNone() bool { return a.Kind == KindNone }

// HasKey reports whether the kind carries a KeySpec.
func (a Action) HasKey() bool {
	switch a.Kind {
	case KindKeyTap, KindKeyHold, KindKeyCombo:
		return true
	}
	return false
}

func (a Action) String() string {
	switch {
	case a.HasKey():
		return fmt.Sprintf("%s(%s)", a.Kind, a.Key)
	case a.Kind == KindModifiersHold:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Modifiers)
	}
	return a.Kind.String()
}

var (
	ErrMissingKey       = errors.New("key action requires a key")
	ErrMissingModifiers = errors.New("modifiersHold requires at least one modifier")
)

// Validate checks that the payload matches the kind.
func (a Action) Validate() error {
	if int(a.Kind) >= numKinds {
		return fmt.Errorf("invalid action kind %d", uint8(a.Kind))
	}
	if a.HasKey() && a.Key.Code == 0 {
		return fmt.Errorf("%s: %w", a.Kind, ErrMissingKey)
	}
	if a.Kind == KindModifiersHold && a.Modifiers.Empty() {
		return ErrMissingModifiers
	}
	return nil
}

// ParseAction parses the short CLI form of an action:
//
//	none | mouseLeftHold | ... | keyTap:Enter | keyCombo:option+Tab | modifiersHold:command+shift
func ParseAction(s string) (Action, error) {
	kindPart, arg, _ := strings.Cut(strings.TrimSpace(s), ":")
	kind, err := ParseKind(kindPart)
	if err != nil {
		return Action{}, err
	}
	a := Action{Kind: kind}
	switch {
	case a.HasKey():
		parts := strings.Split(arg, "+")
		code, err := ParseKey(parts[len(parts)-1])
		if err != nil {
			return Action{}, err
		}
		mods, err := ParseModifiers(parts[:len(parts)-1])
		if err != nil {
			return Action{}, err
		}
		a.Key = KeySpec{Code: code, Modifiers: mods}
	case kind == KindModifiersHold:
		if arg == "" {
			return Action{}, ErrMissingModifiers
		}
		mods, err := ParseModifiers(strings.Split(arg, "+"))
		if err != nil {
			return Action{}, err
		}
		a.Modifiers = mods
	case arg != "":
		return Action{}, fmt.Errorf("%s takes no argument", kind)
	}
	return a, a.Validate()
}
