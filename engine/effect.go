package engine

import "github.com/Alia5/padmapper/binding"

// auxButton maps the auxiliary action kinds to their button numbers.
func auxButton(k binding.Kind) int {
	if k == binding.KindMouseButton5 {
		return 5
	}
	return 4
}

// press runs the press effector of a.
func (c *Core) press(a binding.Action) {
	switch a.Kind {
	case binding.KindMouseLeftHold:
		c.leftHolds++
		c.pointer.ButtonDown(ButtonLeft)
	case binding.KindMouseRightHold:
		c.pointer.ButtonDown(ButtonRight)
	case binding.KindMouseMiddleClick:
		c.pointer.ButtonDown(ButtonMiddle)
		c.pointer.ButtonUp(ButtonMiddle)
	case binding.KindMouseButton4, binding.KindMouseButton5:
		c.pointer.AuxButtonDown(auxButton(a.Kind))
	case binding.KindKeyTap, binding.KindKeyCombo:
		c.pulseKey(a.Key)
	case binding.KindKeyHold:
		c.modifiersDown(a.Key.Modifiers)
		c.keyboard.KeyDown(a.Key.Code)
	case binding.KindModifiersHold:
		c.modifiersDown(a.Modifiers)
	}
}

// release runs the release effector of a. Pulse kinds have none.
func (c *Core) release(a binding.Action) {
	switch a.Kind {
	case binding.KindMouseLeftHold:
		if c.leftHolds > 0 {
			c.leftHolds--
		}
		c.pointer.ButtonUp(ButtonLeft)
	case binding.KindMouseRightHold:
		c.pointer.ButtonUp(ButtonRight)
	case binding.KindMouseButton4, binding.KindMouseButton5:
		c.pointer.AuxButtonUp(auxButton(a.Kind))
	case binding.KindKeyHold:
		c.keyboard.KeyUp(a.Key.Code)
		c.modifiersUp(a.Key.Modifiers)
	case binding.KindModifiersHold:
		c.modifiersUp(a.Modifiers)
	}
}

// pulseKey presses and releases k with its modifiers held around the key.
func (c *Core) pulseKey(k binding.KeySpec) {
	c.modifiersDown(k.Modifiers)
	c.keyboard.KeyDown(k.Code)
	c.keyboard.KeyUp(k.Code)
	c.modifiersUp(k.Modifiers)
}

func (c *Core) modifiersDown(s binding.ModifierSet) {
	for _, m := range s.List() {
		c.keyboard.KeyDown(m.Code())
	}
}

func (c *Core) modifiersUp(s binding.ModifierSet) {
	mods := s.List()
	for i := len(mods) - 1; i >= 0; i-- {
		c.keyboard.KeyUp(mods[i].Code())
	}
}
