package uinputout

import (
	"github.com/Alia5/padmapper/binding"

	"github.com/bendahl/uinput"
)

// evdevCodes maps HID keyboard usage codes to Linux evdev key codes.
var evdevCodes = map[uint16]int{
	binding.KeyA: uinput.KeyA, binding.KeyB: uinput.KeyB, binding.KeyC: uinput.KeyC,
	binding.KeyD: uinput.KeyD, binding.KeyE: uinput.KeyE, binding.KeyF: uinput.KeyF,
	binding.KeyG: uinput.KeyG, binding.KeyH: uinput.KeyH, binding.KeyI: uinput.KeyI,
	binding.KeyJ: uinput.KeyJ, binding.KeyK: uinput.KeyK, binding.KeyL: uinput.KeyL,
	binding.KeyM: uinput.KeyM, binding.KeyN: uinput.KeyN, binding.KeyO: uinput.KeyO,
	binding.KeyP: uinput.KeyP, binding.KeyQ: uinput.KeyQ, binding.KeyR: uinput.KeyR,
	binding.KeyS: uinput.KeyS, binding.KeyT: uinput.KeyT, binding.KeyU: uinput.KeyU,
	binding.KeyV: uinput.KeyV, binding.KeyW: uinput.KeyW, binding.KeyX: uinput.KeyX,
	binding.KeyY: uinput.KeyY, binding.KeyZ: uinput.KeyZ,

	binding.Key1: uinput.Key1, binding.Key2: uinput.Key2, binding.Key3: uinput.Key3,
	binding.Key4: uinput.Key4, binding.Key5: uinput.Key5, binding.Key6: uinput.Key6,
	binding.Key7: uinput.Key7, binding.Key8: uinput.Key8, binding.Key9: uinput.Key9,
	binding.Key0: uinput.Key0,

	binding.KeyEnter:         uinput.KeyEnter,
	binding.KeyEscape:        uinput.KeyEsc,
	binding.KeyBackspace:     uinput.KeyBackspace,
	binding.KeyTab:           uinput.KeyTab,
	binding.KeySpace:         uinput.KeySpace,
	binding.KeyMinus:         uinput.KeyMinus,
	binding.KeyEqual:         uinput.KeyEqual,
	binding.KeyLeftBrace:     uinput.KeyLeftbrace,
	binding.KeyRightBrace:    uinput.KeyRightbrace,
	binding.KeyBackslash:     uinput.KeyBackslash,
	binding.KeySemicolon:     uinput.KeySemicolon,
	binding.KeyApostrophe:    uinput.KeyApostrophe,
	binding.KeyGrave:         uinput.KeyGrave,
	binding.KeyComma:         uinput.KeyComma,
	binding.KeyPeriod:        uinput.KeyDot,
	binding.KeySlash:         uinput.KeySlash,
	binding.KeyCapsLock:      uinput.KeyCapslock,
	binding.KeyHome:          uinput.KeyHome,
	binding.KeyPageUp:        uinput.KeyPageup,
	binding.KeyForwardDelete: uinput.KeyDelete,
	binding.KeyEnd:           uinput.KeyEnd,
	binding.KeyPageDown:      uinput.KeyPagedown,
	binding.KeyRight:         uinput.KeyRight,
	binding.KeyLeft:          uinput.KeyLeft,
	binding.KeyDown:          uinput.KeyDown,
	binding.KeyUp:            uinput.KeyUp,
	binding.KeyKpEnter:       uinput.KeyKpenter,

	binding.KeyF1: uinput.KeyF1, binding.KeyF2: uinput.KeyF2, binding.KeyF3: uinput.KeyF3,
	binding.KeyF4: uinput.KeyF4, binding.KeyF5: uinput.KeyF5, binding.KeyF6: uinput.KeyF6,
	binding.KeyF7: uinput.KeyF7, binding.KeyF8: uinput.KeyF8, binding.KeyF9: uinput.KeyF9,
	binding.KeyF10: uinput.KeyF10, binding.KeyF11: uinput.KeyF11, binding.KeyF12: uinput.KeyF12,

	binding.KeyLeftCtrl:   uinput.KeyLeftctrl,
	binding.KeyLeftShift:  uinput.KeyLeftshift,
	binding.KeyLeftAlt:    uinput.KeyLeftalt,
	binding.KeyLeftGUI:    uinput.KeyLeftmeta,
	binding.KeyRightCtrl:  uinput.KeyRightctrl,
	binding.KeyRightShift: uinput.KeyRightshift,
	binding.KeyRightAlt:   uinput.KeyRightalt,
	binding.KeyRightGUI:   uinput.KeyRightmeta,
}

// EvdevCode translates a HID usage code.
func EvdevCode(hid uint16) (int, bool) {
	c, ok := evdevCodes[hid]
	return c, ok
}
