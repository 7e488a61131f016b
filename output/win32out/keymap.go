package win32out

import "github.com/Alia5/padmapper/binding"

var virtualKeys = map[uint16]uint8{
	binding.Key1: 0x31, binding.Key2: 0x32, binding.Key3: 0x33, binding.Key4: 0x34,
	binding.Key5: 0x35, binding.Key6: 0x36, binding.Key7: 0x37, binding.Key8: 0x38,
	binding.Key9: 0x39, binding.Key0: 0x30,

	binding.KeyEnter:         0x0D,
	binding.KeyKpEnter:       0x0D,
	binding.KeyEscape:        0x1B,
	binding.KeyBackspace:     0x08,
	binding.KeyTab:           0x09,
	binding.KeySpace:         0x20,
	binding.KeyMinus:         0xBD,
	binding.KeyEqual:         0xBB,
	binding.KeyLeftBrace:     0xDB,
	binding.KeyRightBrace:    0xDD,
	binding.KeyBackslash:     0xDC,
	binding.KeySemicolon:     0xBA,
	binding.KeyApostrophe:    0xDE,
	binding.KeyGrave:         0xC0,
	binding.KeyComma:         0xBC,
	binding.KeyPeriod:        0xBE,
	binding.KeySlash:         0xBF,
	binding.KeyCapsLock:      0x14,
	binding.KeyHome:          0x24,
	binding.KeyPageUp:        0x21,
	binding.KeyForwardDelete: 0x2E,
	binding.KeyEnd:           0x23,
	binding.KeyPageDown:      0x22,
	binding.KeyRight:         0x27,
	binding.KeyLeft:          0x25,
	binding.KeyDown:          0x28,
	binding.KeyUp:            0x26,

	binding.KeyLeftCtrl:   0xA2,
	binding.KeyLeftShift:  0xA0,
	binding.KeyLeftAlt:    0xA4,
	binding.KeyLeftGUI:    0x5B,
	binding.KeyRightCtrl:  0xA3,
	binding.KeyRightShift: 0xA1,
	binding.KeyRightAlt:   0xA5,
	binding.KeyRightGUI:   0x5C,
}

func init() {
	for i := range uint16(26) {
		virtualKeys[binding.KeyA+i] = uint8('A' + i)
	}
	for i := range uint16(12) {
		virtualKeys[binding.KeyF1+i] = uint8(0x70 + i)
	}
}

// VirtualKey translates a HID usage code to a Windows virtual-key code.
func VirtualKey(hid uint16) (uint8, bool) {
	vk, ok := virtualKeys[hid]
	return vk, ok
}

// extendedKey reports keys that need KEYEVENTF_EXTENDEDKEY.
func extendedKey(hid uint16) bool {
	switch hid {
	case binding.KeyKpEnter, binding.KeyRightCtrl, binding.KeyRightAlt,
		binding.KeyLeftGUI, binding.KeyRightGUI,
		binding.KeyHome, binding.KeyEnd, binding.KeyPageUp, binding.KeyPageDown,
		binding.KeyForwardDelete,
		binding.KeyLeft, binding.KeyRight, binding.KeyUp, binding.KeyDown:
		return true
	}
	return false
}
