package binding

import (
	"fmt"
	"strconv"
	"strings"
)

// HID usage codes (USB HID Keyboard/Keypad usage page) used as the portable
// key identity. Output backends translate them to their native codes.
const (
	KeyA = 0x04
	KeyB = 0x05
	KeyC = 0x06
	KeyD = 0x07
	KeyE = 0x08
	KeyF = 0x09
	KeyG = 0x0A
	KeyH = 0x0B
	KeyI = 0x0C
	KeyJ = 0x0D
	KeyK = 0x0E
	KeyL = 0x0F
	KeyM = 0x10
	KeyN = 0x11
	KeyO = 0x12
	KeyP = 0x13
	KeyQ = 0x14
	KeyR = 0x15
	KeyS = 0x16
	KeyT = 0x17
	KeyU = 0x18
	KeyV = 0x19
	KeyW = 0x1A
	KeyX = 0x1B
	KeyY = 0x1C
	KeyZ = 0x1D

	Key1 = 0x1E
	Key2 = 0x1F
	Key3 = 0x20
	Key4 = 0x21
	Key5 = 0x22
	Key6 = 0x23
	Key7 = 0x24
	Key8 = 0x25
	Key9 = 0x26
	Key0 = 0x27

	KeyEnter      = 0x28
	KeyEscape     = 0x29
	KeyBackspace  = 0x2A
	KeyTab        = 0x2B
	KeySpace      = 0x2C
	KeyMinus      = 0x2D
	KeyEqual      = 0x2E
	KeyLeftBrace  = 0x2F
	KeyRightBrace = 0x30
	KeyBackslash  = 0x31
	KeySemicolon  = 0x33
	KeyApostrophe = 0x34
	KeyGrave      = 0x35
	KeyComma      = 0x36
	KeyPeriod     = 0x37
	KeySlash      = 0x38
	KeyCapsLock   = 0x39

	KeyF1  = 0x3A
	KeyF2  = 0x3B
	KeyF3  = 0x3C
	KeyF4  = 0x3D
	KeyF5  = 0x3E
	KeyF6  = 0x3F
	KeyF7  = 0x40
	KeyF8  = 0x41
	KeyF9  = 0x42
	KeyF10 = 0x43
	KeyF11 = 0x44
	KeyF12 = 0x45

	KeyHome          = 0x4A
	KeyPageUp        = 0x4B
	KeyForwardDelete = 0x4C
	KeyEnd           = 0x4D
	KeyPageDown      = 0x4E

	KeyRight = 0x4F
	KeyLeft  = 0x50
	KeyDown  = 0x51
	KeyUp    = 0x52

	KeyKpEnter = 0x58

	KeyLeftCtrl   = 0xE0
	KeyLeftShift  = 0xE1
	KeyLeftAlt    = 0xE2
	KeyLeftGUI    = 0xE3
	KeyRightCtrl  = 0xE4
	KeyRightShift = 0xE5
	KeyRightAlt   = 0xE6
	KeyRightGUI   = 0xE7
)

// KeyOption is one entry of the key catalog offered for bindings.
type KeyOption struct {
	Code uint16
	Name string
}

// KeyCatalog lists the keys that can be bound by name.
var KeyCatalog = []KeyOption{
	{KeyA, "A"}, {KeyB, "B"}, {KeyC, "C"}, {KeyD, "D"}, {KeyE, "E"}, {KeyF, "F"},
	{KeyG, "G"}, {KeyH, "H"}, {KeyI, "I"}, {KeyJ, "J"}, {KeyK, "K"}, {KeyL, "L"},
	{KeyM, "M"}, {KeyN, "N"}, {KeyO, "O"}, {KeyP, "P"}, {KeyQ, "Q"}, {KeyR, "R"},
	{KeyS, "S"}, {KeyT, "T"}, {KeyU, "U"}, {KeyV, "V"}, {KeyW, "W"}, {KeyX, "X"},
	{KeyY, "Y"}, {KeyZ, "Z"},

	{Key1, "1"}, {Key2, "2"}, {Key3, "3"}, {Key4, "4"}, {Key5, "5"},
	{Key6, "6"}, {Key7, "7"}, {Key8, "8"}, {Key9, "9"}, {Key0, "0"},

	{KeyEnter, "Enter"},
	{KeyKpEnter, "Keypad Enter"},
	{KeyTab, "Tab"},
	{KeySpace, "Space"},
	{KeyBackspace, "Backspace"},
	{KeyEscape, "Escape"},
	{KeyForwardDelete, "Forward Delete"},
	{KeyCapsLock, "Caps Lock"},

	{KeyMinus, "-"}, {KeyEqual, "="}, {KeyLeftBrace, "["}, {KeyRightBrace, "]"},
	{KeyBackslash, "\\"}, {KeySemicolon, ";"}, {KeyApostrophe, "'"}, {KeyGrave, "`"},
	{KeyComma, ","}, {KeyPeriod, "."}, {KeySlash, "/"},

	{KeyHome, "Home"},
	{KeyEnd, "End"},
	{KeyPageUp, "Page Up"},
	{KeyPageDown, "Page Down"},

	{KeyLeft, "Left Arrow"},
	{KeyRight, "Right Arrow"},
	{KeyDown, "Down Arrow"},
	{KeyUp, "Up Arrow"},

	{KeyF1, "F1"}, {KeyF2, "F2"}, {KeyF3, "F3"}, {KeyF4, "F4"},
	{KeyF5, "F5"}, {KeyF6, "F6"}, {KeyF7, "F7"}, {KeyF8, "F8"},
	{KeyF9, "F9"}, {KeyF10, "F10"}, {KeyF11, "F11"}, {KeyF12, "F12"},

	{KeyLeftCtrl, "Left Control"},
	{KeyLeftShift, "Left Shift"},
	{KeyLeftAlt, "Left Option"},
	{KeyLeftGUI, "Left Command"},
	{KeyRightCtrl, "Right Control"},
	{KeyRightShift, "Right Shift"},
	{KeyRightAlt, "Right Option"},
	{KeyRightGUI, "Right Command"},
}

var (
	keyByName = map[string]uint16{}
	keyByCode = map[uint16]string{}
)

func init() {
	for _, k := range KeyCatalog {
		keyByName[normalizeKeyName(k.Name)] = k.Code
		keyByCode[k.Code] = k.Name
	}
	// Aliases seen in saved configurations.
	keyByName["return"] = KeyEnter
	keyByName["delete"] = KeyBackspace
	keyByName["esc"] = KeyEscape
}

func normalizeKeyName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "_", "")
}

// KeyName returns the catalog name for code, or its hex form when the code
// is not in the catalog.
func KeyName(code uint16) string {
	if n, ok := keyByCode[code]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", code)
}

// ParseKey resolves a catalog name (case-insensitive) or a numeric code.
func ParseKey(s string) (uint16, error) {
	if c, ok := keyByName[normalizeKeyName(s)]; ok {
		return c, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("unknown key %q", s)
	}
	return uint16(n), nil
}
