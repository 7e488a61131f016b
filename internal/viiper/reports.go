package viiper

import "io"

// Mouse button bits.
const (
	MouseLeft    uint8 = 1 << 0
	MouseRight   uint8 = 1 << 1
	MouseMiddle  uint8 = 1 << 2
	MouseBack    uint8 = 1 << 3
	MouseForward uint8 = 1 << 4
)

// MouseState is one mouse input report.
// Wire: buttons u8, dx i16, dy i16, wheel i16, pan i16 (little-endian).
type MouseState struct {
	Buttons uint8
	DX, DY  int16
	Wheel   int16
	Pan     int16
}

func (m *MouseState) MarshalBinary() ([]byte, error) {
	b := make([]byte, 9)
	b[0] = m.Buttons & 0x1F
	b[1] = byte(m.DX)
	b[2] = byte(m.DX >> 8)
	b[3] = byte(m.DY)
	b[4] = byte(m.DY >> 8)
	b[5] = byte(m.Wheel)
	b[6] = byte(m.Wheel >> 8)
	b[7] = byte(m.Pan)
	b[8] = byte(m.Pan >> 8)
	return b, nil
}

func (m *MouseState) UnmarshalBinary(data []byte) error {
	if len(data) < 9 {
		return io.ErrUnexpectedEOF
	}
	m.Buttons = data[0]
	m.DX = int16(data[1]) | int16(data[2])<<8
	m.DY = int16(data[3]) | int16(data[4])<<8
	m.Wheel = int16(data[5]) | int16(data[6])<<8
	m.Pan = int16(data[7]) | int16(data[8])<<8
	return nil
}

// Keyboard modifier bits.
const (
	ModLeftCtrl   = 0x01
	ModLeftShift  = 0x02
	ModLeftAlt    = 0x04
	ModLeftGUI    = 0x08
	ModRightCtrl  = 0x10
	ModRightShift = 0x20
	ModRightAlt   = 0x40
	ModRightGUI   = 0x80
)

// ModifierBit returns the modifier bit of a HID modifier usage code
// (0xE0-0xE7), or 0 for any other key.
func ModifierBit(code uint8) uint8 {
	if code < 0xE0 || code > 0xE7 {
		return 0
	}
	return 1 << (code - 0xE0)
}

// KeyboardState is one keyboard input report: modifier bits plus a 256-bit
// map of held HID usage codes.
// Wire: modifiers u8, count u8, keys u8*count.
type KeyboardState struct {
	Modifiers uint8
	KeyBitmap [32]uint8
}

// Press marks code as held. Modifier codes set their modifier bit.
func (st *KeyboardState) Press(code uint8) {
	if bit := ModifierBit(code); bit != 0 {
		st.Modifiers |= bit
		return
	}
	st.KeyBitmap[code/8] |= 1 << (code % 8)
}

// Release clears code.
func (st *KeyboardState) Release(code uint8) {
	if bit := ModifierBit(code); bit != 0 {
		st.Modifiers &^= bit
		return
	}
	st.KeyBitmap[code/8] &^= 1 << (code % 8)
}

// Keys returns the held non-modifier codes in ascending order.
func (st *KeyboardState) Keys() []uint8 {
	var keys []uint8
	for i := range 256 {
		if st.KeyBitmap[i/8]&(1<<(i%8)) != 0 {
			keys = append(keys, uint8(i))
		}
	}
	return keys
}

func (st *KeyboardState) MarshalBinary() ([]byte, error) {
	keys := st.Keys()
	b := make([]byte, 2+len(keys))
	b[0] = st.Modifiers
	b[1] = uint8(len(keys))
	copy(b[2:], keys)
	return b, nil
}

func (st *KeyboardState) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return io.ErrUnexpectedEOF
	}
	count := int(data[1])
	if len(data) < 2+count {
		return io.ErrUnexpectedEOF
	}
	st.Modifiers = data[0]
	st.KeyBitmap = [32]uint8{}
	for _, k := range data[2 : 2+count] {
		st.KeyBitmap[k/8] |= 1 << (k % 8)
	}
	return nil
}
