package uinputout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Event types and codes from linux/input-event-codes.h.
const (
	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0x00

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112
	btnSide   = 0x113
	btnExtra  = 0x114

	busUSB = 0x03
)

// uinput ioctls (linux/uinput.h), encoded like the _IO/_IOW macros.
const (
	iocNone  = 0
	iocWrite = 1

	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, typ, nr, size uint) uint {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift
}

var (
	uiDevCreate  = ioc(iocNone, 'U', 1, 0)
	uiDevDestroy = ioc(iocNone, 'U', 2, 0)
	uiSetEvBit   = ioc(iocWrite, 'U', 100, uint(unsafe.Sizeof(int32(0))))
	uiSetKeyBit  = ioc(iocWrite, 'U', 101, uint(unsafe.Sizeof(int32(0))))
	uiSetRelBit  = ioc(iocWrite, 'U', 102, uint(unsafe.Sizeof(int32(0))))
)

const maxNameSize = 80

// userDev is struct uinput_user_dev.
type userDev struct {
	Name       [maxNameSize]byte
	Bustype    uint16
	Vendor     uint16
	Product    uint16
	Version    uint16
	EffectsMax uint32
	Absmax     [64]int32
	Absmin     [64]int32
	Absfuzz    [64]int32
	Absflat    [64]int32
}

// inputEvent is struct input_event.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// pointer is a relative pointer with five buttons and a vertical and
// horizontal wheel.
type pointer struct {
	w       io.Writer
	destroy func() error
}

var pointerButtons = []uint16{btnLeft, btnRight, btnMiddle, btnSide, btnExtra}

func createPointer(path, name string) (*pointer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fd := int(f.Fd())
	fail := func(op string, err error) (*pointer, error) {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, ev := range []int{evSyn, evKey, evRel} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, ev); err != nil {
			return fail("set event bit", err)
		}
	}
	for _, btn := range pointerButtons {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(btn)); err != nil {
			return fail("set key bit", err)
		}
	}
	for _, rel := range []int{relX, relY, relWheel, relHWheel} {
		if err := unix.IoctlSetInt(fd, uiSetRelBit, rel); err != nil {
			return fail("set rel bit", err)
		}
	}

	dev := userDev{Bustype: busUSB, Vendor: 0x1209, Product: 0x0001, Version: 1}
	copy(dev.Name[:maxNameSize-1], name)
	if err := binary.Write(f, binary.NativeEndian, &dev); err != nil {
		return fail("write device setup", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fail("create device", err)
	}

	return &pointer{
		w: f,
		destroy: func() error {
			_ = unix.IoctlSetInt(fd, uiDevDestroy, 0)
			return f.Close()
		},
	}, nil
}

func (p *pointer) Move(x, y int32) error {
	var evs []inputEvent
	if x != 0 {
		evs = append(evs, inputEvent{Type: evRel, Code: relX, Value: x})
	}
	if y != 0 {
		evs = append(evs, inputEvent{Type: evRel, Code: relY, Value: y})
	}
	return p.emit(evs...)
}

func (p *pointer) ButtonPress(code uint16) error {
	return p.emit(inputEvent{Type: evKey, Code: code, Value: 1})
}

func (p *pointer) ButtonRelease(code uint16) error {
	return p.emit(inputEvent{Type: evKey, Code: code, Value: 0})
}

func (p *pointer) Wheel(horizontal bool, delta int32) error {
	code := uint16(relWheel)
	if horizontal {
		code = relHWheel
	}
	return p.emit(inputEvent{Type: evRel, Code: code, Value: delta})
}

func (p *pointer) Close() error {
	return p.destroy()
}

// emit writes evs followed by a sync report in one write.
func (p *pointer) emit(evs ...inputEvent) error {
	if len(evs) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, ev := range append(evs, inputEvent{Type: evSyn, Code: synReport}) {
		if err := binary.Write(&buf, binary.NativeEndian, &ev); err != nil {
			return err
		}
	}
	_, err := p.w.Write(buf.Bytes())
	return err
}
