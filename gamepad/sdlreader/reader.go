// Package sdlreader samples the first connected joystick through SDL3.
// purego-sdl3 loads libSDL3 when this package initializes, so only the run
// command links it.
package sdlreader

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Alia5/padmapper/gamepad"

	"github.com/jupiterrider/purego-sdl3/sdl"
)

// DefaultPollInterval samples slightly faster than the engine ticks so every
// tick sees a fresh snapshot.
const DefaultPollInterval = 4 * time.Millisecond

type joystickInfo struct {
	joystick *sdl.Joystick
	mapping  *gamepad.DeviceMapping
	name     string
	id       sdl.JoystickID
}

// Reader samples the first connected joystick through SDL3 and publishes the
// latest Snapshot into a single-slot cell. Connection changes are pushed on
// the Connections channel.
type Reader struct {
	logger       *slog.Logger
	pollInterval time.Duration

	slot      gamepad.Slot
	connected atomic.Bool
	conns     chan bool

	// Owned by the Run goroutine.
	joysticks map[sdl.JoystickID]*joystickInfo
	activeID  sdl.JoystickID
	hasActive bool
}

func NewReader(logger *slog.Logger, pollInterval time.Duration) *Reader {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Reader{
		logger:       logger,
		pollInterval: pollInterval,
		conns:        make(chan bool, 8),
		joysticks:    make(map[sdl.JoystickID]*joystickInfo),
	}
}

// Current returns the latest sampled snapshot.
func (r *Reader) Current() gamepad.Snapshot { return r.slot.Load() }

// Connected reports whether a controller is currently active.
func (r *Reader) Connected() bool { return r.connected.Load() }

// Connections delivers connectivity changes. Notifications may be dropped
// when nobody reads; consumers re-check Connected.
func (r *Reader) Connections() <-chan bool { return r.conns }

// Run initializes SDL and runs the event and polling loop until ctx is done.
// SDL requires all calls on one OS thread, so Run locks its goroutine to it.
func (r *Reader) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("SDL init failed: %s", sdl.GetError())
	}
	defer sdl.Quit()

	r.logger.Debug("SDL3 joystick subsystem initialized")

	for _, id := range sdl.GetJoysticks() {
		r.openJoystick(id)
	}

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		default:
		}

		r.processEvents()
		r.pollState()
		sdl.DelayNS(uint64(r.pollInterval.Nanoseconds()))
	}
}

func (r *Reader) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			r.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			r.removeJoystick(event.JDevice().Which)
		}
	}
}

func (r *Reader) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := r.joysticks[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		r.logger.Warn("Failed to open joystick", "id", instanceID, "error", sdl.GetError())
		return
	}

	jsID := sdl.GetJoystickID(js)
	vendorID := sdl.GetJoystickVendor(js)
	productID := sdl.GetJoystickProduct(js)
	name := sdl.GetJoystickName(js)
	mapping := gamepad.GetMapping(vendorID, productID)

	r.joysticks[jsID] = &joystickInfo{joystick: js, mapping: mapping, name: name, id: jsID}

	r.logger.Info("Controller connected",
		"name", name,
		"vid", fmt.Sprintf("%04X", vendorID),
		"pid", fmt.Sprintf("%04X", productID),
		"mapping", mapping.Name,
		"axes", sdl.GetNumJoystickAxes(js),
		"buttons", sdl.GetNumJoystickButtons(js),
		"hats", sdl.GetNumJoystickHats(js))

	if !r.hasActive {
		r.activate(jsID)
	}
}

func (r *Reader) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := r.joysticks[instanceID]
	if !exists {
		return
	}

	r.logger.Info("Controller disconnected", "name", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(r.joysticks, instanceID)

	if !r.hasActive || r.activeID != instanceID {
		return
	}
	r.hasActive = false
	r.slot.Reset()
	r.setConnected(false)

	// Promote the next available joystick.
	for id, js := range r.joysticks {
		if sdl.JoystickConnected(js.joystick) {
			r.activate(id)
			return
		}
	}
}

func (r *Reader) activate(id sdl.JoystickID) {
	r.activeID = id
	r.hasActive = true
	r.logger.Info("Active controller set", "name", r.joysticks[id].name, "id", id)
	r.pollState()
	r.setConnected(true)
}

func (r *Reader) setConnected(v bool) {
	if r.connected.Swap(v) == v {
		return
	}
	select {
	case r.conns <- v:
	default:
	}
}

func (r *Reader) closeAll() {
	for id, info := range r.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(r.joysticks, id)
	}
	r.hasActive = false
	r.slot.Reset()
	r.setConnected(false)
}

func (r *Reader) pollState() {
	if !r.hasActive {
		return
	}
	info, exists := r.joysticks[r.activeID]
	if !exists || !sdl.JoystickConnected(info.joystick) {
		return
	}

	js := info.joystick
	var snap gamepad.Snapshot

	numAxes := sdl.GetNumJoystickAxes(js)
	for _, am := range info.mapping.Axes {
		if am.Index >= numAxes {
			continue
		}
		am.Apply(&snap, sdl.GetJoystickAxis(js, am.Index))
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	for _, bm := range info.mapping.Buttons {
		if bm.Index >= numButtons {
			continue
		}
		bm.Apply(&snap, sdl.GetJoystickButton(js, bm.Index))
	}

	if info.mapping.HasHat && sdl.GetNumJoystickHats(js) > 0 {
		gamepad.ApplyHat(&snap, sdl.GetJoystickHat(js, 0))
	}

	r.slot.Store(snap)
}
