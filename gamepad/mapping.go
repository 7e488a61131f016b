package gamepad

import "math"

type axisTarget uint8

const (
	axisLeftX axisTarget = iota
	axisLeftY
	axisRightX
	axisRightY
	axisL2
	axisR2
)

type buttonTarget uint8

const (
	btnSouth buttonTarget = iota
	btnEast
	btnWest
	btnNorth
	btnL1
	btnR1
	btnL3
	btnR3
	btnOptions
	btnCreate
	btnHome // not bindable, read for logging only
)

// AxisMapping defines how a raw axis index maps to a snapshot field.
type AxisMapping struct {
	Index     int32
	Target    axisTarget
	IsTrigger bool
	Invert    bool
	// Raw trigger range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

// ButtonMapping defines how a raw button index maps to a snapshot field.
type ButtonMapping struct {
	Index  int32
	Target buttonTarget
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

// NormalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func NormalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// NormalizeTrigger converts a raw trigger value to 0.0..1.0.
func NormalizeTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// Apply writes the normalized raw axis value into s.
func (a AxisMapping) Apply(s *Snapshot, raw int16) {
	if a.IsTrigger {
		v := NormalizeTrigger(raw, a.RawMin, a.RawMax)
		switch a.Target {
		case axisL2:
			s.L2 = v
		case axisR2:
			s.R2 = v
		}
		return
	}
	v := NormalizeAxis(raw)
	if a.Invert {
		v = -v
	}
	switch a.Target {
	case axisLeftX:
		s.LeftX = v
	case axisLeftY:
		s.LeftY = v
	case axisRightX:
		s.RightX = v
	case axisRightY:
		s.RightY = v
	}
}

// Apply writes the button state into s.
func (b ButtonMapping) Apply(s *Snapshot, pressed bool) {
	switch b.Target {
	case btnSouth:
		s.FaceSouth = pressed
	case btnEast:
		s.FaceEast = pressed
	case btnWest:
		s.FaceWest = pressed
	case btnNorth:
		s.FaceNorth = pressed
	case btnL1:
		s.L1 = pressed
	case btnR1:
		s.R1 = pressed
	case btnL3:
		s.L3 = pressed
	case btnR3:
		s.R3 = pressed
	case btnOptions:
		s.Options = pressed
	case btnCreate:
		s.Create = pressed
	}
}

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// ApplyHat sets the d-pad fields from an SDL hat bitmask.
func ApplyHat(s *Snapshot, hat uint8) {
	s.DpadUp = hat&hatUp != 0
	s.DpadRight = hat&hatRight != 0
	s.DpadDown = hat&hatDown != 0
	s.DpadLeft = hat&hatLeft != 0
}

// Stick Y axes are inverted: SDL reports positive-down, snapshots are positive-up.
var standardAxes = []AxisMapping{
	{Index: 0, Target: axisLeftX},
	{Index: 1, Target: axisLeftY, Invert: true},
	{Index: 2, Target: axisRightX},
	{Index: 3, Target: axisRightY, Invert: true},
	{Index: 4, Target: axisL2, IsTrigger: true, RawMin: -32768, RawMax: 32767},
	{Index: 5, Target: axisR2, IsTrigger: true, RawMin: -32768, RawMax: 32767},
}

var xboxMapping = &DeviceMapping{
	Name: "xbox",
	Axes: standardAxes,
	Buttons: []ButtonMapping{
		{Index: 0, Target: btnSouth},
		{Index: 1, Target: btnEast},
		{Index: 2, Target: btnWest},
		{Index: 3, Target: btnNorth},
		{Index: 4, Target: btnL1},
		{Index: 5, Target: btnR1},
		{Index: 6, Target: btnCreate},
		{Index: 7, Target: btnOptions},
		{Index: 8, Target: btnL3},
		{Index: 9, Target: btnR3},
		{Index: 10, Target: btnHome},
	},
	HasHat: true,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: standardAxes,
	Buttons: []ButtonMapping{
		{Index: 0, Target: btnSouth},   // Cross
		{Index: 1, Target: btnEast},    // Circle
		{Index: 2, Target: btnWest},    // Square
		{Index: 3, Target: btnNorth},   // Triangle
		{Index: 4, Target: btnCreate},  // Share / Create
		{Index: 5, Target: btnHome},    // PS button
		{Index: 6, Target: btnOptions}, // Options
		{Index: 7, Target: btnL3},
		{Index: 8, Target: btnR3},
		{Index: 9, Target: btnL1},
		{Index: 10, Target: btnR1},
	},
	HasHat: true,
}

// ZL/ZR are digital on the Switch Pro and are not mapped.
var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: standardAxes[:4],
	Buttons: []ButtonMapping{
		{Index: 0, Target: btnSouth},
		{Index: 1, Target: btnEast},
		{Index: 2, Target: btnWest},
		{Index: 3, Target: btnNorth},
		{Index: 4, Target: btnL1},
		{Index: 5, Target: btnR1},
		{Index: 6, Target: btnCreate},
		{Index: 7, Target: btnOptions},
		{Index: 8, Target: btnL3},
		{Index: 9, Target: btnR3},
		{Index: 10, Target: btnHome},
	},
	HasHat: true,
}

var genericMapping = &DeviceMapping{
	Name:    "generic",
	Axes:    standardAxes,
	Buttons: xboxMapping.Buttons,
	HasHat:  true,
}

type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x0DF2}: playstationMapping, // DualSense Edge
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the mapping for a device identified by vendor/product ID,
// falling back to the generic mapping.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	if m, ok := knownDevices[deviceKey{VendorID: vendorID, ProductID: productID}]; ok {
		return m
	}
	return genericMapping
}
