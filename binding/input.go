// Package binding holds the controller-to-output binding table: the bindable
// inputs, the closed action vocabulary, key specifications and the table itself.
package binding

import "fmt"

// InputID identifies a bindable physical control.
type InputID uint8

const (
	DpadUp InputID = iota
	DpadDown
	DpadLeft
	DpadRight

	FaceSouth // Cross / A
	FaceEast  // Circle / B
	FaceWest  // Square / X
	FaceNorth // Triangle / Y

	L1
	R1
	L2
	R2

	L3
	R3

	Options
	Create

	// NumInputs is the number of bindable inputs.
	NumInputs = int(Create) + 1
)

// Order is the dispatch priority of inputs. When several inputs change in
// the same tick their edges are dispatched in this order.
var Order = [NumInputs]InputID{
	DpadUp, DpadDown, DpadLeft, DpadRight,
	FaceSouth, FaceEast, FaceWest, FaceNorth,
	L1, R1, L2, R2,
	L3, R3,
	Options, Create,
}

var inputNames = [NumInputs]string{
	DpadUp:    "dpadUp",
	DpadDown:  "dpadDown",
	DpadLeft:  "dpadLeft",
	DpadRight: "dpadRight",
	FaceSouth: "faceSouth",
	FaceEast:  "faceEast",
	FaceWest:  "faceWest",
	FaceNorth: "faceNorth",
	L1:        "l1",
	R1:        "r1",
	L2:        "l2",
	R2:        "r2",
	L3:        "l3",
	R3:        "r3",
	Options:   "options",
	Create:    "create",
}

var inputLabels = [NumInputs]string{
	DpadUp:    "D-pad Up",
	DpadDown:  "D-pad Down",
	DpadLeft:  "D-pad Left",
	DpadRight: "D-pad Right",
	FaceSouth: "Cross (A)",
	FaceEast:  "Circle (B)",
	FaceWest:  "Square (X)",
	FaceNorth: "Triangle (Y)",
	L1:        "L1",
	R1:        "R1",
	L2:        "L2",
	R2:        "R2",
	L3:        "L3",
	R3:        "R3",
	Options:   "Options/Menu",
	Create:    "Create/Share",
}

// Valid reports whether id is a member of the enumeration.
func (id InputID) Valid() bool { return int(id) < NumInputs }

func (id InputID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("InputID(%d)", uint8(id))
	}
	return inputNames[id]
}

// Label returns a human-readable name for the control.
func (id InputID) Label() string {
	if !id.Valid() {
		return id.String()
	}
	return inputLabels[id]
}

// ParseInputID resolves the text form of an input (e.g. "faceSouth").
func ParseInputID(s string) (InputID, error) {
	for i, n := range inputNames {
		if n == s {
			return InputID(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input %q", s)
}

func (id InputID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid input id %d", uint8(id))
	}
	return []byte(inputNames[id]), nil
}

func (id *InputID) UnmarshalText(b []byte) error {
	v, err := ParseInputID(string(b))
	if err != nil {
		return err
	}
	*id = v
	return nil
}
