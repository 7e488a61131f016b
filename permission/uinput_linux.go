package permission

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DefaultUinputPath is the Linux virtual input device node.
const DefaultUinputPath = "/dev/uinput"

// WritableDevice tests write access to a device node such as /dev/uinput.
func WritableDevice(path string) func() error {
	return func() error {
		if err := unix.Access(path, unix.W_OK); err != nil {
			return fmt.Errorf("no write access to %s: %w", path, err)
		}
		return nil
	}
}
