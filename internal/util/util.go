//go:build !windows

package util

// IsRunFromGUI is only meaningful on Windows, where a double-clicked binary
// should start mapping without arguments. Elsewhere a service manager or a
// shell starts padmapper.
func IsRunFromGUI() bool {
	return false
}

func HideConsoleWindow() {}
