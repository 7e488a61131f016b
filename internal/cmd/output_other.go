//go:build !linux && !windows

package cmd

import (
	"log/slog"

	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/output"
)

// DefaultOutput is the backend used when --output is not given.
const DefaultOutput = "viiper"

func openPlatformOutput(*Run, *output.Cursor, *slog.Logger) (output.Device, engine.Gate, error) {
	return nil, nil, errUnsupportedOutput
}
