package cmd

import (
	"log/slog"

	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/output"
	"github.com/Alia5/padmapper/output/win32out"
	"github.com/Alia5/padmapper/permission"
)

// DefaultOutput is the backend used when --output is not given.
const DefaultOutput = "win32"

func openPlatformOutput(r *Run, cursor *output.Cursor, logger *slog.Logger) (output.Device, engine.Gate, error) {
	if r.Output != "win32" {
		return nil, nil, errUnsupportedOutput
	}
	dev, err := win32out.Open(cursor, logger)
	if err != nil {
		return nil, nil, err
	}
	// user32 injection needs no grant beyond running in the user session.
	return dev, permission.Static(true), nil
}
