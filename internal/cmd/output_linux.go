package cmd

import (
	"log/slog"

	"github.com/Alia5/padmapper/engine"
	"github.com/Alia5/padmapper/output"
	"github.com/Alia5/padmapper/output/uinputout"
)

// DefaultOutput is the backend used when --output is not given.
const DefaultOutput = "uinput"

func openPlatformOutput(r *Run, cursor *output.Cursor, logger *slog.Logger) (output.Device, engine.Gate, error) {
	if r.Output != "uinput" {
		return nil, nil, errUnsupportedOutput
	}
	gate := uinputout.Gate(r.Uinput.Path, logger)
	dev, err := uinputout.Open(uinputout.Options{
		Path:   r.Uinput.Path,
		Name:   r.Uinput.Name,
		Cursor: cursor,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return dev, gate, nil
}
