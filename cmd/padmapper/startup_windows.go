//go:build windows

package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Alia5/padmapper/internal/configpaths"
	"github.com/Alia5/padmapper/internal/util"
)

// A double-clicked padmapper hides its console once mapping runs, so logs
// go to a file unless one was configured.
func init() {
	if !util.IsRunFromGUI() || os.Getenv("PADMAPPER_LOG_FILE") != "" {
		return
	}
	dir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	path := filepath.Join(dir, "padmapper.log")
	slog.Info("Detected GUI startup, logging to file", "path", path)
	_ = os.Setenv("PADMAPPER_LOG_FILE", path)
}
