//go:build linux

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemdUnitContent(t *testing.T) {
	unit := systemdUnitContent("/opt/padmapper/padmapper")
	assert.Contains(t, unit, `ExecStart="/opt/padmapper/padmapper" run`)
	assert.Contains(t, unit, "WorkingDirectory=/opt/padmapper\n")
	assert.Contains(t, unit, "Restart=on-failure")
	assert.Contains(t, unit, "WantedBy=default.target")
}

func TestUnitPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := unitPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "systemd", "user", "padmapper.service"), p)
}
