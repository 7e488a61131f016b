package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/Alia5/padmapper/display"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplaysWrite(t *testing.T) {
	layout := display.ProviderFunc(func() ([]display.Rect, error) {
		return []display.Rect{{W: 1920, H: 1080}, {X: 1920, W: 1280, H: 1024}}, nil
	})

	var buf bytes.Buffer
	require.NoError(t, (&Displays{}).write(&buf, layout))
	assert.Regexp(t, `0\s+1920x1080@0,0\s+960,540 \(pointer starts here\)`, buf.String())
	assert.Regexp(t, `1\s+1280x1024@1920,0\s+2560,512\n`, buf.String())

	buf.Reset()
	require.NoError(t, (&Displays{JSON: true}).write(&buf, layout))
	var rects []display.Rect
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rects))
	assert.Len(t, rects, 2)
	assert.Equal(t, 1920, rects[1].X)
}

func TestDisplaysError(t *testing.T) {
	none := display.ProviderFunc(func() ([]display.Rect, error) { return nil, display.ErrNoDisplays })
	assert.ErrorIs(t, (&Displays{}).write(&bytes.Buffer{}, none), display.ErrNoDisplays)
}
