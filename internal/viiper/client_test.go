package viiper_test

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/Alia5/padmapper/internal/viiper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient answers from responses keyed by unfilled path pattern. A non-nil
// err fails every request.
func testClient(responses map[string]string, err error) *viiper.Client {
	return viiper.WithTransport(viiper.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		return responses[path], nil
	}))
}

func TestHighLevelClient(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		responses map[string]string
		err       error
		call      func(c *viiper.Client) (any, error)
		want      any
		wantErr   string
	}{
		{
			name:      "ping",
			responses: map[string]string{"ping": `{"server":"VIIPER","version":"1.2.3"}`},
			call:      func(c *viiper.Client) (any, error) { return c.PingCtx(ctx) },
			want:      &viiper.PingResponse{Server: "VIIPER", Version: "1.2.3"},
		},
		{
			name:      "bus create",
			responses: map[string]string{"bus/create": `{"busId":42}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusCreateCtx(ctx, 42) },
			want:      &viiper.BusCreateResponse{BusID: 42},
		},
		{
			name:      "bus create structured error",
			responses: map[string]string{"bus/create": `{"status":409,"title":"Conflict","detail":"bus exists"}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusCreateCtx(ctx, 1) },
			wantErr:   "409 Conflict: bus exists",
		},
		{
			name:      "bus list",
			responses: map[string]string{"bus/list": `{"buses":[1,2]}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusListCtx(ctx) },
			want:      &viiper.BusListResponse{Buses: []uint32{1, 2}},
		},
		{
			name:      "device add",
			responses: map[string]string{"bus/{id}/add": `{"busId":1,"devId":"2","vid":"0x1234","pid":"0x5678","type":"mouse"}`},
			call:      func(c *viiper.Client) (any, error) { return c.DeviceAddCtx(ctx, 1, viiper.DeviceMouse) },
			want:      &viiper.Device{BusID: 1, DevId: "2", Vid: "0x1234", Pid: "0x5678", Type: "mouse"},
		},
		{
			name:      "devices list",
			responses: map[string]string{"bus/{id}/list": `{"devices":[{"busId":1,"devId":"1","type":"keyboard"}]}`},
			call:      func(c *viiper.Client) (any, error) { return c.DevicesListCtx(ctx, 1) },
			want:      &viiper.DevicesListResponse{Devices: []viiper.Device{{BusID: 1, DevId: "1", Type: "keyboard"}}},
		},
		{
			name:      "device remove",
			responses: map[string]string{"bus/{id}/remove": `{"busId":1,"devId":"1"}`},
			call:      func(c *viiper.Client) (any, error) { return c.DeviceRemoveCtx(ctx, 1, "1") },
			want:      &viiper.DeviceRemoveResponse{BusID: 1, DevId: "1"},
		},
		{
			name:    "empty response",
			call:    func(c *viiper.Client) (any, error) { return c.PingCtx(ctx) },
			wantErr: "empty response",
		},
		{
			name:      "malformed response",
			responses: map[string]string{"ping": `{"server":`},
			call:      func(c *viiper.Client) (any, error) { return c.PingCtx(ctx) },
			wantErr:   "decode",
		},
		{
			name:    "transport error",
			err:     errors.New("dial fail"),
			call:    func(c *viiper.Client) (any, error) { return c.BusListCtx(ctx) },
			wantErr: "dial fail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call(testClient(tt.responses, tt.err))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenStreamNotSupportedWithMockTransport(t *testing.T) {
	_, err := testClient(nil, nil).OpenStream(context.Background(), 1, "1")
	assert.ErrorContains(t, err, "not supported with mock transport")
}

func TestStreamWritesReports(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	type received struct {
		path   string
		report []byte
	}
	got := make(chan received, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		r := bufio.NewReader(conn)
		path, _ := r.ReadString('\x00')
		report := make([]byte, 9)
		_, _ = io.ReadFull(r, report)
		got <- received{path: path, report: report}
	}()

	c := viiper.New(ln.Addr().String())
	stream, err := c.OpenStream(context.Background(), 3, "7")
	require.NoError(t, err)
	require.NoError(t, stream.WriteBinary(&viiper.MouseState{Buttons: viiper.MouseLeft, DX: -2}))

	select {
	case r := <-got:
		assert.Equal(t, "bus/3/7\x00", r.path)
		assert.Equal(t, []byte{0x01, 0xFE, 0xFF, 0, 0, 0, 0, 0, 0}, r.report)
	case <-time.After(2 * time.Second):
		t.Fatal("no report received")
	}

	require.NoError(t, stream.Close())
	require.NoError(t, stream.Close())
	assert.ErrorIs(t, stream.WriteBinary(&viiper.MouseState{}), viiper.ErrStreamClosed)
}
