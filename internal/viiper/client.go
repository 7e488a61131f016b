package viiper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client wraps Transport with typed management requests.
type Client struct{ transport *Transport }

func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom timeouts and password.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client over t. Mostly useful in tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// PingCtx returns the server identity and version.
func (c *Client) PingCtx(ctx context.Context) (*PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[PingResponse](raw)
}

// BusCreateCtx creates a virtual bus. A zero busID lets the server choose.
func (c *Client) BusCreateCtx(ctx context.Context, busID uint32) (*BusCreateResponse, error) {
	var payload any
	if busID != 0 {
		payload = fmt.Sprintf("%d", busID)
	}
	raw, err := c.transport.DoCtx(ctx, "bus/create", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[BusCreateResponse](raw)
}

// BusListCtx lists the active bus numbers.
func (c *Client) BusListCtx(ctx context.Context) (*BusListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[BusListResponse](raw)
}

// DeviceAddCtx adds a device of devType ("mouse", "keyboard", ...) to a bus.
func (c *Client) DeviceAddCtx(ctx context.Context, busID uint32, devType string) (*Device, error) {
	payload, err := json.Marshal(DeviceCreateRequest{Type: &devType})
	if err != nil {
		return nil, fmt.Errorf("marshal device create request: %w", err)
	}
	params := map[string]string{"id": fmt.Sprintf("%d", busID)}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/add", string(payload), params)
	if err != nil {
		return nil, err
	}
	return parse[Device](raw)
}

// DevicesListCtx lists the devices attached to a bus.
func (c *Client) DevicesListCtx(ctx context.Context, busID uint32) (*DevicesListResponse, error) {
	params := map[string]string{"id": fmt.Sprintf("%d", busID)}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/list", nil, params)
	if err != nil {
		return nil, err
	}
	return parse[DevicesListResponse](raw)
}

// DeviceRemoveCtx removes a device from a bus.
func (c *Client) DeviceRemoveCtx(ctx context.Context, busID uint32, devID string) (*DeviceRemoveResponse, error) {
	params := map[string]string{"id": fmt.Sprintf("%d", busID)}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/remove", devID, params)
	if err != nil {
		return nil, err
	}
	return parse[DeviceRemoveResponse](raw)
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	if err := json.NewDecoder(bytes.NewReader([]byte(data))).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
