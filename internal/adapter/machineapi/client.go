// Package machineapi is the HTTP client for the vending machines' control
// endpoints. Each machine exposes GET /slots (live telemetry) and POST /drop
// (dispense command), authenticated with a shared token header.
//
// Callers need to distinguish four outcomes per call: success, connect
// failure, timeout, and an error status with a machine-supplied message.
// Failures are therefore reported as *domain.DeviceError, never flattened.
package machineapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vendstack/barkeep/internal/config"
	"github.com/vendstack/barkeep/internal/domain"
)

const authHeader = "X-Auth-Token"

// Client talks to machine control endpoints. The endpoint URL is built from
// a template with the machine name substituted in; credentials and timeouts
// come from injected configuration, never ambient process state.
type Client struct {
	urlTemplate   string
	token         string
	statusTimeout time.Duration
	dropTimeout   time.Duration
	httpClient    *http.Client
	log           *slog.Logger
}

// New creates a machine API client from configuration.
func New(cfg config.MachinesConfig, logger *slog.Logger) *Client {
	return &Client{
		urlTemplate:   cfg.URLTemplate,
		token:         cfg.APIToken,
		statusTimeout: cfg.StatusTimeout,
		dropTimeout:   cfg.DropTimeout,
		httpClient:    &http.Client{},
		log:           logger.With("adapter", "machineapi"),
	}
}

// Status fetches the live slot telemetry for a machine. The timeout is
// short: this sits on the synchronous request path of every dispense and
// listing call.
func (c *Client) Status(ctx context.Context, name string) (*domain.MachineStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.statusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(name, "slots"), nil)
	if err != nil {
		return nil, fmt.Errorf("machineapi: create request: %w", err)
	}
	req.Header.Set(authHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, name, "status", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(name, "status", resp)
	}

	var status domain.MachineStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("machineapi: decode status for %s: %w", name, err)
	}
	status.Name = name

	c.log.DebugContext(ctx, "machine status fetched",
		slog.String("machine", name),
		slog.Int("slots", len(status.Slots)),
	)
	return &status, nil
}

// Drop commands the machine to dispense from the given slot. The timeout is
// longer than Status's because the physical action can be slow. Once the
// machine accepts the command the action cannot be undone, so callers treat
// a success here as the point of no return.
func (c *Client) Drop(ctx context.Context, name string, slot int32) error {
	ctx, cancel := context.WithTimeout(ctx, c.dropTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]int32{"slot": slot})
	if err != nil {
		return fmt.Errorf("machineapi: marshal drop body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(name, "drop"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("machineapi: create request: %w", err)
	}
	req.Header.Set(authHeader, c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, name, "drop", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(name, "drop", resp)
	}

	c.log.DebugContext(ctx, "drop accepted",
		slog.String("machine", name),
		slog.Int("slot", int(slot)),
	)
	return nil
}

func (c *Client) endpoint(name, path string) string {
	return fmt.Sprintf(c.urlTemplate, name) + "/" + path
}

// transportError classifies a failed round trip as a timeout or a connect
// failure.
func (c *Client) transportError(ctx context.Context, name, op string, err error) *domain.DeviceError {
	kind := domain.DeviceErrConnect

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		kind = domain.DeviceErrTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = domain.DeviceErrTimeout
	}

	return &domain.DeviceError{
		Machine: name,
		Op:      op,
		Kind:    kind,
		Err:     err,
	}
}

// statusError extracts the machine-supplied error message from an error
// response body, tolerating bodies that are not the expected JSON shape.
func (c *Client) statusError(name, op string, resp *http.Response) *domain.DeviceError {
	message := ""
	if body, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil {
			message = payload.Error
		}
	}

	return &domain.DeviceError{
		Machine:    name,
		Op:         op,
		Kind:       domain.DeviceErrStatus,
		StatusCode: resp.StatusCode,
		Message:    message,
	}
}
