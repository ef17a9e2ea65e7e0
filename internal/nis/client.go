// Package nis speaks the apcupsd Network Information Server protocol: a TCP
// exchange of 2-byte big-endian length-prefixed frames. The client sends the
// "status" command and collects the reply records into a key/value snapshot.
package nis

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const statusCommand = "status"

// maxFrameSize rejects frames no real apcupsd would send; a length word this
// large means the stream is out of sync.
const maxFrameSize = 4096

// UnavailableError reports that a UPS target could not be queried.
// Params: none.
// Returns: typed wrapper carrying the target address and cause.
type UnavailableError struct {
	Address string
	Err     error
}

// Error formats the unavailability message.
// Params: none.
// Returns: message naming the target address.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("ups %s unavailable: %v", e.Address, e.Err)
}

// Unwrap exposes the underlying cause.
// Params: none.
// Returns: wrapped error.
func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Client queries one apcupsd NIS endpoint. Each Status call dials a fresh
// connection; apcupsd closes the session after every command anyway.
// Params: none.
// Returns: reusable protocol client.
type Client struct {
	address string
	timeout time.Duration
	dialer  net.Dialer
}

// NewClient creates a NIS client.
// Params: address host:port of the apcupsd NIS listener; timeout bounds the
// dial and every single read/write.
// Returns: configured client.
func NewClient(address string, timeout time.Duration) *Client {
	return &Client{
		address: address,
		timeout: timeout,
		dialer:  net.Dialer{Timeout: timeout},
	}
}

// Address returns the configured target address.
// Params: none.
// Returns: host:port string.
func (c *Client) Address() string {
	return c.address
}

// Status requests a status snapshot from the UPS daemon. Records arrive as
// "KEY : value" lines, one per frame, terminated by a zero-length frame; both
// sides of the first colon are space-trimmed. Protocol markers such as "APC"
// and "END APC" are returned like any other key.
// Params: ctx for cancellation of dial and I/O.
// Returns: status key/value snapshot or an UnavailableError.
func (c *Client) Status(ctx context.Context) (map[string]string, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return nil, &UnavailableError{Address: c.address, Err: fmt.Errorf("dial: %w", err)}
	}
	defer conn.Close()

	stop := closeOnCancel(ctx, conn)
	defer stop()

	if err := c.writeFrame(conn, statusCommand); err != nil {
		return nil, c.unavailable(ctx, fmt.Errorf("send command: %w", err))
	}

	snapshot := make(map[string]string, 64)
	for {
		record, err := c.readFrame(conn)
		if err != nil {
			return nil, c.unavailable(ctx, fmt.Errorf("read record: %w", err))
		}
		if record == "" {
			return snapshot, nil
		}

		key, value, found := strings.Cut(record, ":")
		if !found {
			return nil, c.unavailable(ctx, fmt.Errorf("malformed record %q", record))
		}
		snapshot[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

// writeFrame sends one length-prefixed frame.
// Params: conn open connection; payload frame content.
// Returns: write error, if any.
func (c *Client) writeFrame(conn net.Conn, payload string) error {
	if err := conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}

	frame := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(frame, uint16(len(payload)))
	copy(frame[2:], payload)

	_, err := conn.Write(frame)
	return err
}

// readFrame receives one length-prefixed frame. A zero length word is the
// end-of-reply marker and comes back as an empty string.
// Params: conn open connection.
// Returns: frame content or read/framing error.
func (c *Client) readFrame(conn net.Conn) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return "", err
	}

	var header [2]byte
	if _, err := io.ReadFull(conn, header[:]); err != nil {
		return "", err
	}

	size := binary.BigEndian.Uint16(header[:])
	if size == 0 {
		return "", nil
	}
	if size > maxFrameSize {
		return "", fmt.Errorf("frame length %d exceeds limit", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(conn, payload); err != nil {
		return "", fmt.Errorf("truncated frame: %w", err)
	}
	return string(payload), nil
}

// unavailable wraps an I/O failure, preferring the context error when the
// caller canceled mid-exchange.
// Params: ctx request context; err underlying failure.
// Returns: UnavailableError for this client's target.
func (c *Client) unavailable(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return &UnavailableError{Address: c.address, Err: err}
}

// closeOnCancel closes the connection when the context is canceled so blocked
// reads return promptly.
// Params: ctx request context; conn open connection.
// Returns: stop function releasing the watcher goroutine.
func closeOnCancel(ctx context.Context, conn net.Conn) func() {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	return func() { close(done) }
}
