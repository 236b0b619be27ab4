// Package transport performs single request/response exchanges over UDP.
// Each exchange opens its own socket, sends one packet, waits for one
// datagram or the deadline, and closes the socket on every path.
package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout bounds an exchange when the caller supplies none.
const DefaultTimeout = 5 * time.Second

// DefaultBufferSize fits any information query response.
const DefaultBufferSize = 2048

var (
	// ErrTimeout reports that no datagram arrived within the bound.
	ErrTimeout = errors.New("query timed out")

	// ErrSend reports that the outbound packet could not be dispatched.
	ErrSend = errors.New("send failed")

	// ErrTransport reports an asynchronous channel fault, such as an
	// ICMP port-unreachable surfaced on the socket.
	ErrTransport = errors.New("transport fault")
)

// Options tunes a single exchange.
type Options struct {
	// Timeout bounds the wait for the response datagram.
	Timeout time.Duration

	// BufferSize is the receive buffer length in bytes.
	BufferSize uint16
}

// Exchange sends packet to address:port over UDP and waits for exactly
// one inbound datagram. It returns the raw payload, or ErrSend,
// ErrTimeout or ErrTransport. Exactly one attempt is made; retries are
// the caller's concern.
func Exchange(packet []byte, address string, port int, opts Options) ([]byte, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	size := int(opts.BufferSize)
	if size == 0 {
		size = DefaultBufferSize
	}

	conn, err := net.Dial("udp", net.JoinHostPort(address, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if _, err := conn.Write(packet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSend, err)
	}

	buf := make([]byte, size)
	n, err := conn.Read(buf)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	return buf[:n], nil
}
