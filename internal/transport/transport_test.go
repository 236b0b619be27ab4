package transport

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"
)

// startResponder binds a local UDP socket and answers every inbound
// datagram with reply. A nil reply keeps the socket silent.
func startResponder(t *testing.T, reply []byte) *net.UDPAddr {
	t.Helper()

	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if reply != nil {
		go func() {
			buf := make([]byte, 2048)
			for {
				_, addr, err := conn.ReadFrom(buf)
				if err != nil {
					return
				}
				_, _ = conn.WriteTo(reply, addr)
			}
		}()
	}

	return conn.LocalAddr().(*net.UDPAddr)
}

func TestExchange(t *testing.T) {
	reply := []byte("SAMP reply payload")
	addr := startResponder(t, reply)

	got, err := Exchange([]byte("ping"), "127.0.0.1", addr.Port, Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if !bytes.Equal(got, reply) {
		t.Errorf("Exchange() = %q, want %q", got, reply)
	}
}

func TestExchangeTimeout(t *testing.T) {
	addr := startResponder(t, nil)

	timeout := 150 * time.Millisecond
	start := time.Now()
	_, err := Exchange([]byte("ping"), "127.0.0.1", addr.Port, Options{Timeout: timeout})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Exchange() error = %v, want ErrTimeout", err)
	}
	if elapsed < timeout {
		t.Errorf("Exchange() returned after %s, before the %s bound", elapsed, timeout)
	}
	if elapsed > timeout+time.Second {
		t.Errorf("Exchange() returned after %s, far past the %s bound", elapsed, timeout)
	}
}

func TestExchangeSocketPerCall(t *testing.T) {
	addr := startResponder(t, nil)

	// Repeated timed-out exchanges must not accumulate sockets; each
	// call opens and closes its own.
	for i := 0; i < 5; i++ {
		_, err := Exchange([]byte("ping"), "127.0.0.1", addr.Port, Options{Timeout: 20 * time.Millisecond})
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("exchange %d: error = %v, want ErrTimeout", i, err)
		}
	}

	reply := []byte("pong")
	live := startResponder(t, reply)
	got, err := Exchange([]byte("ping"), "127.0.0.1", live.Port, Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("exchange after timeouts: error = %v", err)
	}
	if !bytes.Equal(got, reply) {
		t.Errorf("exchange after timeouts = %q, want %q", got, reply)
	}
}

func TestExchangeInvalidDestination(t *testing.T) {
	_, err := Exchange([]byte("ping"), "not an address", 7777, Options{Timeout: time.Second})
	if !errors.Is(err, ErrSend) {
		t.Fatalf("Exchange() error = %v, want ErrSend", err)
	}
}

func TestExchangeDefaults(t *testing.T) {
	reply := make([]byte, DefaultBufferSize+512)
	addr := startResponder(t, reply)

	// Zero-value options fall back to the default timeout and buffer;
	// an oversized datagram is truncated to the buffer length.
	got, err := Exchange([]byte("ping"), "127.0.0.1", addr.Port, Options{})
	if err != nil {
		t.Fatalf("Exchange() error = %v", err)
	}
	if len(got) != DefaultBufferSize {
		t.Errorf("Exchange() payload length = %d, want %d", len(got), DefaultBufferSize)
	}
}
