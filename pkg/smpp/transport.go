package smpp

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Transport is the byte-stream contract the session runs over. Read returns
// exactly n bytes, ErrTimeout when the deadline passes with nothing read, or
// a fatal transport error.
type Transport interface {
	Open() error
	Close() error
	IsOpen() bool
	Read(n int) ([]byte, error)
	Write(p []byte) error
}

// TCPTransport implements Transport over a TCP connection with per-call
// read and write deadlines.
type TCPTransport struct {
	addr           string
	connectTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration

	mu   sync.Mutex
	conn net.Conn
}

// NewTCPTransport creates a transport for host:port using the config
// timeouts.
func NewTCPTransport(host string, port int, cfg *ClientConfig) *TCPTransport {
	return &TCPTransport{
		addr:           fmt.Sprintf("%s:%d", host, port),
		connectTimeout: cfg.ConnectTimeout,
		readTimeout:    cfg.ReadTimeout,
		writeTimeout:   cfg.WriteTimeout,
	}
}

// Open dials the peer. Opening an already-open transport is a no-op.
func (t *TCPTransport) Open() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return nil
	}
	dialer := &net.Dialer{Timeout: t.connectTimeout}
	conn, err := dialer.Dial("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", t.addr, err)
	}
	t.conn = conn
	return nil
}

// Close closes the connection; idempotent.
func (t *TCPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// IsOpen reports whether the connection is established.
func (t *TCPTransport) IsOpen() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

// Read returns exactly n bytes. A deadline that expires before the first
// byte surfaces as the retryable ErrTimeout; a deadline that expires
// mid-read is a transport error, the stream position is lost.
func (t *TCPTransport) Read(n int) ([]byte, error) {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return nil, ErrTransportClosed
	}

	if t.readTimeout > 0 {
		conn.SetReadDeadline(time.Now().Add(t.readTimeout))
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(conn, buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			if read == 0 {
				return nil, ErrTimeout
			}
			return nil, fmt.Errorf("timed out after %d of %d bytes: %w", read, n, err)
		}
		return nil, fmt.Errorf("read failed: %w", err)
	}
	return buf, nil
}

// Write writes all of p as a single call.
func (t *TCPTransport) Write(p []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return ErrTransportClosed
	}

	if t.writeTimeout > 0 {
		conn.SetWriteDeadline(time.Now().Add(t.writeTimeout))
	}
	if _, err := conn.Write(p); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
