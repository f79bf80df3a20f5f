package transport

import (
	"errors"
	"net"
	"sync"
	"time"

	"github.com/netsdr/client/internal/logging"
)

// ErrNotConnected is returned by Send when the TCP control channel has not
// been opened.
var ErrNotConnected = errors.New("transport: control channel not connected")

// TCPConfig configures a TCPControlTransport.
type TCPConfig struct {
	Address          string
	ConnectTimeout   time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	// ReadBufferSize bounds one chunk delivered to OnMessage.
	ReadBufferSize int
}

func (c TCPConfig) withDefaults() TCPConfig {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 8194
	}
	return c
}

// TCPControlTransport is a net.Conn-backed ControlTransport: the control
// channel's wire bytes flow over a single TCP connection, read in a
// dedicated goroutine and delivered chunk-by-chunk to OnMessage.
type TCPControlTransport struct {
	cfg TCPConfig

	mu        sync.Mutex
	conn      net.Conn
	onMessage func([]byte)
	closed    chan struct{}
}

// NewTCPControlTransport constructs a transport bound to cfg.Address. It
// does not dial until Connect is called.
func NewTCPControlTransport(cfg TCPConfig) *TCPControlTransport {
	return &TCPControlTransport{cfg: cfg.withDefaults()}
}

func (t *TCPControlTransport) OnMessage(fn func([]byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMessage = fn
}

func (t *TCPControlTransport) Connect() error {
	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	dialer := net.Dialer{Timeout: t.cfg.ConnectTimeout}
	conn, err := dialer.Dial("tcp", t.cfg.Address)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.conn = conn
	t.closed = make(chan struct{})
	t.mu.Unlock()

	go t.readLoop(conn, t.closed)
	return nil
}

func (t *TCPControlTransport) readLoop(conn net.Conn, closed chan struct{}) {
	buf := make([]byte, t.cfg.ReadBufferSize)
	for {
		select {
		case <-closed:
			return
		default:
		}
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
		n, err := conn.Read(buf)
		if n > 0 {
			t.mu.Lock()
			cb := t.onMessage
			t.mu.Unlock()
			if cb != nil {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				cb(chunk)
			}
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			logging.Warnf("transport: control read loop exiting: %v", err)
			t.mu.Lock()
			t.conn = nil
			t.mu.Unlock()
			return
		}
	}
}

func (t *TCPControlTransport) Disconnect() error {
	t.mu.Lock()
	conn := t.conn
	closed := t.closed
	t.conn = nil
	t.mu.Unlock()

	if closed != nil {
		select {
		case <-closed:
		default:
			close(closed)
		}
	}
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func (t *TCPControlTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

func (t *TCPControlTransport) Send(b []byte) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	for len(b) > 0 {
		n, err := conn.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}
