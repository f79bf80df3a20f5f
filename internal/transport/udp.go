package transport

import (
	"net"
	"sync"

	"github.com/netsdr/client/internal/logging"
)

// UDPConfig configures a UDPDataTransport.
type UDPConfig struct {
	// Address is the local address to bind for receiving data-frame
	// datagrams, e.g. ":50000" or "0.0.0.0:50000".
	Address string
	// ReadBufferSize bounds one received datagram; a data frame's maximum
	// wire size is frame.MaxDataFrameLen.
	ReadBufferSize int
}

func (c UDPConfig) withDefaults() UDPConfig {
	if c.ReadBufferSize <= 0 {
		c.ReadBufferSize = 8194
	}
	return c
}

// UDPDataTransport is a net.UDPConn-backed DataTransport: each inbound
// datagram is delivered to OnDatagram's callback from a dedicated
// receive goroutine.
type UDPDataTransport struct {
	cfg UDPConfig

	mu         sync.Mutex
	conn       *net.UDPConn
	onDatagram func([]byte)
	closed     chan struct{}
}

// NewUDPDataTransport constructs a transport bound to cfg.Address. The
// socket is not opened until StartListening is called.
func NewUDPDataTransport(cfg UDPConfig) *UDPDataTransport {
	return &UDPDataTransport{cfg: cfg.withDefaults()}
}

func (t *UDPDataTransport) OnDatagram(fn func([]byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDatagram = fn
}

func (t *UDPDataTransport) StartListening() error {
	t.mu.Lock()
	if t.conn != nil {
		t.mu.Unlock()
		return nil
	}
	t.mu.Unlock()

	addr, err := net.ResolveUDPAddr("udp", t.cfg.Address)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
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

func (t *UDPDataTransport) readLoop(conn *net.UDPConn, closed chan struct{}) {
	buf := make([]byte, t.cfg.ReadBufferSize)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if n > 0 {
			t.mu.Lock()
			cb := t.onDatagram
			t.mu.Unlock()
			if cb != nil {
				datagram := make([]byte, n)
				copy(datagram, buf[:n])
				cb(datagram)
			}
		}
		if err != nil {
			select {
			case <-closed:
				// Clean shutdown: StopListening closed the socket.
				return
			default:
				logging.Warnf("transport: data read loop exiting: %v", err)
				return
			}
		}
	}
}

func (t *UDPDataTransport) StopListening() error {
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

// Exit is interchangeable with StopListening, matching the reference data
// transport's interface vocabulary.
func (t *UDPDataTransport) Exit() error { return t.StopListening() }
