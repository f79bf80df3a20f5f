// Package session implements the client state machine: a single object
// owning one control transport and one data transport, serializing control
// request/response exchanges and forwarding data frames to a consumer.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/netsdr/client/internal/logging"
	"github.com/netsdr/client/internal/metrics"
	"github.com/netsdr/client/internal/protocol/frame"
	"github.com/netsdr/client/internal/transport"
)

var (
	// ErrTimeout is returned when a control request's matching reply does
	// not arrive within Config.ResponseTimeout.
	ErrTimeout = errors.New("session: control request timed out")
	// ErrCancelled is returned to a waiter whose pending request was
	// cancelled by a concurrent Disconnect.
	ErrCancelled = errors.New("session: control request cancelled by disconnect")
	// ErrTransport wraps a failure reported by the control transport.
	ErrTransport = errors.New("session: transport error")
)

// receiverState values for the ReceiverState control item's single status
// byte. The reference NetSDR interface defines a richer set of run modes;
// only idle/run are needed to drive start_iq/stop_iq.
const (
	receiverStateIdle byte = 0x00
	receiverStateRun  byte = 0x02
)

// handshakeProbes are the three CurrentControlItem queries connect() issues
// in order, awaiting each reply before sending the next.
var handshakeProbes = []frame.ItemCode{
	frame.ItemReceiverState,
	frame.ItemRFFilter,
	frame.ItemADModes,
}

// SampleFrame is handed to the Consumer for each valid inbound data frame:
// the raw body plus enough context (configured width, and the sequence
// number when the frame carried one) for the caller to run it through the
// samples package.
type SampleFrame struct {
	Width int
	Type  frame.MessageType
	Item  frame.ItemCode
	Seq   uint16
	Body  []byte
}

// Consumer receives one SampleFrame per valid inbound data frame.
type Consumer func(SampleFrame)

// Session is the client state machine described in spec §4.3: it owns a
// control transport and a data transport exclusively, serializes control
// exchanges one at a time, and forwards decoded data frames to a Consumer.
// A Session is not reusable across transports; construct a new one to bind
// to different transports.
type Session struct {
	cfg      Config
	ctrl     transport.ControlTransport
	data     transport.DataTransport
	consumer Consumer

	mu        sync.Mutex
	connected bool
	iqStarted bool
	pending   pendingSlot
	ctrlMu    sync.Mutex

	rng *rand.Rand
}

// New binds a Session to ctrl and data. consumer may be nil if the caller
// has no interest in sample frames (e.g. control-only use).
func New(ctrl transport.ControlTransport, data transport.DataTransport, cfg Config, consumer Consumer) *Session {
	s := &Session{
		cfg:      cfg.WithDefaults(),
		ctrl:     ctrl,
		data:     data,
		consumer: consumer,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.ctrl.OnMessage(s.onControlMessage)
	s.data.OnDatagram(s.onDataFrame)
	return s
}

// Connected reports the session's connected state.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// IQStarted reports whether streaming was last toggled on.
func (s *Session) IQStarted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iqStarted
}

// Connect opens the control transport and runs the standard three-probe
// handshake (ReceiverState, RFFilter, ADModes), awaiting each reply before
// sending the next. Idempotent: calling Connect while already connected is
// a no-op.
func (s *Session) Connect() error {
	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.ctrl.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	s.mu.Lock()
	s.connected = true
	s.mu.Unlock()

	for _, item := range handshakeProbes {
		if _, err := s.sendControl(frame.CurrentControlItem, item, nil); err != nil {
			return fmt.Errorf("session: handshake probe %s: %w", item, err)
		}
	}
	return nil
}

// ConnectWithRetry calls Connect repeatedly, sleeping between attempts for
// NextBackoffDelay(s.cfg.Backoff, attempt, rng), until it succeeds, ctx is
// cancelled, or maxAttempts is reached (maxAttempts <= 0 means retry
// forever). It returns the last Connect error on exhaustion or ctx.Err() if
// cancelled while sleeping.
func (s *Session) ConnectWithRetry(ctx context.Context, maxAttempts int) error {
	var attempt int
	for {
		attempt++
		err := s.Connect()
		if err == nil {
			return nil
		}
		logging.Warnf("session: connect attempt=%d failed: %v", attempt, err)
		if maxAttempts > 0 && attempt >= maxAttempts {
			return err
		}
		if sleepErr := s.sleepBackoff(ctx, attempt); sleepErr != nil {
			return sleepErr
		}
	}
}

func (s *Session) sleepBackoff(ctx context.Context, attempt int) error {
	delay := NextBackoffDelay(s.cfg.Backoff, attempt, s.rng)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Disconnect closes the control transport. Always safe, idempotent, and
// leaves iq_started untouched. Any in-flight control request is cancelled
// with ErrCancelled rather than left to time out.
func (s *Session) Disconnect() error {
	s.mu.Lock()
	s.connected = false
	s.mu.Unlock()

	s.pending.cancelAll()
	return s.ctrl.Disconnect()
}

// StartIQ sends a ReceiverState=run control request and, once acked,
// instructs the data transport to begin listening. No-op if not connected
// or already started.
func (s *Session) StartIQ() error {
	s.mu.Lock()
	if !s.connected || s.iqStarted {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if _, err := s.sendControl(frame.SetControlItem, frame.ItemReceiverState, []byte{receiverStateRun}); err != nil {
		return err
	}
	if err := s.data.StartListening(); err != nil {
		return fmt.Errorf("session: start listening: %w", err)
	}

	s.mu.Lock()
	s.iqStarted = true
	s.mu.Unlock()
	return nil
}

// StopIQ always instructs the data transport to stop listening (safe even
// if never started); if streaming was started, it also sends a
// ReceiverState=idle control request. No-op entirely if not connected.
func (s *Session) StopIQ() error {
	s.mu.Lock()
	connected := s.connected
	wasStarted := s.iqStarted
	s.mu.Unlock()

	if !connected {
		return nil
	}

	if err := s.data.StopListening(); err != nil {
		logging.Warnf("session: stop listening: %v", err)
	}

	if wasStarted {
		if _, err := s.sendControl(frame.SetControlItem, frame.ItemReceiverState, []byte{receiverStateIdle}); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.iqStarted = false
	s.mu.Unlock()
	return nil
}

// ChangeFrequency sends a ReceiverFrequency SetControlItem request with a
// one-byte channel followed by a 5-byte little-endian frequency in Hz.
// No-op if not connected.
func (s *Session) ChangeFrequency(hz int64, channel uint8) error {
	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()
	if !connected {
		return nil
	}

	body := encodeFrequencyParams(channel, hz)
	_, err := s.sendControl(frame.SetControlItem, frame.ItemReceiverFrequency, body)
	return err
}

func encodeFrequencyParams(channel uint8, hz int64) []byte {
	buf := make([]byte, 6)
	buf[0] = channel
	v := uint64(hz)
	for i := 0; i < 5; i++ {
		buf[1+i] = byte(v >> uint(8*i))
	}
	return buf
}

// sendControl encodes and sends one control frame, then blocks until the
// matching reply arrives, the response timeout elapses, or a concurrent
// Disconnect cancels it. Only one sendControl call is in flight at a time
// for a given session: the control channel has no pipelining.
func (s *Session) sendControl(t frame.MessageType, item frame.ItemCode, params []byte) (frame.Frame, error) {
	s.ctrlMu.Lock()
	defer s.ctrlMu.Unlock()

	buf, err := frame.EncodeControl(t, item, params)
	if err != nil {
		return frame.Frame{}, err
	}

	req := newPendingRequest()
	s.pending.start(req)

	start := time.Now()
	if err := s.ctrl.Send(buf); err != nil {
		s.pending.clear()
		metrics.RecordControlRoundTrip(item.String(), "error", time.Since(start))
		return frame.Frame{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	metrics.RecordFrameSent(item.String())

	timer := time.NewTimer(s.cfg.ResponseTimeout)
	defer timer.Stop()
	select {
	case fr := <-req.resp:
		metrics.RecordControlRoundTrip(item.String(), "ok", time.Since(start))
		return fr, nil
	case <-req.cancel:
		metrics.RecordControlRoundTrip(item.String(), "cancelled", time.Since(start))
		return frame.Frame{}, ErrCancelled
	case <-timer.C:
		s.pending.clear()
		metrics.RecordControlRoundTrip(item.String(), "timeout", time.Since(start))
		return frame.Frame{}, ErrTimeout
	}
}

// onControlMessage is the callback registered with the control transport.
// Each inbound chunk is decoded as one complete control frame. Chunks are
// not reassembled: a chunk holding part of a frame, or more than one frame,
// fails to decode and is dropped. Malformed or unsolicited frames are
// logged and dropped; they never fulfill a pending request.
func (s *Session) onControlMessage(chunk []byte) {
	fr, err := frame.Decode(chunk)
	if err != nil {
		metrics.RecordDecodeFailure("control")
		logging.Warnf("session: dropping malformed control frame: %v", err)
		return
	}
	if !fr.Type.IsControl() {
		logging.Warnf("session: dropping non-control frame received on control transport")
		return
	}
	metrics.RecordFrameReceived("control")
	if !s.pending.fulfill(fr) {
		logging.Warnf("session: received control frame with no pending request, dropping")
	}
}

// onDataFrame is the callback registered with the data transport. Each
// inbound datagram is decoded as one frame and, if valid, handed to the
// Consumer; decode failures are logged and dropped.
func (s *Session) onDataFrame(datagram []byte) {
	fr, err := frame.Decode(datagram)
	if err != nil {
		metrics.RecordDecodeFailure("data")
		logging.Warnf("session: dropping malformed data frame: %v", err)
		return
	}
	if !fr.Type.IsData() {
		logging.Warnf("session: dropping non-data frame received on data transport")
		return
	}
	metrics.RecordFrameReceived("data")
	if s.consumer == nil {
		return
	}
	s.consumer(SampleFrame{
		Width: s.cfg.SampleWidth,
		Type:  fr.Type,
		Item:  fr.Item,
		Seq:   fr.Seq,
		Body:  fr.Body,
	})
}
