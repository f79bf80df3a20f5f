package session

import (
	"sync"

	"github.com/netsdr/client/internal/protocol/frame"
)

// pendingRequest is the single-entry synchronization primitive described in
// the GLOSSARY as the pending-response slot: one outstanding control
// request at a time, fulfilled by the next inbound control frame or
// cancelled by disconnect.
type pendingRequest struct {
	resp   chan frame.Frame
	cancel chan struct{}
}

func newPendingRequest() *pendingRequest {
	return &pendingRequest{
		resp:   make(chan frame.Frame, 1),
		cancel: make(chan struct{}),
	}
}

// pendingSlot holds at most one pendingRequest, guarded by a mutex. This is
// the single-slot degeneration of the reference event outbox's
// mutex-guarded map: where the outbox tracks many in-flight events by ID
// for retry bookkeeping, the protocol here allows only one in-flight
// control request, so the map collapses to a single optional entry.
type pendingSlot struct {
	mu  sync.Mutex
	cur *pendingRequest
}

// start installs req as the current pending request. Callers must ensure
// no request is already pending (the session's request/response discipline
// guarantees this: sendControl holds the slot for the duration of one
// exchange).
func (s *pendingSlot) start(req *pendingRequest) {
	s.mu.Lock()
	s.cur = req
	s.mu.Unlock()
}

// fulfill delivers fr to the current pending request, if any, and clears
// the slot. Returns false if there was nothing pending (an unsolicited or
// late-arriving control frame).
func (s *pendingSlot) fulfill(fr frame.Frame) bool {
	s.mu.Lock()
	req := s.cur
	s.cur = nil
	s.mu.Unlock()
	if req == nil {
		return false
	}
	req.resp <- fr
	return true
}

// clear removes and returns the current pending request without
// fulfilling it, used on timeout.
func (s *pendingSlot) clear() *pendingRequest {
	s.mu.Lock()
	req := s.cur
	s.cur = nil
	s.mu.Unlock()
	return req
}

// cancelAll cancels whatever request is currently pending, waking its
// waiter with ErrCancelled instead of a response.
func (s *pendingSlot) cancelAll() {
	req := s.clear()
	if req != nil {
		close(req.cancel)
	}
}
