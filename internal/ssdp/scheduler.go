package ssdp

import (
	"fmt"
	"math/rand/v2"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/akschmitt/hued/internal/bridge"
	"github.com/akschmitt/hued/internal/logging"
)

// IdentitySource supplies the bridge identifier carried in outgoing replies.
// Implemented by bridge.Cache; tests substitute a fixed value.
type IdentitySource interface {
	// EnsureFresh may refresh the identifier; it enforces its own rate
	// limiting and may block on the network, so the Scheduler calls it off
	// the listener's goroutine.
	EnsureFresh()
	// Identifier returns the current identifier, possibly empty.
	Identifier() string
}

// Scheduler decouples query arrival from reply transmission. Each accepted
// query gets an independent one-shot timer with a uniform random delay in
// [0, MX) seconds, per the SSDP MX contract; repeat queries from the same
// sender are legitimate retries and get their own timers, no dedup.
//
// Replies leave through one dedicated unconnected UDP socket opened at
// construction, the same arrangement a real bridge uses.
type Scheduler struct {
	target   bridge.Target
	identity IdentitySource
	conn     net.PacketConn

	mu      sync.Mutex
	pending map[uint64]*time.Timer
	nextID  uint64
	stopped bool
}

// NewScheduler creates a Scheduler sending replies on behalf of target.
func NewScheduler(target bridge.Target, identity IdentitySource) (*Scheduler, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("failed to open reply socket: %w", err)
	}
	return &Scheduler{
		target:   target,
		identity: identity,
		conn:     conn,
		pending:  make(map[uint64]*time.Timer),
	}, nil
}

// Request schedules a reply burst to addr after a random delay of at most
// maxDelay seconds. It triggers an identity refresh in the background and
// never blocks the caller.
func (s *Scheduler) Request(addr *net.UDPAddr, maxDelay uint16) {
	go s.identity.EnsureFresh()

	delay := jitter(maxDelay)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	id := s.nextID
	s.nextID++
	s.pending[id] = time.AfterFunc(delay, func() {
		s.respond(id, addr)
	})

	logging.Debug("Reply scheduled",
		zap.String("remote_addr", addr.String()),
		zap.Duration("delay", delay),
	)
}

// respond sends the three reply datagrams for one fired timer. The bridge
// identifier is read at fire time, not at schedule time, so a refresh that
// completed during the delay is reflected in the reply.
func (s *Scheduler) respond(id uint64, addr *net.UDPAddr) {
	s.mu.Lock()
	delete(s.pending, id)
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	bridgeID := s.identity.Identifier()
	for _, datagram := range buildReplies(s.target.Host, s.target.Service, bridgeID) {
		if _, err := s.conn.WriteTo(datagram, addr); err != nil {
			// Send faults don't crash the daemon; the querier will retry.
			logging.Warn("Failed to send reply datagram",
				zap.String("remote_addr", addr.String()),
				zap.Error(err),
			)
		}
	}
	logging.LogReplyBurst(addr.String(), bridgeID)
}

// PendingCount returns the number of scheduled, not yet fired reply bursts.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels all pending reply timers and closes the reply socket. Timers
// that already fired but have not sent yet are suppressed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()
	_ = s.conn.Close()
}

// jitter draws a uniform delay in [0, maxDelaySeconds) at millisecond
// granularity. A zero bound means the reply may go out immediately.
func jitter(maxDelaySeconds uint16) time.Duration {
	if maxDelaySeconds == 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(maxDelaySeconds)*1000)) * time.Millisecond
}
