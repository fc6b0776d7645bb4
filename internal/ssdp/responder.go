package ssdp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/akschmitt/hued/internal/bridge"
	"github.com/akschmitt/hued/internal/logging"
)

const (
	// DefaultPort is the well-known SSDP port.
	DefaultPort = 1900

	// maxDatagramSize bounds one inbound datagram. M-SEARCH requests are a
	// request line plus a handful of headers; 1KB is generous.
	maxDatagramSize = 1024
)

// Config holds the responder configuration.
type Config struct {
	// ListenAddress is the local address the multicast socket binds to,
	// usually "0.0.0.0".
	ListenAddress string
	// MulticastGroup is the group joined for discovery queries, usually
	// "239.255.255.250".
	MulticastGroup string
	// Port is the UDP port to bind. Use DefaultPort in production; tests
	// pass 0 for an ephemeral port.
	Port int
	// Bridge is the host:service of the real bridge.
	Bridge bridge.Target
	// RefreshInterval caps how often the bridge identity is fetched. Zero
	// selects bridge.DefaultRefreshInterval.
	RefreshInterval time.Duration
}

// Responder owns the multicast socket and wires the listener, scheduler and
// identity cache into one unit representing exactly one bridge.
type Responder struct {
	config    *Config
	cache     *bridge.Cache
	scheduler *Scheduler

	conn       net.PacketConn
	packetConn *ipv4.PacketConn
}

// New creates a Responder. The multicast socket is not bound until Start, so
// construction only fails if the reply socket cannot be opened.
func New(config *Config) (*Responder, error) {
	cache := bridge.NewCache(config.Bridge, config.RefreshInterval)
	scheduler, err := NewScheduler(config.Bridge, cache)
	if err != nil {
		return nil, err
	}
	return &Responder{
		config:    config,
		cache:     cache,
		scheduler: scheduler,
	}, nil
}

// Start binds the multicast socket, joins the group and serves discovery
// queries until a shutdown signal arrives or the socket fails. Bind and join
// failures are startup preconditions and returned as errors, not retried.
func (r *Responder) Start() error {
	if err := r.bind(); err != nil {
		r.scheduler.Stop()
		return err
	}

	logging.Info("Listening for SSDP queries",
		zap.String("listen", r.conn.LocalAddr().String()),
		zap.String("group", r.config.MulticastGroup),
		zap.String("bridge", r.config.Bridge.String()),
	)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- r.receiveLoop()
	}()

	select {
	case <-sigChan:
		logging.Info("Shutdown signal received, stopping responder...")
		return r.Shutdown()
	case err := <-errChan:
		r.scheduler.Stop()
		return err
	}
}

// bind opens the listening socket with address reuse enabled (other SSDP
// services may share port 1900 on the host) and joins the multicast group.
func (r *Responder) bind() error {
	group := net.ParseIP(r.config.MulticastGroup)
	if group == nil || !group.IsMulticast() {
		return fmt.Errorf("invalid multicast group %q", r.config.MulticastGroup)
	}

	lc := net.ListenConfig{Control: reuseAddr}
	addr := net.JoinHostPort(r.config.ListenAddress, strconv.Itoa(r.config.Port))
	conn, err := lc.ListenPacket(context.Background(), "udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	packetConn := ipv4.NewPacketConn(conn)
	if err := packetConn.JoinGroup(nil, &net.UDPAddr{IP: group}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to join multicast group %s: %w", group, err)
	}

	r.conn = conn
	r.packetConn = packetConn
	return nil
}

// receiveLoop reads datagrams until the socket is closed. Handling a
// datagram never blocks (scheduling arms a timer, the identity refresh runs
// in its own goroutine), so the loop is immediately back in ReadFrom and
// back-to-back datagrams are not dropped by the listener itself.
func (r *Responder) receiveLoop() error {
	buf := make([]byte, maxDatagramSize)
	for {
		n, src, err := r.conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("multicast receive failed: %w", err)
		}
		r.handleDatagram(buf[:n], src)
	}
}

// handleDatagram parses and filters one datagram. Anything malformed or
// addressed at a service type a Hue bridge doesn't advertise is silently
// discarded.
func (r *Responder) handleDatagram(data []byte, src net.Addr) {
	query, err := ParseQuery(data)
	if err != nil {
		logging.Debug("Discarding datagram",
			zap.String("remote_addr", src.String()),
			zap.Error(err),
		)
		return
	}

	addr, ok := src.(*net.UDPAddr)
	if !ok {
		return
	}

	logging.LogQuery(addr.String(), query.ServiceType, query.MaxDelay)
	r.scheduler.Request(addr, query.MaxDelay)
}

// Shutdown closes the listening socket and cancels all pending replies.
func (r *Responder) Shutdown() error {
	var err error
	if r.conn != nil {
		err = r.conn.Close()
	}
	r.scheduler.Stop()
	return err
}
