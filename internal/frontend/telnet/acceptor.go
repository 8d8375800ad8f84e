package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/colonybot/internal/config"
)

// busyMessage is written to callers turned away at the connection cap.
const busyMessage = "All colony terminals are busy. Try again later."

const maxAcceptBackoff = time.Second

// SessionHandler runs the line loop for one caller.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor serves Telnet callers. Each connection is negotiated and handed
// to the SessionHandler on its own goroutine. It implements server.Service.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	listener net.Listener
	conns    map[*Conn]struct{}
	stopped  bool
}

// NewAcceptor creates an Acceptor for cfg.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[*Conn]struct{}),
	}
}

// Start listens on the configured address and serves until Stop.
func (a *Acceptor) Start() error {
	l, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("telnet: listening on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(l)
}

// Serve accepts callers on l until Stop. A failed Accept is retried with a
// growing pause, so a full file table does not spin the loop.
//
// Postcondition: l is closed when Serve returns.
func (a *Acceptor) Serve(l net.Listener) error {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return l.Close()
	}
	a.listener = l
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", l.Addr().String()),
		zap.Int("max_conns", a.cfg.MaxConns),
	)

	var backoff time.Duration
	for {
		raw, err := l.Accept()
		if err != nil {
			if a.ctx.Err() != nil {
				return nil
			}
			backoff = min(max(2*backoff, 5*time.Millisecond), maxAcceptBackoff)
			a.logger.Warn("accepting connection", zap.Error(err), zap.Duration("retry_in", backoff))
			select {
			case <-a.ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			continue
		}
		backoff = 0

		conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
		if !a.track(conn) {
			a.turnAway(conn)
			continue
		}
		go a.serveConn(conn)
	}
}

// track registers conn unless the acceptor is stopping or full.
func (a *Acceptor) track(conn *Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped || (a.cfg.MaxConns > 0 && len(a.conns) >= a.cfg.MaxConns) {
		return false
	}
	a.conns[conn] = struct{}{}
	a.wg.Add(1)
	return true
}

func (a *Acceptor) untrack(conn *Conn) {
	a.mu.Lock()
	delete(a.conns, conn)
	a.mu.Unlock()
	_ = conn.Close()
}

func (a *Acceptor) turnAway(conn *Conn) {
	defer conn.Close()
	if a.ctx.Err() != nil {
		return
	}
	a.logger.Warn("telnet caller turned away",
		zap.String("remote_addr", conn.RemoteAddr().String()),
		zap.Int("max_conns", a.cfg.MaxConns),
	)
	_ = conn.WriteLine(Colorize(Warning, busyMessage))
}

func (a *Acceptor) serveConn(conn *Conn) {
	defer a.wg.Done()
	defer a.untrack(conn)

	start := time.Now()
	log := a.logger.With(zap.String("remote_addr", conn.RemoteAddr().String()))
	log.Info("client connected", zap.Int("active", a.Active()))

	if err := conn.Negotiate(); err != nil {
		log.Warn("telnet negotiation failed", zap.Error(err))
		return
	}

	err := a.handler.HandleSession(a.ctx, conn)
	switch {
	case err == nil:
		log.Info("session ended cleanly", zap.Duration("duration", time.Since(start)))
	case a.ctx.Err() != nil:
		log.Info("session closed for shutdown", zap.Duration("duration", time.Since(start)))
	default:
		log.Debug("session ended", zap.Error(err), zap.Duration("duration", time.Since(start)))
	}
}

// Stop closes the listener, hangs up on every caller, and waits for their
// sessions to return. It is safe to call more than once.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	a.cancel()
	if a.listener != nil {
		_ = a.listener.Close()
	}
	for c := range a.conns {
		_ = c.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped")
}

// Addr returns the listening address, or "" before Serve starts.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Active returns the number of connected callers.
func (a *Acceptor) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}
