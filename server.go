package twswire

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Handler serves the connections accepted by a Server.
type Handler interface {
	// Open is called once per accepted connection, before its read loop
	// starts. The returned callback receives every message decoded from
	// conn and is typically bound to per-session state. Returning nil
	// rejects the connection.
	Open(conn *Conn) func(Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(conn *Conn) func(Message) error

// Open calls f(conn).
func (f HandlerFunc) Open(conn *Conn) func(Message) error { return f(conn) }

// Server accepts gateway-side TCP connections, wraps each one in a Conn
// running the wire codec, and drives it until the peer leaves or the Serve
// context is canceled.
type Server struct {
	listener        *net.TCPListener
	logger          Logger
	shutdownTimeout time.Duration
	connOpts        []Option

	mu          sync.Mutex
	shutdown    bool
	shutdownNow chan struct{} // bypasses shutdownTimeout

	sessions sync.WaitGroup
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// ServerLoggerOption sets the logger for the server. Accepted connections
// inherit it unless ServerConnOptions sets another one.
func ServerLoggerOption(logger Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// ServerShutdownTimeoutOption delays closing the listener after the Serve
// context is canceled. Close skips the remaining delay.
func ServerShutdownTimeoutOption(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// ServerConnOptions sets the options applied to every accepted Conn.
// A WireCodec with the default size limit is used unless one of opts sets
// a codec. OnMessageOption is ignored; the Handler supplies the callback.
func ServerConnOptions(opts ...Option) ServerOption {
	return func(s *Server) {
		s.connOpts = append(s.connOpts, opts...)
	}
}

// New binds a server to addr.
func New(addr *net.TCPAddr, opts ...ServerOption) (*Server, error) {
	listener, err := net.ListenTCP(addr.Network(), addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen %s", addr)
	}

	s := &Server{
		listener:    listener,
		logger:      slog.Default(),
		shutdownNow: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Serve accepts connections until ctx is canceled or accepting fails. Each
// connection becomes a Conn whose callback comes from handler.Open, and runs
// in its own goroutine.
//
// After ctx is canceled, running Conns keep serving for the optional
// shutdown timeout. Serve then cancels them, waits for every one to return,
// and returns ctx.Err(). A non-timeout accept error is returned the same way.
func (s *Server) Serve(ctx context.Context, handler Handler) error {
	s.logger.Info("server started", "addr", s.listener.Addr())

	// sessions outlive ctx until the listener is closed
	sessionCtx, cancelSessions := context.WithCancel(context.WithoutCancel(ctx))
	defer func() {
		cancelSessions()
		s.sessions.Wait()
	}()

	go func() {
		<-ctx.Done()

		if s.shutdownTimeout > 0 {
			s.logger.Info("graceful shutdown initiated", "timeout", s.shutdownTimeout)
			select {
			case <-time.After(s.shutdownTimeout):
			case <-s.shutdownNow:
				s.logger.Debug("shutdown timeout bypassed via Close()")
			}
		}

		s.mu.Lock()
		s.shutdown = true
		s.mu.Unlock()
		// unblock AcceptTCP
		_ = s.listener.SetDeadline(time.Now())
	}()

	for {
		raw, err := s.listener.AcceptTCP()
		if err != nil {
			s.mu.Lock()
			isShutdown := s.shutdown
			s.mu.Unlock()

			if isShutdown {
				s.logger.Info("server stopped", "addr", s.listener.Addr())
				return ctx.Err()
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Error("accept error", "error", err)
			return err
		}

		s.logger.Debug("accepted connection", "remote_addr", raw.RemoteAddr())
		_ = raw.SetNoDelay(true)

		conn, err := s.open(raw, handler)
		if err != nil {
			s.logger.Warn("rejected connection", "remote_addr", raw.RemoteAddr(), "error", err)
			raw.Close()
			continue
		}

		s.sessions.Add(1)
		go func() {
			defer s.sessions.Done()
			_ = conn.Run(sessionCtx)
		}()
	}
}

// open wraps raw in a Conn and asks handler for its message callback.
// The callback is bound before Run starts, so the read loop never sees it
// unset.
func (s *Server) open(raw *net.TCPConn, handler Handler) (*Conn, error) {
	var onMessage func(Message) error

	opts := make([]Option, 0, len(s.connOpts)+3)
	opts = append(opts, CustomCodecOption(NewWireCodec(0)), LoggerOption(s.logger))
	opts = append(opts, s.connOpts...)
	opts = append(opts, OnMessageOption(func(msg Message) error { return onMessage(msg) }))

	conn, err := NewConn(raw, opts...)
	if err != nil {
		return nil, err
	}

	if onMessage = handler.Open(conn); onMessage == nil {
		return nil, ErrInvalidOnMessage
	}
	return conn, nil
}

// Close stops the server immediately, skipping any pending shutdown timeout.
// Running Conns are canceled once Serve returns.
func (s *Server) Close() error {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()

	select {
	case s.shutdownNow <- struct{}{}:
	default:
	}

	return s.listener.Close()
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
