package boggle

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"
)

// Handler receives every accepted connection.
type Handler interface {
	// Handle is called once per connection before its loops start.
	// It must not block; it should queue its first Send or Receive and return.
	Handle(ctx context.Context, conn *Conn)
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, conn *Conn)

// Handle calls f(ctx, conn).
func (f HandlerFunc) Handle(ctx context.Context, conn *Conn) {
	f(ctx, conn)
}

// Server accepts TCP connections, wraps each in a Conn and runs it.
type Server struct {
	listener        *net.TCPListener
	logger          Logger
	shutdownTimeout time.Duration
	connOpts        []Option

	conns sync.WaitGroup

	mu          sync.Mutex
	shutdown    bool
	shutdownNow chan struct{} // signals immediate shutdown, bypassing timeout
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// ServerLoggerOption sets the logger for the server.
func ServerLoggerOption(logger Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// ServerShutdownTimeoutOption sets how long the server keeps accepting after
// its context is canceled. Default is 0 (immediate shutdown).
func ServerShutdownTimeoutOption(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// ServerConnOptions sets the options applied to every accepted connection.
func ServerConnOptions(opts ...Option) ServerOption {
	return func(s *Server) {
		s.connOpts = append(s.connOpts, opts...)
	}
}

// New creates a new TCP server bound to the specified address.
func New(addr *net.TCPAddr, opts ...ServerOption) (*Server, error) {
	listener, err := net.ListenTCP(addr.Network(), addr)
	if err != nil {
		return nil, err
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

// Serve accepts connections until ctx is canceled or accepting fails.
// Each connection is passed to handler and then run with ctx, so canceling
// ctx also closes every live connection, and Serve waits for them to finish.
func (s *Server) Serve(ctx context.Context, handler Handler) error {
	s.logger.Info("server started", "addr", s.listener.Addr())

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
		// unblock Accept
		_ = s.listener.SetDeadline(time.Now())
	}()

	for {
		tcpConn, err := s.listener.AcceptTCP()
		if err != nil {
			s.mu.Lock()
			isShutdown := s.shutdown
			s.mu.Unlock()

			if isShutdown {
				s.logger.Info("server stopped", "addr", s.listener.Addr())
				if ctx.Err() != nil {
					s.conns.Wait()
					return ctx.Err()
				}
				return net.ErrClosed
			}

			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Error("accept error", "error", err)
			return err
		}

		s.logger.Debug("accepted connection", "remote_addr", tcpConn.RemoteAddr())
		_ = tcpConn.SetNoDelay(true)

		conn, err := NewConn(tcpConn, s.connOpts...)
		if err != nil {
			s.logger.Error("wrap connection", "remote_addr", tcpConn.RemoteAddr(), "error", err)
			_ = tcpConn.Close()
			continue
		}

		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			handler.Handle(ctx, conn)
			_ = conn.Run(ctx)
		}()
	}
}

// Close stops accepting immediately, bypassing any remaining shutdown timeout.
// Live connections are left to the context passed to Serve.
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
