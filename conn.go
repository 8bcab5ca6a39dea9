// Package boggle provides the network layer of a two-player word game server.
// It turns raw TCP byte streams into ordered, newline-delimited message exchange
// with non-blocking sends and receives that report completion through callbacks,
// and it accepts connections and hands them to a Handler.
package boggle

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Errors returned by connection operations.
var (
	// ErrNilConn is returned when NewConn is given no underlying connection.
	ErrNilConn = errors.New("nil connection")
	// ErrLineTooLong is reported to pending receives when a line exceeds the maximum allowed size.
	ErrLineTooLong = errors.New("line too long")
	// ErrAlreadyRunning is returned when Run is called more than once.
	ErrAlreadyRunning = errors.New("connection already running")
)

// ErrConnectionClosed is reported to sends issued on, or discarded by, a closed connection.
var ErrConnectionClosed = errors.New("connection closed")

// Conn is a line transport over a byte-stream connection.
//
// Send and Receive never block. Sends are written in call order without
// interleaving, and receives are matched to inbound lines in call order. Every
// callback runs on its own goroutine, never on the read or write loop.
type Conn struct {
	rawConn net.Conn
	reader  *bufio.Reader
	logger  Logger

	opts options

	sends    *requestQueue[sendRequest]
	receives *requestQueue[receiveRequest]

	closed  atomic.Bool
	running atomic.Bool
	closing chan struct{}
}

// Default configuration values.
const (
	// defaultMaxLineLength is the default maximum size of a single inbound line (64KB).
	defaultMaxLineLength = 64 * 1024
	// defaultFlushTimeout is how long Close keeps writing queued sends by default.
	defaultFlushTimeout = time.Second
)

// NewConn creates a new line transport around the given connection.
// The transport owns conn from now on. Call Run to start its loops.
func NewConn(conn net.Conn, opt ...Option) (*Conn, error) {
	if conn == nil {
		return nil, ErrNilConn
	}

	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	return newConnWithOptions(conn, opts), nil
}

// checkOptions sets default values for connection options.
func checkOptions(opts *options) {
	if opts.maxLineLength <= 0 {
		opts.maxLineLength = defaultMaxLineLength
	}

	if opts.flushTimeout <= 0 {
		opts.flushTimeout = defaultFlushTimeout
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}
}

func newConnWithOptions(c net.Conn, opts options) *Conn {
	return &Conn{
		rawConn:  c,
		reader:   bufio.NewReaderSize(c, opts.maxLineLength),
		logger:   opts.logger,
		opts:     opts,
		sends:    newRequestQueue[sendRequest](),
		receives: newRequestQueue[receiveRequest](),
		closing:  make(chan struct{}),
	}
}

// Run starts the connection's read and write loops and blocks until both have
// stopped. Canceling ctx closes the connection. The underlying connection is
// always closed when Run returns.
func (c *Conn) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	if c.closed.Load() {
		c.closeConn()
		return ErrConnectionClosed
	}

	c.logger.Info("connection established", "addr", c.Addr())
	c.logger.Debug("connection options", "addr", c.Addr(),
		"max_line_length", c.opts.maxLineLength,
		"flush_timeout", c.opts.flushTimeout)

	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()

	group, child := errgroup.WithContext(ctx)

	// Unblocks a read stuck in the kernel once either loop fails or both finish.
	stopRaw := context.AfterFunc(child, func() { _ = c.rawConn.Close() })
	defer stopRaw()

	group.Go(func() error {
		return c.readLoop(child)
	})

	group.Go(func() error {
		return c.writeLoop(child)
	})

	err := group.Wait()
	c.closeConn()

	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Info("connection closed with error", "addr", c.Addr(), "error", err)
	} else {
		c.logger.Info("connection closed", "addr", c.Addr())
	}

	return err
}

// Send queues text for transmission and returns immediately. The text is sent
// as is; callers add the newline. onSent may be nil.
func (c *Conn) Send(text string, onSent SendCallback, payload any) {
	req := sendRequest{data: []byte(text), onSent: onSent, payload: payload}
	if err := c.sends.push(req); err != nil {
		c.dispatch(func() { req.complete(err) })
	}
}

// Receive queues a request for the next line not already promised to an
// earlier request and returns immediately. onLine may be nil.
func (c *Conn) Receive(onLine ReceiveCallback, payload any) {
	req := receiveRequest{onLine: onLine, payload: payload}
	if err := c.receives.push(req); err != nil {
		c.dispatch(func() { req.complete("", err) })
	}
}

// Close stops accepting sends and receives, settles pending receives with
// io.EOF, and lets the write loop flush what is already queued for at most the
// flush timeout before the connection is half-closed and closed.
//
// The flush needs a running write loop. If Close wins against Run, or Run is
// never called, the connection is closed at once and every queued send is
// settled with ErrConnectionClosed without being written.
// Safe to call multiple times.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil // already closed
	}

	c.sends.seal(ErrConnectionClosed)
	c.failReceives(io.EOF)
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(c.opts.flushTimeout))
	close(c.closing)

	if !c.running.Load() {
		c.closeConn()
	}
	return nil
}

// IsClosed returns true if the connection has been closed.
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Addr returns the remote address of the connection.
func (c *Conn) Addr() net.Addr {
	return c.rawConn.RemoteAddr()
}

// readLoop reads lines only while receive requests are pending and hands each
// line to the oldest one.
func (c *Conn) readLoop(ctx context.Context) error {
	for {
		if c.receives.len() == 0 {
			select {
			case <-ctx.Done():
				c.failReceives(ErrConnectionClosed)
				return ctx.Err()
			case <-c.closing:
				return nil
			case <-c.receives.ready:
				continue
			}
		}

		line, err := c.readLine()
		if err != nil {
			if c.closed.Load() || errors.Is(err, io.EOF) {
				c.logger.Debug("end of stream", "addr", c.Addr())
				c.failReceives(io.EOF)
				// Flush whatever is still queued, then finish.
				_ = c.Close()
				return nil
			}

			c.logger.Debug("read error", "addr", c.Addr(), "error", err)
			c.failReceives(err)
			return err
		}

		req, ok := c.receives.pop()
		if !ok {
			// Close drained the queue while the line was being read.
			return nil
		}
		c.dispatch(func() { req.complete(line, nil) })
	}
}

// readLine returns the next line without its terminator.
// A partial line followed by end of stream is dropped.
func (c *Conn) readLine() (string, error) {
	data, err := c.reader.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return "", ErrLineTooLong
		}
		return "", err
	}

	line := string(data[:len(data)-1])
	return strings.TrimSuffix(line, "\r"), nil
}

// writeLoop writes queued sends one at a time. After Close it drains the queue
// and half-closes the connection.
func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		req, ok := c.sends.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-c.sends.ready:
				continue
			case <-c.closing:
				if c.sends.len() > 0 {
					continue
				}
				c.shutdown()
				return nil
			}
		}

		err := c.write(req.data)
		c.dispatch(func() { req.complete(err) })
		if err != nil {
			c.logger.Debug("write error", "addr", c.Addr(), "error", err)
			return err
		}
	}
}

// write sends data in full, retrying the unwritten suffix after short writes.
func (c *Conn) write(data []byte) error {
	for len(data) > 0 {
		n, err := c.rawConn.Write(data)
		data = data[n:]
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	return nil
}

// shutdown half-closes the write side when supported and closes the connection.
func (c *Conn) shutdown() {
	if cw, ok := c.rawConn.(interface{ CloseWrite() error }); ok {
		_ = cw.CloseWrite()
	}
	_ = c.rawConn.Close()
}

// closeConn marks the connection as closed, closes the underlying connection
// and settles every request still queued.
func (c *Conn) closeConn() {
	c.closed.Store(true)
	_ = c.rawConn.Close()

	for _, req := range c.sends.drain(ErrConnectionClosed) {
		c.dispatch(func() { req.complete(ErrConnectionClosed) })
	}
	c.failReceives(io.EOF)
}

func (c *Conn) failReceives(err error) {
	for _, req := range c.receives.drain(err) {
		c.dispatch(func() { req.complete("", err) })
	}
}

// dispatch runs a user callback off the I/O loops so slow callbacks cannot
// stall further reads or writes.
func (c *Conn) dispatch(fn func()) {
	go fn()
}
