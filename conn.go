// Package twswire implements the framing and field codec of the trading
// gateway API: length-prefixed ASCII payloads made of NUL-terminated fields
// whose first field is a message kind code. It also provides a small TCP
// transport that carries those frames.
package twswire

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Errors returned by connection operations.
var (
	// ErrInvalidCodec is returned when no codec is provided.
	ErrInvalidCodec = errors.New("twswire: invalid codec callback")
	// ErrInvalidOnMessage is returned when no message handler is provided.
	ErrInvalidOnMessage = errors.New("twswire: invalid on message callback")
	// ErrMessageTooLarge is returned when a message exceeds the maximum allowed size.
	ErrMessageTooLarge = errors.New("twswire: message too large")
	// ErrConnectionClosed is returned when operating on a closed connection.
	ErrConnectionClosed = errors.New("twswire: connection closed")
	// ErrBufferFull is returned when the send queue cannot accept more frames.
	// Callers can drop the message, or retry with WriteBlocking or WriteTimeout.
	ErrBufferFull = errors.New("twswire: send buffer full")
)

// limitedReader caps the bytes one Decode call may consume. Once the cap is
// hit the codec has stopped inside a frame.
type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func newLimitedReader(r io.Reader, limit int64) *limitedReader {
	return &limitedReader{r: r, remaining: limit}
}

func (l *limitedReader) Read(p []byte) (n int, err error) {
	if l.remaining <= 0 {
		l.exceeded = true
		return 0, ErrMessageTooLarge
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err = l.r.Read(p)
	l.remaining -= int64(n)
	return
}

// reset only touches the limit; bufio.Reader keeps its own read position.
func (l *limitedReader) reset(limit int64) {
	l.remaining = limit
	l.exceeded = false
}

// Conn carries frames over one TCP connection. Reads and writes run in
// separate goroutines started by Run.
type Conn struct {
	rawConn       *net.TCPConn
	reader        *bufio.Reader
	limitedReader *limitedReader
	logger        Logger

	opts options

	sendMsg chan []byte
	closed  atomic.Bool
	cancel  context.CancelFunc
}

const (
	defaultBufferSize = 1
	// defaultMaxPackageLength bounds a single frame (1MB).
	defaultMaxPackageLength = 1024 * 1024
	defaultIdleTimeout      = 30 * time.Second
)

// NewConn wraps conn. A codec and an on-message callback are required.
func NewConn(conn *net.TCPConn, opt ...Option) (*Conn, error) {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	if err := checkOptions(&opts); err != nil {
		return nil, err
	}

	return newConnWithOptions(conn, opts), nil
}

// Dial connects to a gateway at addr and wraps the connection.
func Dial(ctx context.Context, addr string, opt ...Option) (*Conn, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", addr)
	}

	conn, err := NewConn(raw.(*net.TCPConn), opt...)
	if err != nil {
		raw.Close()
		return nil, err
	}
	return conn, nil
}

// checkOptions validates opts and fills in defaults.
func checkOptions(opts *options) error {
	if opts.bufferSize <= 0 {
		opts.bufferSize = defaultBufferSize
	}

	if opts.maxReadLength <= 0 {
		opts.maxReadLength = defaultMaxPackageLength
	}

	if opts.onMessage == nil {
		return ErrInvalidOnMessage
	}

	if opts.idleTimeout <= 0 {
		opts.idleTimeout = defaultIdleTimeout
	}

	if opts.codec == nil {
		return ErrInvalidCodec
	}

	if opts.onError == nil {
		opts.onError = func(err error) ErrorAction { return Disconnect }
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}

	return nil
}

func newConnWithOptions(c *net.TCPConn, opts options) *Conn {
	reader := bufio.NewReaderSize(c, opts.maxReadLength)
	return &Conn{
		rawConn:       c,
		reader:        reader,
		limitedReader: newLimitedReader(reader, int64(HeaderLen+opts.maxReadLength)),
		logger:        opts.logger,
		opts:          opts,
		sendMsg:       make(chan []byte, opts.bufferSize),
	}
}

// Run starts the read and write loops and blocks until one of them fails or
// ctx is canceled. Canceling ctx closes the socket right away. The connection
// is closed when Run returns.
func (c *Conn) Run(ctx context.Context) error {
	c.logger.Info("connection established", "addr", c.Addr())
	c.logger.Debug("connection options", "addr", c.Addr(),
		"buffer_size", c.opts.bufferSize,
		"max_read_length", c.opts.maxReadLength,
		"idle_timeout", c.opts.idleTimeout)

	ctx, c.cancel = context.WithCancel(ctx)
	group, child := errgroup.WithContext(ctx)

	// the read loop may be parked on the socket; closing it is the only
	// way to release it before the read deadline
	stop := context.AfterFunc(child, func() { _ = c.rawConn.Close() })
	defer stop()

	group.Go(func() error {
		return c.readLoop(child)
	})

	group.Go(func() error {
		return c.writeLoop(child)
	})

	err := group.Wait()
	c.closeConn()

	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Info("connection closed with error", "addr", c.Addr(), "error", err)
	} else {
		c.logger.Info("connection closed", "addr", c.Addr())
	}

	return err
}

// Close cancels Run and closes the socket. Safe to call multiple times.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	return c.rawConn.Close()
}

// IsClosed reports whether the connection has been closed.
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Write frames message with the configured codec and queues it without
// blocking (fire-and-forget).
//
// Returns:
//   - nil: the frame was queued (not yet sent)
//   - ErrBufferFull: the send queue is full, the message was NOT queued
//   - ErrConnectionClosed: the connection is closed
//   - encoding error: e.g. ErrNonASCIIPayload from WireCodec
//
// Use this method when:
//   - Dropping a message under backpressure is acceptable, as for market
//     data cancels sent during teardown
//   - You have your own retry logic
//   - The caller must never block, as inside an on-message callback
//
// For requests that must reach the gateway, use WriteBlocking, WriteTimeout
// or Send.
func (c *Conn) Write(message Message) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	frame, err := c.opts.codec.Encode(message)
	if err != nil {
		return err
	}

	select {
	case c.sendMsg <- frame:
		return nil
	default:
		return ErrBufferFull
	}
}

// WriteBlocking frames message and queues it, blocking until there is room
// in the send queue or ctx is done.
//
// Returns:
//   - nil: the frame was queued
//   - context.Canceled or context.DeadlineExceeded: ctx ended first
//   - ErrConnectionClosed: the connection is closed
//   - encoding error: e.g. ErrNonASCIIPayload from WireCodec
//
// Use this method when:
//   - The request must not be lost, as for PlaceOrder or CancelOrder
//   - The caller already carries a context with a deadline
//   - Blocking the calling goroutine is acceptable
func (c *Conn) WriteBlocking(ctx context.Context, message Message) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	frame, err := c.opts.codec.Encode(message)
	if err != nil {
		return err
	}

	select {
	case c.sendMsg <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteTimeout frames message and queues it, waiting at most timeout for
// room in the send queue. It sits between Write and WriteBlocking.
//
// Returns:
//   - nil: the frame was queued
//   - ErrBufferFull: timeout expired before the frame could be queued
//   - ErrConnectionClosed: the connection is closed
//   - encoding error: e.g. ErrNonASCIIPayload from WireCodec
//
// Use this method when:
//   - You want to wait for queue space but only for a bounded time
//   - There is no context at hand, as in a gateway replying to a request
func (c *Conn) WriteTimeout(message Message, timeout time.Duration) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	frame, err := c.opts.codec.Encode(message)
	if err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case c.sendMsg <- frame:
		return nil
	case <-timer.C:
		return ErrBufferFull
	}
}

// Send builds a request whose first field is the code of kind, followed by
// fields, and queues it with WriteBlocking.
//
// Returns ErrInvalidField, wrapped with the kind and field index, when a
// field cannot be encoded; nothing is queued in that case. Otherwise it
// returns what WriteBlocking returns.
func (c *Conn) Send(ctx context.Context, kind OutgoingKind, fields ...Field) error {
	req, err := NewRequest(kind, fields...)
	if err != nil {
		return err
	}
	return c.WriteBlocking(ctx, req)
}

// Addr returns the remote address of the connection.
func (c *Conn) Addr() net.Addr {
	return c.rawConn.RemoteAddr()
}

// readLoop decodes frames and hands them to the on-message callback until
// ctx is canceled or an error is not suppressed by the on-error callback.
// Errors that leave the stream off a frame boundary always disconnect.
func (c *Conn) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			_ = c.rawConn.SetReadDeadline(time.Now().Add(c.opts.idleTimeout * 2))

			c.limitedReader.reset(int64(HeaderLen + c.opts.maxReadLength))

			message, err := c.opts.codec.Decode(c.limitedReader)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Debug("read error", "addr", c.Addr(), "error", err)
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					return err
				}
				if c.outOfSync(err) {
					c.logger.Warn("stream out of sync, disconnecting", "addr", c.Addr(), "error", err)
					return err
				}
				if c.opts.onError(err) == Disconnect {
					return err
				}
				continue
			}

			if err = c.opts.onMessage(message); err != nil {
				return err
			}
		}
	}
}

// outOfSync reports whether err left the read side somewhere other than the
// start of the next frame.
func (c *Conn) outOfSync(err error) bool {
	return c.limitedReader.exceeded || errors.Is(err, ErrTruncatedFrame)
}

// writeLoop flushes queued frames to the socket.
func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data := <-c.sendMsg:
			if err := c.write(data); err != nil {
				return err
			}
		}
	}
}

// write sends one frame with a deadline. Errors the on-error callback
// suppresses are dropped.
func (c *Conn) write(data []byte) error {
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(c.opts.idleTimeout * 2))

	_, err := c.rawConn.Write(data)

	if err != nil {
		c.logger.Debug("write error", "addr", c.Addr(), "error", err)
		if c.opts.onError(err) == Disconnect {
			return err
		}
	}

	return nil
}

func (c *Conn) closeConn() {
	c.closed.Store(true)
	c.rawConn.Close()
}
