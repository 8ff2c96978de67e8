package twswire

import (
	"time"
)

// ErrorAction tells a Conn what to do after a read or write error.
type ErrorAction int

const (
	// Disconnect closes the connection.
	Disconnect ErrorAction = iota
	// Continue suppresses the error and keeps processing.
	Continue
)

type options struct {
	codec  Codec
	logger Logger

	onMessage func(message Message) error
	onError   func(error) ErrorAction

	bufferSize    int           // size of the send queue
	maxReadLength int           // maximum payload size of a single frame
	idleTimeout   time.Duration // read/write deadlines are twice this value
}

// Option configures a Conn.
type Option func(*options)

// CustomCodecOption sets the message codec. Required; WireCodec is the
// codec for this protocol.
func CustomCodecOption(codec Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// BufferSizeOption sets the number of encoded frames that can wait in the send queue.
func BufferSizeOption(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// IdleTimeoutOption sets the idle timeout. Socket deadlines are set to twice
// this value before every read and write.
func IdleTimeoutOption(timeout time.Duration) Option {
	return func(o *options) {
		o.idleTimeout = timeout
	}
}

// MessageMaxSize sets the largest payload a Conn will read.
func MessageMaxSize(size int) Option {
	return func(o *options) {
		o.maxReadLength = size
	}
}

// OnErrorOption sets the callback invoked on read and write errors.
func OnErrorOption(cb func(error) ErrorAction) Option {
	return func(o *options) {
		o.onError = cb
	}
}

// OnMessageOption sets the callback invoked for every decoded message.
// Required. Mux.ServeMessage fits this signature.
func OnMessageOption(cb func(Message) error) Option {
	return func(o *options) {
		o.onMessage = cb
	}
}

// LoggerOption sets the logger. Defaults to slog.Default().
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
