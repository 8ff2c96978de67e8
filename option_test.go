package twswire

import (
	"errors"
	"testing"
	"time"
)

func TestOptions(t *testing.T) {
	codec := NewWireCodec(0)
	logger := &mockLogger{}
	var gotErr error
	var gotMsg Message

	var opts options
	for _, o := range []Option{
		CustomCodecOption(codec),
		OnMessageOption(func(msg Message) error { gotMsg = msg; return nil }),
		OnErrorOption(func(err error) ErrorAction { gotErr = err; return Continue }),
		IdleTimeoutOption(45 * time.Second),
		BufferSizeOption(50),
		MessageMaxSize(8192),
		LoggerOption(logger),
	} {
		o(&opts)
	}

	if opts.codec != codec {
		t.Error("codec not set")
	}
	if opts.logger != logger {
		t.Error("logger not set")
	}
	if opts.idleTimeout != 45*time.Second {
		t.Errorf("idleTimeout = %v, want 45s", opts.idleTimeout)
	}
	if opts.bufferSize != 50 {
		t.Errorf("bufferSize = %d, want 50", opts.bufferSize)
	}
	if opts.maxReadLength != 8192 {
		t.Errorf("maxReadLength = %d, want 8192", opts.maxReadLength)
	}

	sentinel := errors.New("boom")
	if opts.onError(sentinel) != Continue || gotErr != sentinel {
		t.Error("onError callback not wired")
	}
	msg := RawMessage("1\x00")
	if err := opts.onMessage(msg); err != nil || gotMsg == nil {
		t.Error("onMessage callback not wired")
	}
}

func TestOnMessageOption_Mux(t *testing.T) {
	mux := NewMux(&mockLogger{})
	var opts options
	OnMessageOption(mux.ServeMessage)(&opts)

	if err := opts.onMessage(RawMessage("9\x001\x005\x00")); err != nil {
		t.Errorf("onMessage failed: %v", err)
	}
}

func TestErrorAction(t *testing.T) {
	if Disconnect != 0 {
		t.Errorf("Disconnect = %d, want 0", Disconnect)
	}
	if Continue != 1 {
		t.Errorf("Continue = %d, want 1", Continue)
	}
}
