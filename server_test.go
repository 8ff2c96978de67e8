package twswire

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"
)

// mockHandler records opened connections and the messages they deliver.
type mockHandler struct {
	mu       sync.Mutex
	conns    []*Conn
	openCh   chan *Conn
	messages chan Message
	reject   bool
}

func newMockHandler() *mockHandler {
	return &mockHandler{
		openCh:   make(chan *Conn, 10),
		messages: make(chan Message, 10),
	}
}

func (h *mockHandler) Open(conn *Conn) func(Message) error {
	h.mu.Lock()
	h.conns = append(h.conns, conn)
	h.mu.Unlock()

	select {
	case h.openCh <- conn:
	default:
	}

	if h.reject {
		return nil
	}
	return func(msg Message) error {
		h.messages <- msg
		return nil
	}
}

func newTestServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()
	server, err := New(&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0},
		append([]ServerOption{ServerLoggerOption(discardLogger())}, opts...)...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return server
}

func waitServe(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Serve to return")
		return nil
	}
}

func TestNew_AddressInUse(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	if _, err := New(server.Addr().(*net.TCPAddr)); err == nil {
		t.Error("expected error for occupied port")
	}
}

func TestServer_Close(t *testing.T) {
	server := newTestServer(t)
	if err := server.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := server.listener.AcceptTCP(); err == nil {
		t.Error("expected error after close")
	}
}

func TestServer_Serve(t *testing.T) {
	server := newTestServer(t)
	handler := newMockHandler()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, handler)
	}()

	clientConn, err := net.DialTCP("tcp", nil, server.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("client dial failed: %v", err)
	}
	defer clientConn.Close()

	var conn *Conn
	select {
	case conn = <-handler.openCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Open")
	}
	if _, ok := conn.opts.codec.(*WireCodec); !ok {
		t.Errorf("codec = %T, want *WireCodec", conn.opts.codec)
	}

	frame, _ := EncodeFrame([]byte("49\x001\x00"))
	if _, err := clientConn.Write(frame); err != nil {
		t.Fatalf("client write failed: %v", err)
	}
	select {
	case msg := <-handler.messages:
		if string(msg.Body()) != "49\x001\x00" {
			t.Errorf("Body = %q", msg.Body())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// Serve cancels and waits for the open session
	cancel()
	if err := waitServe(t, done); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if !conn.IsClosed() {
		t.Error("session still open after Serve returned")
	}
}

func TestServer_ConnOptions(t *testing.T) {
	server := newTestServer(t, ServerConnOptions(
		CustomCodecOption(NewWireCodec(8)),
		BufferSizeOption(4),
	))
	handler := newMockHandler()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, handler)
	}()

	clientConn, err := net.DialTCP("tcp", nil, server.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("client dial failed: %v", err)
	}
	defer clientConn.Close()

	select {
	case conn := <-handler.openCh:
		codec, ok := conn.opts.codec.(*WireCodec)
		if !ok || codec.maxPayload != 8 {
			t.Errorf("codec = %#v, want WireCodec limited to 8", conn.opts.codec)
		}
		if cap(conn.sendMsg) != 4 {
			t.Errorf("send queue = %d, want 4", cap(conn.sendMsg))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Open")
	}

	cancel()
	waitServe(t, done)
}

func TestServer_OpenRejects(t *testing.T) {
	server := newTestServer(t)
	handler := newMockHandler()
	handler.reject = true
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, handler)
	}()

	clientConn, err := net.DialTCP("tcp", nil, server.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("client dial failed: %v", err)
	}
	defer clientConn.Close()

	// the server closes a rejected connection without reading from it
	_ = clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, err := clientConn.Read(make([]byte, 1)); err == nil {
		t.Error("expected the rejected connection to be closed")
	}

	cancel()
	waitServe(t, done)
}

func TestServer_SessionsDrainDuringShutdownTimeout(t *testing.T) {
	server := newTestServer(t, ServerShutdownTimeoutOption(300*time.Millisecond))
	handler := newMockHandler()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, handler)
	}()

	clientConn, err := net.DialTCP("tcp", nil, server.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("client dial failed: %v", err)
	}
	defer clientConn.Close()

	select {
	case <-handler.openCh:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Open")
	}

	cancel()

	frame, _ := EncodeFrame([]byte("49\x001\x00"))
	if _, err := clientConn.Write(frame); err != nil {
		t.Fatalf("client write failed: %v", err)
	}
	select {
	case <-handler.messages:
	case <-time.After(5 * time.Second):
		t.Fatal("session stopped serving before the shutdown timeout")
	}

	if err := waitServe(t, done); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestServer_ShutdownTimeoutBypassedByClose(t *testing.T) {
	server := newTestServer(t, ServerShutdownTimeoutOption(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Serve(ctx, newMockHandler())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
	server.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not bypass the shutdown timeout")
	}
}

// TestServer_GatewayRoundTrip runs a gateway that answers ReqCurrentTime and
// a client that reads the reply through a Mux.
func TestServer_GatewayRoundTrip(t *testing.T) {
	server := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gateway := HandlerFunc(func(conn *Conn) func(Message) error {
		return func(msg Message) error {
			code, _ := msg.(*Inbound).Code()
			if kind, ok := OutgoingKindOf(code); !ok || kind != ReqCurrentTime {
				return nil
			}
			reply := NewFrameBuffer(16)
			for _, f := range []Field{Int(CurrentTime.Code()), Int(1), Long(1700000000)} {
				if err := reply.AppendField(f); err != nil {
					return err
				}
			}
			return conn.Write(RawMessage(reply.Take()))
		}
	})
	go server.Serve(ctx, gateway)

	got := make(chan []string, 1)
	mux := NewMux(discardLogger())
	mux.Handle(CurrentTime, func(kind IncomingKind, msg *Inbound) error {
		got <- msg.Fields()
		return nil
	})

	client, err := Dial(ctx, server.Addr().String(),
		CustomCodecOption(NewWireCodec(0)),
		OnMessageOption(mux.ServeMessage),
		LoggerOption(discardLogger()),
	)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	go client.Run(ctx)

	if err := client.Send(ctx, ReqCurrentTime, Int(1)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case fields := <-got:
		if len(fields) != 2 || fields[1] != "1700000000" {
			t.Errorf("fields = %q", fields)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for CurrentTime")
	}

	client.Close()
	server.Close()
}
