package twswire

import (
	"sync"

	"github.com/pkg/errors"
)

// MessageHandler handles one incoming message of a known kind.
type MessageHandler func(kind IncomingKind, msg *Inbound) error

// Mux routes incoming messages to handlers by kind. Messages with unknown
// codes or without a registered handler are logged and skipped.
type Mux struct {
	logger Logger

	mu       sync.RWMutex
	handlers map[IncomingKind]MessageHandler
}

// NewMux returns an empty router. A nil logger uses the default slog logger.
func NewMux(logger Logger) *Mux {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Mux{logger: logger, handlers: make(map[IncomingKind]MessageHandler)}
}

// Handle registers h for kind, replacing any previous handler.
func (m *Mux) Handle(kind IncomingKind, h MessageHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[kind] = h
}

// ServeMessage dispatches msg. It has the signature expected by OnMessageOption.
func (m *Mux) ServeMessage(msg Message) error {
	in, ok := msg.(*Inbound)
	if !ok {
		var err error
		if in, err = ParseInbound(msg.Body()); err != nil {
			return err
		}
	}

	code, ok := in.Code()
	if !ok {
		return errors.Wrapf(ErrMalformedFrame, "message code %q is not a number", in.fields[0])
	}
	kind, ok := IncomingKindOf(code)
	if !ok {
		m.logger.Warn("skipping unknown message code", "code", code, "fields", len(in.Fields()))
		return nil
	}

	m.mu.RLock()
	h := m.handlers[kind]
	m.mu.RUnlock()
	if h == nil {
		m.logger.Debug("no handler for message", "kind", kind.String(), "code", code)
		return nil
	}
	return h(kind, in)
}
