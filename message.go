package twswire

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Message is the interface for messages transmitted over the connection.
// Body is the payload without its length prefix.
type Message interface {
	// Length returns the length of the message body.
	Length() int
	// Body returns the raw payload bytes.
	Body() []byte
}

// Codec is the interface for message encoding and decoding.
//
// Decode reads from an io.Reader so the codec controls exactly how many bytes
// are consumed per message, which handles TCP stream reassembly.
type Codec interface {
	// Decode reads and decodes a complete message from the reader.
	Decode(r io.Reader) (Message, error)
	// Encode encodes a Message into raw bytes for transmission.
	Encode(Message) ([]byte, error)
}

// RawMessage is a Message over an already built payload.
type RawMessage []byte

// Length returns the payload length.
func (m RawMessage) Length() int { return len(m) }

// Body returns the payload.
func (m RawMessage) Body() []byte { return m }

// Request is an outgoing message. Its first field is the kind code.
type Request struct {
	kind OutgoingKind
	buf  *FrameBuffer
}

// NewRequest starts a request of the given kind followed by fields.
func NewRequest(kind OutgoingKind, fields ...Field) (*Request, error) {
	r := &Request{kind: kind, buf: NewFrameBuffer(64)}
	if err := r.buf.AppendField(Int(kind.Code())); err != nil {
		return nil, err
	}
	if err := r.Add(fields...); err != nil {
		return nil, err
	}
	return r, nil
}

// Add appends fields to the request. Fields added before a failing one are kept.
func (r *Request) Add(fields ...Field) error {
	for i, f := range fields {
		if err := r.buf.AppendField(f); err != nil {
			return errors.Wrapf(err, "%s field %d", r.kind, i)
		}
	}
	return nil
}

// Kind returns the request kind.
func (r *Request) Kind() OutgoingKind { return r.kind }

// Length returns the payload length.
func (r *Request) Length() int { return r.buf.Len() }

// Body returns the payload.
func (r *Request) Body() []byte { return r.buf.Bytes() }

// Inbound is a decoded incoming payload split into fields.
type Inbound struct {
	payload []byte
	fields  []string
}

// ParseInbound tokenizes payload. The payload must hold at least the kind
// code field.
func ParseInbound(payload []byte) (*Inbound, error) {
	fields, err := ParseFields(payload)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.Wrap(ErrMalformedFrame, "payload has no message code")
	}
	return &Inbound{payload: payload, fields: fields}, nil
}

// Code parses the leading kind code. It reports false when the first field
// is not a decimal integer.
func (m *Inbound) Code() (int32, bool) {
	code, err := strconv.ParseInt(m.fields[0], 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(code), true
}

// Kind returns the incoming kind of the message, or false if the code is
// missing or unknown.
func (m *Inbound) Kind() (IncomingKind, bool) {
	code, ok := m.Code()
	if !ok {
		return 0, false
	}
	return IncomingKindOf(code)
}

// Fields returns the positional fields following the kind code.
func (m *Inbound) Fields() []string { return m.fields[1:] }

// Length returns the payload length.
func (m *Inbound) Length() int { return len(m.payload) }

// Body returns the payload.
func (m *Inbound) Body() []byte { return m.payload }
