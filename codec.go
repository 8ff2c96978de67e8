package twswire

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// WireCodec implements Codec for length-prefixed, NUL-delimited payloads.
type WireCodec struct {
	maxPayload int
}

// NewWireCodec returns a codec rejecting incoming payloads larger than
// maxPayload bytes. A non-positive maxPayload uses defaultMaxPackageLength.
func NewWireCodec(maxPayload int) *WireCodec {
	if maxPayload <= 0 {
		maxPayload = defaultMaxPackageLength
	}
	return &WireCodec{maxPayload: maxPayload}
}

// Encode frames the message body. Bodies must be ASCII.
func (c *WireCodec) Encode(msg Message) ([]byte, error) {
	return EncodeFrame(msg.Body())
}

// Decode reads exactly one frame from r and returns it as an *Inbound.
//
// A frame whose declared length exceeds the codec limit is read and thrown
// away before ErrMessageTooLarge is returned, so the next Decode starts at a
// frame boundary. Any ErrTruncatedFrame leaves r inside a frame.
func (c *WireCodec) Decode(r io.Reader) (Message, error) {
	var header [HeaderLen]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrap(ErrTruncatedFrame, "short length prefix")
		}
		return nil, err
	}

	n := binary.BigEndian.Uint32(header[:])
	if uint64(n) > uint64(c.maxPayload) {
		if _, err := io.CopyN(io.Discard, r, int64(n)); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.Wrapf(ErrTruncatedFrame, "oversized payload of %d bytes", n)
			}
			return nil, errors.Wrapf(err, "discard oversized payload of %d bytes", n)
		}
		return nil, errors.Wrapf(ErrMessageTooLarge, "declared %d bytes, limit %d", n, c.maxPayload)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrapf(ErrTruncatedFrame, "payload of %d bytes", n)
		}
		return nil, err
	}

	return ParseInbound(payload)
}
