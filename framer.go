package twswire

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// HeaderLen is the size of the big-endian length prefix in front of every payload.
const HeaderLen = 4

const maxASCII = 0x7f

// DecodeResult is the outcome of DecodeFrame. When Complete is false the
// buffer did not yet hold a whole frame and nothing was consumed.
type DecodeResult struct {
	Complete bool
	// Length is the declared payload length. Zero unless Complete.
	Length int
	// Payload and Remainder alias the decoded buffer.
	Payload   []byte
	Remainder []byte
}

// Consumed returns the number of bytes of the input taken by the frame.
func (r DecodeResult) Consumed() int {
	if !r.Complete {
		return 0
	}
	return HeaderLen + r.Length
}

// EncodeFrame returns payload prefixed with its length. The payload must be
// 7-bit ASCII.
func EncodeFrame(payload []byte) ([]byte, error) {
	for i, c := range payload {
		if c > maxASCII {
			return nil, errors.Wrapf(ErrNonASCIIPayload, "byte 0x%02x at offset %d", c, i)
		}
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, errors.Wrapf(ErrFrameTooLarge, "payload of %d bytes", len(payload))
	}

	frame := make([]byte, HeaderLen+len(payload))
	binary.BigEndian.PutUint32(frame, uint32(len(payload)))
	copy(frame[HeaderLen:], payload)
	return frame, nil
}

// DecodeFrame reads one frame from the front of buf. It does not look at
// payload content. Bytes after the frame are returned as Remainder so that
// pipelined frames can be decoded by calling DecodeFrame again.
func DecodeFrame(buf []byte) DecodeResult {
	if len(buf) < HeaderLen {
		return DecodeResult{}
	}
	n := uint64(binary.BigEndian.Uint32(buf))
	if uint64(len(buf)-HeaderLen) < n {
		return DecodeResult{}
	}

	end := HeaderLen + int(n)
	return DecodeResult{
		Complete:  true,
		Length:    int(n),
		Payload:   buf[HeaderLen:end:end],
		Remainder: buf[end:],
	}
}

// ScanFrames is a bufio.SplitFunc yielding frame payloads from a byte stream.
func ScanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	res := DecodeFrame(data)
	if res.Complete {
		return res.Consumed(), res.Payload, nil
	}
	if atEOF && len(data) > 0 {
		return 0, nil, errors.Wrapf(ErrTruncatedFrame, "%d trailing bytes", len(data))
	}
	return 0, nil, nil
}
