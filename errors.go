package twswire

import "github.com/pkg/errors"

// Codec errors. Callers should match them with errors.Is since most are
// returned wrapped with additional context.
var (
	// ErrNonASCIIPayload is returned by EncodeFrame when the payload holds a byte >= 0x80.
	ErrNonASCIIPayload = errors.New("twswire: non-ascii payload")
	// ErrMalformedFrame is returned when a decoded payload is structurally invalid.
	ErrMalformedFrame = errors.New("twswire: malformed frame")
	// ErrInvalidField is returned when a field cannot be formatted.
	ErrInvalidField = errors.New("twswire: invalid field")
	// ErrFrameTooLarge is returned when a payload does not fit the 4-byte length prefix.
	ErrFrameTooLarge = errors.New("twswire: frame too large")
	// ErrTruncatedFrame is returned when a stream ends in the middle of a frame.
	ErrTruncatedFrame = errors.New("twswire: truncated frame")
)
