package twswire

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// FieldKind tags the variant held by a Field.
type FieldKind uint8

// Field variants. The zero Field is FieldEmpty.
const (
	FieldEmpty FieldKind = iota
	FieldBool
	FieldInt
	FieldLong
	FieldFloat
	FieldString
)

func (k FieldKind) String() string {
	switch k {
	case FieldEmpty:
		return "empty"
	case FieldBool:
		return "bool"
	case FieldInt:
		return "int32"
	case FieldLong:
		return "int64"
	case FieldFloat:
		return "float64"
	case FieldString:
		return "string"
	default:
		return "FieldKind(" + strconv.Itoa(int(k)) + ")"
	}
}

const fieldTerminator = 0x00

// Field is one typed value of a payload. Build it with Bool, Int, Long,
// Float, String or Empty.
type Field struct {
	kind FieldKind
	b    bool
	i    int64
	f    float64
	s    string
}

// Bool returns a boolean field. Booleans travel as "1" and "0".
func Bool(v bool) Field { return Field{kind: FieldBool, b: v} }

// Int returns a 32-bit integer field.
func Int(v int32) Field { return Field{kind: FieldInt, i: int64(v)} }

// Long returns a 64-bit integer field.
func Long(v int64) Field { return Field{kind: FieldLong, i: v} }

// Float returns a floating-point field.
func Float(v float64) Field { return Field{kind: FieldFloat, f: v} }

// String returns a text field. The text must not contain NUL.
func String(v string) Field { return Field{kind: FieldString, s: v} }

// Empty returns a field that formats to nothing, not even a terminator.
func Empty() Field { return Field{} }

// Kind reports the variant held by f.
func (f Field) Kind() FieldKind { return f.kind }

// Format returns the wire form of f: its text followed by one NUL byte.
// Empty fields format to the empty string.
func Format(f Field) (string, error) {
	b, err := AppendField(nil, f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AppendField appends the wire form of f to dst and returns the extended slice.
// On error dst is returned unchanged.
func AppendField(dst []byte, f Field) ([]byte, error) {
	switch f.kind {
	case FieldEmpty:
		return dst, nil
	case FieldBool:
		if f.b {
			dst = append(dst, '1')
		} else {
			dst = append(dst, '0')
		}
	case FieldInt, FieldLong:
		dst = strconv.AppendInt(dst, f.i, 10)
	case FieldFloat:
		dst = strconv.AppendFloat(dst, f.f, 'f', -1, 64)
	case FieldString:
		if i := strings.IndexByte(f.s, fieldTerminator); i >= 0 {
			return dst, errors.Wrapf(ErrInvalidField, "string field has NUL at offset %d", i)
		}
		dst = append(dst, f.s...)
	default:
		return dst, errors.Wrapf(ErrInvalidField, "unknown field kind %d", f.kind)
	}
	return append(dst, fieldTerminator), nil
}

// Tokenize splits payload into its fields, in order, with terminators removed.
// An empty payload has no fields. A non-empty payload must end with NUL.
func Tokenize(payload string) ([]string, error) {
	if payload == "" {
		return nil, nil
	}
	if payload[len(payload)-1] != fieldTerminator {
		return nil, errors.Wrap(ErrMalformedFrame, "payload is missing its trailing NUL")
	}
	return strings.Split(payload[:len(payload)-1], "\x00"), nil
}

// ParseFields is Tokenize for raw payload bytes. Bytes that do not form
// valid text are reported as ErrMalformedFrame.
func ParseFields(payload []byte) ([]string, error) {
	if !utf8.Valid(payload) {
		return nil, errors.Wrap(ErrMalformedFrame, "payload is not valid text")
	}
	return Tokenize(string(payload))
}
