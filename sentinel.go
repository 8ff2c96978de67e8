package twswire

import "math"

// Reserved values meaning "field intentionally unset". The codec formats and
// parses them as ordinary numbers; recognizing them is up to the consumer.
const (
	UnsetInt    int32   = math.MaxInt32
	UnsetLong   int64   = math.MaxInt64
	UnsetDouble float64 = math.MaxFloat64
)
