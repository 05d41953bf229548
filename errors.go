package smaz

import (
	"errors"
	"fmt"
)

// Errors returned by the codec. Use errors.Is to match them; decode
// failures arrive wrapped in a *DecodeError and ASCII violations in an
// *InputError.
var (
	ErrInvalidInput    = errors.New("smaz: input is not ASCII")
	ErrInvalidCodebook = errors.New("smaz: invalid codebook")
	ErrTruncatedStream = errors.New("smaz: truncated stream")
	ErrBufferOverflow  = errors.New("smaz: verbatim run exceeds input")
	ErrNonASCIIPayload = errors.New("smaz: non-ascii byte payload")
	ErrCodeOutOfRange  = errors.New("smaz: code has no codebook entry")

	// ErrBadVersion indicates the serialized codebook version is not supported.
	ErrBadVersion = errors.New("smaz: unsupported codebook version")

	// ErrChecksum indicates a serialized codebook failed its integrity check.
	ErrChecksum = errors.New("smaz: codebook checksum mismatch")

	// ErrCodebookBuilt indicates an attempt to deserialize into a codebook
	// that already holds entries.
	ErrCodebookBuilt = errors.New("smaz: codebook is already built")
)

// InputError reports a byte that the encoder refused to compress.
type InputError struct {
	Offset int  // position of the offending byte in the input
	Byte   byte // the offending byte
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: byte 0x%02x at offset %d", ErrInvalidInput, e.Byte, e.Offset)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// DecodeError reports where in a compressed stream decoding failed.
// Offset is the position of the opcode that could not be decoded, or,
// for ErrNonASCIIPayload, the position in the decoded output.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v (offset %d)", e.Err, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }
