package imgload

import "errors"

// Status is the result code of the status-returning API and the C ABI.
// The numeric values are stable.
type Status int32

const (
	// StatusOK reports a successful decode.
	StatusOK Status = 0

	// StatusInvalidArgument reports an empty path or a nil output record.
	StatusInvalidArgument Status = -1

	// StatusDecodeFailure reports that no image could be produced from the
	// input: missing or unreadable file, corrupt data, unsupported format,
	// oversized dimensions or a failed allocation.
	StatusDecodeFailure Status = -2
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusInvalidArgument:
		return "InvalidArgument"
	case StatusDecodeFailure:
		return "DecodeFailure"
	default:
		return "Unknown"
	}
}

// Errors returned by Decode. Every error wraps exactly one of them.
var (
	// ErrInvalidArgument is returned for caller misuse such as an empty path.
	ErrInvalidArgument = errors.New("imgload: invalid argument")

	// ErrDecodeFailure is returned when the decoder cannot produce an image.
	ErrDecodeFailure = errors.New("imgload: decode failure")
)

// StatusOf maps an error returned by this package to its Status.
// A nil error is StatusOK; errors of unknown origin are decode failures.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	default:
		return StatusDecodeFailure
	}
}
