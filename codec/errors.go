package codec

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/materialize-io/pgwire/codes"
	psqlerr "github.com/materialize-io/pgwire/errors"
)

// MaxFrameSize is the largest declared frame length (the 4-byte length
// prefix included) this codec will accept. It bounds
// the scratch allocation a single frame can provoke.
const MaxFrameSize = 8 << 10 // 8192

// ErrFrameTooBig is wrapped by the error returned whenever a frame's
// declared length exceeds MaxFrameSize.
var ErrFrameTooBig = errors.New("frame size exceeds maximum allowed frame size")

// ErrInvalidFrameLength is wrapped by the error returned whenever a frame
// declares a length shorter than the 4 bytes of the length prefix itself.
var ErrInvalidFrameLength = errors.New("invalid frame length")

// ErrInvalidMessageType is wrapped by the error returned for a type byte
// this codec does not recognize.
var ErrInvalidMessageType = errors.New("unknown message type")

// ErrInvalidInput is wrapped by the error returned for a malformed message
// body: a missing NUL terminator, or a field that runs past the end of the
// declared body.
var ErrInvalidInput = errors.New("invalid message input")

// ErrUnsupportedProtocolVersion is wrapped by the error returned when a
// startup frame's version does not match the one protocol version this
// codec understands.
var ErrUnsupportedProtocolVersion = errors.New("unsupported protocol version")

// withSource decorates err with the file and line of its caller's caller,
// i.e. the decoder or encoder call site that actually hit the fault,
// rather than this file.
func withSource(err error) error {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return err
	}
	return psqlerr.WithSource(err, file, int32(line), "")
}

func newFrameTooBig(size int) error {
	err := fmt.Errorf("frame size %d exceeds maximum frame size %d: %w", size, MaxFrameSize, ErrFrameTooBig)
	err = psqlerr.WithHint(err, "reduce the message size or raise MaxFrameSize; the frame was rejected before any of its body was read")
	err = psqlerr.WithSeverity(psqlerr.WithCode(err, codes.ProgramLimitExceeded), psqlerr.LevelFatal)
	return withSource(err)
}

func newInvalidFrameLength(n int) error {
	err := fmt.Errorf("frame length %d: %w", n, ErrInvalidFrameLength)
	err = psqlerr.WithHint(err, "the 4-byte length prefix counts itself, so the minimum valid value is 4")
	err = psqlerr.WithSeverity(psqlerr.WithCode(err, codes.ProtocolViolation), psqlerr.LevelFatal)
	return withSource(err)
}

func newInvalidMessageType(t byte) error {
	err := fmt.Errorf("message type %q: %w", t, ErrInvalidMessageType)
	err = psqlerr.WithHint(err, "frontend messages must use one of the supported type bytes (Q, P, X) or the untyped startup frame")
	err = psqlerr.WithSeverity(psqlerr.WithCode(err, codes.ProtocolViolation), psqlerr.LevelFatal)
	return withSource(err)
}

func newInsufficientData(remaining int) error {
	err := fmt.Errorf("%d bytes remaining: %w", remaining, ErrInvalidInput)
	err = psqlerr.WithDetail(err, "the frame's declared length did not leave enough bytes for this field")
	err = psqlerr.WithSeverity(psqlerr.WithCode(err, codes.DataCorrupted), psqlerr.LevelFatal)
	return withSource(err)
}

func newMissingNulTerminator() error {
	err := fmt.Errorf("NUL terminator not found: %w", ErrInvalidInput)
	err = psqlerr.WithHint(err, "string fields in the wire protocol must be terminated with a NUL byte")
	err = psqlerr.WithSeverity(psqlerr.WithCode(err, codes.DataCorrupted), psqlerr.LevelFatal)
	return withSource(err)
}

func newUnsupportedProtocolVersion(version uint32) error {
	err := fmt.Errorf("protocol version %#08x: %w", version, ErrUnsupportedProtocolVersion)
	err = psqlerr.WithDetail(err, "only protocol 3.0 startup frames are accepted")
	err = psqlerr.WithHint(err, "SSL, GSS, and cancel negotiation requests must be handled by the caller before bytes reach Decode")
	err = psqlerr.WithSeverity(psqlerr.WithCode(err, codes.ProtocolViolation), psqlerr.LevelFatal)
	return withSource(err)
}
