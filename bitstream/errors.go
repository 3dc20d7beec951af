package bitstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/forestrie/go-bitcodec/bitvalue"
	pkgerrors "github.com/pkg/errors"
)

var (
	ErrMalformedStream = errors.New("bitstream: stream ended before the requested bits")
	ErrCheckMismatch   = errors.New("bitstream: check value mismatch")
	ErrWidth           = errors.New("bitstream: field width must be between 0 and 64 bits")
)

// CheckMismatchError reports an Expect call that decoded something other
// than the expected value. It matches ErrCheckMismatch with errors.Is.
type CheckMismatchError struct {
	Label string
	Want  bitvalue.Value
	Got   bitvalue.Value
}

func (e *CheckMismatchError) Error() string {
	return fmt.Sprintf("bitstream: check for %s failed: got %s, want %s", e.Label, e.Got, e.Want)
}

func (e *CheckMismatchError) Is(target error) bool { return target == ErrCheckMismatch }

// streamErr classifies an error from the underlying stream. Running out of
// input is always ErrMalformedStream.
func streamErr(err error, op string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return pkgerrors.Wrapf(ErrMalformedStream, "%s: %v", op, err)
	}
	return pkgerrors.Wrap(err, op)
}
