package prefixcode

import (
	"fmt"

	"github.com/forestrie/go-bitcodec/bitstream"
)

// Write writes the code word for s.
func (c *Code[S]) Write(w *bitstream.Writer, s S) error {
	code, err := c.Encode(s)
	if err != nil {
		return err
	}
	return w.Write(code)
}

// Decode reads one symbol. The reader's lookahead window is grown a byte at
// a time until a code word prefixes it; exactly that code word is consumed.
func (c *Code[S]) Decode(r *bitstream.Reader) (S, error) {
	var none S
	if len(c.forward) == 0 {
		return none, ErrEmptyCode
	}
	window, err := r.ReadAhead(0)
	if err != nil {
		return none, err
	}
	for {
		if code, s, ok := c.DecodeBits(window); ok {
			if _, err := r.Read(code.Len()); err != nil {
				return none, err
			}
			return s, nil
		}
		if window.Len() > c.maxLen {
			return none, fmt.Errorf("%w: no code word prefixes %s", bitstream.ErrMalformedStream, window)
		}
		if window, err = r.ReadAhead(1); err != nil {
			return none, err
		}
	}
}
