package parsers

import (
	"encoding/binary"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/errors"
)

// Setup-time helpers for binary formats that consume their header state
// directly from the buffer. Each reports a premature-end error naming
// the section when the stream runs out mid-read.

func extractN(rb *buffer.Buffer, n int, section string) ([]byte, error) {
	if err := rb.Reserve(n); err != nil {
		return nil, err
	}
	if rb.Len() < n {
		return nil, errors.Premature(section)
	}
	return rb.Consume(n), nil
}

func extractU32(rb *buffer.Buffer, section string) (uint32, error) {
	b, err := extractN(rb, 4, section)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// discardN skips n bytes without buffering them all at once, so a
// bogus length field cannot balloon memory.
func discardN(rb *buffer.Buffer, n int, section string) error {
	for n > 0 {
		if rb.Len() == 0 {
			if rb.EOF() {
				return errors.Premature(section)
			}
			if _, err := rb.Refill(); err != nil {
				return err
			}
			continue
		}
		step := n
		if step > rb.Len() {
			step = rb.Len()
		}
		rb.Consume(step)
		n -= step
	}
	return nil
}
