// Package buffer implements the streaming byte window that decoders
// parse from. The window grows on demand, keeps unconsumed bytes stable
// across refills, and tracks the absolute position of its start so
// errors can report where in the stream decoding stopped.
package buffer

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultChunkSize is the read granularity for Refill.
const DefaultChunkSize = 64 * 1024

// Buffer wraps an io.Reader with a consumable byte window.
//
// The window returned by Window is valid until the next call to Consume,
// Refill, Reserve, or SeekPattern. Consumed bytes are gone for good;
// there is no seeking backwards.
type Buffer struct {
	rd     io.Reader
	data   []byte
	start  int
	eof    bool
	offset int64
	record int64
}

// New returns a Buffer reading from rd.
func New(rd io.Reader) *Buffer {
	return &Buffer{rd: rd}
}

// FromSlice returns a Buffer whose whole content is b. The end of the
// slice is the end of the stream.
func FromSlice(b []byte) *Buffer {
	return &Buffer{data: b, eof: true}
}

// Window returns the current unconsumed bytes.
func (b *Buffer) Window() []byte { return b.data[b.start:] }

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int { return len(b.data) - b.start }

// EOF reports whether the underlying reader is exhausted. The window
// may still hold bytes when EOF is true.
func (b *Buffer) EOF() bool { return b.eof }

// Offset returns the absolute byte offset of the window start.
func (b *Buffer) Offset() int64 { return b.offset }

// RecordIndex returns how many records have been consumed so far.
func (b *Buffer) RecordIndex() int64 { return b.record }

// BumpRecord increments the consumed-record counter.
func (b *Buffer) BumpRecord() { b.record++ }

// Refill reads more bytes into the window, first sliding out any
// consumed prefix. It loops until at least one byte arrives, the reader
// reports EOF, or an error occurs, and returns the number of new bytes.
func (b *Buffer) Refill() (int, error) {
	if b.eof {
		return 0, nil
	}
	if b.start > 0 {
		n := copy(b.data, b.data[b.start:])
		b.data = b.data[:n]
		b.start = 0
	}
	for {
		grown := append(b.data, make([]byte, DefaultChunkSize)...)
		n, err := b.rd.Read(grown[len(b.data):])
		b.data = grown[:len(b.data)+n]
		if err == io.EOF {
			b.eof = true
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if n > 0 {
			return n, nil
		}
	}
}

// Consume removes the first n bytes from the window and returns them.
// The returned slice is valid until the next refill. Consuming more
// than the window holds is a caller bug.
func (b *Buffer) Consume(n int) []byte {
	if n > b.Len() {
		panic(fmt.Sprintf("buffer: consume %d of %d available", n, b.Len()))
	}
	out := b.data[b.start : b.start+n]
	b.start += n
	b.offset += int64(n)
	return out
}

// Reserve refills until the window holds at least n bytes. At end of
// stream the window may come up short; callers check Len afterwards.
func (b *Buffer) Reserve(n int) error {
	for b.Len() < n && !b.eof {
		if _, err := b.Refill(); err != nil {
			return err
		}
	}
	return nil
}

// SeekPattern consumes bytes until the window starts with needle. It
// returns true when the pattern was found, false when the stream ended
// first. Bytes that could still be a prefix of the pattern are kept
// across refills.
func (b *Buffer) SeekPattern(needle []byte) (bool, error) {
	for {
		if idx := bytes.Index(b.Window(), needle); idx >= 0 {
			b.Consume(idx)
			return true, nil
		}
		if keep := b.Len() - len(needle) + 1; keep > 0 {
			b.Consume(keep)
		}
		if b.eof {
			return false, nil
		}
		if _, err := b.Refill(); err != nil {
			return false, err
		}
	}
}
