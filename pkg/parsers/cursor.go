package parsers

import (
	"encoding/binary"
	"math"
)

// cursor walks a byte slice extracting little-endian scalars. Running
// past the end sets short instead of panicking; callers check short
// once after a batch of reads.
type cursor struct {
	buf   []byte
	pos   int
	short bool
}

func newCursor(buf []byte) *cursor { return &cursor{buf: buf} }

func (c *cursor) take(n int) []byte {
	if c.short || c.pos+n > len(c.buf) {
		c.short = true
		return nil
	}
	out := c.buf[c.pos : c.pos+n]
	c.pos += n
	return out
}

func (c *cursor) skip(n int) { c.take(n) }

func (c *cursor) u8() uint8 {
	b := c.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) u16() uint16 {
	b := c.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (c *cursor) u32() uint32 {
	b := c.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (c *cursor) i32() int32 { return int32(c.u32()) }

func (c *cursor) f32() float32 {
	return math.Float32frombits(c.u32())
}
