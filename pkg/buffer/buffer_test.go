package buffer

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"
)

func TestRefillAndConsume(t *testing.T) {
	// one byte per read exercises the refill loop
	b := New(iotest.OneByteReader(strings.NewReader("hello world")))
	if err := b.Reserve(11); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if got := string(b.Window()); got != "hello world" {
		t.Fatalf("window = %q, want %q", got, "hello world")
	}
	if got := string(b.Consume(6)); got != "hello " {
		t.Fatalf("consume = %q", got)
	}
	if b.Offset() != 6 {
		t.Errorf("offset = %d, want 6", b.Offset())
	}
	if got := string(b.Window()); got != "world" {
		t.Errorf("window after consume = %q", got)
	}
}

func TestReserveShortAtEOF(t *testing.T) {
	b := New(strings.NewReader("abc"))
	if err := b.Reserve(100); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !b.EOF() {
		t.Error("expected EOF after draining the reader")
	}
	if b.Len() != 3 {
		t.Errorf("len = %d, want 3", b.Len())
	}
}

func TestFromSlice(t *testing.T) {
	b := FromSlice([]byte("data"))
	if !b.EOF() {
		t.Error("slice buffer should start at EOF")
	}
	if got := string(b.Window()); got != "data" {
		t.Errorf("window = %q", got)
	}
	n, err := b.Refill()
	if n != 0 || err != nil {
		t.Errorf("refill at EOF = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSeekPattern(t *testing.T) {
	data := "xxxxxxNEEDLEyyy"
	b := New(iotest.OneByteReader(strings.NewReader(data)))
	found, err := b.SeekPattern([]byte("NEEDLE"))
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if !found {
		t.Fatal("pattern not found")
	}
	if b.Offset() != 6 {
		t.Errorf("offset = %d, want 6", b.Offset())
	}
	if !bytes.HasPrefix(b.Window(), []byte("NEEDLE")) {
		t.Errorf("window %q does not start at the pattern", b.Window())
	}
}

func TestSeekPatternMissing(t *testing.T) {
	b := New(strings.NewReader("no such thing here"))
	found, err := b.SeekPattern([]byte("NEEDLE"))
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if found {
		t.Error("found a pattern that is not there")
	}
}

func TestRecordCounter(t *testing.T) {
	b := FromSlice([]byte("ab"))
	if b.RecordIndex() != 0 {
		t.Fatalf("record index = %d", b.RecordIndex())
	}
	b.BumpRecord()
	b.BumpRecord()
	if b.RecordIndex() != 2 {
		t.Errorf("record index = %d, want 2", b.RecordIndex())
	}
}
