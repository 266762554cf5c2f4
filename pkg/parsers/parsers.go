// Package parsers holds the incremental decoders and the registry that
// names them. Decoding is a two-phase protocol: Parse delimits the next
// record inside a byte window without allocating, then Get materializes
// it. Parse never consumes; the caller consumes after Get succeeds so a
// failed Get can be retried or reported against stable bytes.
package parsers

import (
	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/record"
)

// Outcome is the three-valued result of a Parse call.
type Outcome uint8

const (
	// NeedMoreBytes means the window ends inside the record; refill
	// and call Parse again.
	NeedMoreBytes Outcome = iota
	// HaveRecord means a complete record occupies the first Consumed
	// bytes of the window.
	HaveRecord
	// EndOfStream means no further records exist.
	EndOfStream
)

// Result reports what Parse found.
type Result struct {
	Outcome  Outcome
	Consumed int
}

func needMore() (Result, error) {
	return Result{Outcome: NeedMoreBytes}, nil
}

func haveRecord(n int) (Result, error) {
	return Result{Outcome: HaveRecord, Consumed: n}, nil
}

func endOfStream() (Result, error) {
	return Result{Outcome: EndOfStream}, nil
}

// Decoder is the contract every format implements.
//
// Setup runs once before the first Parse and may consume leading
// stream state (file magic, header sections) directly from the buffer.
// Parse inspects the window and reports whether a complete record is
// present; it must be repeatable on the same window. Get decodes the
// record that the last successful Parse delimited; the window passed
// to Get starts at the same position Parse saw.
type Decoder interface {
	Setup(buf *buffer.Buffer) error
	Parse(window []byte, eof bool) (Result, error)
	Get(window []byte) (record.Record, error)
	Headers() []string
}

// Constructor builds a fresh decoder instance.
type Constructor func() Decoder
