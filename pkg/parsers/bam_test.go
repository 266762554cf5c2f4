package parsers

import (
	"encoding/binary"
	"testing"

	"github.com/seqtab/seqtab/pkg/errors"
)

func appendU32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendU16(b []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(b, v)
}

// buildTestBam assembles a BAM stream with one reference ("chr1") and
// one aligned read: read1, pos 9, mapq 30, cigar 4M, seq ACGT, all
// quality scores 40.
func buildTestBam() []byte {
	b := []byte("BAM\x01")
	b = appendU32(b, 0) // empty SAM-text header
	b = appendU32(b, 1) // one reference
	b = appendU32(b, 5)
	b = append(b, "chr1\x00"...)
	b = appendU32(b, 248956422)

	var rec []byte
	rec = appendU32(rec, 0)          // refID
	rec = appendU32(rec, 9)          // pos
	rec = append(rec, 6)             // query name length incl. NUL
	rec = append(rec, 30)            // mapq
	rec = appendU16(rec, 0)          // BAI bin
	rec = appendU16(rec, 1)          // one cigar op
	rec = appendU16(rec, 0)          // flag
	rec = appendU32(rec, 4)          // sequence length
	rec = appendU32(rec, 0xFFFFFFFF) // rnext: none
	rec = appendU32(rec, 0xFFFFFFFF) // pnext: none
	rec = appendU32(rec, 0)          // tlen
	rec = append(rec, "read1\x00"...)
	rec = appendU32(rec, 4<<4|0)     // 4M
	rec = append(rec, 0x12, 0x48)    // ACGT packed as nibbles
	rec = append(rec, 40, 40, 40, 40)

	b = appendU32(b, uint32(len(rec)))
	return append(b, rec...)
}

func TestBamReading(t *testing.T) {
	recs, err := drive(t, "bam", buildTestBam())
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	rec := recs[0].(*Alignment)
	if rec.QueryName != "read1" || rec.RefName != "chr1" {
		t.Errorf("names = (%q, %q)", rec.QueryName, rec.RefName)
	}
	if rec.Pos == nil || *rec.Pos != 9 {
		t.Errorf("pos = %v, want 9", rec.Pos)
	}
	if rec.MapQual == nil || *rec.MapQual != 30 {
		t.Errorf("mapq = %v, want 30", rec.MapQual)
	}
	if string(rec.Cigar) != "4M" {
		t.Errorf("cigar = %q, want 4M", rec.Cigar)
	}
	if string(rec.Sequence) != "ACGT" {
		t.Errorf("seq = %q, want ACGT", rec.Sequence)
	}
	if string(rec.Quality) != "IIII" {
		t.Errorf("qual = %q, want IIII", rec.Quality)
	}
	if rec.RNext != "" || rec.PNext != nil {
		t.Errorf("rnext/pnext = (%q, %v), want empty/nil", rec.RNext, rec.PNext)
	}
}

func TestBamBadMagic(t *testing.T) {
	_, err := drive(t, "bam", []byte("BAX\x01\x00\x00\x00\x00"))
	if err == nil {
		t.Fatal("expected an error for bad magic")
	}
}

func TestBamTruncatedRecord(t *testing.T) {
	data := buildTestBam()
	_, err := drive(t, "bam", data[:len(data)-10])
	if err == nil {
		t.Fatal("expected an error for a truncated record")
	}
	if !errors.IsIncomplete(err) {
		t.Errorf("truncation should be an incomplete error, got %v", err)
	}
}

func TestBamInvalidReferenceID(t *testing.T) {
	data := buildTestBam()
	// point the record's refID past the reference table
	recStart := len(data) - 48
	binary.LittleEndian.PutUint32(data[recStart:], 7)
	_, err := drive(t, "bam", data)
	if err == nil {
		t.Fatal("expected an error for an out-of-range reference ID")
	}
}

func TestBamFuzzRegressions(t *testing.T) {
	// crafted streams from fuzzing: all must error, never panic
	cases := [][]byte{
		{
			66, 65, 77, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
			0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10, 10, 125, 10, 10, 10, 10, 255, 255, 255,
			255, 10, 10, 18,
		},
		{
			66, 65, 77, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 105, 0, 110, 0, 0, 0, 0,
		},
	}
	for i, data := range cases {
		if _, err := drive(t, "bam", data); err == nil {
			t.Errorf("fuzz case %d decoded without error", i)
		}
	}
}
