package parsers

import (
	"strings"
	"testing"
	"testing/iotest"
)

func TestFastqReading(t *testing.T) {
	// the final record has no trailing newline
	recs, err := drive(t, "fastq", []byte("@id\nACGT\n+\n!!!!\n@id2\nTGCA\n+\n!!!!"))
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	first := recs[0].(*FastqRecord)
	if first.ID != "id" || string(first.Sequence) != "ACGT" || string(first.Quality) != "!!!!" {
		t.Errorf("first record = (%q, %q, %q)", first.ID, first.Sequence, first.Quality)
	}
	second := recs[1].(*FastqRecord)
	if second.ID != "id2" || string(second.Sequence) != "TGCA" || string(second.Quality) != "!!!!" {
		t.Errorf("second record = (%q, %q, %q)", second.ID, second.Sequence, second.Quality)
	}
}

func TestFastqCRLF(t *testing.T) {
	recs, err := drive(t, "fastq", []byte("@id\r\nACGT\r\n+\r\n!!!!\r\n@id2\r\nTGCA\r\n+\r\n!!!!\r\n"))
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for i, want := range []struct{ id, seq string }{{"id", "ACGT"}, {"id2", "TGCA"}} {
		rec := recs[i].(*FastqRecord)
		if rec.ID != want.id || string(rec.Sequence) != want.seq || string(rec.Quality) != "!!!!" {
			t.Errorf("record %d = (%q, %q, %q)", i, rec.ID, rec.Sequence, rec.Quality)
		}
	}
}

func TestFastqQualityMatchesSequenceLength(t *testing.T) {
	recs, err := drive(t, "fastq", []byte("@id\nACGTACGT\n+id\nIIIIIIII\n"))
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	rec := recs[0].(*FastqRecord)
	if len(rec.Quality) != len(rec.Sequence) {
		t.Errorf("quality length %d != sequence length %d", len(rec.Quality), len(rec.Sequence))
	}
}

func TestFastqPathological(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"plus at sequence start", "@DF\n+\n+\n!"},
		{"header only", "@\n"},
		{"bad start", "ACGT\n"},
		{"truncated quality", "@id\nACGTACGT\n+\n!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := drive(t, "fastq", []byte(tt.data)); err == nil {
				t.Errorf("expected an error for %q", tt.data)
			}
		})
	}
}

func TestFastqStreaming(t *testing.T) {
	input := "@id\nACGT\n+\n!!!!\n@id2\nTGCA\n+\n####\n"
	recs, err := driveStream(t, "fastq", iotest.OneByteReader(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("drive: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if got := string(recs[1].(*FastqRecord).Quality); got != "####" {
		t.Errorf("second quality = %q", got)
	}
}
