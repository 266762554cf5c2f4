package parsers

import (
	"io"
	"testing"

	"github.com/seqtab/seqtab/pkg/buffer"
	"github.com/seqtab/seqtab/pkg/record"
)

// drive runs a decoder over an in-memory stream to completion.
func drive(t *testing.T, name string, data []byte) ([]record.Record, error) {
	t.Helper()
	dec, _, err := Get(name)
	if err != nil {
		t.Fatalf("get decoder %q: %v", name, err)
	}
	rb := buffer.FromSlice(data)
	if err := dec.Setup(rb); err != nil {
		return nil, err
	}
	return run(t, dec, rb)
}

// driveStream is drive over an io.Reader, exercising the refill path.
func driveStream(t *testing.T, name string, r io.Reader) ([]record.Record, error) {
	t.Helper()
	dec, _, err := Get(name)
	if err != nil {
		t.Fatalf("get decoder %q: %v", name, err)
	}
	rb := buffer.New(r)
	if err := dec.Setup(rb); err != nil {
		return nil, err
	}
	return run(t, dec, rb)
}

func run(t *testing.T, dec Decoder, rb *buffer.Buffer) ([]record.Record, error) {
	t.Helper()
	var recs []record.Record
	for {
		res, err := dec.Parse(rb.Window(), rb.EOF())
		if err != nil {
			return recs, err
		}
		switch res.Outcome {
		case EndOfStream:
			return recs, nil
		case NeedMoreBytes:
			if rb.EOF() {
				t.Fatalf("decoder stalled at end of stream with %d bytes left", rb.Len())
			}
			if _, err := rb.Refill(); err != nil {
				return recs, err
			}
		case HaveRecord:
			rec, err := dec.Get(rb.Window())
			if err != nil {
				return recs, err
			}
			rb.Consume(res.Consumed)
			rb.BumpRecord()
			recs = append(recs, rec)
		}
	}
}

func TestRegistryNames(t *testing.T) {
	names := Names()
	want := map[string]bool{"fasta": false, "fastq": false, "sam": false, "bam": false, "inficon": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, seen := range want {
		if !seen {
			t.Errorf("decoder %q not registered", n)
		}
	}
}

func TestRegistryUnknown(t *testing.T) {
	if _, _, err := Get("does-not-exist"); err == nil {
		t.Error("expected an error for an unknown decoder")
	}
}

func TestRegistryFreshInstances(t *testing.T) {
	a, _, err := Get("fasta")
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := Get("fasta")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("Get returned a shared decoder instance")
	}
}
