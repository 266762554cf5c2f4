package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reads.fastq"+ProfileSuffix)
	want := Profile{Format: "fastq", NoDecompress: true, LogLevel: "debug"}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestFindBesideInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "reads.fastq")
	if err := Save(input+ProfileSuffix, Profile{Format: "fastq"}); err != nil {
		t.Fatal(err)
	}
	p, path, err := Find(input)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if path != input+ProfileSuffix {
		t.Errorf("path = %q", path)
	}
	if p.Format != "fastq" {
		t.Errorf("format = %q", p.Format)
	}
}

func TestFindDirectoryFallback(t *testing.T) {
	dir := t.TempDir()
	if err := Save(filepath.Join(dir, ProfileSuffix), Profile{Format: "sam"}); err != nil {
		t.Fatal(err)
	}
	p, _, err := Find(filepath.Join(dir, "whatever.txt"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if p.Format != "sam" {
		t.Errorf("format = %q", p.Format)
	}
}

func TestFindNothing(t *testing.T) {
	p, path, err := Find(filepath.Join(t.TempDir(), "no-such-input"))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if path != "" || p != (Profile{}) {
		t.Errorf("found (%+v, %q), want zero values", p, path)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
