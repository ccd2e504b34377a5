package common

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
)

const sampleText = "# header\n2016 01 1 2 3\n"

func TestOpenDataPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0644); err != nil {
		t.Fatal(err)
	}
	assertContent(t, path)
}

func TestOpenDataGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := pgzip.NewWriter(f)
	if _, err := gz.Write([]byte(sampleText)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	assertContent(t, path)
}

func TestOpenDataZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write([]byte(sampleText)); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	assertContent(t, path)
}

func TestOpenDataMissing(t *testing.T) {
	if _, err := OpenData(filepath.Join(t.TempDir(), "nope.txt")); !os.IsNotExist(err) {
		t.Fatalf("Expected not-exist error, got %v", err)
	}
}

func assertContent(t *testing.T, path string) {
	t.Helper()
	rc, err := OpenData(path)
	if err != nil {
		t.Fatalf("OpenData(%s) failed: %v", path, err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(got) != sampleText {
		t.Errorf("Expected %q, got %q", sampleText, string(got))
	}
}
