package httpreplay

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_ReadWrite(t *testing.T) {
	s := store{dir: filepath.Join(t.TempDir(), "cache")}
	fp := "0f343b0931126a20f133d67c2b018a3b"

	if s.exists(fp) {
		t.Error("exists reported an entry before any write")
	}

	_, err := s.read(fp)
	if !errors.Is(err, ErrNotRecorded) {
		t.Fatalf("read error = %v, want ErrNotRecorded", err)
	}

	if err := s.write(fp, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if !s.exists(fp) {
		t.Error("exists did not report the entry after write")
	}

	got, err := s.read(fp)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("one")) {
		t.Errorf("read = %q, want %q", got, "one")
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := store{dir: t.TempDir()}
	fp := "0f343b0931126a20f133d67c2b018a3b"

	if err := s.write(fp, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if err := s.write(fp, []byte("two")); err != nil {
		t.Fatal(err)
	}

	got, err := s.read(fp)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("two")) {
		t.Errorf("read = %q, want %q", got, "two")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Cache dir has %d files, want 1", len(entries))
	}
}

func TestStore_WriteIdempotent(t *testing.T) {
	s := store{dir: t.TempDir()}
	fp := "0f343b0931126a20f133d67c2b018a3b"
	raw := []byte("HTTP/1.1 200 OK\r\n\r\nhello")

	if err := s.write(fp, raw); err != nil {
		t.Fatal(err)
	}
	first, err := s.read(fp)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.write(fp, raw); err != nil {
		t.Fatal(err)
	}
	second, err := s.read(fp)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("Store content changed after repeated write\nFirst  %q\nSecond %q", first, second)
	}
}

func TestStore_WriteError(t *testing.T) {
	// Using an existing file as the cache dir makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	s := store{dir: blocker}
	if err := s.write("0f343b0931126a20f133d67c2b018a3b", []byte("x")); err == nil {
		t.Error("write to an unusable cache dir did not fail")
	}
}
