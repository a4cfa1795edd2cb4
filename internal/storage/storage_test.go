package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/smazurov/inkbadge/internal/fault"
	"github.com/smazurov/inkbadge/internal/logging"
)

func testVolume() *Volume {
	return NewVolume(fstest.MapFS{
		"badges/a.png":       {Data: []byte("a")},
		"badges/b.png":       {Data: []byte("b")},
		"badges/nested":      {Mode: fs.ModeDir},
		"badges/link.png":    {Data: []byte("x"), Mode: fs.ModeSymlink},
		"badges/c.png":       {Data: []byte("c")},
		"backgrounds/bg.png": {Data: []byte("bg")},
		"notes.txt":          {Data: []byte("hello")},
	}, logging.Nop())
}

func assertKind(t *testing.T, err error, want fault.Kind) {
	t.Helper()
	var le *fault.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error %v is not a LoadError", err)
	}
	if le.Kind != want {
		t.Errorf("kind = %s, want %s", le.Kind, want)
	}
}

func TestOpenDirErrors(t *testing.T) {
	v := testVolume()

	tests := []struct {
		name string
		path string
		want fault.Kind
	}{
		{"missing", "nope", fault.DirNotFound},
		{"file", "notes.txt", fault.DirNotADir},
		{"invalid path", "../escape", fault.DirOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.OpenDir(tt.path)
			if err == nil {
				t.Fatal("OpenDir() should fail")
			}
			assertKind(t, err, tt.want)
		})
	}
}

func TestListingNextFileSkipsNonRegular(t *testing.T) {
	dir, err := testVolume().OpenDir(BadgeDir)
	if err != nil {
		t.Fatalf("OpenDir() error: %v", err)
	}
	l, err := dir.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	defer l.Close()

	var names []string
	for {
		e, ok, err := l.NextFile()
		if err != nil {
			t.Fatalf("NextFile() error: %v", err)
		}
		if !ok {
			break
		}
		names = append(names, e.Name())
	}

	want := []string{"a.png", "b.png", "c.png"}
	if len(names) != len(want) {
		t.Fatalf("files = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestListingReset(t *testing.T) {
	dir, err := testVolume().OpenDir(BadgeDir)
	if err != nil {
		t.Fatal(err)
	}
	l, err := dir.List()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	first, _, _ := l.NextFile()
	_, _, _ = l.NextFile()

	if err := l.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}
	again, ok, err := l.NextFile()
	if err != nil || !ok {
		t.Fatalf("NextFile() after Reset = %v, %v", ok, err)
	}
	if again.Name() != first.Name() {
		t.Errorf("after Reset got %q, want %q", again.Name(), first.Name())
	}
}

func TestDirOpenReadsFile(t *testing.T) {
	dir, err := testVolume().OpenDir(BackgroundDir)
	if err != nil {
		t.Fatal(err)
	}
	l, err := dir.List()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	e, ok, err := l.NextFile()
	if err != nil || !ok {
		t.Fatalf("NextFile() = %v, %v", ok, err)
	}
	rc, err := dir.Open(e)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "bg" {
		t.Errorf("data = %q, want %q", data, "bg")
	}
}

type goneEntry struct{ fs.DirEntry }

func (goneEntry) Name() string { return "gone.png" }

func TestDirOpenMissingFile(t *testing.T) {
	dir, err := testVolume().OpenDir(BadgeDir)
	if err != nil {
		t.Fatal(err)
	}
	_, err = dir.Open(goneEntry{})
	assertKind(t, err, fault.FileOpen)
}

func TestOpenRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, BadgeDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, BadgeDir, "one.png"), []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := Open(root, logging.Nop())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := v.OpenDir(BadgeDir); err != nil {
		t.Errorf("OpenDir() error: %v", err)
	}

	if _, err := Open(filepath.Join(root, "missing"), logging.Nop()); err == nil {
		t.Error("Open() on a missing root should fail")
	}
	if _, err := Open(filepath.Join(root, BadgeDir, "one.png"), logging.Nop()); !errors.Is(err, ErrNotADir) {
		t.Errorf("Open() on a file = %v, want ErrNotADir", err)
	}
}
