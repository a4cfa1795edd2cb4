// Package storage lists and opens image files on the badge's storage card.
//
// Every failure is returned as a *fault.LoadError so callers can tag it with
// the directory it happened in.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/smazurov/inkbadge/internal/fault"
	"github.com/smazurov/inkbadge/internal/logging"
)

// Directory names under the storage root.
const (
	BadgeDir      = "badges"
	BackgroundDir = "backgrounds"
)

// ErrNotADir is returned when a path exists but is not a directory.
var ErrNotADir = errors.New("not a directory")

// Volume is a mounted storage root.
type Volume struct {
	fsys   fs.FS
	logger logging.Logger
}

// Open mounts the directory at root.
func Open(root string, logger logging.Logger) (*Volume, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("storage root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage root %s: %w", root, ErrNotADir)
	}
	return NewVolume(os.DirFS(root), logger), nil
}

// NewVolume wraps an existing file system.
func NewVolume(fsys fs.FS, logger logging.Logger) *Volume {
	return &Volume{fsys: fsys, logger: logger}
}

// OpenDir opens the directory name, relative to the volume root.
func (v *Volume) OpenDir(name string) (*Dir, error) {
	f, err := v.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fault.NewLoadError(fault.DirNotFound, name, err)
		}
		return nil, fault.NewLoadError(fault.DirOpen, name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fault.NewLoadError(fault.DirOpen, name, err)
	}
	if !info.IsDir() {
		return nil, fault.NewLoadError(fault.DirNotADir, name, ErrNotADir)
	}
	return &Dir{fsys: v.fsys, name: name, logger: v.logger}, nil
}

// Dir is an opened directory.
type Dir struct {
	fsys   fs.FS
	name   string
	logger logging.Logger
}

// Name returns the directory path relative to the volume root.
func (d *Dir) Name() string { return d.name }

// List starts a listing of the directory.
func (d *Dir) List() (*Listing, error) {
	f, err := d.openListing()
	if err != nil {
		return nil, fault.NewLoadError(fault.DirList, d.name, err)
	}
	return &Listing{dir: d, f: f}, nil
}

func (d *Dir) openListing() (fs.ReadDirFile, error) {
	f, err := d.fsys.Open(d.name)
	if err != nil {
		return nil, err
	}
	rf, ok := f.(fs.ReadDirFile)
	if !ok {
		_ = f.Close()
		return nil, ErrNotADir
	}
	return rf, nil
}

// Open opens a file entry of the directory for reading.
func (d *Dir) Open(e fs.DirEntry) (io.ReadCloser, error) {
	p := d.Path(e.Name())
	f, err := d.fsys.Open(p)
	if err != nil {
		return nil, fault.NewLoadError(fault.FileOpen, p, err)
	}
	return f, nil
}

// Path joins name onto the directory path.
func (d *Dir) Path(name string) string {
	if d.name == "." {
		return name
	}
	return d.name + "/" + name
}

// Listing iterates a directory's entries in enumeration order.
type Listing struct {
	dir *Dir
	f   fs.ReadDirFile
}

// Next returns the next entry. ok is false at the end of the listing.
func (l *Listing) Next() (entry fs.DirEntry, ok bool, err error) {
	entries, err := l.f.ReadDir(1)
	if len(entries) == 1 {
		return entries[0], true, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	return nil, false, fault.NewLoadError(fault.DirIter, l.dir.name, err)
}

// NextFile returns the next regular file, skipping every other entry kind.
func (l *Listing) NextFile() (fs.DirEntry, bool, error) {
	for {
		e, ok, err := l.Next()
		if err != nil || !ok {
			return nil, ok, err
		}
		if IsRegular(e) {
			return e, true, nil
		}
		l.dir.logger.Debug("Skipping entry", "dir", l.dir.name, "name", e.Name(), "type", e.Type().String())
	}
}

// Reset rewinds the listing to its first entry.
func (l *Listing) Reset() error {
	_ = l.f.Close()
	f, err := l.dir.openListing()
	if err != nil {
		return fault.NewLoadError(fault.DirListReset, l.dir.name, err)
	}
	l.f = f
	return nil
}

// Close releases the listing.
func (l *Listing) Close() error {
	return l.f.Close()
}

// IsRegular reports whether e is a plain file. Directories, symlinks and
// device nodes are never selectable.
func IsRegular(e fs.DirEntry) bool {
	return e.Type().IsRegular()
}
