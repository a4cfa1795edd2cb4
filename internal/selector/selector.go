// Package selector picks which badge and background images to show.
//
// Badges are addressed by position among the regular files of the badge
// directory, in enumeration order. The position is persisted as the state
// index, so it goes stale when the directory changes between cycles.
package selector

import (
	"errors"
	"io"
	"io/fs"

	"github.com/smazurov/inkbadge/internal/action"
	"github.com/smazurov/inkbadge/internal/fault"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/state"
	"github.com/smazurov/inkbadge/internal/storage"
)

var errEmptyDir = errors.New("no files")

// Image receives the chosen file.
type Image interface {
	SetImage(path string, r io.Reader) error
}

// Rand is a uniform integer source. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Selector loads chosen images onto the frame.
type Selector struct {
	img    Image
	rng    Rand
	logger logging.Logger
}

// New creates a selector.
func New(img Image, rng Rand, logger logging.Logger) *Selector {
	return &Selector{img: img, rng: rng, logger: logger}
}

// Advance returns the target position for a sequential action.
func Advance(a action.Action, current state.Byte) uint8 {
	index := current.Index()
	if current.Locked() {
		return index
	}
	switch a {
	case action.Next, action.Wake:
		if index >= state.Sentinel {
			return 0
		}
		return index + 1
	case action.Prev:
		if index == 0 {
			return state.Sentinel
		}
		return index - 1
	default:
		return index
	}
}

// Badge shows the badge for a sequential action and returns the new state.
//
// When the target position is past the last file, the last file is shown and
// the index becomes the sentinel. A locked state is returned unchanged even
// though the shown file is bounds-corrected the same way.
func (s *Selector) Badge(dir *storage.Dir, a action.Action, current state.Byte) (state.Byte, error) {
	k := Advance(a, current)

	l, err := dir.List()
	if err != nil {
		return current, err
	}
	defer l.Close()

	// At most k+1 files are read; k never exceeds the sentinel.
	var chosen fs.DirEntry
	found := false
	for pos := 0; ; pos++ {
		e, ok, err := l.NextFile()
		if err != nil {
			return current, err
		}
		if !ok {
			break
		}
		chosen = e
		if pos == int(k) {
			found = true
			break
		}
	}

	if chosen == nil {
		return current, fault.NewLoadError(fault.DirIter, dir.Name(), errEmptyDir)
	}

	resolved := k
	if !found {
		resolved = state.Sentinel
	}

	if err := s.show(dir, chosen); err != nil {
		return current, err
	}

	s.logger.Info("Badge selected", "action", a.String(), "target", k, "index", resolved, "file", chosen.Name(), "locked", current.Locked())

	if current.Locked() {
		return current, nil
	}
	return current.WithIndex(resolved), nil
}

// Random shows a uniformly chosen file and returns its position. An empty
// directory shows nothing and returns 0.
func (s *Selector) Random(dir *storage.Dir) (int, error) {
	l, err := dir.List()
	if err != nil {
		return 0, err
	}
	defer l.Close()

	n := 0
	for {
		_, ok, err := l.NextFile()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		n++
	}
	if n == 0 {
		s.logger.Debug("Nothing to pick from", "dir", dir.Name())
		return 0, nil
	}

	pick := s.rng.IntN(n)

	if err := l.Reset(); err != nil {
		return 0, err
	}
	for i := 0; ; i++ {
		e, ok, err := l.NextFile()
		if err != nil {
			return 0, err
		}
		if !ok {
			// The directory shrank between the two scans.
			return 0, fault.NewLoadError(fault.DirIter, dir.Name(), io.ErrUnexpectedEOF)
		}
		if i < pick {
			continue
		}
		if err := s.show(dir, e); err != nil {
			return 0, err
		}
		s.logger.Info("Random pick", "dir", dir.Name(), "index", pick, "of", n, "file", e.Name())
		return pick, nil
	}
}

// RandomBadge picks a random badge. The lock is always cleared.
func (s *Selector) RandomBadge(dir *storage.Dir) (state.Byte, error) {
	i, err := s.Random(dir)
	if err != nil {
		return 0, err
	}
	return state.Byte(state.Encode(false, uint8(i))), nil
}

func (s *Selector) show(dir *storage.Dir, e fs.DirEntry) error {
	rc, err := dir.Open(e)
	if err != nil {
		return err
	}
	defer rc.Close()
	return s.img.SetImage(dir.Path(e.Name()), rc)
}
