package selector

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/smazurov/inkbadge/internal/action"
	"github.com/smazurov/inkbadge/internal/fault"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/state"
	"github.com/smazurov/inkbadge/internal/storage"
)

type recordingImage struct {
	shown []string
	err   error
}

func (r *recordingImage) SetImage(path string, rd io.Reader) error {
	if _, err := io.ReadAll(rd); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	r.shown = append(r.shown, path)
	return nil
}

func (r *recordingImage) last() string {
	if len(r.shown) == 0 {
		return ""
	}
	return r.shown[len(r.shown)-1]
}

type fixedRand int

func (f fixedRand) IntN(n int) int {
	if int(f) >= n {
		panic(fmt.Sprintf("IntN(%d) asked to return %d", n, int(f)))
	}
	return int(f)
}

// badgeDir returns a badge directory holding n regular files 0.png, 1.png...
// plus a subdirectory that must never be selected.
func badgeDir(t *testing.T, n int) *storage.Dir {
	t.Helper()
	fsys := fstest.MapFS{
		"badges":          {Mode: fs.ModeDir},
		"badges/zz-dir/x": {Data: []byte("x")},
	}
	for i := range n {
		fsys[fmt.Sprintf("badges/%d.png", i)] = &fstest.MapFile{Data: []byte{byte(i)}}
	}
	dir, err := storage.NewVolume(fsys, logging.Nop()).OpenDir(storage.BadgeDir)
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestAdvanceUnlocked(t *testing.T) {
	for i := 0; i <= 127; i++ {
		cur := state.Byte(i)

		wantNext := uint8(i + 1)
		if i == 127 {
			wantNext = 0
		}
		if got := Advance(action.Next, cur); got != wantNext {
			t.Errorf("Advance(next, %d) = %d, want %d", i, got, wantNext)
		}
		if got := Advance(action.Wake, cur); got != wantNext {
			t.Errorf("Advance(wake, %d) = %d, want %d", i, got, wantNext)
		}

		wantPrev := uint8(i - 1)
		if i == 0 {
			wantPrev = 127
		}
		if got := Advance(action.Prev, cur); got != wantPrev {
			t.Errorf("Advance(prev, %d) = %d, want %d", i, got, wantPrev)
		}
	}
}

func TestAdvanceLocked(t *testing.T) {
	for _, a := range []action.Action{action.Next, action.Prev, action.Wake} {
		for _, i := range []uint8{0, 5, 127} {
			cur := state.Byte(state.Encode(true, i))
			if got := Advance(a, cur); got != i {
				t.Errorf("Advance(%s, locked %d) = %d, want %d", a, i, got, i)
			}
		}
	}
}

func TestBadgeResolution(t *testing.T) {
	tests := []struct {
		name     string
		files    int
		action   action.Action
		current  state.Byte
		want     state.Byte
		wantFile string
	}{
		{"next within range", 3, action.Next, 0x00, 0x01, "badges/1.png"},
		{"next onto last", 3, action.Next, 0x01, 0x02, "badges/2.png"},
		{"next past end", 3, action.Next, 0x02, 0x7F, "badges/2.png"},
		{"next from sentinel wraps", 3, action.Next, 0x7F, 0x00, "badges/0.png"},
		{"prev from zero", 3, action.Prev, 0x00, 0x7F, "badges/2.png"},
		{"prev from sentinel stays past end", 3, action.Prev, 0x7F, 0x7F, "badges/2.png"},
		{"wake advances", 4, action.Wake, 0x02, 0x03, "badges/3.png"},
		{"locked stale index", 3, action.Next, 0x85, 0x85, "badges/2.png"},
		{"locked in range", 3, action.Prev, 0x81, 0x81, "badges/1.png"},
		{"stale index after shrink", 2, action.Next, 0x05, 0x7F, "badges/1.png"},
		{"single file next", 1, action.Next, 0x00, 0x7F, "badges/0.png"},
		{"single file from sentinel", 1, action.Next, 0x7F, 0x00, "badges/0.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &recordingImage{}
			sel := New(img, fixedRand(0), logging.Nop())

			got, err := sel.Badge(badgeDir(t, tt.files), tt.action, tt.current)
			if err != nil {
				t.Fatalf("Badge() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Badge() = %s, want %s", got, tt.want)
			}
			if img.last() != tt.wantFile {
				t.Errorf("shown %q, want %q", img.last(), tt.wantFile)
			}
		})
	}
}

func TestBadgeWalkThreeFiles(t *testing.T) {
	dir := badgeDir(t, 3)
	sel := New(&recordingImage{}, fixedRand(0), logging.Nop())

	cur := state.Byte(0x00)
	var walk []state.Byte
	for range 4 {
		next, err := sel.Badge(dir, action.Next, cur)
		if err != nil {
			t.Fatal(err)
		}
		walk = append(walk, next)
		cur = next
	}

	want := []state.Byte{0x01, 0x02, 0x7F, 0x00}
	for i := range want {
		if walk[i] != want[i] {
			t.Errorf("walk = %v, want %v", walk, want)
			break
		}
	}
}

func TestBadgeEmptyDir(t *testing.T) {
	img := &recordingImage{}
	sel := New(img, fixedRand(0), logging.Nop())

	_, err := sel.Badge(badgeDir(t, 0), action.Next, 0)
	var le *fault.LoadError
	if !errors.As(err, &le) || le.Kind != fault.DirIter {
		t.Fatalf("Badge() error = %v, want DirIter", err)
	}
	if len(img.shown) != 0 {
		t.Errorf("nothing should be shown, got %v", img.shown)
	}
}

func TestBadgeDecodeErrorPropagates(t *testing.T) {
	decodeErr := fault.NewLoadError(fault.ImageParse, "badges/1.png", errors.New("bad huffman"))
	sel := New(&recordingImage{err: decodeErr}, fixedRand(0), logging.Nop())

	cur := state.Byte(0x00)
	got, err := sel.Badge(badgeDir(t, 3), action.Next, cur)
	if !errors.Is(err, decodeErr) {
		t.Errorf("Badge() error = %v, want decode error", err)
	}
	if got != cur {
		t.Errorf("state on error = %s, want unchanged %s", got, cur)
	}
}

func TestRandom(t *testing.T) {
	img := &recordingImage{}
	sel := New(img, fixedRand(2), logging.Nop())

	i, err := sel.Random(badgeDir(t, 4))
	if err != nil {
		t.Fatalf("Random() error: %v", err)
	}
	if i != 2 {
		t.Errorf("Random() = %d, want 2", i)
	}
	if img.last() != "badges/2.png" {
		t.Errorf("shown %q, want badges/2.png", img.last())
	}
}

func TestRandomEmptyDir(t *testing.T) {
	img := &recordingImage{}
	sel := New(img, fixedRand(0), logging.Nop())

	i, err := sel.Random(badgeDir(t, 0))
	if err != nil || i != 0 {
		t.Errorf("Random() = %d, %v, want 0, nil", i, err)
	}
	if len(img.shown) != 0 {
		t.Errorf("empty directory must not touch the display, got %v", img.shown)
	}
}

func TestRandomBadgeClearsLock(t *testing.T) {
	sel := New(&recordingImage{}, fixedRand(1), logging.Nop())

	got, err := sel.RandomBadge(badgeDir(t, 3))
	if err != nil {
		t.Fatal(err)
	}
	if got.Locked() || got.Index() != 1 {
		t.Errorf("RandomBadge() = %s, want unlocked index 1", got)
	}
}

func TestRandomStaysInRange(t *testing.T) {
	dir := badgeDir(t, 5)
	for pick := range 5 {
		img := &recordingImage{}
		sel := New(img, fixedRand(pick), logging.Nop())
		i, err := sel.Random(dir)
		if err != nil {
			t.Fatalf("pick %d: %v", pick, err)
		}
		if want := fmt.Sprintf("badges/%d.png", pick); img.last() != want || i != pick {
			t.Errorf("pick %d: shown %q (%d), want %q", pick, img.last(), i, want)
		}
	}
}
