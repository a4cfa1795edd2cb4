package cycle

import (
	"context"
	"io"
	"time"

	"github.com/smazurov/inkbadge/internal/action"
	"github.com/smazurov/inkbadge/internal/events"
	"github.com/smazurov/inkbadge/internal/led"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/selector"
	"github.com/smazurov/inkbadge/internal/storage"
)

// Register is the one-byte store that survives power-off.
type Register interface {
	ReadByte() (byte, error)
	WriteByte(b byte) error
}

// Alarm schedules the next wake-up.
type Alarm interface {
	// SetWake arms the alarm and returns the interval actually programmed.
	SetWake(d time.Duration) (time.Duration, error)
	ClearAlarm() error
	DisableAlarm() error
}

// Power cuts the supply. It returns when the board stays up, which means
// mains power.
type Power interface {
	PowerOff(ctx context.Context) error
}

// Buttons hands the first input of a cycle to the loop.
type Buttons interface {
	Poll() bool
	Pressed() action.Button
	Set(b action.Button)
}

// Display composes images and pushes them to the panel.
type Display interface {
	Clear()
	SetImage(path string, r io.Reader) error
	Update() error
}

// Indicators is the badge LED set.
type Indicators interface {
	Set(l led.LED, on bool)
	On(l led.LED)
	Off(l led.LED)
	AllOn()
	AllOff()
}

// Publisher receives cycle telemetry.
type Publisher interface {
	Publish(ev events.Event)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Timing holds the loop's fixed delays.
type Timing struct {
	// PollStep is the granularity of the manual poll-sleep.
	PollStep time.Duration
	// WakeInterval is the alarm interval requested every cycle.
	WakeInterval time.Duration
	// FeedbackPause keeps LED feedback visible after Lock and the empty Rand.
	FeedbackPause time.Duration
	// CommitPause follows the state write.
	CommitPause time.Duration
	// ErrorBlink is the half-period of the fault blink.
	ErrorBlink time.Duration
}

// DefaultTiming returns the build-time timing constants.
func DefaultTiming() Timing {
	return Timing{
		PollStep:      50 * time.Millisecond,
		WakeInterval:  15 * time.Minute,
		FeedbackPause: 2 * time.Second,
		CommitPause:   2500 * time.Millisecond,
		ErrorBlink:    1500 * time.Millisecond,
	}
}

// Options configures a new Loop.
type Options struct {
	// Volume holds the badge and background directories (required).
	Volume *storage.Volume

	// Register, Alarm, Power, Buttons, Display and LEDs are the board (required).
	Register Register
	Alarm    Alarm
	Power    Power
	Buttons  Buttons
	Display  Display
	LEDs     Indicators

	// Rand drives random selection (required).
	Rand selector.Rand

	// Bindings maps buttons to actions. Nil uses action.DefaultBindings.
	Bindings action.Bindings

	// Bus receives cycle events (optional).
	Bus Publisher

	// Timing overrides DefaultTiming when non-zero (optional).
	Timing Timing

	// Sleep replaces the context-aware timer sleep (optional, tests).
	Sleep Sleeper

	// Logger for loop operations. If nil, logging.Nop is used.
	Logger logging.Logger
	// SelectorLogger receives badge selection logs. Defaults to Logger.
	SelectorLogger logging.Logger
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
