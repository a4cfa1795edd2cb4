// Package cycle runs the badge's power cycle: read the persisted selection,
// act on the button that woke the board, show the result, write the selection
// back and go to sleep until the next press or alarm.
package cycle

import (
	"context"
	"errors"
	"time"

	"github.com/smazurov/inkbadge/internal/action"
	"github.com/smazurov/inkbadge/internal/events"
	"github.com/smazurov/inkbadge/internal/fault"
	"github.com/smazurov/inkbadge/internal/led"
	"github.com/smazurov/inkbadge/internal/logging"
	"github.com/smazurov/inkbadge/internal/selector"
	"github.com/smazurov/inkbadge/internal/state"
	"github.com/smazurov/inkbadge/internal/storage"
)

// Loop is the single control thread of the badge.
type Loop struct {
	volume     *storage.Volume
	register   Register
	alarm      Alarm
	power      Power
	buttons    Buttons
	display    Display
	leds       Indicators
	bus        Publisher
	dispatcher *action.Dispatcher
	selector   *selector.Selector
	timing     Timing
	sleep      Sleeper
	logger     logging.Logger

	cycle uint64
}

// New creates a loop from opts.
func New(opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	selectorLogger := opts.SelectorLogger
	if selectorLogger == nil {
		selectorLogger = logger
	}
	timing := opts.Timing
	if timing == (Timing{}) {
		timing = DefaultTiming()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	bus := opts.Bus
	if bus == nil {
		bus = discard{}
	}

	return &Loop{
		volume:     opts.Volume,
		register:   opts.Register,
		alarm:      opts.Alarm,
		power:      opts.Power,
		buttons:    opts.Buttons,
		display:    opts.Display,
		leds:       opts.LEDs,
		bus:        bus,
		dispatcher: action.NewDispatcher(opts.Bindings, opts.LEDs, logger),
		selector:   selector.New(opts.Display, opts.Rand, selectorLogger),
		timing:     timing,
		sleep:      sleep,
		logger:     logger,
	}
}

// Run repeats Cycle until it fails. A fatal error is shown on the LEDs until
// ctx is done and then returned. Cancellation returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		err := l.Cycle(ctx)
		if err == nil {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			l.logger.Info("Power cycle loop stopped", "cycle", l.cycle)
			return ctxErr
		}
		Halt(ctx, l.leds, l.bus, l.logger, l.cycle, l.timing.ErrorBlink, err)
		return err
	}
}

// Cycle runs one full pass: dispatch, commit, arm, power off, poll-sleep.
func (l *Loop) Cycle(ctx context.Context) error {
	l.cycle++
	l.leds.AllOff()

	raw, err := l.register.ReadByte()
	if err != nil {
		l.logger.Warn("Failed to read state register, starting from zero", "error", err)
		raw = 0
	}
	current := state.Byte(raw)
	l.bus.Publish(events.CycleStartedEvent{Cycle: l.cycle, State: raw, Timestamp: time.Now()})

	button := l.buttons.Pressed()
	act := l.dispatcher.Resolve(button)
	l.bus.Publish(events.ActionResolvedEvent{Cycle: l.cycle, Button: button.String(), Action: act.String()})
	l.logger.Debug("Cycle started", "cycle", l.cycle, "state", current.String(), "button", button.String(), "action", act.String())

	next, err := l.apply(ctx, act, current)
	if err != nil {
		return err
	}

	if err := l.commit(ctx, current, next); err != nil {
		return err
	}

	programmed, err := l.alarm.SetWake(l.timing.WakeInterval)
	if err != nil {
		return fault.New(fault.CodeWake, "arm wake alarm", err)
	}
	l.bus.Publish(events.WakeArmedEvent{Cycle: l.cycle, Interval: programmed})

	if err := l.power.PowerOff(ctx); err != nil {
		l.logger.Warn("Power-off failed, staying up", "error", err)
	}

	if err := l.pollSleep(ctx, programmed); err != nil {
		return err
	}

	if err := l.alarm.ClearAlarm(); err != nil {
		l.logger.Debug("Failed to clear alarm flag", "error", err)
	}
	if err := l.alarm.DisableAlarm(); err != nil {
		l.logger.Debug("Failed to disable alarm", "error", err)
	}
	return nil
}

// apply performs act on current and returns the state to persist.
func (l *Loop) apply(ctx context.Context, act action.Action, current state.Byte) (state.Byte, error) {
	switch {
	case act == action.None:
		return current, nil

	case act == action.Lock:
		next := current.ToggleLock()
		l.leds.Set(led.Network, next.Locked())
		l.leds.Set(led.Activity, !next.Locked())
		l.logger.Info("Lock toggled", "locked", next.Locked(), "index", next.Index())
		return next, l.sleep(ctx, l.timing.FeedbackPause)

	case act == action.Rand && current == 0:
		// Nothing has been selected yet.
		l.leds.AllOn()
		l.logger.Info("Random pick skipped on empty state")
		return current, l.sleep(ctx, l.timing.FeedbackPause)
	}

	l.display.Clear()
	backgrounds, err := l.volume.OpenDir(storage.BackgroundDir)
	if err != nil {
		return current, fault.Background(err)
	}
	if _, err := l.selector.Random(backgrounds); err != nil {
		return current, fault.Background(err)
	}

	l.leds.On(led.Network)

	badges, err := l.volume.OpenDir(storage.BadgeDir)
	if err != nil {
		return current, fault.Badge(err)
	}
	var next state.Byte
	if act == action.Rand {
		next, err = l.selector.RandomBadge(badges)
	} else {
		next, err = l.selector.Badge(badges, act, current)
	}
	if err != nil {
		return current, fault.Badge(err)
	}

	l.leds.Off(led.Activity)

	if err := l.display.Update(); err != nil {
		return current, fault.New(fault.CodeInvalidPins, "update panel", err)
	}
	return next, nil
}

// commit writes next back before anything can power the board down.
func (l *Loop) commit(ctx context.Context, previous, next state.Byte) error {
	l.leds.AllOff()
	if err := l.register.WriteByte(byte(next)); err != nil {
		return fault.New(fault.CodeByte, "write state register", err)
	}
	l.bus.Publish(events.StateCommittedEvent{
		Cycle:    l.cycle,
		Previous: uint8(previous),
		Current:  uint8(next),
		Locked:   next.Locked(),
		Index:    next.Index(),
	})
	l.logger.Info("State committed", "cycle", l.cycle, "previous", previous.String(), "state", next.String())
	return l.sleep(ctx, l.timing.CommitPause)
}

// pollSleep waits up to budget for a press. Without one the next cycle is
// treated as an RTC wake.
func (l *Loop) pollSleep(ctx context.Context, budget time.Duration) error {
	step := l.timing.PollStep
	if step <= 0 {
		return errors.New("poll step must be positive")
	}
	for waited := time.Duration(0); waited < budget; waited += step {
		if l.buttons.Poll() {
			l.logger.Debug("Woken by button", "after", waited)
			return nil
		}
		if err := l.sleep(ctx, step); err != nil {
			return err
		}
	}
	if l.buttons.Poll() {
		return nil
	}
	l.logger.Debug("Wake interval elapsed", "interval", budget)
	l.buttons.Set(action.ButtonRTC)
	return nil
}

// Halt publishes and logs a fatal error, then shows it on the LEDs until ctx
// is done.
func Halt(ctx context.Context, leds Indicators, bus Publisher, logger logging.Logger, cycle uint64, blink time.Duration, err error) {
	code := fault.CodeOf(err)
	if code == fault.CodeNone {
		code = fault.CodeReserved
	}
	if bus != nil {
		bus.Publish(events.FaultEvent{Cycle: cycle, Code: uint8(code), Name: code.String(), Error: err.Error()})
	}
	logger.Error("Fatal error, halting", "code", uint8(code), "fault", code.String(), "error", err)
	fault.Signal(ctx, leds, blink, err)
}

type discard struct{}

func (discard) Publish(events.Event) {}
