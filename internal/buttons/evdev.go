// Package buttons reads the badge keys from a Linux input device.
package buttons

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/holoplot/go-evdev"

	"github.com/smazurov/inkbadge/internal/action"
	"github.com/smazurov/inkbadge/internal/logging"
)

// KeyMap maps input key codes to buttons.
type KeyMap map[evdev.EvCode]action.Button

// DefaultKeyMap is the gpio-keys layout shipped in the device tree overlay.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		evdev.KEY_A:      action.ButtonA,
		evdev.KEY_B:      action.ButtonB,
		evdev.KEY_C:      action.ButtonC,
		evdev.KEY_D:      action.ButtonD,
		evdev.KEY_E:      action.ButtonE,
		evdev.KEY_WAKEUP: action.ButtonExternal,
	}
}

// KeyMapFromCodes maps five key codes to buttons A-E in order. KEY_WAKEUP
// always maps to an external wake.
func KeyMapFromCodes(codes []int) (KeyMap, error) {
	buttons := []action.Button{action.ButtonA, action.ButtonB, action.ButtonC, action.ButtonD, action.ButtonE}
	if len(codes) != len(buttons) {
		return nil, fmt.Errorf("need %d key codes for buttons A-E, got %d", len(buttons), len(codes))
	}
	m := KeyMap{evdev.KEY_WAKEUP: action.ButtonExternal}
	for i, code := range codes {
		if code <= 0 || code > 0x2ff {
			return nil, fmt.Errorf("key code %d out of range", code)
		}
		if _, dup := m[evdev.EvCode(code)]; dup {
			return nil, fmt.Errorf("key code %d bound twice", code)
		}
		m[evdev.EvCode(code)] = buttons[i]
	}
	return m, nil
}

// Reader feeds key presses from an input device into a Latch.
type Reader struct {
	dev    *evdev.InputDevice
	keys   KeyMap
	latch  *Latch
	logger logging.Logger
}

// Open opens the input device named by device, either a /dev/input path or
// a device name such as "gpio-keys".
func Open(device string, keys KeyMap, latch *Latch, logger logging.Logger) (*Reader, error) {
	path := device
	if !strings.HasPrefix(device, "/dev/") {
		paths, err := evdev.ListDevicePaths()
		if err != nil {
			return nil, fmt.Errorf("list input devices: %w", err)
		}
		path = ""
		for _, ip := range paths {
			if ip.Name == device {
				path = ip.Path
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("input device %q not found", device)
		}
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := dev.Grab(); err != nil {
		logger.Warn("Failed to grab input device", "path", path, "error", err)
	}

	name, _ := dev.Name()
	logger.Info("Using input device", "path", path, "name", name)

	return &Reader{dev: dev, keys: keys, latch: latch, logger: logger}, nil
}

// Run reads events until ctx is done or the device fails.
func (r *Reader) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = r.dev.Ungrab()
		_ = r.dev.Close()
	})
	defer stop()

	for {
		ev, err := r.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read input event: %w", err)
		}
		r.handle(ev)
	}
}

// LatchHeld latches a key that is already down, usually the press that
// powered the board up. The lowest button wins when several are held.
func (r *Reader) LatchHeld() error {
	held, err := r.dev.State(evdev.EV_KEY)
	if err != nil {
		return fmt.Errorf("read key state: %w", err)
	}
	r.latchHeld(held)
	return nil
}

func (r *Reader) latchHeld(held map[evdev.EvCode]bool) {
	first := action.NoButton
	for code, down := range held {
		b, ok := r.keys[code]
		if !down || !ok {
			continue
		}
		if first == action.NoButton || b < first {
			first = b
		}
	}
	if first != action.NoButton {
		r.logger.Debug("Key held at startup", "button", first.String())
		r.latch.Set(first)
	}
}

// Close releases the device.
func (r *Reader) Close() error {
	return errors.Join(r.dev.Ungrab(), r.dev.Close())
}

func (r *Reader) handle(ev *evdev.InputEvent) {
	if ev.Type != evdev.EV_KEY || ev.Value != 1 {
		return
	}
	b, ok := r.keys[ev.Code]
	if !ok {
		r.logger.Debug("Unbound key", "code", int(ev.Code))
		return
	}
	r.logger.Debug("Key pressed", "button", b.String())
	r.latch.Set(b)
}
