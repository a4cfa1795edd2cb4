package action

import (
	"github.com/smazurov/inkbadge/internal/led"
	"github.com/smazurov/inkbadge/internal/logging"
)

// Indicators is the part of the LED set the dispatcher drives.
type Indicators interface {
	On(l led.LED)
}

// Dispatcher resolves the cycle's input to an Action and shows it on the LEDs.
type Dispatcher struct {
	bindings Bindings
	leds     Indicators
	logger   logging.Logger
}

// NewDispatcher creates a dispatcher. Nil bindings use DefaultBindings.
func NewDispatcher(bindings Bindings, leds Indicators, logger logging.Logger) *Dispatcher {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Dispatcher{bindings: bindings, leds: leds, logger: logger}
}

// Resolve lights the pressed button's LED, then the activity LED, and returns
// the bound action.
func (d *Dispatcher) Resolve(b Button) Action {
	if l, ok := b.LED(); ok {
		d.leds.On(l)
	}
	d.leds.On(led.Activity)

	a := d.bindings.Action(b)
	d.logger.Debug("Resolved action", "button", b.String(), "action", a.String())
	return a
}
