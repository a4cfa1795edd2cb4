package led

import "github.com/smazurov/inkbadge/internal/logging"

// LED is one of the badge's indicator lights.
type LED uint8

// Indicator LEDs. A-E sit next to the matching buttons.
const (
	A LED = iota
	B
	C
	D
	E
	Activity
	Network
)

var indicatorNames = [...]string{
	A:        "a",
	B:        "b",
	C:        "c",
	D:        "d",
	E:        "e",
	Activity: "activity",
	Network:  "network",
}

// All lists every indicator in display order.
var All = []LED{A, B, C, D, E, Activity, Network}

func (l LED) String() string {
	if int(l) < len(indicatorNames) {
		return indicatorNames[l]
	}
	return "INVALID"
}

// Indicators drives the badge's indicator set through a Controller.
// LED failures are logged and never returned; an indicator is never worth
// aborting a cycle for.
type Indicators struct {
	ctrl   Controller
	logger logging.Logger
}

// NewIndicators wraps ctrl.
func NewIndicators(ctrl Controller, logger logging.Logger) *Indicators {
	return &Indicators{ctrl: ctrl, logger: logger}
}

// Set switches one indicator.
func (i *Indicators) Set(l LED, on bool) {
	if err := i.ctrl.Set(l.String(), on); err != nil {
		i.logger.Warn("Failed to set LED", "led", l.String(), "on", on, "error", err)
	}
}

// On lights one indicator.
func (i *Indicators) On(l LED) { i.Set(l, true) }

// Off turns one indicator off.
func (i *Indicators) Off(l LED) { i.Set(l, false) }

// AllOn lights every indicator.
func (i *Indicators) AllOn() {
	for _, l := range All {
		i.Set(l, true)
	}
}

// AllOff turns every indicator off.
func (i *Indicators) AllOff() {
	for _, l := range All {
		i.Set(l, false)
	}
}
