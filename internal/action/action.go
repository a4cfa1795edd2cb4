// Package action maps button and wake input to the single action a cycle performs.
package action

import "github.com/smazurov/inkbadge/internal/led"

// Action is what one cycle does.
type Action uint8

// Actions.
const (
	None Action = iota
	Next
	Prev
	Rand
	Wake
	Lock
)

func (a Action) String() string {
	switch a {
	case None:
		return "none"
	case Next:
		return "next"
	case Prev:
		return "prev"
	case Rand:
		return "rand"
	case Wake:
		return "wake"
	case Lock:
		return "lock"
	default:
		return "unknown"
	}
}

// Button is the input source of a cycle. RTC and External are wake sources,
// not physical keys.
type Button uint8

// Buttons.
const (
	NoButton Button = iota
	ButtonA
	ButtonB
	ButtonC
	ButtonD
	ButtonE
	ButtonRTC
	ButtonExternal
)

func (b Button) String() string {
	switch b {
	case NoButton:
		return "none"
	case ButtonA:
		return "a"
	case ButtonB:
		return "b"
	case ButtonC:
		return "c"
	case ButtonD:
		return "d"
	case ButtonE:
		return "e"
	case ButtonRTC:
		return "rtc"
	case ButtonExternal:
		return "external"
	default:
		return "unknown"
	}
}

// IsWake reports whether b is a wake source rather than a key.
func (b Button) IsWake() bool {
	return b == ButtonRTC || b == ButtonExternal
}

// LED returns the indicator next to a physical button.
func (b Button) LED() (led.LED, bool) {
	switch b {
	case ButtonA:
		return led.A, true
	case ButtonB:
		return led.B, true
	case ButtonC:
		return led.C, true
	case ButtonD:
		return led.D, true
	case ButtonE:
		return led.E, true
	default:
		return 0, false
	}
}

// Bindings maps physical buttons to actions.
type Bindings map[Button]Action

// DefaultBindings is the fixed badge layout.
func DefaultBindings() Bindings {
	return Bindings{
		ButtonA: None,
		ButtonB: Lock,
		ButtonC: Rand,
		ButtonD: Prev,
		ButtonE: Next,
	}
}

// Action returns the action for b. Any wake source resolves to Wake; unbound
// input resolves to None.
func (bs Bindings) Action(b Button) Action {
	if b.IsWake() {
		return Wake
	}
	if a, ok := bs[b]; ok {
		return a
	}
	return None
}
