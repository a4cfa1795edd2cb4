package action

import (
	"testing"

	"github.com/smazurov/inkbadge/internal/led"
	"github.com/smazurov/inkbadge/internal/logging"
)

type litLEDs []led.LED

func (l *litLEDs) On(x led.LED) { *l = append(*l, x) }

func TestDefaultBindings(t *testing.T) {
	tests := []struct {
		button Button
		want   Action
	}{
		{NoButton, None},
		{ButtonA, None},
		{ButtonB, Lock},
		{ButtonC, Rand},
		{ButtonD, Prev},
		{ButtonE, Next},
		{ButtonRTC, Wake},
		{ButtonExternal, Wake},
		{Button(99), None},
	}

	bindings := DefaultBindings()
	for _, tt := range tests {
		t.Run(tt.button.String(), func(t *testing.T) {
			if got := bindings.Action(tt.button); got != tt.want {
				t.Errorf("Action(%s) = %s, want %s", tt.button, got, tt.want)
			}
		})
	}
}

func TestResolveLightsLEDs(t *testing.T) {
	tests := []struct {
		button Button
		want   []led.LED
	}{
		{ButtonA, []led.LED{led.A, led.Activity}},
		{ButtonE, []led.LED{led.E, led.Activity}},
		{ButtonRTC, []led.LED{led.Activity}},
		{NoButton, []led.LED{led.Activity}},
	}

	for _, tt := range tests {
		t.Run(tt.button.String(), func(t *testing.T) {
			var lit litLEDs
			d := NewDispatcher(nil, &lit, logging.Nop())
			d.Resolve(tt.button)

			if len(lit) != len(tt.want) {
				t.Fatalf("lit = %v, want %v", lit, tt.want)
			}
			for i := range tt.want {
				if lit[i] != tt.want[i] {
					t.Errorf("lit[%d] = %s, want %s", i, lit[i], tt.want[i])
				}
			}
		})
	}
}

func TestCustomBindings(t *testing.T) {
	var lit litLEDs
	d := NewDispatcher(Bindings{ButtonA: Next}, &lit, logging.Nop())

	if got := d.Resolve(ButtonA); got != Next {
		t.Errorf("Resolve(A) = %s, want next", got)
	}
	if got := d.Resolve(ButtonE); got != None {
		t.Errorf("Resolve(E) = %s, want none", got)
	}
}
