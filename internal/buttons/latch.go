package buttons

import (
	"sync"

	"github.com/smazurov/inkbadge/internal/action"
)

// Latch holds the first input of a cycle until the loop consumes it.
type Latch struct {
	mu      sync.Mutex
	pressed action.Button
}

// Set latches b unless something is already latched.
func (l *Latch) Set(b action.Button) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pressed == action.NoButton {
		l.pressed = b
	}
}

// Poll reports whether an input is latched, without consuming it.
func (l *Latch) Poll() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pressed != action.NoButton
}

// Pressed consumes and returns the latched input.
func (l *Latch) Pressed() action.Button {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.pressed
	l.pressed = action.NoButton
	return b
}
