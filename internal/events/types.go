package events

import "time"

// Event type constants for kelindar/event.
const (
	TypeCycleStarted uint32 = iota + 1
	TypeActionResolved
	TypeStateCommitted
	TypeWakeArmed
	TypeFault
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CycleStartedEvent is published at the top of every cycle.
type CycleStartedEvent struct {
	Cycle     uint64    `json:"cycle"`
	State     uint8     `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// Type returns the event type identifier for CycleStartedEvent.
func (e CycleStartedEvent) Type() uint32 { return TypeCycleStarted }

// ActionResolvedEvent carries the input of a cycle and the action it mapped to.
type ActionResolvedEvent struct {
	Cycle  uint64 `json:"cycle"`
	Button string `json:"button"`
	Action string `json:"action"`
}

// Type returns the event type identifier for ActionResolvedEvent.
func (e ActionResolvedEvent) Type() uint32 { return TypeActionResolved }

// StateCommittedEvent is published after the register write succeeded.
type StateCommittedEvent struct {
	Cycle    uint64 `json:"cycle"`
	Previous uint8  `json:"previous"`
	Current  uint8  `json:"current"`
	Locked   bool   `json:"locked"`
	Index    uint8  `json:"index"`
}

// Type returns the event type identifier for StateCommittedEvent.
func (e StateCommittedEvent) Type() uint32 { return TypeStateCommitted }

// WakeArmedEvent reports the wake interval the RTC accepted.
type WakeArmedEvent struct {
	Cycle    uint64        `json:"cycle"`
	Interval time.Duration `json:"interval"`
}

// Type returns the event type identifier for WakeArmedEvent.
func (e WakeArmedEvent) Type() uint32 { return TypeWakeArmed }

// FaultEvent is published once when the loop stops on a fatal error.
type FaultEvent struct {
	Cycle uint64 `json:"cycle"`
	Code  uint8  `json:"code"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Type returns the event type identifier for FaultEvent.
func (e FaultEvent) Type() uint32 { return TypeFault }
