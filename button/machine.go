// Package button classifies one press/hold/release cycle of a single sense
// line into short and long press events.
//
// The machine runs to completion: Check does not return until the button
// has been released (or was never pressed).
package button

import (
	"fmt"
	"time"
)

// DefaultLongPress is the hold time after which a press counts as long.
const DefaultLongPress = 200 * time.Millisecond

// State is a node of the interaction state machine.
type State uint8

const (
	StateStart State = iota
	StateDown
	StateDownButWaiting
	StateUp
	StateEnd
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateDown:
		return "down"
	case StateDownButWaiting:
		return "down-but-waiting"
	case StateUp:
		return "up"
	case StateEnd:
		return "end"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Trigger is what the decider of a state observed.
type Trigger uint8

const (
	TriggerIsUp Trigger = iota
	TriggerIsDown
	TriggerStillDown
	TriggerAnyUp
	TriggerHeldLong
	TriggerReleased
	TriggerUpAfterLong
	TriggerShortUp
	TriggerShortHeld
	TriggerIllegal
)

func (t Trigger) String() string {
	switch t {
	case TriggerIsUp:
		return "is-up"
	case TriggerIsDown:
		return "is-down"
	case TriggerStillDown:
		return "still-down"
	case TriggerAnyUp:
		return "any-up"
	case TriggerHeldLong:
		return "held-long"
	case TriggerReleased:
		return "released"
	case TriggerUpAfterLong:
		return "up-after-long"
	case TriggerShortUp:
		return "short-up"
	case TriggerShortHeld:
		return "short-held"
	default:
		return "illegal"
	}
}

// Event is a classified interaction emitted while the machine runs.
type Event uint8

const (
	// EventIdle means the line was released when sampled; the caller
	// moves on to the next address.
	EventIdle Event = iota
	EventShortDown
	EventShortUp
	EventShortTriggered
	EventLongTriggered
)

func (e Event) String() string {
	switch e {
	case EventIdle:
		return "idle"
	case EventShortDown:
		return "short-down"
	case EventShortUp:
		return "short-up"
	case EventShortTriggered:
		return "short-triggered"
	case EventLongTriggered:
		return "long-triggered"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// Sample is everything a decider looks at.
type Sample struct {
	Low          bool
	HasSecondary bool
	// Elapsed is the time since the recorded press; zero before a press.
	Elapsed   time.Duration
	LongPress time.Duration
}

func (s Sample) heldLong() bool {
	return s.HasSecondary && s.Elapsed > s.LongPress
}

// Decide picks the trigger for state given one sample.
func Decide(state State, s Sample) Trigger {
	switch state {
	case StateStart:
		if s.Low {
			return TriggerIsDown
		}
		return TriggerIsUp
	case StateDown:
		if s.heldLong() {
			return TriggerHeldLong
		}
		if s.Low {
			return TriggerStillDown
		}
		return TriggerAnyUp
	case StateDownButWaiting:
		if s.Low {
			return TriggerStillDown
		}
		return TriggerReleased
	case StateUp:
		if !s.HasSecondary {
			return TriggerShortUp
		}
		if s.heldLong() {
			return TriggerUpAfterLong
		}
		return TriggerShortHeld
	default:
		return TriggerIllegal
	}
}

// Effect is what a transition does besides changing state.
type Effect struct {
	Events []Event
	// MarkPressed records the press timestamp; ClearPressed drops it.
	MarkPressed  bool
	ClearPressed bool
}

// Apply returns the next state and effect of trigger in state. Triggers that
// are not valid for state lead to StateEnd with no effect.
func Apply(state State, trigger Trigger, hasSecondary bool) (State, Effect) {
	switch state {
	case StateStart:
		switch trigger {
		case TriggerIsUp:
			return StateEnd, Effect{Events: []Event{EventIdle}}
		case TriggerIsDown:
			eff := Effect{MarkPressed: true}
			if !hasSecondary {
				eff.Events = []Event{EventShortDown}
			}
			return StateDown, eff
		}
	case StateDown:
		switch trigger {
		case TriggerHeldLong:
			return StateDownButWaiting, Effect{Events: []Event{EventLongTriggered}}
		case TriggerStillDown:
			return StateDown, Effect{}
		case TriggerAnyUp:
			return StateUp, Effect{}
		}
	case StateDownButWaiting:
		switch trigger {
		case TriggerStillDown:
			return StateDownButWaiting, Effect{}
		case TriggerReleased:
			return StateUp, Effect{}
		}
	case StateUp:
		switch trigger {
		case TriggerUpAfterLong:
			return StateEnd, Effect{ClearPressed: true}
		case TriggerShortHeld:
			return StateEnd, Effect{
				Events:       []Event{EventShortDown, EventShortTriggered},
				ClearPressed: true,
			}
		case TriggerShortUp:
			return StateEnd, Effect{Events: []Event{EventShortUp}, ClearPressed: true}
		}
	}
	return StateEnd, Effect{}
}
