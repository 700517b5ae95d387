package button

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

// timeline is a pin and clock in one: every pin read advances time by step,
// and the line reads low until releaseAt.
type timeline struct {
	now       time.Duration
	step      time.Duration
	releaseAt time.Duration
	err       error
	reads     int
}

func (tl *timeline) IsLow() (bool, error) {
	tl.reads++
	low := tl.now < tl.releaseAt
	tl.now += tl.step
	if tl.err != nil {
		return true, tl.err
	}
	return low, nil
}

func (tl *timeline) Now() time.Duration { return tl.now }

type recorder struct {
	events []Event
	times  []time.Duration
	tl     *timeline
	failOn *Event
}

func (r *recorder) HandleEvent(ev Event) error {
	r.events = append(r.events, ev)
	r.times = append(r.times, r.tl.now)
	if r.failOn != nil && *r.failOn == ev {
		return errors.New("handler failed")
	}
	return nil
}

func run(t *testing.T, releaseAt time.Duration, hasSecondary bool) ([]Event, Result, *Machine) {
	t.Helper()
	tl := &timeline{step: time.Millisecond, releaseAt: releaseAt}
	m := NewMachine(tl, tl, DefaultLongPress)
	rec := &recorder{tl: tl}
	res, err := m.Check(hasSecondary, rec)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !reflect.DeepEqual(rec.events, res.Events) {
		t.Fatalf("handler saw %v, result has %v", rec.events, res.Events)
	}
	return rec.events, res, m
}

func TestCheckReleasedIsIdle(t *testing.T) {
	for _, hasSecondary := range []bool{false, true} {
		for i := 0; i < 3; i++ {
			events, res, m := run(t, 0, hasSecondary)
			if !reflect.DeepEqual(events, []Event{EventIdle}) {
				t.Fatalf("events = %v, want [idle]", events)
			}
			if res.Transitions != 1 {
				t.Fatalf("transitions = %d, want 1", res.Transitions)
			}
			if _, pressed := m.PressedAt(); pressed {
				t.Fatal("press timestamp set for a released line")
			}
			if m.State() != StateEnd {
				t.Fatalf("state = %v, want end", m.State())
			}
		}
	}
}

func TestCheckShortPressWithoutSecondary(t *testing.T) {
	events, _, m := run(t, 50*time.Millisecond, false)
	want := []Event{EventShortDown, EventShortUp}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	if _, pressed := m.PressedAt(); pressed {
		t.Fatal("press timestamp not cleared")
	}
}

func TestCheckLongHoldWithoutSecondaryIsShort(t *testing.T) {
	events, _, _ := run(t, time.Second, false)
	want := []Event{EventShortDown, EventShortUp}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestCheckShortPressWithSecondary(t *testing.T) {
	events, _, _ := run(t, 50*time.Millisecond, true)
	want := []Event{EventShortDown, EventShortTriggered}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestCheckLongPress(t *testing.T) {
	tl := &timeline{step: time.Millisecond, releaseAt: time.Second}
	m := NewMachine(tl, tl, DefaultLongPress)
	rec := &recorder{tl: tl}
	res, err := m.Check(true, rec)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !reflect.DeepEqual(res.Events, []Event{EventLongTriggered}) {
		t.Fatalf("events = %v, want [long-triggered]", res.Events)
	}
	if res.Has(EventShortDown) || res.Has(EventShortTriggered) {
		t.Fatal("short events emitted for a long press")
	}
	// Delivered while the button was still held.
	if rec.times[0] >= tl.releaseAt {
		t.Fatalf("long-triggered delivered at %v, after release at %v", rec.times[0], tl.releaseAt)
	}
	if res.Held <= DefaultLongPress {
		t.Fatalf("held = %v, want > %v", res.Held, DefaultLongPress)
	}
	if _, pressed := m.PressedAt(); pressed {
		t.Fatal("press timestamp not cleared")
	}
}

func TestCheckHeldExactlyThresholdIsShort(t *testing.T) {
	// The press is stamped one step after the first read, so the up state
	// observes elapsed == releaseAt.
	events, res, _ := run(t, DefaultLongPress, true)
	if res.Held != DefaultLongPress {
		t.Fatalf("held = %v, want %v", res.Held, DefaultLongPress)
	}
	want := []Event{EventShortDown, EventShortTriggered}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestDecideLongPressBoundary(t *testing.T) {
	at := Sample{Low: true, HasSecondary: true, Elapsed: DefaultLongPress, LongPress: DefaultLongPress}
	if got := Decide(StateDown, at); got != TriggerStillDown {
		t.Fatalf("down at threshold = %v, want still-down", got)
	}
	at.Low = false
	if got := Decide(StateUp, at); got != TriggerShortHeld {
		t.Fatalf("up at threshold = %v, want short-held", got)
	}

	above := Sample{Low: true, HasSecondary: true, Elapsed: DefaultLongPress + 1, LongPress: DefaultLongPress}
	if got := Decide(StateDown, above); got != TriggerHeldLong {
		t.Fatalf("down above threshold = %v, want held-long", got)
	}
	above.Low = false
	if got := Decide(StateUp, above); got != TriggerUpAfterLong {
		t.Fatalf("up above threshold = %v, want up-after-long", got)
	}

	above.HasSecondary = false
	above.Low = true
	if got := Decide(StateDown, above); got != TriggerStillDown {
		t.Fatalf("down without secondary = %v, want still-down", got)
	}
}

func TestApplyTable(t *testing.T) {
	cases := []struct {
		state        State
		trigger      Trigger
		hasSecondary bool
		next         State
		events       []Event
	}{
		{StateStart, TriggerIsUp, false, StateEnd, []Event{EventIdle}},
		{StateStart, TriggerIsDown, false, StateDown, []Event{EventShortDown}},
		{StateStart, TriggerIsDown, true, StateDown, nil},
		{StateDown, TriggerHeldLong, true, StateDownButWaiting, []Event{EventLongTriggered}},
		{StateDown, TriggerStillDown, true, StateDown, nil},
		{StateDown, TriggerAnyUp, true, StateUp, nil},
		{StateDownButWaiting, TriggerStillDown, true, StateDownButWaiting, nil},
		{StateDownButWaiting, TriggerReleased, true, StateUp, nil},
		{StateUp, TriggerUpAfterLong, true, StateEnd, nil},
		{StateUp, TriggerShortHeld, true, StateEnd, []Event{EventShortDown, EventShortTriggered}},
		{StateUp, TriggerShortUp, false, StateEnd, []Event{EventShortUp}},
		{StateDown, TriggerIsUp, true, StateEnd, nil},
	}
	for _, tc := range cases {
		next, eff := Apply(tc.state, tc.trigger, tc.hasSecondary)
		if next != tc.next {
			t.Fatalf("%v/%v: next = %v, want %v", tc.state, tc.trigger, next, tc.next)
		}
		if !reflect.DeepEqual(eff.Events, tc.events) {
			t.Fatalf("%v/%v: events = %v, want %v", tc.state, tc.trigger, eff.Events, tc.events)
		}
	}
}

func TestCheckPinFaultIsReleased(t *testing.T) {
	tl := &timeline{step: time.Millisecond, releaseAt: time.Second, err: errors.New("bus fault")}
	m := NewMachine(tl, tl, DefaultLongPress)
	res, err := m.Check(true, nil)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !reflect.DeepEqual(res.Events, []Event{EventIdle}) {
		t.Fatalf("events = %v, want [idle]", res.Events)
	}
	if tl.reads != 1 {
		t.Fatalf("reads = %d, want 1", tl.reads)
	}
}

func TestCheckHandlerErrorStops(t *testing.T) {
	tl := &timeline{step: time.Millisecond, releaseAt: 50 * time.Millisecond}
	m := NewMachine(tl, tl, DefaultLongPress)
	fail := EventShortDown
	rec := &recorder{tl: tl, failOn: &fail}
	_, err := m.Check(false, rec)
	if err == nil {
		t.Fatal("expected handler error")
	}
	if !reflect.DeepEqual(rec.events, []Event{EventShortDown}) {
		t.Fatalf("events = %v, want [short-down]", rec.events)
	}
	if at, pressed := m.PressedAt(); pressed || at != 0 {
		t.Fatalf("PressedAt = %v, %v after abort, want 0, false", at, pressed)
	}
}
