package search

import (
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultQuietInterval is how long input must pause before a search fires.
const DefaultQuietInterval = 500 * time.Millisecond

// Debouncer turns a stream of keystrokes into at most one search per quiet
// period.
type Debouncer struct {
	clock clock.Clock
	wait  time.Duration
	fire  func(text string)
}

// NewDebouncer returns a Debouncer that calls fire with the latest text once
// wait has passed without a new keystroke. A nil clock means the wall clock.
func NewDebouncer(c clock.Clock, wait time.Duration, fire func(text string)) *Debouncer {
	if c == nil {
		c = clock.New()
	}
	if wait <= 0 {
		wait = DefaultQuietInterval
	}
	return &Debouncer{clock: c, wait: wait, fire: fire}
}

// OnKeystroke cancels pending, if any, schedules a search for text and returns
// the new timer for the caller to keep.
//
// The quiet window is half-open: a timer due at the exact instant of the next
// keystroke has already fired, so keystrokes at 0, 100, 200 and 700ms search
// for the 200ms text at 700ms and for the 700ms text at 1200ms. Callers that
// must apply only the newest text compare it on arrival, as the listing
// controller does.
func (d *Debouncer) OnKeystroke(text string, pending *clock.Timer) *clock.Timer {
	if pending != nil {
		pending.Stop()
	}
	return d.clock.AfterFunc(d.wait, func() { d.fire(text) })
}
