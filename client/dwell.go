package client

import "time"

// DwellTimer measures how long the current view has been visible since the
// last Start. Hidden time never counts. It is not safe for concurrent use;
// Tracker serializes access to it.
type DwellTimer struct {
	clock        Clock
	accumulated  time.Duration
	hidden       bool
	visibleSince time.Time
}

// NewDwellTimer returns a started timer.
func NewDwellTimer(clock Clock) *DwellTimer {
	if clock == nil {
		clock = realClock{}
	}
	d := &DwellTimer{clock: clock}
	d.Start()
	return d
}

// Start resets the accumulator and begins a visible interval now.
func (d *DwellTimer) Start() {
	d.accumulated = 0
	d.hidden = false
	d.visibleSince = d.clock.Now()
}

// VisibilityChanged commits or resumes the visible interval. Repeating the
// current state is a no-op.
func (d *DwellTimer) VisibilityChanged(hidden bool) {
	if hidden == d.hidden {
		return
	}
	now := d.clock.Now()
	if hidden {
		d.accumulated += visibleSpan(d.visibleSince, now)
		d.hidden = true
		return
	}
	d.visibleSince = now
	d.hidden = false
}

// Elapsed returns the visible time since Start without changing state.
func (d *DwellTimer) Elapsed() time.Duration {
	total := d.accumulated
	if !d.hidden {
		total += visibleSpan(d.visibleSince, d.clock.Now())
	}
	return total
}

func (d *DwellTimer) ElapsedSeconds() float64 {
	return d.Elapsed().Seconds()
}

func (d *DwellTimer) Hidden() bool {
	return d.hidden
}

// visibleSpan clamps to zero if the wall clock stepped backwards.
func visibleSpan(from, to time.Time) time.Duration {
	if span := to.Sub(from); span > 0 {
		return span
	}
	return 0
}
