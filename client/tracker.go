// Package client measures how long a signed-in learner actively views
// tracked pages and reports those durations to the tracking API.
package client

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"skillrise/api/routes"
)

// ViewContext is the page currently being timed.
type ViewContext struct {
	Identifier     string
	Classification string
}

type Options struct {
	Routes              routes.Table
	MinFlushSeconds     int
	HeartbeatInterval   time.Duration
	HeartbeatMinSeconds int
	Clock               Clock
	// Slot is where Unload parks the current interval. Nil disables
	// crash recovery.
	Slot *PendingSlot
}

func (o *Options) withDefaults() {
	if o.Routes.Exact == nil && o.Routes.Prefixes == nil {
		o.Routes = routes.DefaultTable()
	}
	if o.MinFlushSeconds <= 0 {
		o.MinFlushSeconds = 5
	}
	if o.HeartbeatInterval <= 0 {
		o.HeartbeatInterval = 120 * time.Second
	}
	if o.HeartbeatMinSeconds <= 0 {
		o.HeartbeatMinSeconds = 60
	}
	if o.Clock == nil {
		o.Clock = realClock{}
	}
}

// Tracker owns the dwell timer across navigation. It is either tracking a
// ViewContext or idle (untracked page or no signed-in user).
//
// One Tracker exists per application run: construct it at start-up, call
// Recover, feed it navigation, visibility and heartbeat events, then call
// Unload and Wait at exit. Event methods may be called from any goroutine;
// they are serialized internally.
//
// Flushes are fire-and-forget. The elapsed time is read before the request
// starts, the request runs on its own goroutine, and its outcome never
// changes tracker state. A failed flush is logged and lost, never retried.
type Tracker struct {
	mu sync.Mutex

	routes       routes.Table
	identity     Identity
	sender       Sender
	slot         *PendingSlot
	minFlush     int64
	heartbeatMin float64
	interval     time.Duration

	timer      *DwellTimer
	view       *ViewContext
	lastPath   string
	navigated  bool
	terminated bool

	inflight sync.WaitGroup
}

func NewTracker(identity Identity, sender Sender, opts Options) *Tracker {
	opts.withDefaults()
	return &Tracker{
		routes:       opts.Routes,
		identity:     identity,
		sender:       sender,
		slot:         opts.Slot,
		minFlush:     int64(opts.MinFlushSeconds),
		heartbeatMin: float64(opts.HeartbeatMinSeconds),
		interval:     opts.HeartbeatInterval,
		timer:        NewDwellTimer(opts.Clock),
	}
}

// Current returns the view being timed, if any.
func (t *Tracker) Current() (ViewContext, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.view == nil {
		return ViewContext{}, false
	}
	return *t.view, true
}

// Navigate handles a route change. The previous view's time is flushed and
// the timer restarts for the new one. Navigating to the current path is a
// re-render and does nothing.
func (t *Tracker) Navigate(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return
	}
	if t.navigated && path == t.lastPath {
		return
	}
	t.navigated = true
	t.lastPath = path

	if t.view != nil {
		t.flushLocked(*t.view, t.timer.ElapsedSeconds())
	}

	// A page opened while the tab is in the background starts hidden.
	hidden := t.timer.Hidden()
	t.timer.Start()
	if hidden {
		t.timer.VisibilityChanged(true)
	}

	page := t.routes.Classify(path)
	if page == "" || !t.identity.Recognized() {
		t.view = nil
		return
	}
	t.view = &ViewContext{Identifier: path, Classification: page}
}

// VisibilityChanged forwards a tab hidden/visible signal to the timer.
func (t *Tracker) VisibilityChanged(hidden bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return
	}
	t.timer.VisibilityChanged(hidden)
}

// Heartbeat flushes a long-running visible view without ending it, then
// restarts the timer so the flushed time is never reported again.
func (t *Tracker) Heartbeat() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated || t.view == nil || t.timer.Hidden() || !t.identity.Recognized() {
		return
	}
	elapsed := t.timer.ElapsedSeconds()
	if elapsed < t.heartbeatMin {
		return
	}
	t.flushLocked(*t.view, elapsed)
	t.timer.Start()
}

// Unload parks the current interval in the pending slot. It does no network
// I/O and ends this tracker's life; later events are ignored.
func (t *Tracker) Unload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.terminated {
		return
	}
	t.terminated = true

	if t.view == nil || t.slot == nil {
		return
	}
	seconds := roundSeconds(t.timer.ElapsedSeconds())
	if seconds < t.minFlush {
		return
	}
	sample := Sample{Page: t.view.Classification, Path: t.view.Identifier, DurationSeconds: seconds}
	if err := t.slot.Save(sample); err != nil {
		log.Printf("failed to park pending tracking sample for %s: %v", sample.Path, err)
	}
	t.view = nil
}

// Recover sends the interval parked by a previous Unload, if any. The slot
// is only consumed when a user is signed in.
func (t *Tracker) Recover() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.slot == nil || !t.identity.Recognized() {
		return
	}

	sample, err := t.slot.Take()
	if err != nil {
		log.Printf("failed to read pending tracking sample: %v", err)
		return
	}
	if sample == nil || sample.Page == "" || sample.Path == "" || sample.DurationSeconds < t.minFlush {
		return
	}
	t.dispatch(*sample)
}

// Run fires Heartbeat on the configured interval until ctx is done.
// Cancelling ctx does not cancel flushes already in flight.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Heartbeat()
		}
	}
}

// Wait blocks until every flush already dispatched has finished.
func (t *Tracker) Wait() {
	t.inflight.Wait()
}

// flushLocked rounds elapsed and dispatches it unless it is below the
// minimum or the view is untracked. Caller holds t.mu.
func (t *Tracker) flushLocked(view ViewContext, elapsed float64) {
	seconds := roundSeconds(elapsed)
	if view.Classification == "" || seconds < t.minFlush {
		return
	}
	if !t.identity.Recognized() {
		return
	}
	t.dispatch(Sample{Page: view.Classification, Path: view.Identifier, DurationSeconds: seconds})
}

// dispatch sends sample on its own goroutine. Failures are only logged.
func (t *Tracker) dispatch(sample Sample) {
	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		if err := t.sender.Send(context.Background(), sample); err != nil {
			log.Printf("tracking sample for %s dropped: %v", sample.Path, err)
		}
	}()
}

func roundSeconds(seconds float64) int64 {
	return int64(math.Round(seconds))
}
