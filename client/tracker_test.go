package client

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	clock    *fakeClock
	sender   *fakeSender
	identity *fakeIdentity
	slot     *PendingSlot
	tracker  *Tracker
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:    newFakeClock(),
		sender:   &fakeSender{},
		identity: &fakeIdentity{recognized: true},
		slot:     NewPendingSlot(filepath.Join(t.TempDir(), "slot.json")),
	}
	h.tracker = NewTracker(h.identity, h.sender, Options{Clock: h.clock, Slot: h.slot})
	return h
}

func (h *harness) samples() []Sample {
	h.tracker.Wait()
	return h.sender.Samples()
}

func TestTracker_FlushesPreviousViewOnNavigation(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/community")
	h.clock.Advance(30 * time.Second)
	h.tracker.Navigate("/roadmap")

	assert.Equal(t, []Sample{{Page: "Community", Path: "/community", DurationSeconds: 30}}, h.samples())

	view, ok := h.tracker.Current()
	require.True(t, ok)
	assert.Equal(t, ViewContext{Identifier: "/roadmap", Classification: "Roadmap"}, view)
}

func TestTracker_MinimumThreshold(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    []Sample
	}{
		{"4s dropped", 4 * time.Second, nil},
		{"4.4s rounds down and is dropped", 4400 * time.Millisecond, nil},
		{"4.6s rounds up to 5", 4600 * time.Millisecond, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 5}}},
		{"exactly 5s", 5 * time.Second, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 5}}},
		{"47.5s rounds to 48", 47500 * time.Millisecond, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 48}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.tracker.Navigate("/roadmap")
			h.clock.Advance(tt.elapsed)
			h.tracker.Navigate("/")
			assert.Equal(t, tt.want, h.samples())
		})
	}
}

func TestTracker_SamePathIsNotATransition(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/roadmap")
	h.clock.Advance(30 * time.Second)
	h.tracker.Navigate("/roadmap")
	h.clock.Advance(10 * time.Second)
	h.tracker.Navigate("/")

	assert.Equal(t, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 40}}, h.samples())
}

func TestTracker_UntrackedPageIsIdle(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/")
	_, ok := h.tracker.Current()
	assert.False(t, ok)

	h.clock.Advance(100 * time.Second)
	h.tracker.Navigate("/course-list")
	h.clock.Advance(100 * time.Second)
	h.tracker.Navigate("/roadmap")

	assert.Empty(t, h.samples())
}

func TestTracker_NoUserIsIdle(t *testing.T) {
	h := newHarness(t)
	h.identity.Set(false)

	h.tracker.Navigate("/roadmap")
	_, ok := h.tracker.Current()
	assert.False(t, ok)

	h.clock.Advance(time.Minute)
	h.tracker.Heartbeat()
	h.tracker.Navigate("/community")
	assert.Empty(t, h.samples())
}

func TestTracker_SignOutMidViewDropsFlush(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/roadmap")
	h.clock.Advance(time.Minute)
	h.identity.Set(false)
	h.tracker.Navigate("/community")

	assert.Empty(t, h.samples())
}

func TestTracker_HiddenTimeExcluded(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/roadmap")
	h.clock.Advance(10 * time.Second)
	h.tracker.VisibilityChanged(true)
	h.clock.Advance(10 * time.Minute)
	h.tracker.VisibilityChanged(false)
	h.clock.Advance(10 * time.Second)
	h.tracker.Navigate("/")

	assert.Equal(t, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 20}}, h.samples())
}

func TestTracker_NavigationWhileHiddenStartsHidden(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/roadmap")
	h.clock.Advance(10 * time.Second)
	h.tracker.VisibilityChanged(true)
	h.tracker.Navigate("/community")
	h.clock.Advance(5 * time.Minute)
	h.tracker.VisibilityChanged(false)
	h.clock.Advance(6 * time.Second)
	h.tracker.Navigate("/")

	assert.ElementsMatch(t, []Sample{
		{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 10},
		{Page: "Community", Path: "/community", DurationSeconds: 6},
	}, h.samples())
}

func TestTracker_HeartbeatFlushesAndResets(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/player/C1")

	h.clock.Advance(125 * time.Second)
	h.tracker.Heartbeat()
	require.Equal(t, []Sample{{Page: "Learning", Path: "/player/C1", DurationSeconds: 125}}, h.samples())

	h.tracker.mu.Lock()
	after := h.tracker.timer.Elapsed()
	h.tracker.mu.Unlock()
	assert.Zero(t, after)

	// A heartbeat right after must not report the same interval again.
	h.tracker.Heartbeat()
	assert.Len(t, h.samples(), 1)

	h.clock.Advance(120 * time.Second)
	h.tracker.Heartbeat()
	h.clock.Advance(30 * time.Second)
	h.tracker.Navigate("/")

	got := h.samples()
	assert.ElementsMatch(t, []Sample{
		{Page: "Learning", Path: "/player/C1", DurationSeconds: 125},
		{Page: "Learning", Path: "/player/C1", DurationSeconds: 120},
		{Page: "Learning", Path: "/player/C1", DurationSeconds: 30},
	}, got)

	var total int64
	for _, s := range got {
		total += s.DurationSeconds
	}
	assert.Equal(t, int64(275), total)
}

func TestTracker_HeartbeatGuards(t *testing.T) {
	t.Run("below minimum", func(t *testing.T) {
		h := newHarness(t)
		h.tracker.Navigate("/roadmap")
		h.clock.Advance(59 * time.Second)
		h.tracker.Heartbeat()
		assert.Empty(t, h.samples())
	})

	t.Run("hidden", func(t *testing.T) {
		h := newHarness(t)
		h.tracker.Navigate("/roadmap")
		h.clock.Advance(90 * time.Second)
		h.tracker.VisibilityChanged(true)
		h.tracker.Heartbeat()
		assert.Empty(t, h.samples())

		h.tracker.VisibilityChanged(false)
		h.clock.Advance(time.Second)
		h.tracker.Navigate("/")
		assert.Equal(t, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 91}}, h.samples())
	})

	t.Run("idle", func(t *testing.T) {
		h := newHarness(t)
		h.tracker.Navigate("/")
		h.clock.Advance(5 * time.Minute)
		h.tracker.Heartbeat()
		assert.Empty(t, h.samples())
	})
}

func TestTracker_UnloadParksSampleWithoutNetwork(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/community")
	h.clock.Advance(42 * time.Second)
	h.tracker.Unload()

	assert.Empty(t, h.samples())

	got, err := h.slot.Take()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, Sample{Page: "Community", Path: "/community", DurationSeconds: 42}, *got)
}

func TestTracker_UnloadIsTerminal(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/community")
	h.clock.Advance(42 * time.Second)
	h.tracker.Unload()

	h.clock.Advance(time.Minute)
	h.tracker.Navigate("/roadmap")
	h.tracker.Heartbeat()
	h.tracker.Unload()

	assert.Empty(t, h.samples())
	got, err := h.slot.Take()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.DurationSeconds)
}

func TestTracker_UnloadBelowMinimumWritesNothing(t *testing.T) {
	h := newHarness(t)
	h.tracker.Navigate("/community")
	h.clock.Advance(3 * time.Second)
	h.tracker.Unload()

	_, err := os.Stat(h.slot.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestTracker_RecoverSendsParkedSampleOnce(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.slot.Save(Sample{Page: "Community", Path: "/community", DurationSeconds: 42}))

	h.tracker.Recover()
	h.tracker.Recover()

	assert.Equal(t, []Sample{{Page: "Community", Path: "/community", DurationSeconds: 42}}, h.samples())
	_, err := os.Stat(h.slot.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestTracker_RecoverWaitsForUser(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.slot.Save(Sample{Page: "Community", Path: "/community", DurationSeconds: 42}))
	h.identity.Set(false)

	h.tracker.Recover()
	assert.Empty(t, h.samples())
	_, err := os.Stat(h.slot.Path())
	assert.NoError(t, err)

	h.identity.Set(true)
	h.tracker.Recover()
	assert.Len(t, h.samples(), 1)
}

func TestTracker_RecoverDiscardsBadSlot(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"corrupted", "{{{"},
		{"too short", `{"page":"Community","path":"/community","duration":3}`},
		{"missing page", `{"path":"/community","duration":30}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			require.NoError(t, os.WriteFile(h.slot.Path(), []byte(tt.data), 0o600))

			h.tracker.Recover()

			assert.Empty(t, h.samples())
			_, err := os.Stat(h.slot.Path())
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestTracker_SendFailureDoesNotBlockNavigation(t *testing.T) {
	h := newHarness(t)
	h.sender.err = errNetwork

	h.tracker.Navigate("/roadmap")
	h.clock.Advance(20 * time.Second)
	h.tracker.Navigate("/community")
	h.clock.Advance(20 * time.Second)
	h.tracker.Navigate("/")

	assert.ElementsMatch(t, []Sample{
		{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 20},
		{Page: "Community", Path: "/community", DurationSeconds: 20},
	}, h.samples())
}

func TestTracker_RunDrivesHeartbeat(t *testing.T) {
	clock := newFakeClock()
	sender := &fakeSender{}
	tr := NewTracker(&fakeIdentity{recognized: true}, sender, Options{
		Clock:             clock,
		HeartbeatInterval: 5 * time.Millisecond,
	})
	tr.Navigate("/roadmap")
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tr.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(sender.Samples()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	tr.Wait()
	assert.Equal(t, []Sample{{Page: "Roadmap", Path: "/roadmap", DurationSeconds: 120}}, sender.Samples())
}
