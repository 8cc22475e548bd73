package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeSender struct {
	mu      sync.Mutex
	samples []Sample
	err     error
}

func (s *fakeSender) Send(_ context.Context, sample Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	return s.err
}

func (s *fakeSender) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sample(nil), s.samples...)
}

type fakeIdentity struct {
	mu         sync.Mutex
	recognized bool
}

func (f *fakeIdentity) Recognized() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.recognized
}

func (f *fakeIdentity) Set(recognized bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recognized = recognized
}

func (f *fakeIdentity) Token(_ context.Context) (string, error) {
	if !f.Recognized() {
		return "", ErrNotRecognized
	}
	return "token", nil
}

var errNetwork = errors.New("network unreachable")
