package core

import (
	"context"
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
)

// FakeTimeProvider is a manually advanced clock. Timers fire on real time.
type FakeTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeTimeProvider creates a clock frozen at now
func NewFakeTimeProvider(now time.Time) *FakeTimeProvider {
	return &FakeTimeProvider{now: now}
}

// Now returns the frozen time
func (f *FakeTimeProvider) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t
func (f *FakeTimeProvider) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the clock forward by d
func (f *FakeTimeProvider) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func (f *FakeTimeProvider) Since(t time.Time) coreport.Duration {
	return coreport.Duration(f.Now().Sub(t))
}

// Sleep advances the clock instead of blocking
func (f *FakeTimeProvider) Sleep(d coreport.Duration) {
	f.Advance(d.Std())
}

func (f *FakeTimeProvider) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

func (f *FakeTimeProvider) AfterFunc(d coreport.Duration, fn func()) coreport.Timer {
	return &fakeTimer{timer: time.AfterFunc(d.Std(), fn)}
}

type fakeTimer struct {
	timer *time.Timer
}

func (t *fakeTimer) Reset(d coreport.Duration) bool { return t.timer.Reset(d.Std()) }
func (t *fakeTimer) Stop() bool                     { return t.timer.Stop() }
