package sequence

import (
	"context"
	"fmt"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/staff-registry/internal/domain/error"
	coreport "github.com/amirhossein-jamali/staff-registry/internal/domain/port/core"
)

// DefaultSessionTTL is how long an idle session's sequence is remembered
const DefaultSessionTTL = 10 * time.Minute

type position struct {
	next    int
	touched time.Time
}

// MemoryTracker keeps chunk sequences in process memory
type MemoryTracker struct {
	mu           sync.Mutex
	sessions     map[string]position
	ttl          time.Duration
	timeProvider coreport.TimeProvider
}

// NewMemoryTracker creates an in-memory tracker; idle sessions expire after ttl
func NewMemoryTracker(timeProvider coreport.TimeProvider, ttl time.Duration) *MemoryTracker {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryTracker{
		sessions:     make(map[string]position),
		ttl:          ttl,
		timeProvider: timeProvider,
	}
}

// Claim accepts index when it is 0 or the next expected index of the session
func (m *MemoryTracker) Claim(ctx context.Context, sessionID string, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := m.timeProvider.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.evict(now)

	if index == 0 {
		m.sessions[sessionID] = position{next: 1, touched: now}
		return nil
	}

	pos, ok := m.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: session %s has not sent chunk 0", errs.ErrChunkOutOfOrder, sessionID)
	}
	if pos.next != index {
		return fmt.Errorf("%w: expected chunk %d, got %d", errs.ErrChunkOutOfOrder, pos.next, index)
	}

	m.sessions[sessionID] = position{next: index + 1, touched: now}
	return nil
}

// Forget drops the session
func (m *MemoryTracker) Forget(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}

// Len returns how many sessions are tracked
func (m *MemoryTracker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// evict must be called with mu held
func (m *MemoryTracker) evict(now time.Time) {
	for id, pos := range m.sessions {
		if now.Sub(pos.touched) >= m.ttl {
			delete(m.sessions, id)
		}
	}
}
