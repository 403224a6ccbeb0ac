package entity

import (
	"time"
)

// MainLockID is the id of the single upload lock row
const MainLockID = "main"

// DefaultLockTimeout is how long an idle holder keeps the upload slot
const DefaultLockTimeout = 60 * time.Second

// LockState is a snapshot of the upload lock row
type LockState struct {
	ID        string
	Uploading bool
	Owner     string
	UpdatedAt time.Time
}

// UnlockedState returns the state of a free lock touched at t
func UnlockedState(t time.Time) LockState {
	return LockState{ID: MainLockID, UpdatedAt: t}
}

// IsStale reports whether the holder has been idle for at least timeout
func (s LockState) IsStale(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.UpdatedAt) >= timeout
}

// DeniesOwner reports whether an acquire by owner must be refused at now
func (s LockState) DeniesOwner(owner string, now time.Time, timeout time.Duration) bool {
	return s.Owner != "" && s.Owner != owner && !s.IsStale(now, timeout)
}
