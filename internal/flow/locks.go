package flow

import "sync"

// UserLocks serializes session transitions per user while letting distinct
// users proceed concurrently. The engine and the authorization resolver share
// one instance so inbound events and out-of-band decisions for the same user
// never interleave. Locks are never reclaimed; the population is bounded by
// the number of users the bot has ever seen.
type UserLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewUserLocks constructs an empty lock table.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[int64]*sync.Mutex)}
}

// Acquire blocks until the user's lock is held and returns the release func.
func (u *UserLocks) Acquire(userID int64) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}
