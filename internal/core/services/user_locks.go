package services

import "sync"

// UserLockManager provides mutual exclusion scoped per user identifier.
// Operations on one user's wallet are serialised so the credit/debit and
// ledger-append pair is linearizable per user, while operations on
// different users proceed independently. The reconciler takes the same
// lock so it observes a consistent (store, ledger) snapshot.
type UserLockManager struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewUserLockManager creates an empty lock manager.
func NewUserLockManager() *UserLockManager {
	return &UserLockManager{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for a user and returns the matching unlock
// function. Locks are created lazily and never removed; the set of users is
// small and bounded by the wallet store.
func (m *UserLockManager) Lock(userID string) func() {
	m.mu.Lock()
	lock, exists := m.locks[userID]
	if !exists {
		lock = &sync.Mutex{}
		m.locks[userID] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
