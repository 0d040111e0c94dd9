package shared

import "sync"

// TenantLock serializes commands against one tenant's configuration
// snapshot. Every mutating service method takes the write lock, queries the
// read lock; repositories assume the lock is held by their caller. None of
// the derivations tolerate interleaving, so there is exactly one writer.
type TenantLock struct {
	mu sync.RWMutex
}

// NewTenantLock constructs the lock for a tenant.
func NewTenantLock() *TenantLock {
	return &TenantLock{}
}

// Lock acquires the single-writer lock.
func (l *TenantLock) Lock() { l.mu.Lock() }

// Unlock releases the single-writer lock.
func (l *TenantLock) Unlock() { l.mu.Unlock() }

// RLock acquires a shared read lock.
func (l *TenantLock) RLock() { l.mu.RLock() }

// RUnlock releases a shared read lock.
func (l *TenantLock) RUnlock() { l.mu.RUnlock() }
