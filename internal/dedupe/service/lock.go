package service

import "sync"

// advisoryLock is the cooperative, re-entrant lock that keeps at most one
// scan flow running the core per process. It is advisory: the core itself
// never touches it.
type advisoryLock struct {
	mu   sync.Mutex
	refs int
}

// acquire takes the lock for a new scan flow. It fails without blocking when
// another flow already holds it.
func (l *advisoryLock) acquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.refs > 0 {
		return false
	}
	l.refs = 1
	return true
}

// reenter bumps the reference count for a flow that already holds the lock.
func (l *advisoryLock) reenter() {
	l.mu.Lock()
	l.refs++
	l.mu.Unlock()
}

// release drops one reference.
func (l *advisoryLock) release() {
	l.mu.Lock()
	if l.refs > 0 {
		l.refs--
	}
	l.mu.Unlock()
}

// held reports whether any flow currently holds the lock.
func (l *advisoryLock) held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.refs > 0
}
