package service

import (
	"context"
	"sync"
)

// AutoBookingLockName is the run lock shared by every trigger of the engine.
const AutoBookingLockName = "auto-booking:run"

// RunLocker grants exclusive execution of a named run without waiting.
type RunLocker interface {
	TryAcquire(ctx context.Context, name string) (release func(), ok bool, err error)
}

// LocalRunLock serialises runs within a single process.
type LocalRunLock struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalRunLock constructs an in-process run lock.
func NewLocalRunLock() *LocalRunLock {
	return &LocalRunLock{held: make(map[string]bool)}
}

// TryAcquire implements RunLocker.
func (l *LocalRunLock) TryAcquire(_ context.Context, name string) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, false, nil
	}
	l.held[name] = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, name)
			l.mu.Unlock()
		})
	}, true, nil
}
