package lock

import (
	"context"
	"sync"

	"servicebay/internal/usecase/commands"
)

// LocalLock is the in-process fallback used when Redis is disabled.
// It only serializes captures within a single instance.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]struct{})}
}

func (l *LocalLock) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, commands.ErrCaptureInProgress
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
