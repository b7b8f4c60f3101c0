//go:build unit

package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"servicebay/internal/infra/lock"
	"servicebay/internal/usecase/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLock(t *testing.T) {
	ctx := context.Background()

	t.Run("second holder is rejected until release", func(t *testing.T) {
		l := lock.NewLocalLock()

		release, err := l.Acquire(ctx, "capture:booking:1")
		require.NoError(t, err)

		_, err = l.Acquire(ctx, "capture:booking:1")
		assert.ErrorIs(t, err, commands.ErrCaptureInProgress)

		other, err := l.Acquire(ctx, "capture:booking:2")
		require.NoError(t, err)
		other()

		release()
		again, err := l.Acquire(ctx, "capture:booking:1")
		require.NoError(t, err)
		again()
	})

	t.Run("release is idempotent", func(t *testing.T) {
		l := lock.NewLocalLock()
		release, err := l.Acquire(ctx, "k")
		require.NoError(t, err)
		release()

		next, err := l.Acquire(ctx, "k")
		require.NoError(t, err)
		release()

		_, err = l.Acquire(ctx, "k")
		assert.ErrorIs(t, err, commands.ErrCaptureInProgress, "stale release must not free the new holder")
		next()
	})

	t.Run("exactly one concurrent caller wins", func(t *testing.T) {
		l := lock.NewLocalLock()
		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		start := make(chan struct{})
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := l.Acquire(ctx, "hot"); err == nil {
					wins.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()
		assert.Equal(t, int32(1), wins.Load())
	})
}
