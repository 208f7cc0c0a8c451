package plugins_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeew/peer-api/internal/plugins"
)

func TestSingleLock(t *testing.T) {
	lock := plugins.NewSingleLock()
	ctx, cancel := context.WithCancel(context.Background())

	ok, err := lock.TryLock(ctx, "activation", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.TryLock(context.Background(), "activation", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	cancel()
	assert.Eventually(t, func() bool {
		ok, _ := lock.TryLock(context.Background(), "activation", time.Minute)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestSingleLockExpires(t *testing.T) {
	lock := plugins.NewSingleLock()
	ok, err := lock.TryLock(context.Background(), "k", 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Eventually(t, func() bool {
		ok, _ := lock.TryLock(context.Background(), "k", time.Minute)
		return ok
	}, time.Second, 10*time.Millisecond)
}

func TestLimiter(t *testing.T) {
	p := plugins.NewSelfHostPlugin()
	l := p.UseLimiter("user-1", "SubmitReview", 1)
	// burst is twice the per-minute rate
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	assert.True(t, p.UseLimiter("user-2", "SubmitReview", 1).Allow())
}
