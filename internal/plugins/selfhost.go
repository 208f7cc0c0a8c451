package plugins

import (
	"context"
	"sync"
	"time"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/pkg/safe"
	"github.com/breeew/peer-api/pkg/utils"
)

type SingleLock struct {
	mu    sync.Mutex
	locks map[string]bool
}

func NewSingleLock() *SingleLock {
	return &SingleLock{
		locks: make(map[string]bool),
	}
}

// TryLock holds key until ctx is done or ttl passes, whichever comes first.
func (s *SingleLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locks[key] {
		return false, nil
	}
	s.locks[key] = true

	go safe.Run(func() {
		timer := time.NewTimer(ttl)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.locks, key)
	})
	return true, nil
}

var _ core.Plugins = (*SelfHostPlugin)(nil)

// SelfHostPlugin runs everything inside one process.
type SelfHostPlugin struct {
	core       *core.Core
	singleLock *SingleLock
	limiters   *limiters
}

func NewSelfHostPlugin() *SelfHostPlugin {
	return &SelfHostPlugin{
		singleLock: NewSingleLock(),
		limiters:   newLimiters(),
	}
}

func (s *SelfHostPlugin) Name() string {
	return "selfhost"
}

func (s *SelfHostPlugin) Install(c *core.Core) error {
	s.core = c
	utils.SetupIDWorker(1)
	return nil
}

func (s *SelfHostPlugin) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.singleLock.TryLock(ctx, key, ttl)
}

func (s *SelfHostPlugin) UseLimiter(key string, method string, defaultRatelimit int) core.Limiter {
	return s.limiters.use(method+":"+key, defaultRatelimit)
}
