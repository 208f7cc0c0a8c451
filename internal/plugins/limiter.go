package plugins

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/breeew/peer-api/internal/core"
)

type limiters struct {
	mu sync.Mutex
	m  map[string]*rate.Limiter
}

func newLimiters() *limiters {
	return &limiters{m: make(map[string]*rate.Limiter)}
}

// use returns the limiter of key, ratelimit is the allowed count per minute.
func (l *limiters) use(key string, ratelimit int) core.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, exist := l.m[key]
	if !exist {
		if ratelimit <= 0 {
			ratelimit = 1
		}
		lim = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratelimit)), ratelimit*2)
		l.m[key] = lim
	}
	return lim
}
