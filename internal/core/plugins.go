package core

import (
	"context"
	"time"
)

// Plugins carries the deployment specific pieces: run locks and rate limits.
type Plugins interface {
	Install(*Core) error
	Name() string
	// TryLock holds key until ttl passes or ctx is done.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	UseLimiter(key string, method string, defaultRatelimit int) Limiter
}

type Limiter interface {
	Allow() bool
}

type SetupFunc func() Plugins

func (c *Core) InstallPlugins(p Plugins) {
	if err := p.Install(c); err != nil {
		panic(err)
	}
	c.Plugins = p
}
