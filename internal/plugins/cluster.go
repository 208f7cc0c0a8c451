package plugins

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v9"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/pkg/safe"
	"github.com/breeew/peer-api/pkg/utils"
)

const lockPrefix = "peer-api:lock:"

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLock is a SET NX lock shared by every replica of the service.
type RedisLock struct {
	client redis.UniversalClient
}

func NewRedisLock(client redis.UniversalClient) *RedisLock {
	return &RedisLock{client: client}
}

func (l *RedisLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := utils.GenSpecIDStr()
	ok, err := l.client.SetNX(ctx, lockPrefix+key, token, ttl).Result()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	go safe.Run(func() {
		<-ctx.Done()
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{lockPrefix + key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			slog.Error("failed to release redis lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	})
	return true, nil
}

var _ core.Plugins = (*ClusterPlugin)(nil)

// ClusterPlugin coordinates replicas through redis. Rate limits stay per
// replica.
type ClusterPlugin struct {
	core     *core.Core
	lock     *RedisLock
	limiters *limiters
}

func NewClusterPlugin() *ClusterPlugin {
	return &ClusterPlugin{
		limiters: newLimiters(),
	}
}

func (s *ClusterPlugin) Name() string {
	return "cluster"
}

func (s *ClusterPlugin) Install(c *core.Core) error {
	s.core = c
	cfg := c.Cfg().Redis
	if !cfg.Enabled() {
		return errors.New("cluster mode requires redis.addr")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}
	s.lock = NewRedisLock(client)

	// TODO: derive the snowflake worker id from a redis counter so replicas never collide
	utils.SetupIDWorker(1)
	return nil
}

func (s *ClusterPlugin) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.lock.TryLock(ctx, key, ttl)
}

func (s *ClusterPlugin) UseLimiter(key string, method string, defaultRatelimit int) core.Limiter {
	return s.limiters.use(method+":"+key, defaultRatelimit)
}
