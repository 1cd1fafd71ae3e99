package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bajabeat/descargas/internal/shared/id"
	"github.com/bajabeat/descargas/internal/shared/logger"
)

const planChangeLockPrefix = "billing:planchange:lock:"

// releaseScript deletes the lease only when it still holds our token, so
// a slow holder cannot release a lease that already expired and was
// re-acquired by someone else.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// PlanChangeLock is a per-user lease backed by Redis SET NX. Two
// concurrent plan changes for the same user cannot both acquire it, even
// across service instances.
type PlanChangeLock struct {
	client *redis.Client
	logger logger.Interface
}

func NewPlanChangeLock(client *redis.Client, logger logger.Interface) *PlanChangeLock {
	return &PlanChangeLock{client: client, logger: logger}
}

func (l *PlanChangeLock) Acquire(ctx context.Context, userID uint, ttl time.Duration) (func(), error) {
	key := fmt.Sprintf("%s%d", planChangeLockPrefix, userID)
	token := id.MustGenerate(16)

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire plan change lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("plan change lock already held for user %d", userID)
	}

	release := func() {
		// Release runs on the way out of a possibly canceled request
		// context, so it gets its own deadline.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Result(); err != nil {
			l.logger.Warnw("failed to release plan change lock, lease will expire on its own",
				"error", err, "user_id", userID)
		}
	}

	return release, nil
}
