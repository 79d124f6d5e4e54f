package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/workoutlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// SessionChecker resolves session tokens to owners. Sessions found in redis
// are kept in a small local cache for cacheTTLSeconds.
type SessionChecker struct {
	ttl             time.Duration
	redisClient     *redis.Client
	cache           *freecache.Cache
	cacheTTLSeconds int
	now             func() time.Time
}

func NewSessionChecker(
	ttl time.Duration,
	redisClient *redis.Client,
	cacheSizeBytes int,
	cacheTTLSeconds int,
) *SessionChecker {
	return &SessionChecker{
		ttl:             ttl,
		redisClient:     redisClient,
		cache:           freecache.NewCache(cacheSizeBytes),
		cacheTTLSeconds: cacheTTLSeconds,
		now:             time.Now,
	}
}

func (c *SessionChecker) OwnerForToken(ctx context.Context, token string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.session.owner")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := []byte(token)
	if cached, err := c.cache.Get(cacheKey); err == nil {
		span.SetAttributes(attribute.Bool("cached", true))
		return c.validOwner(string(cached))
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("session checker, cache get: %s", err)
	}

	cmd := c.redisClient.Get(ctx, sessionKeyPrefix+token)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	owner, err := c.validOwner(cmd.Val())
	if err != nil {
		return 0, err
	}

	if err := c.cache.Set(cacheKey, []byte(cmd.Val()), c.cacheTTLSeconds); err != nil {
		log.Warnf("session checker, cache set: %s", err)
	}
	return owner, nil
}

// Forget drops the token from the local cache, e.g. after a sign out.
func (c *SessionChecker) Forget(token string) {
	c.cache.Del([]byte(token))
}

func (c *SessionChecker) validOwner(value string) (int, error) {
	session, err := ParseSession(value)
	if err != nil {
		return 0, err
	}
	if session.Expired(c.ttl, c.now()) {
		return 0, ErrSessionExpired
	}
	return session.Owner, nil
}
