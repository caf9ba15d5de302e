package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/programtracker/internal/telemetry/tracing"
	"github.com/2beens/programtracker/internal/workout"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTTL    = 90 * 24 * time.Hour
	userKeyPrefix = "ptrack-prefs||"
	fieldViewMode = "view_mode"
)

// Store keeps per user UI preferences in redis, so a new session opens in
// the view the user left.
type Store struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func userKey(userID string) string {
	return userKeyPrefix + userID
}

// ViewMode returns the last view mode of the user. ok is false when none
// was stored yet.
func (s *Store) ViewMode(ctx context.Context, userID string) (_ workout.ViewMode, ok bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.preferences.view-mode.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID))

	raw, err := s.redisClient.HGet(ctx, userKey(userID), fieldViewMode).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	mode, err := workout.ParseViewMode(raw)
	if err != nil {
		return "", false, fmt.Errorf("stored view mode: %w", err)
	}
	return mode, true, nil
}

func (s *Store) SetViewMode(ctx context.Context, userID string, mode workout.ViewMode) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "redis.preferences.view-mode.set")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("user-id", userID), attribute.String("view-mode", string(mode)))

	key := userKey(userID)
	if err := s.redisClient.HSet(ctx, key, fieldViewMode, string(mode)).Err(); err != nil {
		return err
	}
	// refreshed on every write, inactive users expire
	return s.redisClient.Expire(ctx, key, s.ttl).Err()
}
