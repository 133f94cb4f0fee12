package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// inFlightTTL caps how long a crashed process can keep a class claimed.
const inFlightTTL = 30 * time.Second

// RedisGuardStore shares fetch-guard state between instances serving the
// same session. Guards are a politeness mechanism, not a security boundary,
// so Redis failures fail open: a broken guard backend must not block
// fetches.
type RedisGuardStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisGuardStore creates a guard store scoped by keyPrefix, typically
// "guards:<session id>".
func NewRedisGuardStore(client *redis.Client, keyPrefix string) *RedisGuardStore {
	return &RedisGuardStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisGuardStore) key(kind string, class Resource) string {
	return s.keyPrefix + ":" + kind + ":" + string(class)
}

func (s *RedisGuardStore) TryAcquire(class Resource) bool {
	ok, err := s.client.SetNX(context.Background(), s.key("inflight", class), "1", inFlightTTL).Result()
	if err != nil {
		log.WithError(err).Error("redis guard acquire failed")
		return true
	}
	return ok
}

func (s *RedisGuardStore) Release(class Resource) {
	if err := s.client.Del(context.Background(), s.key("inflight", class)).Err(); err != nil {
		log.WithError(err).Error("redis guard release failed")
	}
}

func (s *RedisGuardStore) InCooldown(class Resource, now time.Time) bool {
	until, err := s.client.Get(context.Background(), s.key("cooldown", class)).Time()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).Error("redis guard cooldown read failed")
		}
		return false
	}
	return now.Before(until)
}

func (s *RedisGuardStore) SetCooldown(class Resource, until time.Time) {
	ttl := time.Until(until)
	if ttl <= 0 {
		return
	}
	if err := s.client.Set(context.Background(), s.key("cooldown", class), until.Format(time.RFC3339Nano), ttl).Err(); err != nil {
		log.WithError(err).Error("redis guard cooldown write failed")
	}
}
