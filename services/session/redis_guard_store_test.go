package session

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// port 1 is never listening, so every command fails fast
func unreachableRedisGuards() *RedisGuardStore {
	client := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
	return NewRedisGuardStore(client, "guards:s1")
}

// Guards are a politeness mechanism: a broken backend must never block a
// fetch or panic the caller.
func TestRedisGuardStore_FailsOpenWhenBackendDown(t *testing.T) {
	guards := unreachableRedisGuards()

	if !guards.TryAcquire(ResourceProjects) {
		t.Error("acquire must fail open when the backend is down")
	}
	if guards.InCooldown(ResourceProjects, time.Now()) {
		t.Error("unreadable cooldown must be treated as expired")
	}

	guards.SetCooldown(ResourceProjects, time.Now().Add(time.Second))
	guards.Release(ResourceProjects)
}

func TestRedisGuardStore_KeysScopedBySession(t *testing.T) {
	a := NewRedisGuardStore(nil, "guards:a")
	b := NewRedisGuardStore(nil, "guards:b")

	if a.key("inflight", ResourceNotes) == b.key("inflight", ResourceNotes) {
		t.Fatal("sessions must not share guard keys")
	}
	if got := a.key("cooldown", ResourceNotes); got != "guards:a:cooldown:notes" {
		t.Errorf("unexpected key layout: %s", got)
	}
}

func TestRedisGuardStore_NoCooldownWriteForPastDeadline(t *testing.T) {
	// a deadline already in the past would produce a non-positive TTL,
	// which Redis rejects; the store must skip the write entirely. The
	// nil client panics if the write is attempted anyway.
	guards := NewRedisGuardStore(nil, "guards:s1")
	guards.SetCooldown(ResourceNotes, time.Now().Add(-time.Second))
}
