// Package session holds the per-session aggregate store: the in-memory
// collections a signed-in user works against, plus the fetch guards that
// keep rapid UI churn from turning into request storms.
package session

import (
	"sync"
	"time"
)

// Resource is a guarded resource class. Each class carries its own
// in-flight flag and cooldown window.
type Resource string

const (
	ResourceProjects Resource = "projects"
	ResourceProject  Resource = "project"
	ResourceNotes    Resource = "notes"
	ResourceTasks    Resource = "tasks"
	ResourceMessages Resource = "messages"
)

// DefaultCooldown is the minimum time between successive fetches of one
// resource class.
const DefaultCooldown = 3 * time.Second

// GuardStore defines pluggable storage for fetch-guard state. The memory
// implementation serves a single process; the Redis implementation shares
// guard state between instances serving the same session.
type GuardStore interface {
	// TryAcquire claims the in-flight flag for class. It returns false when
	// a fetch is already outstanding.
	TryAcquire(class Resource) bool
	// Release clears the in-flight flag.
	Release(class Resource)

	// InCooldown reports whether class is still inside its cooldown window.
	InCooldown(class Resource, now time.Time) bool
	// SetCooldown moves the next allowed fetch time for class to until.
	SetCooldown(class Resource, until time.Time)
}

// MemoryGuardStore is the in-memory implementation of GuardStore.
type MemoryGuardStore struct {
	mu        sync.Mutex
	inFlight  map[Resource]bool
	cooldowns map[Resource]time.Time
}

func NewMemoryGuardStore() *MemoryGuardStore {
	return &MemoryGuardStore{
		inFlight:  make(map[Resource]bool),
		cooldowns: make(map[Resource]time.Time),
	}
}

func (s *MemoryGuardStore) TryAcquire(class Resource) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[class] {
		return false
	}
	s.inFlight[class] = true
	return true
}

func (s *MemoryGuardStore) Release(class Resource) {
	s.mu.Lock()
	delete(s.inFlight, class)
	s.mu.Unlock()
}

func (s *MemoryGuardStore) InCooldown(class Resource, now time.Time) bool {
	s.mu.Lock()
	until, ok := s.cooldowns[class]
	s.mu.Unlock()
	return ok && now.Before(until)
}

func (s *MemoryGuardStore) SetCooldown(class Resource, until time.Time) {
	s.mu.Lock()
	s.cooldowns[class] = until
	s.mu.Unlock()
}
