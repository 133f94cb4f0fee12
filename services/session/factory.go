package session

import (
	"github.com/redis/go-redis/v9"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
	"github.com/taskcanvas/taskcanvas/services/ops"
	"github.com/taskcanvas/taskcanvas/util"
)

// NewSessionStore assembles the aggregate store for one authenticated
// session: entity operations backed by st, fetch guards from the active
// config. Notifications raised by failed operations go to notifier.
func NewSessionStore(st db.Store, notifier notify.Notifier, sessionID string) *Store {
	deps := Deps{
		Projects: ops.NewProjectOps(st, notifier),
		Notes:    ops.NewNoteOps(st, notifier),
		Tasks:    ops.NewTaskOps(st, notifier),
		Chat:     ops.NewChatOps(st, notifier),
	}
	if util.Config != nil {
		deps.Guards = NewGuardStore(util.Config.Redis, sessionID)
		deps.Cooldown = util.Config.FetchCooldown()
	}
	return NewStore(deps)
}

// NewGuardStore picks the guard backend from config: Redis when configured,
// otherwise process memory. sessionID scopes the Redis keys so sessions
// never share guards.
func NewGuardStore(cfg *util.RedisConfig, sessionID string) GuardStore {
	if cfg == nil || cfg.Addr == "" {
		return NewMemoryGuardStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Username: cfg.User,
		Password: cfg.Password,
	})
	return NewRedisGuardStore(client, "guards:"+sessionID)
}
