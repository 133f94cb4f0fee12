// Package ops holds the entity operation modules. Each module wraps one
// entity's store calls with retry and swallow-and-report error handling:
// failures surface as a single user notification plus a sentinel return
// value (empty list, "", false), never as a raw store error.
package ops

import (
	"context"
	"errors"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/pkg/backoff"
	"github.com/taskcanvas/taskcanvas/pkg/notify"
)

type base struct {
	store    db.Store
	notifier notify.Notifier
	retry    backoff.Options
	loading  atomic.Bool
}

// init fills the fields in place; base embeds an atomic and must not be
// copied once constructed.
func (b *base) init(store db.Store, notifier notify.Notifier) {
	b.store = store
	b.notifier = notifier
	b.retry = backoff.Options{Permanent: db.IsInvalidInput}
}

// Loading reports whether a call is currently outstanding, for UI spinner
// state.
func (b *base) Loading() bool {
	return b.loading.Load()
}

// run executes op with retry, toggling the loading flag around it. On
// failure it emits exactly one notification and returns false.
func (b *base) run(ctx context.Context, title string, op func(ctx context.Context) error) bool {
	b.loading.Store(true)
	defer b.loading.Store(false)

	err := backoff.Retry(ctx, op, b.retry)
	if err == nil {
		return true
	}

	log.WithError(err).WithField("operation", title).Error("operation failed")
	notify.Error(b.notifier, title, failureMessage(err))
	return false
}

func failureMessage(err error) string {
	var validationError *db.ValidationError
	switch {
	case errors.As(err, &validationError):
		return validationError.Message
	case errors.Is(err, db.ErrNotFound):
		return "The requested item no longer exists."
	default:
		return "Something went wrong. Please try again later."
	}
}
