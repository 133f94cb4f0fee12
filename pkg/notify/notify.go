// Package notify is the user-facing notification side channel. Every failure
// a module swallows is reported here once; delivery is fire-and-forget and
// never part of a function's return contract.
package notify

import (
	log "github.com/sirupsen/logrus"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

type Notifier interface {
	Notify(n Notification)
}

// Info reports a success or neutral event.
func Info(n Notifier, title, description string) {
	n.Notify(Notification{Severity: SeverityInfo, Title: title, Description: description})
}

// Warning reports a degraded but non-failing condition.
func Warning(n Notifier, title, description string) {
	n.Notify(Notification{Severity: SeverityWarning, Title: title, Description: description})
}

// Error reports a failed operation.
func Error(n Notifier, title, description string) {
	n.Notify(Notification{Severity: SeverityError, Title: title, Description: description})
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	entry := log.WithFields(log.Fields{
		"title":   n.Title,
		"context": "notification",
	})

	switch n.Severity {
	case SeverityError:
		entry.Error(n.Description)
	case SeverityWarning:
		entry.Warn(n.Description)
	default:
		entry.Info(n.Description)
	}
}

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Count returns the number of recorded notifications with the given severity.
func (r *Recorder) Count(severity Severity) (count int) {
	for _, n := range r.Notifications {
		if n.Severity == severity {
			count++
		}
	}
	return
}
