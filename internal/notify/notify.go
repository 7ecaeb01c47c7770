package notify

import (
	"context"
	"fmt"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	NotifyInfo NotificationType = iota
	NotifySuccess
	NotifyWarning
	NotifyError
)

// Notification represents a notification to be sent
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
	App     string // owner/name, optional
}

// Notifier is the interface for sending notifications
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// MultiNotifier sends to multiple notifiers
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier that sends to all provided notifiers
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Send sends the notification to all notifiers
func (m *MultiNotifier) Send(ctx context.Context, n Notification) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// NoopNotifier does nothing (for testing or disabled notifications)
type NoopNotifier struct{}

func (NoopNotifier) Send(ctx context.Context, n Notification) error { return nil }

// BatchSummary describes the end of a start_build_all run
func BatchSummary(app string, started, failed int) Notification {
	n := Notification{
		Title:   fmt.Sprintf("Builds queued for %s", app),
		Message: fmt.Sprintf("%d started, %d failed", started, failed),
		Type:    NotifySuccess,
		App:     app,
	}
	switch {
	case failed > 0 && started == 0:
		n.Type = NotifyError
	case failed > 0:
		n.Type = NotifyWarning
	}
	return n
}
