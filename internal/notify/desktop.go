package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// DesktopNotifier pops up a desktop notification on macOS and Linux
type DesktopNotifier struct {
	enabled bool
	// run executes the notification command; replaced in tests
	run func(ctx context.Context, name string, args ...string) error
}

// NewDesktopNotifier creates a desktop notifier
func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{enabled: enabled, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Send shows the notification. Other platforms are silently skipped.
func (d *DesktopNotifier) Send(ctx context.Context, n Notification) error {
	if !d.enabled {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", n.Message, n.Title)
		return d.run(ctx, "osascript", "-e", script)
	case "linux":
		return d.run(ctx, "notify-send", "-i", IconForType(n.Type), n.Title, n.Message)
	default:
		return nil
	}
}

// IconForType returns a freedesktop icon name for the notification type
func IconForType(t NotificationType) string {
	switch t {
	case NotifySuccess:
		return "dialog-positive"
	case NotifyWarning:
		return "dialog-warning"
	case NotifyError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}
