package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier renders alerts through the platform notification
// facility (notify-send/dbus on Linux, Notification Center on macOS,
// toasts on Windows).
type DesktopNotifier struct {
	// AppIcon is an optional path to the icon shown with alerts.
	AppIcon string
}

// Notify displays the alert. The platform call is synchronous but
// fast; the dispatcher's worker goroutine keeps it off the scheduler's
// path either way.
func (n *DesktopNotifier) Notify(_ context.Context, req Request) error {
	return beeep.Notify(req.Title, req.Message, n.AppIcon)
}
