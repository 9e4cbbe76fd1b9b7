package batch

import "github.com/gen2brain/beeep"

// Notifier announces the end of a run.
type Notifier interface {
	Notify(title, message string) error
}

type desktopNotifier struct{}

// DesktopNotifier shows a native desktop notification.
func DesktopNotifier() Notifier {
	return desktopNotifier{}
}

func (desktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
