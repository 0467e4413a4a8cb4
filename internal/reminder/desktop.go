package reminder

import "github.com/gen2brain/beeep"

const appName = "Task Master"

// NotifyDesktop raises a native notification. An error means the platform
// has no notification surface; callers fall back to in-app toasts only.
func NotifyDesktop(title, body string) error {
	return beeep.Notify(appName+": "+title, body, "")
}
