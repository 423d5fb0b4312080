package reminder

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Permission is the outcome of the one-time notification permission probe.
type Permission int

const (
	PermissionGranted Permission = iota
	PermissionDenied
	PermissionUnsupported
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "unsupported"
	}
}

// Notifier is the notification delivery capability. The scheduler invokes it
// but never implements delivery itself.
type Notifier interface {
	// RequestPermission probes whether notifications can be delivered. It is
	// called once at startup.
	RequestPermission() Permission
	// Fire delivers one notification. Implementations are only invoked when
	// permission is granted.
	Fire(title, body string) error
}

// DesktopNotifier delivers notifications through the platform's notification
// command: notify-send on Linux, osascript on macOS. Command may be set to
// override the probed default. Disabled forces the denied state so the rest
// of the system degrades silently.
type DesktopNotifier struct {
	Command  string
	Disabled bool
}

func (n *DesktopNotifier) RequestPermission() Permission {
	if n.Disabled {
		return PermissionDenied
	}
	cmd := n.command()
	if cmd == "" {
		return PermissionUnsupported
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return PermissionUnsupported
	}
	return PermissionGranted
}

func (n *DesktopNotifier) Fire(title, body string) error {
	switch n.command() {
	case "osascript":
		script := fmt.Sprintf(`display notification %q with title %q`, body, title)
		return exec.Command("osascript", "-e", script).Run()
	case "":
		return nil
	default:
		return exec.Command(n.command(), title, body).Run()
	}
}

func (n *DesktopNotifier) command() string {
	if n.Command != "" {
		return n.Command
	}
	switch runtime.GOOS {
	case "darwin":
		return "osascript"
	case "linux":
		return "notify-send"
	default:
		return ""
	}
}
