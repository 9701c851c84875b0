package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser launches the system default browser at url. Used by the auth
// login flow; a failure is not fatal since the URL can be opened manually.
func OpenBrowser(url string) error {
	var name string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "windows":
		name, args = "cmd", []string{"/c", "start"}
	case "linux":
		name = "xdg-open"
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	if err := exec.Command(name, append(args, url)...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
