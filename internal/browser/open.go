// Package browser launches the system browser. tome uses it for the AI
// Studio key page on the setup screen and the links on the help overlay.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Open starts the platform's browser launcher pointed at url. The launcher
// is not waited on; callers treat the whole thing as best-effort.
func Open(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return fmt.Errorf("no known browser launcher for %s", runtime.GOOS)
	}
}
