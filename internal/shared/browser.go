package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var (
	getRuntime = func() string { return runtime.GOOS }
	startCmd   = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// OpenURL hands url to the platform opener (open, xdg-open, start) without waiting for it.
//
// Used to show track artwork in the default browser.
func OpenURL(url string) error {
	if url == "" {
		return fmt.Errorf("%w: empty url", ErrInvalidArgument)
	}

	var cmd *exec.Cmd
	switch rt := getRuntime(); rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := startCmd(cmd); err != nil {
		return fmt.Errorf("failed to open url: %w", err)
	}
	return nil
}
