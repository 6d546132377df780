package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommands maps a GOOS value to the command that opens a URL in the default browser.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// BrowserCommand returns the command used to open url on the current platform.
func BrowserCommand(url string) (*exec.Cmd, error) {
	rt := getRuntime()
	args, ok := browserCommands[rt]
	if !ok {
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
	args = append(append([]string{}, args...), url)
	return exec.Command(args[0], args[1:]...), nil
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Used by `serve --open` to show the web UI.
func OpenBrowser(url string) error {
	cmd, err := BrowserCommand(url)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
