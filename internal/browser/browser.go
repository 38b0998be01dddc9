// Package browser opens generated dashboards in the user's browser.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Open opens target, a local file path or an http(s) URL, with the system
// handler. It returns once the handler has started.
func Open(target string) error {
	if !isURL(target) {
		if _, err := os.Stat(target); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file does not exist: %s", target)
			}
			return fmt.Errorf("checking file: %w", err)
		}
	}

	cmd, err := command(runtime.GOOS, target)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// command returns the command that opens target on goos.
func command(goos, target string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", target), nil
	case "linux":
		return exec.Command("xdg-open", target), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// URLFor returns the address a browser should use for a listen address,
// mapping wildcard hosts to localhost.
func URLFor(addr string) string {
	host, port := addr, ""
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host, port = addr[:i], addr[i+1:]
	}
	switch host {
	case "", "0.0.0.0", "[::]", "::":
		host = "localhost"
	}
	if port == "" {
		return "http://" + host + "/"
	}
	return "http://" + host + ":" + port + "/"
}
