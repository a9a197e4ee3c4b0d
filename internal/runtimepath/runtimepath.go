// Package runtimepath locates the per-user runtime directory and the IPC
// socket of the manager running on a display.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SocketEnv overrides the IPC socket path when set.
const SocketEnv = "STACKWM_SOCKET"

// Dir returns $XDG_RUNTIME_DIR, else /run/user/<uid> when it exists, else
// a private /tmp/stackwm-runtime-<uid> directory.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	dir := fmt.Sprintf("/tmp/stackwm-runtime-%d", uid)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SocketPath returns the socket of the manager on $DISPLAY.
func SocketPath() (string, error) {
	return SocketPathFor(os.Getenv("DISPLAY"))
}

// SocketPathFor returns the socket of the manager on display, e.g.
// stackwm-1.sock for ":1.0". $STACKWM_SOCKET wins when set.
func SocketPathFor(display string) (string, error) {
	if path := os.Getenv(SocketEnv); path != "" {
		return path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	name := "stackwm.sock"
	if n := displayNumber(display); n != "" {
		name = "stackwm-" + n + ".sock"
	}
	return filepath.Join(dir, name), nil
}

// displayNumber extracts N from "[host]:N[.screen]".
func displayNumber(display string) string {
	i := strings.LastIndex(display, ":")
	if i < 0 {
		return ""
	}
	n, _, _ := strings.Cut(display[i+1:], ".")
	for _, r := range n {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return n
}
