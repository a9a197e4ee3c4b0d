// Package palette shows a window switcher and command menu through an
// external dmenu-style launcher (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/1broseidon/stackwm/internal/platform"
)

// ErrCancelled is returned when the user closes the launcher without
// picking an entry.
var ErrCancelled = errors.New("palette cancelled")

// Item is one row of the menu. A selectable row either focuses Window or
// runs Command.
type Item struct {
	Label    string
	Icon     string
	Window   platform.WindowID
	Command  string
	IsHeader bool
	IsActive bool
}

// Selectable reports whether choosing the row does anything.
func (i Item) Selectable() bool {
	return !i.IsHeader && (i.Window != 0 || i.Command != "")
}

// Backend shows items and returns the chosen one.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
}

// launchers in detection order.
var launchers = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range launchers {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(launchers, ", "))
}

// NewBackend creates a backend by name. "" and "auto" detect one.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	l, ok := newLauncher(name)
	if !ok {
		return nil, fmt.Errorf("unknown launcher %q (supported: %s)", name, strings.Join(launchers, ", "))
	}
	if _, err := exec.LookPath(l.command); err != nil {
		return nil, fmt.Errorf("launcher %q not found in PATH", name)
	}
	return l, nil
}
