// Package tui implements `stackwm top`, a live view of workspaces and
// windows polled from the daemon.
package tui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run starts the viewer and blocks until the user quits.
func Run(source Source) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("top requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	program := tea.NewProgram(newModel(source), tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
