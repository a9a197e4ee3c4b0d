package wm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/workspace"
)

// Verb is the first word of a command.
type Verb string

const (
	VerbFocus           Verb = "focus"
	VerbSwap            Verb = "swap"
	VerbToggleFloating  Verb = "toggle_floating"
	VerbMasterRatio     Verb = "master_ratio"
	VerbWorkspace       Verb = "workspace"
	VerbMoveToWorkspace Verb = "move_to_workspace"
	VerbLayout          Verb = "layout"
	VerbClose           Verb = "close"
	VerbSpawn           Verb = "spawn"
	VerbQuit            Verb = "quit"
)

// Command is a parsed user command, from a keybinding or a client.
type Command struct {
	Verb      Verb
	Direction workspace.Direction
	Delta     int
	// Index is 0-based; the textual form is 1-based.
	Index int
	// Layout is empty for "layout cycle".
	Layout tiling.Kind
	// Argv is the program for spawn.
	Argv []string
}

// String renders the command in its textual form.
func (c Command) String() string {
	switch c.Verb {
	case VerbFocus, VerbSwap:
		return fmt.Sprintf("%s %s", c.Verb, c.Direction)
	case VerbMasterRatio:
		return fmt.Sprintf("%s %+d", c.Verb, c.Delta)
	case VerbWorkspace, VerbMoveToWorkspace:
		return fmt.Sprintf("%s %d", c.Verb, c.Index+1)
	case VerbLayout:
		if c.Layout == "" {
			return "layout cycle"
		}
		return fmt.Sprintf("%s %s", c.Verb, c.Layout)
	case VerbSpawn:
		return strings.TrimSpace(fmt.Sprintf("%s %s", c.Verb, strings.Join(c.Argv, " ")))
	default:
		return string(c.Verb)
	}
}

// ParseCommand parses the textual command grammar:
//
//	focus next|prev|master
//	swap next|prev|master
//	toggle_floating
//	master_ratio <+/-delta>
//	workspace <n>
//	move_to_workspace <n>
//	layout tiled|free|cycle
//	close
//	spawn <argv...>
//	quit
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrUnknownCommand)
	}

	verb := Verb(strings.ToLower(fields[0]))
	args := fields[1:]

	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s takes %d argument(s), got %d", ErrUnknownCommand, verb, n, len(args))
		}
		return nil
	}

	cmd := Command{Verb: verb}
	switch verb {
	case VerbFocus, VerbSwap:
		if err := want(1); err != nil {
			return Command{}, err
		}
		d, err := workspace.ParseDirection(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		cmd.Direction = d

	case VerbToggleFloating, VerbClose, VerbQuit:
		if err := want(0); err != nil {
			return Command{}, err
		}

	case VerbMasterRatio:
		if err := want(1); err != nil {
			return Command{}, err
		}
		delta, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: invalid ratio delta %q", ErrUnknownCommand, args[0])
		}
		cmd.Delta = delta

	case VerbWorkspace, VerbMoveToWorkspace:
		if err := want(1); err != nil {
			return Command{}, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("%w: invalid workspace %q", ErrUnknownCommand, args[0])
		}
		cmd.Index = n - 1

	case VerbLayout:
		if err := want(1); err != nil {
			return Command{}, err
		}
		if strings.EqualFold(args[0], "cycle") {
			break
		}
		kind, err := tiling.ParseKind(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrUnknownCommand, err)
		}
		cmd.Layout = kind

	case VerbSpawn:
		if len(args) == 0 {
			return Command{}, fmt.Errorf("%w: spawn needs a program", ErrUnknownCommand)
		}
		cmd.Argv = args

	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}

	return cmd, nil
}

// Dispatch runs a command against the manager. spawn and quit act on the
// process, not the window state, and are rejected here; the daemon
// handles them.
func (m *Manager) Dispatch(cmd Command) error {
	switch cmd.Verb {
	case VerbFocus:
		return m.Focus(cmd.Direction)
	case VerbSwap:
		return m.Swap(cmd.Direction)
	case VerbToggleFloating:
		return m.ToggleFloating()
	case VerbMasterRatio:
		return m.SetMasterRatio(cmd.Delta)
	case VerbWorkspace:
		return m.SwitchWorkspace(cmd.Index)
	case VerbMoveToWorkspace:
		return m.MoveToWorkspace(cmd.Index)
	case VerbLayout:
		if cmd.Layout == "" {
			return m.CycleLayout()
		}
		return m.SetLayout(cmd.Layout)
	case VerbClose:
		return m.CloseFocused()
	default:
		return fmt.Errorf("%w: %q is not a window command", ErrUnknownCommand, cmd.Verb)
	}
}

// Run parses and dispatches a textual command.
func (m *Manager) Run(s string) error {
	cmd, err := ParseCommand(s)
	if err != nil {
		return err
	}
	return m.Dispatch(cmd)
}
