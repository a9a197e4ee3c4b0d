package wm

import "errors"

var (
	// ErrUnknownWindow is returned when a handle is not tracked by any workspace.
	ErrUnknownWindow = errors.New("unknown window")
	// ErrNoFocus is returned by commands that act on the focused window when
	// there is none, or when it is not eligible for the command.
	ErrNoFocus = errors.New("no focused window")
	// ErrInvalidWorkspace is returned for a workspace index out of range.
	ErrInvalidWorkspace = errors.New("invalid workspace")
	// ErrUnknownCommand is returned for unparseable or unsupported commands.
	ErrUnknownCommand = errors.New("unknown command")
)
