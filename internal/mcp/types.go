package mcp

import "github.com/1broseidon/stackwm/internal/wm"

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Workspace int `json:"workspace,omitempty" jsonschema:"Only list this workspace (1-based). Default: all workspaces."`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID       uint32 `json:"id"`
	Title    string `json:"title,omitempty"`
	Class    string `json:"class,omitempty"`
	Slot     int    `json:"slot"`
	Master   bool   `json:"master"`
	Focused  bool   `json:"focused"`
	Floating bool   `json:"floating"`
	Mapped   bool   `json:"mapped"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// WorkspaceInfo describes one workspace. Index is 1-based.
type WorkspaceInfo struct {
	Index       int          `json:"index"`
	Name        string       `json:"name"`
	Layout      string       `json:"layout"`
	MasterRatio int          `json:"master_ratio"`
	Active      bool         `json:"active"`
	Windows     []WindowInfo `json:"windows"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	ActiveWorkspace int             `json:"active_workspace"`
	Workspaces      []WorkspaceInfo `json:"workspaces"`
}

// WindowInput names a window.
type WindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"X window id as reported by list_windows"`
}

// DirectionInput is the input for swap_window and focus_direction.
type DirectionInput struct {
	Direction string `json:"direction" jsonschema:"One of next, prev, master"`
}

// SetLayoutInput is the input for the set_layout tool.
type SetLayoutInput struct {
	Layout string `json:"layout" jsonschema:"One of tiled, free, cycle"`
}

// WorkspaceInput is the input for switch_workspace and move_to_workspace.
type WorkspaceInput struct {
	Workspace int `json:"workspace" jsonschema:"Target workspace (1-based)"`
}

// SetMasterRatioInput is the input for the set_master_ratio tool.
type SetMasterRatioInput struct {
	Delta int `json:"delta" jsonschema:"Percentage points to add to the master column width; may be negative"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"A window command line such as 'swap master' or 'layout free'"`
}

// ActionOutput reports the focused window after a command ran.
type ActionOutput struct {
	Command         string `json:"command"`
	ActiveWorkspace int    `json:"active_workspace"`
	FocusedWindow   uint32 `json:"focused_window,omitempty"`
}

func windowInfo(slot int, w wm.WindowSnapshot) WindowInfo {
	return WindowInfo{
		ID:       uint32(w.ID),
		Title:    w.Title,
		Class:    w.Class,
		Slot:     slot,
		Master:   slot == 0,
		Focused:  w.Focused,
		Floating: w.Floating,
		Mapped:   w.Mapped,
		X:        w.Geometry.X,
		Y:        w.Geometry.Y,
		Width:    w.Geometry.Width,
		Height:   w.Geometry.Height,
	}
}
