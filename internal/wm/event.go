package wm

import "github.com/1broseidon/stackwm/internal/platform"

// EventType names a state change.
type EventType string

const (
	EventWindowCreated   EventType = "window_created"
	EventWindowDestroyed EventType = "window_destroyed"
	EventWindowMapped    EventType = "window_mapped"
	EventWindowUnmapped  EventType = "window_unmapped"
	EventFocus           EventType = "focus"
	EventSwap            EventType = "swap"
	EventFloating        EventType = "floating"
	EventLayout          EventType = "layout"
	EventMasterRatio     EventType = "master_ratio"
	EventWorkspace       EventType = "workspace"
	EventMoved           EventType = "moved"
	EventDragEnd         EventType = "drag_end"
)

// Event describes one state change. Window is zero for workspace-level
// changes. Workspace is the 0-based index the change applies to.
type Event struct {
	Type      EventType         `json:"type"`
	Window    platform.WindowID `json:"window,omitempty"`
	Workspace int               `json:"workspace"`
}
