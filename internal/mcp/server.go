package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/ipc"
	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

const (
	ServerName    = "stackwm"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface the tools use; *ipc.Client implements it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetWindow(id platform.WindowID) (*wm.WindowSnapshot, error)
	RunCommand(command string) error
	FocusWindow(id platform.WindowID) error
}

// Server is the MCP server exposing window manager state and commands.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that talks to a running daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List workspaces and their managed windows in tiling order. Slot 0 is the master window. Workspace indexes are 1-based.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window",
		Description: "Describe a single managed window by id.",
	}, s.handleGetWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a window by id, switching to its workspace when it is hidden.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_direction",
		Description: "Move focus to the next, previous or master window of the active workspace.",
	}, s.handleFocusDirection)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "swap_window",
		Description: "Swap the focused window with the next, previous or master tiled window. Focus stays on the moved window.",
	}, s.handleSwapWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_layout",
		Description: "Set the layout of the active workspace: tiled (master-stack), free (floating) or cycle.",
	}, s.handleSetLayout)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_workspace",
		Description: "Show another workspace (1-based).",
	}, s.handleSwitchWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_to_workspace",
		Description: "Send the focused window to another workspace (1-based). The window is hidden until that workspace is shown.",
	}, s.handleMoveToWorkspace)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_floating",
		Description: "Toggle the focused window between tiled and floating.",
	}, s.handleToggleFloating)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_master_ratio",
		Description: "Grow or shrink the master column of the active workspace by delta percentage points (clamped to 1..99).",
	}, s.handleSetMasterRatio)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_command",
		Description: "Run any window command: focus, swap, toggle_floating, master_ratio, workspace, move_to_workspace, layout, close. spawn and quit are not accepted.",
	}, s.handleRunCommand)
}
