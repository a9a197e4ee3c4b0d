package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/platform"
	"github.com/1broseidon/stackwm/internal/wm"
)

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	snap := status.State

	if args.Workspace != 0 && (args.Workspace < 1 || args.Workspace > len(snap.Workspaces)) {
		return nil, ListWindowsOutput{}, fmt.Errorf("workspace %d out of range 1..%d", args.Workspace, len(snap.Workspaces))
	}

	out := ListWindowsOutput{
		ActiveWorkspace: snap.Active + 1,
		Workspaces:      make([]WorkspaceInfo, 0, len(snap.Workspaces)),
	}
	for _, ws := range snap.Workspaces {
		if args.Workspace != 0 && ws.Index+1 != args.Workspace {
			continue
		}
		info := WorkspaceInfo{
			Index:       ws.Index + 1,
			Name:        ws.Name,
			Layout:      string(ws.Layout),
			MasterRatio: ws.MasterRatio,
			Active:      ws.Active,
			Windows:     make([]WindowInfo, 0, len(ws.Windows)),
		}
		for slot, w := range ws.Windows {
			info.Windows = append(info.Windows, windowInfo(slot, w))
		}
		out.Workspaces = append(out.Workspaces, info)
	}
	return nil, out, nil
}

func (s *Server) handleGetWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowInfo, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, WindowInfo{}, err
	}
	id := platform.WindowID(args.WindowID)
	for _, ws := range status.State.Workspaces {
		for slot, w := range ws.Windows {
			if w.ID == id {
				return nil, windowInfo(slot, w), nil
			}
		}
	}
	return nil, WindowInfo{}, fmt.Errorf("%w: %d", wm.ErrUnknownWindow, args.WindowID)
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	if args.WindowID == 0 {
		return nil, ActionOutput{}, fmt.Errorf("window_id is required")
	}
	if err := s.daemon.FocusWindow(platform.WindowID(args.WindowID)); err != nil {
		return nil, ActionOutput{}, err
	}
	return s.result(fmt.Sprintf("focus_window %d", args.WindowID))
}

func (s *Server) handleFocusDirection(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run("focus " + args.Direction)
}

func (s *Server) handleSwapWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args DirectionInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run("swap " + args.Direction)
}

func (s *Server) handleSetLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args SetLayoutInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run("layout " + args.Layout)
}

func (s *Server) handleSwitchWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run(fmt.Sprintf("workspace %d", args.Workspace))
}

func (s *Server) handleMoveToWorkspace(_ context.Context, _ *mcpsdk.CallToolRequest, args WorkspaceInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run(fmt.Sprintf("move_to_workspace %d", args.Workspace))
}

func (s *Server) handleToggleFloating(_ context.Context, _ *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run("toggle_floating")
}

func (s *Server) handleSetMasterRatio(_ context.Context, _ *mcpsdk.CallToolRequest, args SetMasterRatioInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run(fmt.Sprintf("master_ratio %+d", args.Delta))
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.run(args.Command)
}

// run validates a command line locally, sends it to the daemon and reports
// the resulting focus.
func (s *Server) run(line string) (*mcpsdk.CallToolResult, ActionOutput, error) {
	cmd, err := wm.ParseCommand(strings.TrimSpace(line))
	if err != nil {
		return nil, ActionOutput{}, err
	}
	if cmd.Verb == wm.VerbSpawn || cmd.Verb == wm.VerbQuit {
		return nil, ActionOutput{}, fmt.Errorf("%w: %s is only available as a key binding", wm.ErrUnknownCommand, cmd.Verb)
	}
	if err := s.daemon.RunCommand(cmd.String()); err != nil {
		return nil, ActionOutput{}, err
	}
	return s.result(cmd.String())
}

func (s *Server) result(command string) (*mcpsdk.CallToolResult, ActionOutput, error) {
	out := ActionOutput{Command: command}
	status, err := s.daemon.GetStatus()
	if err != nil {
		// The command already ran; report it without the focus details.
		return nil, out, nil
	}
	out.ActiveWorkspace = status.State.Active + 1
	if f, ok := status.State.Focused(); ok {
		out.FocusedWindow = uint32(f.ID)
	}
	return nil, out, nil
}
