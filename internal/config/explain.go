package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	display
//	log_level
//	border_width
//	screen_padding.top
//	mod_key
//	workspace_count
//	default_layout
//	workspaces.<index>.layout
//	keybindings.<key>
//	api.listen_addr
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "display":
		return leaf(cfg.Display)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "border_width":
		return leaf(cfg.BorderWidth)
	case "border_color":
		return leaf(cfg.BorderColor)
	case "focus_color":
		return leaf(cfg.FocusColor)
	case "mod_key":
		return leaf(cfg.ModKey)
	case "workspace_count":
		return leaf(cfg.WorkspaceCount)
	case "default_layout":
		return leaf(string(cfg.DefaultLayout))
	case "default_master_ratio":
		return leaf(cfg.DefaultMasterRatio)
	case "move_button":
		return leaf(cfg.MoveButton)
	case "resize_button":
		return leaf(cfg.ResizeButton)
	case "focus_follows_new":
		return leaf(cfg.FocusFollowsNew)
	case "warp_pointer":
		return leaf(cfg.WarpPointer)
	case "reconcile_interval_seconds":
		return leaf(cfg.ReconcileIntervalSeconds)
	case "screen_padding":
		if len(parts) == 1 {
			return cfg.ScreenPadding, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "top":
			return cfg.ScreenPadding.Top, nil
		case "bottom":
			return cfg.ScreenPadding.Bottom, nil
		case "left":
			return cfg.ScreenPadding.Left, nil
		case "right":
			return cfg.ScreenPadding.Right, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "api":
		if len(parts) == 1 {
			return cfg.API, nil
		}
		if len(parts) == 2 && parts[1] == "listen_addr" {
			return cfg.API.ListenAddr, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	case "keybindings":
		if len(parts) == 1 {
			return cfg.Keybindings, nil
		}
		key := strings.Join(parts[1:], ".")
		cmd, ok := cfg.Keybindings[key]
		if !ok {
			return nil, fmt.Errorf("unknown keybindings entry %q", key)
		}
		return cmd, nil
	case "workspaces":
		return lookupWorkspace(cfg, path, parts[1:])
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

// lookupWorkspace resolves workspaces.<index>[.field] against the expanded
// per-workspace defaults, so unset fields report what the manager will use.
func lookupWorkspace(cfg *Config, path string, parts []string) (any, error) {
	if len(parts) == 0 {
		return cfg.Workspaces, nil
	}
	index, err := strconv.Atoi(parts[0])
	if err != nil || index < 1 || index > cfg.WorkspaceCount {
		return nil, fmt.Errorf("unknown workspace %q", parts[0])
	}
	d := cfg.WorkspaceDefaults()[index-1]
	if len(parts) == 1 {
		return WorkspaceConfig{Name: d.Name, Layout: d.Layout, MasterRatio: d.MasterRatio}, nil
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	switch parts[1] {
	case "name":
		return d.Name, nil
	case "layout":
		return string(d.Layout), nil
	case "master_ratio":
		return d.MasterRatio, nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
