package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawWorkspace struct {
	Name        *string `yaml:"name"`
	Layout      *string `yaml:"layout"`
	MasterRatio *int    `yaml:"master_ratio"`
}

type RawAPI struct {
	ListenAddr *string `yaml:"listen_addr"`
}

// RawConfig mirrors the YAML file. Pointer fields distinguish "unset" from
// the zero value so later files only override what they name.
type RawConfig struct {
	Include                  IncludeList          `yaml:"include"`
	Display                  *string              `yaml:"display"`
	LogLevel                 *string              `yaml:"log_level"`
	BorderWidth              *int                 `yaml:"border_width"`
	BorderColor              *string              `yaml:"border_color"`
	FocusColor               *string              `yaml:"focus_color"`
	ScreenPadding            *RawMargins          `yaml:"screen_padding"`
	ModKey                   *string              `yaml:"mod_key"`
	WorkspaceCount           *int                 `yaml:"workspace_count"`
	DefaultLayout            *string              `yaml:"default_layout"`
	DefaultMasterRatio       *int                 `yaml:"default_master_ratio"`
	Workspaces               map[int]RawWorkspace `yaml:"workspaces"`
	Keybindings              map[string]string    `yaml:"keybindings"`
	MoveButton               *int                 `yaml:"move_button"`
	ResizeButton             *int                 `yaml:"resize_button"`
	FocusFollowsNew          *bool                `yaml:"focus_follows_new"`
	WarpPointer              *bool                `yaml:"warp_pointer"`
	ReconcileIntervalSeconds *int                 `yaml:"reconcile_interval_seconds"`
	API                      *RawAPI              `yaml:"api"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	if overlay.BorderColor != nil {
		out.BorderColor = overlay.BorderColor
	}
	if overlay.FocusColor != nil {
		out.FocusColor = overlay.FocusColor
	}
	if overlay.ScreenPadding != nil {
		out.ScreenPadding = mergeRawMargins(out.ScreenPadding, overlay.ScreenPadding)
	}
	if overlay.ModKey != nil {
		out.ModKey = overlay.ModKey
	}
	if overlay.WorkspaceCount != nil {
		out.WorkspaceCount = overlay.WorkspaceCount
	}
	if overlay.DefaultLayout != nil {
		out.DefaultLayout = overlay.DefaultLayout
	}
	if overlay.DefaultMasterRatio != nil {
		out.DefaultMasterRatio = overlay.DefaultMasterRatio
	}
	if overlay.Workspaces != nil {
		merged := make(map[int]RawWorkspace, len(out.Workspaces)+len(overlay.Workspaces))
		for index, ws := range out.Workspaces {
			merged[index] = ws
		}
		for index, patch := range overlay.Workspaces {
			merged[index] = mergeRawWorkspace(merged[index], patch)
		}
		out.Workspaces = merged
	}
	if overlay.Keybindings != nil {
		merged := make(map[string]string, len(out.Keybindings)+len(overlay.Keybindings))
		for key, cmd := range out.Keybindings {
			merged[key] = cmd
		}
		for key, cmd := range overlay.Keybindings {
			merged[key] = cmd
		}
		out.Keybindings = merged
	}
	if overlay.MoveButton != nil {
		out.MoveButton = overlay.MoveButton
	}
	if overlay.ResizeButton != nil {
		out.ResizeButton = overlay.ResizeButton
	}
	if overlay.FocusFollowsNew != nil {
		out.FocusFollowsNew = overlay.FocusFollowsNew
	}
	if overlay.WarpPointer != nil {
		out.WarpPointer = overlay.WarpPointer
	}
	if overlay.ReconcileIntervalSeconds != nil {
		out.ReconcileIntervalSeconds = overlay.ReconcileIntervalSeconds
	}
	if overlay.API != nil {
		api := RawAPI{}
		if out.API != nil {
			api = *out.API
		}
		if overlay.API.ListenAddr != nil {
			api.ListenAddr = overlay.API.ListenAddr
		}
		out.API = &api
	}

	return out
}

func mergeRawMargins(base *RawMargins, overlay *RawMargins) *RawMargins {
	out := RawMargins{}
	if base != nil {
		out = *base
	}
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return &out
}

func mergeRawWorkspace(base RawWorkspace, overlay RawWorkspace) RawWorkspace {
	out := base
	if overlay.Name != nil {
		out.Name = overlay.Name
	}
	if overlay.Layout != nil {
		out.Layout = overlay.Layout
	}
	if overlay.MasterRatio != nil {
		out.MasterRatio = overlay.MasterRatio
	}
	return out
}
