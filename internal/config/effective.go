package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/stackwm/internal/tiling"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw values over DefaultConfig. Layout names
// are normalized here so aliases like "float" reach the manager as "free".
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.BorderColor != nil {
		cfg.BorderColor = *raw.BorderColor
	}
	if raw.FocusColor != nil {
		cfg.FocusColor = *raw.FocusColor
	}
	if raw.ScreenPadding != nil {
		cfg.ScreenPadding = Margins{
			Top:    derefInt(raw.ScreenPadding.Top, cfg.ScreenPadding.Top),
			Bottom: derefInt(raw.ScreenPadding.Bottom, cfg.ScreenPadding.Bottom),
			Left:   derefInt(raw.ScreenPadding.Left, cfg.ScreenPadding.Left),
			Right:  derefInt(raw.ScreenPadding.Right, cfg.ScreenPadding.Right),
		}
	}
	if raw.ModKey != nil {
		cfg.ModKey = *raw.ModKey
	}
	if raw.WorkspaceCount != nil {
		cfg.WorkspaceCount = *raw.WorkspaceCount
		cfg.Keybindings = defaultKeybindings(cfg.WorkspaceCount)
	}
	if raw.DefaultLayout != nil {
		kind, err := tiling.ParseKind(*raw.DefaultLayout)
		if err != nil {
			return nil, &ValidationError{Path: "default_layout", Err: err}
		}
		cfg.DefaultLayout = kind
	}
	if raw.DefaultMasterRatio != nil {
		cfg.DefaultMasterRatio = *raw.DefaultMasterRatio
	}

	for _, index := range sortedIndexes(raw.Workspaces) {
		patch := raw.Workspaces[index]
		ws := cfg.Workspaces[index]
		if patch.Name != nil {
			ws.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Layout != nil {
			kind, err := tiling.ParseKind(*patch.Layout)
			if err != nil {
				return nil, &ValidationError{Path: fmt.Sprintf("workspaces.%d.layout", index), Err: err}
			}
			ws.Layout = kind
		}
		if patch.MasterRatio != nil {
			ws.MasterRatio = *patch.MasterRatio
		}
		cfg.Workspaces[index] = ws
	}

	// An empty command unbinds a default key.
	for key, cmd := range raw.Keybindings {
		if strings.TrimSpace(cmd) == "" {
			delete(cfg.Keybindings, key)
			continue
		}
		cfg.Keybindings[key] = cmd
	}

	if raw.MoveButton != nil {
		cfg.MoveButton = *raw.MoveButton
	}
	if raw.ResizeButton != nil {
		cfg.ResizeButton = *raw.ResizeButton
	}
	if raw.FocusFollowsNew != nil {
		cfg.FocusFollowsNew = *raw.FocusFollowsNew
	}
	if raw.WarpPointer != nil {
		cfg.WarpPointer = *raw.WarpPointer
	}
	if raw.ReconcileIntervalSeconds != nil {
		cfg.ReconcileIntervalSeconds = *raw.ReconcileIntervalSeconds
	}
	if raw.API != nil && raw.API.ListenAddr != nil {
		cfg.API.ListenAddr = strings.TrimSpace(*raw.API.ListenAddr)
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
