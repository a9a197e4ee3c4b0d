package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/stackwm/internal/tiling"
	"github.com/1broseidon/stackwm/internal/wm"
)

// Margins is a per-edge inset in pixels.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// WorkspaceConfig overrides the defaults of a single workspace.
type WorkspaceConfig struct {
	Name        string      `yaml:"name,omitempty"`
	Layout      tiling.Kind `yaml:"layout,omitempty"`
	MasterRatio int         `yaml:"master_ratio,omitempty"`
}

// APIConfig configures the optional HTTP API. An empty ListenAddr disables it.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr,omitempty"`
}

// ModKeyPlaceholder in a keybinding is replaced by mod_key.
const ModKeyPlaceholder = "$mod"

const (
	DefaultWorkspaceCount    = wm.DefaultWorkspaceCount
	DefaultBorderWidth       = 1
	DefaultReconcileInterval = 5
	DefaultMoveButton        = 1
	DefaultResizeButton      = 3
	maxWorkspaceCount        = 32
	maxMouseButton           = 5
	defaultBorderColor       = "#444444"
	defaultFocusColor        = "#5294e2"
	defaultModKey            = "Mod4"
)

// Config is the effective configuration after includes and defaults.
type Config struct {
	Display                  string                  `yaml:"display,omitempty"`
	LogLevel                 string                  `yaml:"log_level"`
	BorderWidth              int                     `yaml:"border_width"`
	BorderColor              string                  `yaml:"border_color"`
	FocusColor               string                  `yaml:"focus_color"`
	ScreenPadding            Margins                 `yaml:"screen_padding"`
	ModKey                   string                  `yaml:"mod_key"`
	WorkspaceCount           int                     `yaml:"workspace_count"`
	DefaultLayout            tiling.Kind             `yaml:"default_layout"`
	DefaultMasterRatio       int                     `yaml:"default_master_ratio"`
	Workspaces               map[int]WorkspaceConfig `yaml:"workspaces,omitempty"`
	Keybindings              map[string]string       `yaml:"keybindings"`
	MoveButton               int                     `yaml:"move_button"`
	ResizeButton             int                     `yaml:"resize_button"`
	FocusFollowsNew          bool                    `yaml:"focus_follows_new"`
	WarpPointer              bool                    `yaml:"warp_pointer"`
	ReconcileIntervalSeconds int                     `yaml:"reconcile_interval_seconds"`
	API                      APIConfig               `yaml:"api"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	cfg := &Config{
		LogLevel:                 "info",
		BorderWidth:              DefaultBorderWidth,
		BorderColor:              defaultBorderColor,
		FocusColor:               defaultFocusColor,
		ModKey:                   defaultModKey,
		WorkspaceCount:           DefaultWorkspaceCount,
		DefaultLayout:            tiling.KindTiled,
		DefaultMasterRatio:       tiling.DefaultMasterRatio,
		Workspaces:               map[int]WorkspaceConfig{},
		MoveButton:               DefaultMoveButton,
		ResizeButton:             DefaultResizeButton,
		FocusFollowsNew:          true,
		ReconcileIntervalSeconds: DefaultReconcileInterval,
		Keybindings:              defaultKeybindings(DefaultWorkspaceCount),
	}
	return cfg
}

// defaultKeybindings binds $mod-<n> and $mod-Shift-<n> for the first
// min(count, 9) workspaces.
func defaultKeybindings(count int) map[string]string {
	bindings := map[string]string{
		"$mod-Return":       "spawn " + DefaultTerminal(),
		"$mod-p":            "spawn stackwm menu",
		"$mod-j":            "focus next",
		"$mod-k":            "focus prev",
		"$mod-m":            "focus master",
		"$mod-Shift-j":      "swap next",
		"$mod-Shift-k":      "swap prev",
		"$mod-Shift-Return": "swap master",
		"$mod-h":            "master_ratio -5",
		"$mod-l":            "master_ratio +5",
		"$mod-space":        "layout cycle",
		"$mod-t":            "toggle_floating",
		"$mod-Shift-c":      "close",
		"$mod-Shift-q":      "quit",
	}
	for i := 1; i <= min(count, 9); i++ {
		bindings[fmt.Sprintf("$mod-%d", i)] = fmt.Sprintf("workspace %d", i)
		bindings[fmt.Sprintf("$mod-Shift-%d", i)] = fmt.Sprintf("move_to_workspace %d", i)
	}
	return bindings
}

// Validate checks the effective config. Errors are *ValidationError.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := ParseColor(c.BorderColor); err != nil {
		return &ValidationError{Path: "border_color", Err: err}
	}
	if _, err := ParseColor(c.FocusColor); err != nil {
		return &ValidationError{Path: "focus_color", Err: err}
	}
	if c.ScreenPadding.Top < 0 || c.ScreenPadding.Bottom < 0 || c.ScreenPadding.Left < 0 || c.ScreenPadding.Right < 0 {
		return &ValidationError{Path: "screen_padding", Err: fmt.Errorf("screen_padding values must be >= 0")}
	}
	switch c.ModKey {
	case "Mod1", "Mod2", "Mod3", "Mod4", "Mod5", "Control", "Shift":
	default:
		return &ValidationError{Path: "mod_key", Err: fmt.Errorf("mod_key must be one of: Mod1, Mod2, Mod3, Mod4, Mod5, Control, Shift")}
	}
	if c.WorkspaceCount < 1 || c.WorkspaceCount > maxWorkspaceCount {
		return &ValidationError{Path: "workspace_count", Err: fmt.Errorf("workspace_count must be between 1 and %d", maxWorkspaceCount)}
	}
	if _, err := tiling.ParseKind(string(c.DefaultLayout)); err != nil {
		return &ValidationError{Path: "default_layout", Err: err}
	}
	if err := validateRatio(c.DefaultMasterRatio); err != nil {
		return &ValidationError{Path: "default_master_ratio", Err: err}
	}

	for _, index := range sortedIndexes(c.Workspaces) {
		ws := c.Workspaces[index]
		path := fmt.Sprintf("workspaces.%d", index)
		if index < 1 || index > c.WorkspaceCount {
			return &ValidationError{Path: path, Err: fmt.Errorf("workspace index must be between 1 and workspace_count (%d)", c.WorkspaceCount)}
		}
		if ws.Layout != "" {
			if _, err := tiling.ParseKind(string(ws.Layout)); err != nil {
				return &ValidationError{Path: path + ".layout", Err: err}
			}
		}
		if ws.MasterRatio != 0 {
			if err := validateRatio(ws.MasterRatio); err != nil {
				return &ValidationError{Path: path + ".master_ratio", Err: err}
			}
		}
	}

	for _, key := range sortedKeys(c.Keybindings) {
		path := "keybindings." + key
		if strings.TrimSpace(key) == "" {
			return &ValidationError{Path: "keybindings", Err: fmt.Errorf("keybindings contains an empty key")}
		}
		cmd, err := wm.ParseCommand(c.Keybindings[key])
		if err != nil {
			return &ValidationError{Path: path, Err: err}
		}
		if (cmd.Verb == wm.VerbWorkspace || cmd.Verb == wm.VerbMoveToWorkspace) && cmd.Index >= c.WorkspaceCount {
			return &ValidationError{Path: path, Err: fmt.Errorf("workspace %d exceeds workspace_count (%d)", cmd.Index+1, c.WorkspaceCount)}
		}
	}

	if c.MoveButton < 1 || c.MoveButton > maxMouseButton {
		return &ValidationError{Path: "move_button", Err: fmt.Errorf("move_button must be between 1 and %d", maxMouseButton)}
	}
	if c.ResizeButton < 1 || c.ResizeButton > maxMouseButton {
		return &ValidationError{Path: "resize_button", Err: fmt.Errorf("resize_button must be between 1 and %d", maxMouseButton)}
	}
	if c.MoveButton == c.ResizeButton {
		return &ValidationError{Path: "resize_button", Err: fmt.Errorf("resize_button must differ from move_button")}
	}
	if c.ReconcileIntervalSeconds < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0 (0 disables)")}
	}
	return nil
}

func validateRatio(r int) error {
	if r < tiling.MinMasterRatio || r > tiling.MaxMasterRatio {
		return fmt.Errorf("master ratio must be between %d and %d", tiling.MinMasterRatio, tiling.MaxMasterRatio)
	}
	return nil
}

// WorkspaceDefaults expands the per-workspace settings into manager options,
// one entry per workspace.
func (c *Config) WorkspaceDefaults() []wm.WorkspaceDefaults {
	out := make([]wm.WorkspaceDefaults, c.WorkspaceCount)
	for i := range out {
		d := wm.WorkspaceDefaults{Layout: c.DefaultLayout, MasterRatio: c.DefaultMasterRatio}
		if ws, ok := c.Workspaces[i+1]; ok {
			d.Name = ws.Name
			if ws.Layout != "" {
				d.Layout = ws.Layout
			}
			if ws.MasterRatio != 0 {
				d.MasterRatio = ws.MasterRatio
			}
		}
		out[i] = d
	}
	return out
}

// ResolvedKeybindings returns keybindings with the mod placeholder expanded.
func (c *Config) ResolvedKeybindings() map[string]string {
	out := make(map[string]string, len(c.Keybindings))
	for key, cmd := range c.Keybindings {
		out[c.ExpandKey(key)] = cmd
	}
	return out
}

// ExpandKey replaces $mod with the configured modifier.
func (c *Config) ExpandKey(key string) string {
	return strings.ReplaceAll(key, ModKeyPlaceholder, c.ModKey)
}

// ButtonBinding returns the xgbutil mousebind string for a button.
func (c *Config) ButtonBinding(button int) string {
	return fmt.Sprintf("%s-%d", c.ModKey, button)
}

// ParseColor parses "#rrggbb" into a pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	return uint32(v), nil
}

// Colors returns the parsed border and focus colors. Validate must have
// succeeded first.
func (c *Config) Colors() (normal, focus uint32) {
	normal, _ = ParseColor(c.BorderColor)
	focus, _ = ParseColor(c.FocusColor)
	return normal, focus
}

func sortedIndexes[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
