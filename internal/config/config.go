// Package config loads, validates, defaults, and hot-reloads the YAML user
// configuration (spec.md §6.1): a load/save/validate/fill-defaults shape
// using a YAML codec and the chord/command schema spec.md §6.1 names.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const envConfigPath = "TILEWM_CONFIG_PATH"

// =============================================================================
// Top-level schema (spec.md §6.1)
// =============================================================================

// Config is the root of the YAML configuration document.
type Config struct {
	BindingModes    []BindingModeConfig `yaml:"binding_modes"`
	Gaps            GapsConfig          `yaml:"gaps"`
	General         GeneralConfig       `yaml:"general"`
	Keybindings     []KeybindingEntry   `yaml:"keybindings"`
	WindowBehavior  WindowBehaviorConfig `yaml:"window_behavior"`
	WindowEffects   WindowEffectsConfig  `yaml:"window_effects"`
	WindowRules     []WindowRuleConfig   `yaml:"window_rules"`
	Workspaces      []WorkspaceConfig    `yaml:"workspaces"`
}

// BindingModeConfig is a named set of keybindings that can be pushed onto
// the binding-mode stack (SUPPLEMENTED FEATURES, SPEC_FULL.md).
type BindingModeConfig struct {
	Name        string            `yaml:"name"`
	DisplayName string            `yaml:"display_name,omitempty"`
	Keybindings []KeybindingEntry `yaml:"keybindings"`
}

// KeybindingEntry binds one or more chords to a list of app-command
// invocations (spec.md §6.1, §4.7).
type KeybindingEntry struct {
	Bindings []string `yaml:"bindings"`
	Commands []string `yaml:"commands"`
}

// GapsConfig is the top-level default gaps block (spec.md §6.1). Workspace-
// and monitor-level overrides, if any, are layered on top by the reducer at
// workspace-creation time; this struct is the config-file shape only.
type GapsConfig struct {
	ScaleWithDPI         bool             `yaml:"scale_with_dpi"`
	InnerGap             string           `yaml:"inner_gap"`
	OuterGap             OuterGapConfig   `yaml:"outer_gap"`
	SingleWindowOuterGap *OuterGapConfig  `yaml:"single_window_outer_gap,omitempty"`
}

// OuterGapConfig is a per-side gap in the YAML's raw string form ("10px",
// "5%"). Validate only checks that each side parses; internal/wm resolves
// it to a geometry.LengthRectDelta when building the tree.
type OuterGapConfig struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

// CursorJumpTrigger selects when the cursor follows focus.
type CursorJumpTrigger string

const (
	CursorJumpMonitorFocus CursorJumpTrigger = "monitor_focus"
	CursorJumpWindowFocus  CursorJumpTrigger = "window_focus"
)

// HideMethodName is the YAML string form of platform.HideMethod.
type HideMethodName string

const (
	HideMethodNameHide          HideMethodName = "hide"
	HideMethodNameCloak         HideMethodName = "cloak"
	HideMethodNamePlaceInCorner HideMethodName = "place_in_corner"
)

// GeneralConfig is the `general` block (spec.md §6.1).
type GeneralConfig struct {
	CursorJump struct {
		Enabled bool              `yaml:"enabled"`
		Trigger CursorJumpTrigger `yaml:"trigger"`
	} `yaml:"cursor_jump"`
	FocusFollowsCursor       bool           `yaml:"focus_follows_cursor"`
	ToggleWorkspaceOnRefocus bool           `yaml:"toggle_workspace_on_refocus"`
	StartupCommands          []string       `yaml:"startup_commands"`
	ShutdownCommands         []string       `yaml:"shutdown_commands"`
	ConfigReloadCommands     []string       `yaml:"config_reload_commands"`
	HideMethod               HideMethodName `yaml:"hide_method"`
	ShowAllInTaskbar          bool           `yaml:"show_all_in_taskbar"`
	MaxWindowWidth            *string        `yaml:"max_window_width,omitempty"`
}

// WindowBehaviorConfig is the `window_behavior` block.
type WindowBehaviorConfig struct {
	InitialState   string `yaml:"initial_state"` // "tiling" | "floating"
	StateDefaults  struct {
		Floating struct {
			Centered   bool `yaml:"centered"`
			ShownOnTop bool `yaml:"shown_on_top"`
		} `yaml:"floating"`
		Fullscreen struct {
			Maximized  bool `yaml:"maximized"`
			ShownOnTop bool `yaml:"shown_on_top"`
		} `yaml:"fullscreen"`
	} `yaml:"state_defaults"`
}

// WindowEffectsConfig is the `window_effects` block.
type WindowEffectsConfig struct {
	FocusedWindow EffectSet `yaml:"focused_window"`
	OtherWindows  EffectSet `yaml:"other_windows"`
}

// EffectSet is one side (focused/other) of window_effects.
type EffectSet struct {
	Border struct {
		Enabled bool   `yaml:"enabled"`
		Color   string `yaml:"color"`
	} `yaml:"border"`
	HideTitleBar struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"hide_title_bar"`
	CornerStyle struct {
		Enabled bool   `yaml:"enabled"`
		Style   string `yaml:"style"`
	} `yaml:"corner_style"`
	Transparency struct {
		Enabled bool    `yaml:"enabled"`
		Opacity float64 `yaml:"opacity"`
	} `yaml:"transparency"`
}

// WindowMatchClause is one `match` entry in a window rule (spec.md §6.1).
type WindowMatchClause struct {
	WindowProcess *MatchOperator `yaml:"window_process,omitempty"`
	WindowClass   *MatchOperator `yaml:"window_class,omitempty"`
	WindowTitle   *MatchOperator `yaml:"window_title,omitempty"`
}

// MatchOperator is exactly one of equals/includes/regex/not_equals/not_regex.
type MatchOperator struct {
	Equals    *string `yaml:"equals,omitempty"`
	Includes  *string `yaml:"includes,omitempty"`
	Regex     *string `yaml:"regex,omitempty"`
	NotEquals *string `yaml:"not_equals,omitempty"`
	NotRegex  *string `yaml:"not_regex,omitempty"`
}

// WindowRuleConfig is one `window_rules` entry.
type WindowRuleConfig struct {
	Commands []string            `yaml:"commands"`
	Match    []WindowMatchClause `yaml:"match"`
	On       []string            `yaml:"on"` // focus | manage | title_change
	RunOnce  bool                `yaml:"run_once"`
}

// WorkspaceConfig is one `workspaces` entry.
type WorkspaceConfig struct {
	Name           string  `yaml:"name"`
	DisplayName    string  `yaml:"display_name,omitempty"`
	BindToMonitor  *int    `yaml:"bind_to_monitor,omitempty"`
	KeepAlive      bool    `yaml:"keep_alive"`
}

// =============================================================================
// Defaults
// =============================================================================

// DefaultConfig returns the built-in configuration written out the first
// time tilewm runs without a config file (spec.md §6.3 "sample config").
func DefaultConfig() *Config {
	cfg := &Config{
		Gaps: GapsConfig{
			ScaleWithDPI: true,
			InnerGap:     "8px",
			OuterGap:     OuterGapConfig{Top: "8px", Right: "8px", Bottom: "8px", Left: "8px"},
		},
		General: GeneralConfig{
			ToggleWorkspaceOnRefocus: true,
			HideMethod:               HideMethodNameHide,
		},
		Keybindings: defaultKeybindings(),
		WindowBehavior: WindowBehaviorConfig{
			InitialState: "tiling",
		},
		Workspaces: []WorkspaceConfig{
			{Name: "1", KeepAlive: true},
			{Name: "2", KeepAlive: true},
			{Name: "3", KeepAlive: true},
		},
	}
	cfg.General.CursorJump.Enabled = true
	cfg.General.CursorJump.Trigger = CursorJumpWindowFocus
	return cfg
}

// defaultKeybindings is the out-of-the-box window-management/navigation
// keymap, expressed as tilewm's chord+command-list entries.
func defaultKeybindings() []KeybindingEntry {
	return []KeybindingEntry{
		{Bindings: []string{"alt+h"}, Commands: []string{"focus --direction left"}},
		{Bindings: []string{"alt+l"}, Commands: []string{"focus --direction right"}},
		{Bindings: []string{"alt+k"}, Commands: []string{"focus --direction up"}},
		{Bindings: []string{"alt+j"}, Commands: []string{"focus --direction down"}},
		{Bindings: []string{"alt+shift+h"}, Commands: []string{"move --direction left"}},
		{Bindings: []string{"alt+shift+l"}, Commands: []string{"move --direction right"}},
		{Bindings: []string{"alt+shift+k"}, Commands: []string{"move --direction up"}},
		{Bindings: []string{"alt+shift+j"}, Commands: []string{"move --direction down"}},
		{Bindings: []string{"alt+v"}, Commands: []string{"toggle-tiling-direction"}},
		{Bindings: []string{"alt+f"}, Commands: []string{"toggle-fullscreen"}},
		{Bindings: []string{"alt+shift+space"}, Commands: []string{"toggle-floating"}},
		{Bindings: []string{"alt+shift+q"}, Commands: []string{"close"}},
	}
}

// =============================================================================
// Path resolution and loading
// =============================================================================

// ResolveConfigPath returns the config file path to use: the
// TILEWM_CONFIG_PATH environment override if set, else the xdg-resolved
// default (spec.md §6.3).
func ResolveConfigPath() (string, error) {
	if p := os.Getenv(envConfigPath); p != "" {
		return p, nil
	}
	if found, err := xdg.SearchConfigFile("tilewm/config.yaml"); err == nil {
		return found, nil
	}
	return xdg.ConfigFile("tilewm/config.yaml")
}

const envSocketPath = "TILEWM_SOCKET_PATH"

// ResolveSocketPath returns the IPC socket path to use: the
// TILEWM_SOCKET_PATH environment override if set, else the xdg-resolved
// runtime-dir default (spec.md §6.2's "local Unix socket").
func ResolveSocketPath() (string, error) {
	if p := os.Getenv(envSocketPath); p != "" {
		return p, nil
	}
	return xdg.RuntimeFile("tilewm/tilewm.sock")
}

// Load reads and parses the config at path, filling in any top-level
// sections the file omits with the built-in defaults (spec.md §6.3: "If
// absent, a sample config is written in place" — Load itself only reads;
// callers wanting write-if-absent use LoadOrCreate).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	fillDefaults(&cfg)
	return &cfg, nil
}

// LoadOrCreate resolves the config path, loads it if present, or writes and
// returns the default configuration if not (spec.md §6.3).
func LoadOrCreate(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
		return writeDefault(path)
	}
	return Load(path)
}

func writeDefault(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# tilewm configuration file\n")
	sb.WriteString("# See https://github.com/tilewm/tilewm for the full key reference.\n\n")

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal default config: %w", err)
	}
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		return nil, fmt.Errorf("write config file: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in zero-value top-level sections (most notably an
// empty Keybindings/Workspaces list) with DefaultConfig's values.
func fillDefaults(cfg *Config) {
	defaults := DefaultConfig()
	if len(cfg.Keybindings) == 0 {
		cfg.Keybindings = defaults.Keybindings
	}
	if len(cfg.Workspaces) == 0 {
		cfg.Workspaces = defaults.Workspaces
	}
	if cfg.Gaps.InnerGap == "" {
		cfg.Gaps = defaults.Gaps
	}
	if cfg.General.HideMethod == "" {
		cfg.General.HideMethod = defaults.General.HideMethod
	}
	if cfg.WindowBehavior.InitialState == "" {
		cfg.WindowBehavior.InitialState = defaults.WindowBehavior.InitialState
	}
}
