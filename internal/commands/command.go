// Package commands implements the app-command grammar and the command
// handlers spec.md §4.7 names. Commands are parsed from a single string
// (as they arrive from a keybinding's `commands` list or from the IPC
// `Command` request) as argv: a verb followed by GNU-style long flags,
// tokenized here with github.com/anmitsu/go-shlex and parsed per-verb
// with github.com/spf13/pflag (the flag package cobra itself is built on).
package commands

import (
	"fmt"
	"strconv"

	"github.com/anmitsu/go-shlex"
	"github.com/spf13/pflag"

	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
)

// Verb identifies which command a Command value carries (spec.md §4.7's
// InvokeCommand enum, renamed to Go conventions).
type Verb string

const (
	VerbAdjustBorders          Verb = "adjust-borders"
	VerbClose                  Verb = "close"
	VerbFocus                  Verb = "focus"
	VerbIgnore                 Verb = "ignore"
	VerbMove                    Verb = "move"
	VerbMoveWorkspace          Verb = "move-workspace"
	VerbResize                  Verb = "resize"
	VerbSetFloating             Verb = "set-floating"
	VerbSetFullscreen           Verb = "set-fullscreen"
	VerbSetMinimized            Verb = "set-minimized"
	VerbSetTiling               Verb = "set-tiling"
	VerbSetTransparency         Verb = "set-transparency"
	VerbShellExec               Verb = "shell-exec"
	VerbToggleFloating          Verb = "toggle-floating"
	VerbToggleFullscreen        Verb = "toggle-fullscreen"
	VerbToggleMinimized         Verb = "toggle-minimized"
	VerbToggleTiling            Verb = "toggle-tiling"
	VerbToggleTilingDirection   Verb = "toggle-tiling-direction"
	VerbSetTilingDirection      Verb = "set-tiling-direction"
	VerbWmCycleFocus            Verb = "wm-cycle-focus"
	VerbWmDisableBindingMode    Verb = "wm-disable-binding-mode"
	VerbWmEnableBindingMode     Verb = "wm-enable-binding-mode"
	VerbWmRedraw                Verb = "wm-redraw"
	VerbWmReloadConfig          Verb = "wm-reload-config"
	VerbWmTogglePause           Verb = "wm-toggle-pause"
)

// Direction is a 4-way spatial direction (spec.md §4.7's `--direction`
// flag). Not present in any retrieved original_source file (its Direction
// enum was not among the files the retrieval pack kept) — defined directly
// from spec.md's left/right/up/down vocabulary.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
)

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	switch d {
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	default:
		return d
	}
}

// Axis reports which tiling axis a direction moves along.
func (d Direction) Axis() containers.TilingDirection {
	if d == DirectionLeft || d == DirectionRight {
		return containers.DirectionHorizontal
	}
	return containers.DirectionVertical
}

// Command is a parsed app-command invocation, tagged by Verb with only
// the fields relevant to that verb populated (spec.md §9's tagged-struct
// convention, applied here the same way containers.Container applies it
// to the six node kinds).
type Command struct {
	Verb Verb

	// Focus / Move shared targeting fields.
	Direction                 *Direction
	ContainerID               string
	Workspace                 string
	WorkspaceInDirection      *Direction
	Monitor                   *int
	NextActiveWorkspace       bool
	PrevActiveWorkspace       bool
	NextWorkspace             bool
	PrevWorkspace             bool
	NextActiveWorkspaceOnMonitor bool
	PrevActiveWorkspaceOnMonitor bool
	RecentWorkspace           bool

	// AdjustBorders / Resize.
	Top    *geometry.LengthValue
	Right  *geometry.LengthValue
	Bottom *geometry.LengthValue
	Left   *geometry.LengthValue
	Width  *geometry.LengthValue
	Height *geometry.LengthValue

	// SetFloating / ToggleFloating.
	ShownOnTop *bool
	Centered   *bool

	// SetFullscreen / ToggleFullscreen (Maximized); SetFloating /
	// ToggleFloating (XPos, YPos).
	Maximized *bool
	XPos       *int
	YPos       *int

	// SetTransparency.
	Opacity      *float64
	OpacityDelta *float64

	// ShellExec.
	ShellCommand []string
	HideWindow   bool

	// SetTilingDirection.
	TilingDirection containers.TilingDirection

	// WmCycleFocus.
	OmitFloating   bool
	OmitFullscreen bool
	OmitMinimized  bool
	OmitTiling     bool

	// WmEnableBindingMode / WmDisableBindingMode.
	BindingModeName string
}

// Parse tokenizes and parses a single app-command string, e.g.
// "focus --direction left" or "resize --width 60%" (spec.md §4.7,
// §6.1's keybinding `commands` entries).
func Parse(line string) (Command, error) {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return Command{}, fmt.Errorf("tokenize command %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	verb := Verb(tokens[0])
	args := tokens[1:]

	switch verb {
	case VerbFocus, VerbMove:
		return parseTargeting(verb, args)
	case VerbMoveWorkspace:
		return parseDirectionOnly(verb, args)
	case VerbResize:
		return parseResize(args)
	case VerbAdjustBorders:
		return parseAdjustBorders(args)
	case VerbSetFloating, VerbToggleFloating:
		return parseFloating(verb, args)
	case VerbSetFullscreen, VerbToggleFullscreen:
		return parseFullscreen(verb, args)
	case VerbSetTransparency:
		return parseTransparency(args)
	case VerbShellExec:
		return parseShellExec(args)
	case VerbSetTilingDirection:
		return parseSetTilingDirection(args)
	case VerbWmCycleFocus:
		return parseWmCycleFocus(args)
	case VerbWmEnableBindingMode, VerbWmDisableBindingMode:
		return parseBindingMode(verb, args)
	case VerbClose, VerbIgnore, VerbSetMinimized, VerbSetTiling,
		VerbToggleMinimized, VerbToggleTiling, VerbToggleTilingDirection,
		VerbWmRedraw, VerbWmReloadConfig, VerbWmTogglePause:
		return Command{Verb: verb}, nil
	default:
		return Command{}, fmt.Errorf("unknown command verb %q", verb)
	}
}

func newFlagSet(verb Verb) *pflag.FlagSet {
	fs := pflag.NewFlagSet(string(verb), pflag.ContinueOnError)
	fs.Usage = func() {}
	return fs
}

func parseTargeting(verb Verb, args []string) (Command, error) {
	fs := newFlagSet(verb)
	direction := fs.String("direction", "", "")
	containerID := fs.String("container-id", "", "")
	workspaceInDirection := fs.String("workspace-in-direction", "", "")
	workspace := fs.String("workspace", "", "")
	monitor := fs.Int("monitor", -1, "")
	nextActive := fs.Bool("next-active-workspace", false, "")
	prevActive := fs.Bool("prev-active-workspace", false, "")
	next := fs.Bool("next-workspace", false, "")
	prev := fs.Bool("prev-workspace", false, "")
	nextActiveOnMonitor := fs.Bool("next-active-workspace-on-monitor", false, "")
	prevActiveOnMonitor := fs.Bool("prev-active-workspace-on-monitor", false, "")
	recent := fs.Bool("recent-workspace", false, "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}

	cmd := Command{
		Verb:                         verb,
		ContainerID:                  *containerID,
		Workspace:                    *workspace,
		NextActiveWorkspace:          *nextActive,
		PrevActiveWorkspace:          *prevActive,
		NextWorkspace:                *next,
		PrevWorkspace:                *prev,
		NextActiveWorkspaceOnMonitor: *nextActiveOnMonitor,
		PrevActiveWorkspaceOnMonitor: *prevActiveOnMonitor,
		RecentWorkspace:              *recent,
	}
	if *direction != "" {
		d := Direction(*direction)
		cmd.Direction = &d
	}
	if *workspaceInDirection != "" {
		d := Direction(*workspaceInDirection)
		cmd.WorkspaceInDirection = &d
	}
	if *monitor >= 0 {
		cmd.Monitor = monitor
	}
	return cmd, nil
}

func parseDirectionOnly(verb Verb, args []string) (Command, error) {
	fs := newFlagSet(verb)
	direction := fs.String("direction", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	if *direction == "" {
		return Command{}, fmt.Errorf("%s requires --direction", verb)
	}
	d := Direction(*direction)
	return Command{Verb: verb, Direction: &d}, nil
}

func parseResize(args []string) (Command, error) {
	fs := newFlagSet(VerbResize)
	width := fs.String("width", "", "")
	height := fs.String("height", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: VerbResize}
	var err error
	if cmd.Width, err = parseOptionalLength(*width); err != nil {
		return Command{}, err
	}
	if cmd.Height, err = parseOptionalLength(*height); err != nil {
		return Command{}, err
	}
	if cmd.Width == nil && cmd.Height == nil {
		return Command{}, fmt.Errorf("resize requires --width and/or --height")
	}
	return cmd, nil
}

func parseAdjustBorders(args []string) (Command, error) {
	fs := newFlagSet(VerbAdjustBorders)
	top := fs.String("top", "", "")
	right := fs.String("right", "", "")
	bottom := fs.String("bottom", "", "")
	left := fs.String("left", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: VerbAdjustBorders}
	var err error
	if cmd.Top, err = parseOptionalLength(*top); err != nil {
		return Command{}, err
	}
	if cmd.Right, err = parseOptionalLength(*right); err != nil {
		return Command{}, err
	}
	if cmd.Bottom, err = parseOptionalLength(*bottom); err != nil {
		return Command{}, err
	}
	if cmd.Left, err = parseOptionalLength(*left); err != nil {
		return Command{}, err
	}
	if cmd.Top == nil && cmd.Right == nil && cmd.Bottom == nil && cmd.Left == nil {
		return Command{}, fmt.Errorf("adjust-borders requires at least one of --top/--right/--bottom/--left")
	}
	return cmd, nil
}

func parseOptionalLength(raw string) (*geometry.LengthValue, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := geometry.ParseLengthValue(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFloating(verb Verb, args []string) (Command, error) {
	fs := newFlagSet(verb)
	shownOnTop := fs.String("shown-on-top", "", "")
	centered := fs.String("centered", "", "")
	xPos := fs.Int("x-pos", 0, "")
	yPos := fs.Int("y-pos", 0, "")
	width := fs.String("width", "", "")
	height := fs.String("height", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: verb}
	var err error
	if cmd.ShownOnTop, err = parseOptionalBool(*shownOnTop); err != nil {
		return Command{}, err
	}
	if cmd.Centered, err = parseOptionalBool(*centered); err != nil {
		return Command{}, err
	}
	if fs.Changed("x-pos") {
		cmd.XPos = xPos
	}
	if fs.Changed("y-pos") {
		cmd.YPos = yPos
	}
	if cmd.Width, err = parseOptionalLength(*width); err != nil {
		return Command{}, err
	}
	if cmd.Height, err = parseOptionalLength(*height); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func parseFullscreen(verb Verb, args []string) (Command, error) {
	fs := newFlagSet(verb)
	shownOnTop := fs.String("shown-on-top", "", "")
	maximized := fs.String("maximized", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: verb}
	var err error
	if cmd.ShownOnTop, err = parseOptionalBool(*shownOnTop); err != nil {
		return Command{}, err
	}
	if cmd.Maximized, err = parseOptionalBool(*maximized); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

func parseOptionalBool(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q: %w", raw, err)
	}
	return &v, nil
}

func parseTransparency(args []string) (Command, error) {
	fs := newFlagSet(VerbSetTransparency)
	opacity := fs.String("opacity", "", "")
	delta := fs.String("opacity-delta", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	cmd := Command{Verb: VerbSetTransparency}
	if *opacity != "" {
		v, err := strconv.ParseFloat(*opacity, 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid --opacity %q: %w", *opacity, err)
		}
		cmd.Opacity = &v
	}
	if *delta != "" {
		v, err := strconv.ParseFloat(*delta, 64)
		if err != nil {
			return Command{}, fmt.Errorf("invalid --opacity-delta %q: %w", *delta, err)
		}
		cmd.OpacityDelta = &v
	}
	if cmd.Opacity == nil && cmd.OpacityDelta == nil {
		return Command{}, fmt.Errorf("set-transparency requires --opacity or --opacity-delta")
	}
	return cmd, nil
}

func parseShellExec(args []string) (Command, error) {
	fs := newFlagSet(VerbShellExec)
	hide := fs.Bool("hide-window", false, "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return Command{}, fmt.Errorf("shell-exec requires a command")
	}
	return Command{Verb: VerbShellExec, ShellCommand: rest, HideWindow: *hide}, nil
}

func parseSetTilingDirection(args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("set-tiling-direction requires horizontal or vertical")
	}
	switch args[0] {
	case "horizontal":
		return Command{Verb: VerbSetTilingDirection, TilingDirection: containers.DirectionHorizontal}, nil
	case "vertical":
		return Command{Verb: VerbSetTilingDirection, TilingDirection: containers.DirectionVertical}, nil
	default:
		return Command{}, fmt.Errorf("unknown tiling direction %q", args[0])
	}
}

func parseWmCycleFocus(args []string) (Command, error) {
	fs := newFlagSet(VerbWmCycleFocus)
	omitFloating := fs.Bool("omit-floating", false, "")
	omitFullscreen := fs.Bool("omit-fullscreen", false, "")
	omitMinimized := fs.Bool("omit-minimized", true, "")
	omitTiling := fs.Bool("omit-tiling", false, "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	return Command{
		Verb:           VerbWmCycleFocus,
		OmitFloating:   *omitFloating,
		OmitFullscreen: *omitFullscreen,
		OmitMinimized:  *omitMinimized,
		OmitTiling:     *omitTiling,
	}, nil
}

func parseBindingMode(verb Verb, args []string) (Command, error) {
	fs := newFlagSet(verb)
	name := fs.String("name", "", "")
	if err := fs.Parse(args); err != nil {
		return Command{}, err
	}
	if *name == "" {
		return Command{}, fmt.Errorf("%s requires --name", verb)
	}
	return Command{Verb: verb, BindingModeName: *name}, nil
}
