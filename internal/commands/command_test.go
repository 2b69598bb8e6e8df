package commands

import "testing"

func TestParseFocusDirection(t *testing.T) {
	cmd, err := Parse("focus --direction left")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.Verb != VerbFocus || cmd.Direction == nil || *cmd.Direction != DirectionLeft {
		t.Fatalf("Parse() = %+v, want Focus direction=left", cmd)
	}
}

func TestParseMoveWorkspace(t *testing.T) {
	cmd, err := Parse("move --workspace 2")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.Verb != VerbMove || cmd.Workspace != "2" {
		t.Fatalf("Parse() = %+v, want Move workspace=2", cmd)
	}
}

func TestParseResizeRequiresWidthOrHeight(t *testing.T) {
	if _, err := Parse("resize"); err == nil {
		t.Fatal("Parse(\"resize\") succeeded, want error for missing width/height")
	}
	cmd, err := Parse("resize --width 60%")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.Width == nil || cmd.Width.Amount != 60 {
		t.Fatalf("Parse() width = %+v, want 60%%", cmd.Width)
	}
}

func TestParseAdjustBorders(t *testing.T) {
	cmd, err := Parse("adjust-borders --top 2px --left -2px")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.Top == nil || cmd.Left == nil {
		t.Fatalf("Parse() = %+v, want top and left set", cmd)
	}
}

func TestParseAdjustBordersRequiresAtLeastOneSide(t *testing.T) {
	if _, err := Parse("adjust-borders"); err == nil {
		t.Fatal("Parse(\"adjust-borders\") succeeded, want error")
	}
}

func TestParseSetFloatingFlags(t *testing.T) {
	cmd, err := Parse("set-floating --centered=true --shown-on-top=false")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.Centered == nil || !*cmd.Centered {
		t.Errorf("Centered = %v, want true", cmd.Centered)
	}
	if cmd.ShownOnTop == nil || *cmd.ShownOnTop {
		t.Errorf("ShownOnTop = %v, want false", cmd.ShownOnTop)
	}
}

func TestParseShellExecCapturesTrailingArgs(t *testing.T) {
	cmd, err := Parse("shell-exec --hide-window notepad.exe foo.txt")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cmd.HideWindow {
		t.Error("HideWindow = false, want true")
	}
	if len(cmd.ShellCommand) != 2 || cmd.ShellCommand[0] != "notepad.exe" || cmd.ShellCommand[1] != "foo.txt" {
		t.Errorf("ShellCommand = %v, want [notepad.exe foo.txt]", cmd.ShellCommand)
	}
}

func TestParseShellExecRequiresCommand(t *testing.T) {
	if _, err := Parse("shell-exec"); err == nil {
		t.Fatal("Parse(\"shell-exec\") succeeded, want error for missing command")
	}
}

func TestParseSetTilingDirection(t *testing.T) {
	cmd, err := Parse("set-tiling-direction vertical")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.Verb != VerbSetTilingDirection {
		t.Fatalf("Verb = %v, want set-tiling-direction", cmd.Verb)
	}
}

func TestParseSetTilingDirectionRejectsUnknown(t *testing.T) {
	if _, err := Parse("set-tiling-direction diagonal"); err == nil {
		t.Fatal("Parse() succeeded, want error for unknown direction")
	}
}

func TestParseWmCycleFocusDefaults(t *testing.T) {
	cmd, err := Parse("wm-cycle-focus")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cmd.OmitMinimized {
		t.Error("OmitMinimized default = false, want true")
	}
}

func TestParseWmEnableBindingModeRequiresName(t *testing.T) {
	if _, err := Parse("wm-enable-binding-mode"); err == nil {
		t.Fatal("Parse() succeeded, want error for missing --name")
	}
	cmd, err := Parse("wm-enable-binding-mode --name resize")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cmd.BindingModeName != "resize" {
		t.Errorf("BindingModeName = %q, want resize", cmd.BindingModeName)
	}
}

func TestParseNoArgCommands(t *testing.T) {
	for _, verb := range []Verb{VerbClose, VerbIgnore, VerbSetMinimized, VerbSetTiling, VerbToggleTiling, VerbWmRedraw, VerbWmReloadConfig, VerbWmTogglePause} {
		cmd, err := Parse(string(verb))
		if err != nil {
			t.Errorf("Parse(%q) error = %v", verb, err)
		}
		if cmd.Verb != verb {
			t.Errorf("Parse(%q).Verb = %v, want %v", verb, cmd.Verb, verb)
		}
	}
}

func TestParseUnknownVerb(t *testing.T) {
	if _, err := Parse("teleport-window"); err == nil {
		t.Fatal("Parse() succeeded, want error for unknown verb")
	}
}

func TestParseEmptyCommand(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("Parse(\"\") succeeded, want error")
	}
}
