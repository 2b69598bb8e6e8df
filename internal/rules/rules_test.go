package rules

import (
	"testing"

	"github.com/tilewm/tilewm/internal/commands"
	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform/fake"
)

func buildTestWorkspace(t *testing.T) (*containers.Tree, *containers.Container) {
	t.Helper()
	tree := containers.NewTree()
	monitor := containers.NewMonitor(fake.NewMonitor("m1", "display-1", geometry.Rect{Width: 1920, Height: 1080}, 1.0, true), geometry.Rect{Width: 1920, Height: 1080}, 1.0)
	tree.AttachContainer(monitor, tree.RootID(), -1)
	workspace := containers.NewWorkspace("1", containers.DefaultWorkspaceLayout(), containers.GapsConfig{})
	tree.AttachContainer(workspace, monitor.ID(), -1)
	return tree, workspace
}

func attachTestWindow(tree *containers.Tree, parentID containers.ID, handle, process, class, title string) *containers.Container {
	w := containers.NewTilingWindow(fake.NewWindow(handle, process, class, title), 0, geometry.RectDelta{})
	tree.AttachContainer(w, parentID, -1)
	return w
}

func strPtr(s string) *string { return &s }

func TestMatcherOperators(t *testing.T) {
	cases := []struct {
		name    string
		matcher *Matcher
		subject string
		want    bool
	}{
		{"equals match", &Matcher{op: "equals", value: "explorer.exe"}, "explorer.exe", true},
		{"equals mismatch", &Matcher{op: "equals", value: "explorer.exe"}, "notepad.exe", false},
		{"includes match", &Matcher{op: "includes", value: "note"}, "notepad.exe", true},
		{"not_equals match", &Matcher{op: "not_equals", value: "a"}, "b", true},
		{"nil matcher always matches", nil, "anything", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.matcher.Matches(tc.subject); got != tc.want {
				t.Errorf("Matches(%q) = %v, want %v", tc.subject, got, tc.want)
			}
		})
	}
}

func TestCompileRejectsBadRegex(t *testing.T) {
	entries := []config.WindowRuleConfig{
		{
			Match: []config.WindowMatchClause{{WindowProcess: &config.MatchOperator{Regex: strPtr("(")}}},
			On:    []string{"manage"},
		},
	}
	if _, err := Compile(entries); err == nil {
		t.Fatal("Compile() succeeded, want error for invalid regex")
	}
}

func TestRunAppliesMatchingRuleCommands(t *testing.T) {
	tree, workspace := buildTestWorkspace(t)
	window := attachTestWindow(tree, workspace.ID(), "h1", "dialog.exe", "#32770", "Confirm")

	entries := []config.WindowRuleConfig{
		{
			Match:    []config.WindowMatchClause{{WindowProcess: &config.MatchOperator{Equals: strPtr("dialog.exe")}}},
			On:       []string{"manage"},
			Commands: []string{"set-floating"},
		},
	}
	compiled, err := Compile(entries)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	ctx := &commands.Context{Tree: tree}
	result, err := Run(compiled, ctx, tree, window, EventManage)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result == nil {
		t.Fatal("Run() = nil, want the window container")
	}
	if result.Kind() != containers.KindNonTilingWindow {
		t.Fatalf("Kind() = %v, want NonTilingWindow after set-floating", result.Kind())
	}
}

func TestRunSkipsNonMatchingRules(t *testing.T) {
	tree, workspace := buildTestWorkspace(t)
	window := attachTestWindow(tree, workspace.ID(), "h1", "notepad.exe", "Notepad", "untitled")

	entries := []config.WindowRuleConfig{
		{
			Match:    []config.WindowMatchClause{{WindowProcess: &config.MatchOperator{Equals: strPtr("dialog.exe")}}},
			On:       []string{"manage"},
			Commands: []string{"set-floating"},
		},
	}
	compiled, err := Compile(entries)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	ctx := &commands.Context{Tree: tree}
	result, err := Run(compiled, ctx, tree, window, EventManage)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Kind() != containers.KindTilingWindow {
		t.Fatalf("Kind() = %v, want unchanged TilingWindow", result.Kind())
	}
}

func TestRunHonoursRunOnce(t *testing.T) {
	tree, workspace := buildTestWorkspace(t)
	window := attachTestWindow(tree, workspace.ID(), "h1", "dialog.exe", "#32770", "Confirm")

	rule := Rule{
		Key:     "once",
		On:      map[Event]bool{EventFocus: true},
		RunOnce: true,
	}
	cmd, err := commands.Parse("set-floating")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rule.Commands = []commands.Command{cmd}

	ctx := &commands.Context{Tree: tree}
	floating, err := Run([]Rule{rule}, ctx, tree, window, EventFocus)
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if !window.HasDoneWindowRule("once") {
		t.Fatal("expected the run_once rule to be recorded on the window")
	}

	toggled, err := commands.Parse("toggle-floating")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	retiled, err := ctx.Dispatch(toggled, floating)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	second, err := Run([]Rule{rule}, ctx, tree, retiled, EventFocus)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if second.Kind() != containers.KindTilingWindow {
		t.Fatalf("Kind() = %v, want TilingWindow (rule should not have re-fired)", second.Kind())
	}
}

func TestRunStopsWhenIgnoreDetachesWindow(t *testing.T) {
	tree, workspace := buildTestWorkspace(t)
	window := attachTestWindow(tree, workspace.ID(), "h1", "shellhost.exe", "Shell", "Start")

	cmd, err := commands.Parse("ignore")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rule := Rule{
		Key:      "ignore-rule",
		On:       map[Event]bool{EventManage: true},
		Commands: []commands.Command{cmd},
	}

	ctx := &commands.Context{Tree: tree}
	result, err := Run([]Rule{rule}, ctx, tree, window, EventManage)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result != nil {
		t.Fatalf("Run() = %v, want nil after Ignore detaches the window", result)
	}
	if _, ok := tree.Get(window.ID()); ok {
		t.Error("window is still present in the tree after Ignore")
	}
}

func TestBuiltinDefaultsCoverSystemDialogsAndShell(t *testing.T) {
	defaults := BuiltinDefaults()
	if len(defaults) == 0 {
		t.Fatal("BuiltinDefaults() returned none")
	}
	for _, r := range defaults {
		if !r.RunOnce {
			t.Errorf("builtin rule %s should be run_once", r.Key)
		}
	}
}
