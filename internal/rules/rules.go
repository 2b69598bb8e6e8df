// Package rules implements the window-rule engine of spec.md §4.8: match
// clauses evaluated against a window's process/class/title, an ordered
// command list to run when a rule matches, and a run_once latch keyed per
// window. Grounded on a short ordered equals/prefix allow-list matching
// idiom generalized to the five operators spec.md §6.1 names, and on
// original_source/packages/wm/src/user_config/window_rule_matcher.rs for
// the any-of-clauses/and-of-fields/five-operator match semantics and the
// "built-in defaults run after config rules" ordering.
package rules

import (
	"fmt"
	"regexp"

	"github.com/tilewm/tilewm/internal/commands"
	"github.com/tilewm/tilewm/internal/config"
	"github.com/tilewm/tilewm/internal/containers"
)

// Event is one of the three event kinds a window rule can fire on
// (spec.md §4.8).
type Event string

const (
	EventManage      Event = "manage"
	EventFocus       Event = "focus"
	EventTitleChange Event = "title_change"
)

// Rule is a single compiled window rule: its match clauses, the events it
// applies to, whether it only fires once per window, and the commands to
// run when it matches.
type Rule struct {
	Key      string // stable identity for the run_once done-list
	Match    []MatchClause
	On       map[Event]bool
	RunOnce  bool
	Commands []commands.Command
}

// MatchClause is one and-of-fields clause (spec.md §6.1's `match` entry).
// A rule matches if any of its clauses matches (any-of-clauses,
// and-of-fields within a clause).
type MatchClause struct {
	Process *Matcher
	Class   *Matcher
	Title   *Matcher
}

// Matcher is exactly one of the five comparison operators spec.md §6.1
// names, pre-compiled where the operator is regex.
type Matcher struct {
	op    string
	value string
	re    *regexp.Regexp
}

// Matches reports whether subject satisfies this matcher.
func (m *Matcher) Matches(subject string) bool {
	if m == nil {
		return true
	}
	switch m.op {
	case "equals":
		return subject == m.value
	case "includes":
		return containsSubstring(subject, m.value)
	case "regex":
		return m.re != nil && m.re.MatchString(subject)
	case "not_equals":
		return subject != m.value
	case "not_regex":
		return m.re == nil || !m.re.MatchString(subject)
	default:
		return false
	}
}

func containsSubstring(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

// compileMatcher turns a config.MatchOperator into a Matcher, compiling
// its regex up front so a malformed pattern fails at load time
// (config.validateMatchOperator already rejects these before Compile is
// reached in the normal load path; this is a second line of defense for
// rules constructed directly by tests or by a future hot-reload path that
// bypasses Validate).
func compileMatcher(op *config.MatchOperator) (*Matcher, error) {
	if op == nil {
		return nil, nil
	}
	switch {
	case op.Equals != nil:
		return &Matcher{op: "equals", value: *op.Equals}, nil
	case op.Includes != nil:
		return &Matcher{op: "includes", value: *op.Includes}, nil
	case op.Regex != nil:
		re, err := regexp.Compile(*op.Regex)
		if err != nil {
			return nil, fmt.Errorf("compile regex %q: %w", *op.Regex, err)
		}
		return &Matcher{op: "regex", re: re}, nil
	case op.NotEquals != nil:
		return &Matcher{op: "not_equals", value: *op.NotEquals}, nil
	case op.NotRegex != nil:
		re, err := regexp.Compile(*op.NotRegex)
		if err != nil {
			return nil, fmt.Errorf("compile regex %q: %w", *op.NotRegex, err)
		}
		return &Matcher{op: "not_regex", re: re}, nil
	default:
		return nil, fmt.Errorf("match operator has no comparison set")
	}
}

// builtinSystemDialogProcesses lists process names the built-in default
// rules float (spec.md §4.8: "system dialog windows → floating").
var builtinSystemDialogProcesses = []string{
	"consent.exe",
	"LogonUI.exe",
	"SystemSettings.exe",
}

// builtinIgnoredProcesses lists process names the built-in default rules
// ignore (spec.md §4.8: "start-menu-like processes → ignore").
var builtinIgnoredProcesses = []string{
	"StartMenuExperienceHost.exe",
	"ShellExperienceHost.exe",
	"SearchHost.exe",
}

// BuiltinDefaults returns the built-in rules spec.md §4.8 requires to run
// after all config-defined rules, in config order.
func BuiltinDefaults() []Rule {
	var rules []Rule
	for _, proc := range builtinSystemDialogProcesses {
		cmd, _ := commands.Parse("set-floating")
		rules = append(rules, Rule{
			Key:      "builtin:float:" + proc,
			Match:    []MatchClause{{Process: &Matcher{op: "equals", value: proc}}},
			On:       map[Event]bool{EventManage: true},
			RunOnce:  true,
			Commands: []commands.Command{cmd},
		})
	}
	for _, proc := range builtinIgnoredProcesses {
		cmd, _ := commands.Parse("ignore")
		rules = append(rules, Rule{
			Key:      "builtin:ignore:" + proc,
			Match:    []MatchClause{{Process: &Matcher{op: "equals", value: proc}}},
			On:       map[Event]bool{EventManage: true},
			RunOnce:  true,
			Commands: []commands.Command{cmd},
		})
	}
	return rules
}

// Compile turns the config's window_rules list into engine-ready Rules,
// appended before BuiltinDefaults() in the order Run expects
// (spec.md §4.8: "iterate rules in config order plus built-in defaults").
func Compile(entries []config.WindowRuleConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(entries))
	for i, entry := range entries {
		rule, err := compileOne(i, entry)
		if err != nil {
			return nil, fmt.Errorf("window_rules[%d]: %w", i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func compileOne(index int, entry config.WindowRuleConfig) (Rule, error) {
	clauses := make([]MatchClause, 0, len(entry.Match))
	for _, m := range entry.Match {
		process, err := compileMatcher(m.WindowProcess)
		if err != nil {
			return Rule{}, err
		}
		class, err := compileMatcher(m.WindowClass)
		if err != nil {
			return Rule{}, err
		}
		title, err := compileMatcher(m.WindowTitle)
		if err != nil {
			return Rule{}, err
		}
		clauses = append(clauses, MatchClause{Process: process, Class: class, Title: title})
	}

	on := make(map[Event]bool, len(entry.On))
	for _, name := range entry.On {
		on[Event(name)] = true
	}

	cmds := make([]commands.Command, 0, len(entry.Commands))
	for _, line := range entry.Commands {
		cmd, err := commands.Parse(line)
		if err != nil {
			return Rule{}, fmt.Errorf("command %q: %w", line, err)
		}
		cmds = append(cmds, cmd)
	}

	return Rule{
		Key:      fmt.Sprintf("config:%d", index),
		Match:    clauses,
		On:       on,
		RunOnce:  entry.RunOnce,
		Commands: cmds,
	}, nil
}

// Matches reports whether the window's process/class/title satisfies any
// of the rule's clauses (any-of-clauses, and-of-fields within a clause).
func (r Rule) Matches(processName, className, title string) bool {
	if len(r.Match) == 0 {
		return true
	}
	for _, clause := range r.Match {
		if clause.Process.Matches(processName) && clause.Class.Matches(className) && clause.Title.Matches(title) {
			return true
		}
	}
	return false
}

// Dispatcher is the subset of commands.Context that Run needs to execute
// a rule's command list against the subject window.
type Dispatcher interface {
	Dispatch(cmd commands.Command, subject *containers.Container) (*containers.Container, error)
}

// Run executes, in order, every rule (config rules then BuiltinDefaults)
// whose event set contains event and whose match passes against window,
// skipping rules already recorded in window's done-list when RunOnce is
// set (spec.md §4.8). It returns the window container to keep operating
// on, or nil if a rule's commands detached it (e.g. Ignore) — per spec.md
// §4.8's "stop further processing and return None so the caller drops
// references."
func Run(rules []Rule, dispatcher Dispatcher, tree *containers.Tree, window *containers.Container, event Event) (*containers.Container, error) {
	processName, _ := window.NativeWindow().ProcessName()
	className, _ := window.NativeWindow().ClassName()
	title, _ := window.NativeWindow().Title()

	subject := window
	for _, rule := range rules {
		if !rule.On[event] {
			continue
		}
		if rule.RunOnce && subject.HasDoneWindowRule(rule.Key) {
			continue
		}
		if !rule.Matches(processName, className, title) {
			continue
		}
		if rule.RunOnce {
			subject.MarkWindowRuleDone(rule.Key)
		}
		for _, cmd := range rule.Commands {
			updated, err := dispatcher.Dispatch(cmd, subject)
			if err != nil {
				return subject, fmt.Errorf("rule %s: %w", rule.Key, err)
			}
			if updated == nil {
				return nil, nil
			}
			subject = updated
			if _, ok := tree.Get(subject.ID()); !ok {
				return nil, nil
			}
		}
	}
	return subject, nil
}
