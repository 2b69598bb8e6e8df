package config

import (
	"fmt"
	"regexp"

	"github.com/tilewm/tilewm/internal/geometry"
)

// Problem is one validation finding, graded either Error or Warning
// (spec.md §7 ConfigInvalid: errors block startup/reload, warnings are
// logged and absorbed).
type Problem struct {
	Field   string
	Message string
}

func (p Problem) String() string {
	return fmt.Sprintf("[%s] %s", p.Field, p.Message)
}

// Result is the outcome of Validate: an errors-vs-warnings split with
// HasErrors/HasWarnings accessors.
type Result struct {
	Errors   []Problem
	Warnings []Problem
}

// HasErrors reports whether any fatal problems were found.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether any non-fatal problems were found.
func (r Result) HasWarnings() bool { return len(r.Warnings) > 0 }

func (r *Result) addError(field, msg string) {
	r.Errors = append(r.Errors, Problem{Field: field, Message: msg})
}

func (r *Result) addWarning(field, msg string) {
	r.Warnings = append(r.Warnings, Problem{Field: field, Message: msg})
}

// Validate checks a parsed Config for structural problems: malformed
// lengths, unknown chord tokens, workspaces with duplicate names, rules
// with no match operator, and regexes that don't compile (spec.md §6.1,
// §7 ConfigInvalid).
func Validate(cfg *Config) Result {
	var r Result

	validateLength(&r, "gaps.inner_gap", cfg.Gaps.InnerGap)
	validateLength(&r, "gaps.outer_gap.top", cfg.Gaps.OuterGap.Top)
	validateLength(&r, "gaps.outer_gap.right", cfg.Gaps.OuterGap.Right)
	validateLength(&r, "gaps.outer_gap.bottom", cfg.Gaps.OuterGap.Bottom)
	validateLength(&r, "gaps.outer_gap.left", cfg.Gaps.OuterGap.Left)

	switch cfg.General.HideMethod {
	case HideMethodNameHide, HideMethodNameCloak, HideMethodNamePlaceInCorner:
	default:
		r.addError("general.hide_method", fmt.Sprintf("unknown hide_method %q", cfg.General.HideMethod))
	}

	switch cfg.WindowBehavior.InitialState {
	case "tiling", "floating", "":
	default:
		r.addError("window_behavior.initial_state", fmt.Sprintf("unknown initial_state %q", cfg.WindowBehavior.InitialState))
	}

	seenNames := make(map[string]bool)
	for i, ws := range cfg.Workspaces {
		if ws.Name == "" {
			r.addError(fmt.Sprintf("workspaces[%d].name", i), "workspace name must not be empty")
			continue
		}
		if seenNames[ws.Name] {
			r.addError(fmt.Sprintf("workspaces[%d].name", i), fmt.Sprintf("duplicate workspace name %q", ws.Name))
		}
		seenNames[ws.Name] = true
	}

	for i, entry := range cfg.Keybindings {
		validateBindings(&r, fmt.Sprintf("keybindings[%d]", i), entry.Bindings)
	}
	for mi, mode := range cfg.BindingModes {
		if mode.Name == "" {
			r.addError(fmt.Sprintf("binding_modes[%d].name", mi), "binding mode name must not be empty")
		}
		for i, entry := range mode.Keybindings {
			validateBindings(&r, fmt.Sprintf("binding_modes[%d].keybindings[%d]", mi, i), entry.Bindings)
		}
	}

	for i, rule := range cfg.WindowRules {
		validateWindowRule(&r, i, rule)
	}

	return r
}

func validateLength(r *Result, field, raw string) {
	if raw == "" {
		return
	}
	if _, err := geometry.ParseLengthValue(raw); err != nil {
		r.addError(field, err.Error())
	}
}

func validateBindings(r *Result, field string, bindings []string) {
	if len(bindings) == 0 {
		r.addWarning(field, "no chords bound; this entry can never fire")
	}
	for _, b := range bindings {
		if _, err := ParseChord(b); err != nil {
			r.addError(field+".bindings", err.Error())
		}
	}
}

func validateWindowRule(r *Result, index int, rule WindowRuleConfig) {
	field := fmt.Sprintf("window_rules[%d]", index)
	if len(rule.Match) == 0 {
		r.addWarning(field+".match", "rule has no match clauses and will apply to every window")
	}
	for ci, clause := range rule.Match {
		validateMatchOperator(r, fmt.Sprintf("%s.match[%d].window_process", field, ci), clause.WindowProcess)
		validateMatchOperator(r, fmt.Sprintf("%s.match[%d].window_class", field, ci), clause.WindowClass)
		validateMatchOperator(r, fmt.Sprintf("%s.match[%d].window_title", field, ci), clause.WindowTitle)
	}
	for _, on := range rule.On {
		switch on {
		case "focus", "manage", "title_change":
		default:
			r.addError(field+".on", fmt.Sprintf("unknown event kind %q", on))
		}
	}
}

func validateMatchOperator(r *Result, field string, op *MatchOperator) {
	if op == nil {
		return
	}
	set := 0
	var pattern string
	if op.Regex != nil {
		set++
		pattern = *op.Regex
	}
	if op.NotRegex != nil {
		set++
		pattern = *op.NotRegex
	}
	if op.Equals != nil {
		set++
	}
	if op.Includes != nil {
		set++
	}
	if op.NotEquals != nil {
		set++
	}
	if set == 0 {
		r.addError(field, "must set exactly one of equals/includes/regex/not_equals/not_regex")
	} else if set > 1 {
		r.addError(field, "must set exactly one match operator, not several")
	}
	if pattern != "" {
		if _, err := regexp.Compile(pattern); err != nil {
			r.addError(field, fmt.Sprintf("invalid regex %q: %v", pattern, err))
		}
	}
}
