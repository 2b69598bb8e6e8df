package containers

import "fmt"

// Violation describes a single broken invariant found by Validate
// (spec.md §3.3, §7 TreeInvariantViolation). Callers that mutate the tree
// through anything other than the primitives in mutate.go/layout.go should
// call Validate and roll back the whole command on a non-empty result.
type Violation struct {
	ContainerID ID
	Rule        string
}

func (v Violation) Error() string {
	return fmt.Sprintf("container %s violates invariant: %s", v.ContainerID, v.Rule)
}

// Validate walks the whole tree checking a subset of spec.md §3.3's
// structural invariants: parent links resolve and match, focusOrder is a
// permutation of children, kind nesting, every Split has at least 2
// children, tiling sizes are non-negative and sum to 1, and the
// last_focused_child chain has no cycle. Workspace-name uniqueness and the
// remaining invariants are not checked. It never mutates; it is the read-only counterpart to the
// mutation primitives, used by property tests and by command handlers that
// need to detect a broken postcondition and discard the attempted mutation.
func (t *Tree) Validate() []Violation {
	var violations []Violation
	root, ok := t.Get(t.rootID)
	if !ok {
		return []Violation{{Rule: "root missing from arena"}}
	}

	t.validateNode(root, nil, &violations)
	t.validateSingleFocusChain(&violations)
	return violations
}

func (t *Tree) validateNode(c *Container, parent *Container, out *[]Violation) {
	// Invariant 1: every non-Root node's parentID resolves in the arena.
	if c.kind != KindRoot {
		if _, ok := t.Get(c.parentID); !ok {
			*out = append(*out, Violation{c.id, "parentID does not resolve"})
		}
	}

	// Invariant 2: children and focusOrder are the same id set.
	if !sameIDSet(c.children, c.focusOrder) {
		*out = append(*out, Violation{c.id, "focusOrder is not a permutation of children"})
	}

	// Invariant 3 (kind nesting rules).
	switch c.kind {
	case KindRoot:
		for _, childID := range c.children {
			if child, ok := t.Get(childID); ok && child.kind != KindMonitor {
				*out = append(*out, Violation{childID, "Root may only contain Monitors"})
			}
		}
	case KindMonitor:
		for _, childID := range c.children {
			if child, ok := t.Get(childID); ok && child.kind != KindWorkspace {
				*out = append(*out, Violation{childID, "Monitor may only contain Workspaces"})
			}
		}
	case KindWorkspace:
		for _, childID := range c.children {
			child, ok := t.Get(childID)
			if !ok {
				continue
			}
			if child.kind != KindSplit && child.kind != KindTilingWindow && child.kind != KindNonTilingWindow {
				*out = append(*out, Violation{childID, "Workspace may only contain Splits, TilingWindows, or NonTilingWindows"})
			}
		}
	case KindSplit:
		for _, childID := range c.children {
			child, ok := t.Get(childID)
			if !ok {
				continue
			}
			if child.kind != KindSplit && child.kind != KindTilingWindow {
				*out = append(*out, Violation{childID, "Split may only contain Splits or TilingWindows"})
			}
		}
		// Invariant 6: a Split always has at least 2 children.
		if len(c.children) < 2 {
			*out = append(*out, Violation{c.id, "Split has fewer than 2 children"})
		}
	case KindTilingWindow, KindNonTilingWindow:
		if len(c.children) != 0 {
			*out = append(*out, Violation{c.id, "window container has children"})
		}
	}

	// Invariant 7: tiling siblings sum to 1 within epsilon.
	if c.kind == KindWorkspace || c.kind == KindSplit {
		tiling := t.TilingChildren(c.id)
		if len(tiling) > 0 {
			var sum float64
			for _, ch := range tiling {
				sum += ch.tilingSize
				if ch.tilingSize < 0 {
					*out = append(*out, Violation{ch.id, "negative tiling size"})
				}
			}
			const epsilon = 1e-6
			if sum < 1-epsilon || sum > 1+epsilon {
				*out = append(*out, Violation{c.id, "tiling sizes do not sum to 1"})
			}
		}
	}

	for _, childID := range c.children {
		child, ok := t.Get(childID)
		if !ok {
			*out = append(*out, Violation{childID, "child id does not resolve"})
			continue
		}
		if child.parentID != c.id {
			*out = append(*out, Violation{childID, "parentID does not match actual parent"})
		}
		t.validateNode(child, c, out)
	}
}

// validateSingleFocusChain checks part of invariant 10: following
// last_focused_child from Root never revisits a container (no cycle). It
// does not check which leaf the chain ends at.
func (t *Tree) validateSingleFocusChain(out *[]Violation) {
	seen := make(map[ID]bool)
	cur := t.rootID
	for {
		seen[cur] = true
		child, ok := t.LastFocusedChild(cur)
		if !ok {
			return
		}
		if seen[child.id] {
			*out = append(*out, Violation{child.id, "cycle in last_focused_child chain"})
			return
		}
		cur = child.id
	}
}

func sameIDSet(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[ID]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}
