package containers

import (
	"testing"

	"pgregory.net/rapid"
)

// TestTilingSizesAlwaysSumToOneProperty exercises random sequences of
// attach/detach against a single workspace and checks the universal
// invariant from spec.md §8: tiling siblings always sum to 1 within
// epsilon, and Validate never reports a violation.
func TestTilingSizesAlwaysSumToOneProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree := NewTree()
		_, workspace := buildWorkspace(tree)

		var live []*Container
		steps := rapid.IntRange(1, 40).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			attach := len(live) == 0 || rapid.Bool().Draw(rt, "attach")
			if attach {
				w := NewTilingWindow(nil, 0, geometry0())
				tree.AttachContainer(w, workspace.ID(), -1)
				live = append(live, w)
			} else {
				idx := rapid.IntRange(0, len(live)-1).Draw(rt, "detachIndex")
				victim := live[idx]
				tree.DetachContainer(victim)
				tree.RemoveContainer(victim)
				live = append(live[:idx], live[idx+1:]...)
			}

			if violations := tree.Validate(); len(violations) != 0 {
				rt.Fatalf("Validate() after step %d = %v, want none", i, violations)
			}
		}
	})
}

// TestFocusedContainerIsAlwaysFirstInDescendantFocusOrderProperty checks
// spec.md §8's focus-chain property: whatever FocusedContainer() returns
// must be the first element of DescendantFocusOrder(root).
func TestFocusedContainerIsAlwaysFirstInDescendantFocusOrderProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree := NewTree()
		_, workspace := buildWorkspace(tree)

		n := rapid.IntRange(1, 8).Draw(rt, "windowCount")
		var windows []*Container
		for i := 0; i < n; i++ {
			w := NewTilingWindow(nil, 0, geometry0())
			tree.AttachContainer(w, workspace.ID(), -1)
			windows = append(windows, w)
		}

		focusOps := rapid.IntRange(0, 10).Draw(rt, "focusOps")
		for i := 0; i < focusOps; i++ {
			idx := rapid.IntRange(0, len(windows)-1).Draw(rt, "focusTarget")
			tree.SetFocusedDescendant(windows[idx], tree.RootID())
		}

		focused, ok := tree.FocusedContainer()
		if !ok {
			rt.Fatal("expected a focused container")
		}
		order := tree.DescendantFocusOrder(tree.RootID())
		if len(order) == 0 || order[0].ID() != focused.ID() {
			rt.Fatalf("DescendantFocusOrder()[0] = %v, want focused container %v", order, focused.ID())
		}
	})
}
