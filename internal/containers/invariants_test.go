package containers

import "testing"

// TestValidateCleanTreeHasNoViolations tests that a tree built purely
// through the mutation primitives never reports a violation.
func TestValidateCleanTreeHasNoViolations(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	attachWindow(tree, workspace.ID(), -1, "a")
	attachWindow(tree, workspace.ID(), -1, "b")
	attachWindow(tree, workspace.ID(), -1, "c")

	if violations := tree.Validate(); len(violations) != 0 {
		t.Errorf("Validate() = %v, want no violations", violations)
	}
}

// TestValidateCatchesUnbalancedTilingSizes tests that Validate flags
// tiling siblings whose sizes don't sum to 1.
func TestValidateCatchesUnbalancedTilingSizes(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	a := attachWindow(tree, workspace.ID(), -1, "a")
	attachWindow(tree, workspace.ID(), -1, "b")

	a.SetTilingSize(5.0) // corrupt directly, bypassing rebalance

	violations := tree.Validate()
	if len(violations) == 0 {
		t.Fatal("Validate() should have flagged the unbalanced tiling sizes")
	}
}

// TestValidateCatchesUndersizedSplit tests that Validate flags a Split
// with fewer than two children.
func TestValidateCatchesUndersizedSplit(t *testing.T) {
	tree := NewTree()
	_, workspace := buildWorkspace(tree)
	split := NewSplit(DirectionVertical, GapsConfig{})
	tree.AttachContainer(split, workspace.ID(), -1)

	violations := tree.Validate()
	found := false
	for _, v := range violations {
		if v.ContainerID == split.ID() {
			found = true
		}
	}
	if !found {
		t.Errorf("Validate() should flag a Split with 0 children, got %v", violations)
	}
}
