package containers

// Tree-mutation primitives (spec.md §4.1). All run on the single reducer
// goroutine; none allocate new ids except where a window variant is
// cloned across a Tiling<->NonTiling kind flip (see windowstate.go).

// AttachContainer inserts node as a child of parent at index (or at the
// end if index < 0 or >= len(children)), rescaling tiling siblings so
// their sizes sum to 1 (spec.md §4.1).
func (t *Tree) AttachContainer(node *Container, parentID ID, index int) {
	parent, ok := t.Get(parentID)
	if !ok {
		return
	}
	t.insert(node)
	node.parentID = parentID

	if index < 0 || index > len(parent.children) {
		index = len(parent.children)
	}
	parent.children = append(parent.children, "")
	copy(parent.children[index+1:], parent.children[index:])
	parent.children[index] = node.id
	parent.focusOrder = append(parent.focusOrder, node.id)

	if node.kind == KindSplit || node.kind == KindTilingWindow {
		t.rebalanceTilingSiblings(parentID, node.id)
	}
}

// rebalanceTilingSiblings assigns newChild a fair share of its tiling
// siblings' sizes (1/(N+1) when newChild is new) and shrinks the others
// proportionally so the set sums back to 1 (spec.md §4.1 attach_container).
func (t *Tree) rebalanceTilingSiblings(parentID ID, newChildID ID) {
	parent, ok := t.Get(parentID)
	if !ok {
		return
	}
	siblings := t.TilingChildren(parentID)
	n := len(siblings)
	if n == 0 {
		return
	}
	if n == 1 {
		siblings[0].tilingSize = 1.0
		_ = parent
		return
	}
	newSize := 1.0 / float64(n)
	remaining := 1.0 - newSize
	// Sum of existing siblings' sizes before this child was added.
	var priorSum float64
	for _, s := range siblings {
		if s.id != newChildID {
			priorSum += s.tilingSize
		}
	}
	for _, s := range siblings {
		if s.id == newChildID {
			s.tilingSize = newSize
			continue
		}
		if priorSum > 0 {
			s.tilingSize = (s.tilingSize / priorSum) * remaining
		} else {
			s.tilingSize = remaining / float64(n-1)
		}
	}
}

// DetachContainer removes node from its parent's child list (and focus
// order), rescaling remaining tiling siblings to sum to 1. If the parent
// becomes a Split with exactly one child, it is flattened (invariant 6).
// Does not destroy node; callers needing destruction also call
// RemoveContainer.
func (t *Tree) DetachContainer(node *Container) {
	parent, ok := t.Parent(node.id)
	if !ok {
		return
	}
	removeID(&parent.children, node.id)
	removeID(&parent.focusOrder, node.id)
	node.parentID = ""

	if node.kind == KindSplit || node.kind == KindTilingWindow {
		t.rescaleAfterRemoval(parent.id)
	}

	if parent.kind == KindSplit && len(parent.children) == 1 {
		t.FlattenSplitContainer(parent)
	}
}

// rescaleAfterRemoval redistributes tiling siblings' sizes to sum to 1
// proportionally after one sibling has been removed.
func (t *Tree) rescaleAfterRemoval(parentID ID) {
	siblings := t.TilingChildren(parentID)
	if len(siblings) == 0 {
		return
	}
	var sum float64
	for _, s := range siblings {
		sum += s.tilingSize
	}
	if sum <= 0 {
		equal := 1.0 / float64(len(siblings))
		for _, s := range siblings {
			s.tilingSize = equal
		}
		return
	}
	for _, s := range siblings {
		s.tilingSize = s.tilingSize / sum
	}
}

// RemoveContainer destroys node: detaches it from its parent (if attached)
// and deletes it from the arena. This is the sole act of destruction
// (spec.md §3.5).
func (t *Tree) RemoveContainer(node *Container) {
	if node.parentID != "" {
		t.DetachContainer(node)
	}
	t.remove(node.id)
}

// MoveContainerWithinTree moves node to targetParent at targetIndex.
// When targetParent equals node's current parent, siblings are shifted in
// place rather than detach+reattach, preserving untouched siblings' tiling
// sizes exactly (spec.md §4.1). Returns true if node (or an ancestor) was
// the focused container, signalling a FocusedContainerMoved event.
func (t *Tree) MoveContainerWithinTree(node *Container, targetParentID ID, targetIndex int) bool {
	focused, hasFocus := t.FocusedContainer()
	movedFocus := false
	if hasFocus {
		for _, anc := range t.SelfAndAncestors(focused.id) {
			if anc.id == node.id {
				movedFocus = true
				break
			}
		}
	}

	sourceParentID := node.parentID
	if sourceParentID == targetParentID {
		t.shiftWithinSameParent(node, targetIndex)
		return movedFocus
	}

	t.DetachContainer(node)
	t.AttachContainer(node, targetParentID, targetIndex)
	return movedFocus
}

func (t *Tree) shiftWithinSameParent(node *Container, targetIndex int) {
	parent, ok := t.Get(node.parentID)
	if !ok {
		return
	}
	removeID(&parent.children, node.id)
	if targetIndex < 0 || targetIndex > len(parent.children) {
		targetIndex = len(parent.children)
	}
	parent.children = append(parent.children, "")
	copy(parent.children[targetIndex+1:], parent.children[targetIndex:])
	parent.children[targetIndex] = node.id
}

// ReplaceContainer destroys the old child at index under parent and puts
// newNode in its place, adopting its tiling size and focus-order slot
// (spec.md §4.1). Used by Tiling<->NonTiling kind-flip transitions.
func (t *Tree) ReplaceContainer(newNode *Container, parentID ID, index int) {
	parent, ok := t.Get(parentID)
	if !ok {
		return
	}
	if index < 0 || index >= len(parent.children) {
		return
	}
	oldID := parent.children[index]
	old, ok := t.Get(oldID)
	if !ok {
		return
	}

	newNode.tilingSize = old.tilingSize
	t.insert(newNode)
	newNode.parentID = parentID
	parent.children[index] = newNode.id

	for i, id := range parent.focusOrder {
		if id == oldID {
			parent.focusOrder[i] = newNode.id
			break
		}
	}

	t.remove(oldID)
}

// SetFocusedDescendant walks up from node, bumping node (then each
// ancestor in turn) to the front of its parent's child-focus-order,
// stopping at ancestorID (or Root if ancestorID is empty) (spec.md §4.1).
func (t *Tree) SetFocusedDescendant(node *Container, ancestorID ID) {
	cur := node
	for {
		parent, ok := t.Parent(cur.id)
		if !ok {
			return
		}
		moveToFront(&parent.focusOrder, cur.id)
		if parent.id == ancestorID {
			return
		}
		cur = parent
	}
}

// WrapInSplitContainer detaches every container in children (in order),
// attaches split at the position of the first, then attaches the detached
// containers as split's children. split inherits the summed tiling size
// of the wrapped set relative to its new siblings; inside split, each
// child gets 1/k (spec.md §4.1).
func (t *Tree) WrapInSplitContainer(split *Container, parentID ID, children []*Container) {
	if len(children) == 0 {
		return
	}
	parent, ok := t.Get(parentID)
	if !ok {
		return
	}

	firstIndex := t.Index(children[0].id)
	var summedSize float64
	for _, c := range children {
		summedSize += c.tilingSize
	}

	for _, c := range children {
		removeID(&parent.children, c.id)
		removeID(&parent.focusOrder, c.id)
	}

	t.insert(split)
	split.parentID = parentID
	split.tilingSize = summedSize
	if firstIndex < 0 || firstIndex > len(parent.children) {
		firstIndex = len(parent.children)
	}
	parent.children = append(parent.children, "")
	copy(parent.children[firstIndex+1:], parent.children[firstIndex:])
	parent.children[firstIndex] = split.id
	parent.focusOrder = append(parent.focusOrder, split.id)

	k := float64(len(children))
	for _, c := range children {
		t.insert(c)
		c.parentID = split.id
		c.tilingSize = 1.0 / k
		split.children = append(split.children, c.id)
		split.focusOrder = append(split.focusOrder, c.id)
	}
}

// FlattenSplitContainer replaces split (precondition: exactly one child)
// with that sole child in split's parent, preserving tiling size and
// focus-order position (spec.md §4.1, invariant 6).
func (t *Tree) FlattenSplitContainer(split *Container) {
	if len(split.children) != 1 {
		return
	}
	parent, ok := t.Parent(split.id)
	if !ok {
		t.remove(split.id)
		return
	}
	soleID := split.children[0]
	sole, ok := t.Get(soleID)
	if !ok {
		return
	}

	idx := t.Index(split.id)
	sole.tilingSize = split.tilingSize
	sole.parentID = parent.id
	if idx >= 0 {
		parent.children[idx] = soleID
	}
	for i, id := range parent.focusOrder {
		if id == split.id {
			parent.focusOrder[i] = soleID
			break
		}
	}
	t.remove(split.id)

	// Invariant 6 continuation: a direction container (Workspace or Split)
	// whose only child is a Split with the same direction would be
	// redundant; collapse same-direction nesting (spec.md §8 boundary
	// behaviour).
	if sole.kind == KindSplit && parent.kind.IsDirectionContainer() && len(parent.children) == 1 && sole.direction == parent.direction {
		t.collapseSameDirectionSplit(parent, sole)
	}
}

// collapseSameDirectionSplit promotes grandchild's children up into
// parent when a Split directly contains a single child Split with the
// same direction, composing tiling sizes multiplicatively (spec.md §8).
func (t *Tree) collapseSameDirectionSplit(parent, child *Container) {
	grandchildren := append([]ID(nil), child.children...)
	focusOrder := append([]ID(nil), child.focusOrder...)
	childSize := child.tilingSize

	parent.children = nil
	parent.focusOrder = nil
	for _, gcID := range grandchildren {
		gc, ok := t.Get(gcID)
		if !ok {
			continue
		}
		gc.parentID = parent.id
		gc.tilingSize = gc.tilingSize * childSize
		parent.children = append(parent.children, gcID)
	}
	parent.focusOrder = append(parent.focusOrder, focusOrder...)
	t.remove(child.id)
	t.normalizeTilingSizes(parent.id)
}

// normalizeTilingSizes rescales a parent's tiling children so their sizes
// sum to 1, preserving relative proportions.
func (t *Tree) normalizeTilingSizes(parentID ID) {
	children := t.TilingChildren(parentID)
	var sum float64
	for _, c := range children {
		sum += c.tilingSize
	}
	if sum <= 0 {
		return
	}
	for _, c := range children {
		c.tilingSize = c.tilingSize / sum
	}
}

func removeID(list *[]ID, id ID) {
	for i, v := range *list {
		if v == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

func moveToFront(list *[]ID, id ID) {
	for i, v := range *list {
		if v == id {
			if i == 0 {
				return
			}
			copy((*list)[1:i+1], (*list)[0:i])
			(*list)[0] = id
			return
		}
	}
	// Not present yet (e.g. newly attached child): push to front.
	*list = append([]ID{id}, *list...)
}
