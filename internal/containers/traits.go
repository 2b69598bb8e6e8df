package containers

// CommonGetters (spec.md §4.1) — the uniform traversal surface every node
// variant exposes, implemented here as Tree methods since parent/child
// links are resolved through the arena rather than dereferenced directly.

// Parent returns id's parent, or false for Root or an unknown id.
func (t *Tree) Parent(id ID) (*Container, bool) {
	c, ok := t.Get(id)
	if !ok || c.kind == KindRoot {
		return nil, false
	}
	return t.Get(c.parentID)
}

// Children returns id's children in child-list order.
func (t *Tree) Children(id ID) []*Container {
	c, ok := t.Get(id)
	if !ok {
		return nil
	}
	out := make([]*Container, 0, len(c.children))
	for _, childID := range c.children {
		if child, ok := t.Get(childID); ok {
			out = append(out, child)
		}
	}
	return out
}

// ChildIDs returns id's child ids in child-list order.
func (t *Tree) ChildIDs(id ID) []ID {
	c, ok := t.Get(id)
	if !ok {
		return nil
	}
	out := make([]ID, len(c.children))
	copy(out, c.children)
	return out
}

// ChildFocusOrder returns id's children ordered most-recently-focused
// first (spec.md §3.2, invariant 3).
func (t *Tree) ChildFocusOrder(id ID) []*Container {
	c, ok := t.Get(id)
	if !ok {
		return nil
	}
	out := make([]*Container, 0, len(c.focusOrder))
	for _, childID := range c.focusOrder {
		if child, ok := t.Get(childID); ok {
			out = append(out, child)
		}
	}
	return out
}

// Ancestors returns id's ancestors, nearest first, excluding id itself and
// excluding Root.
func (t *Tree) Ancestors(id ID) []*Container {
	var out []*Container
	cur, ok := t.Parent(id)
	for ok && cur.kind != KindRoot {
		out = append(out, cur)
		cur, ok = t.Parent(cur.id)
	}
	return out
}

// SelfAndAncestors returns id's container followed by Ancestors(id).
func (t *Tree) SelfAndAncestors(id ID) []*Container {
	self, ok := t.Get(id)
	if !ok {
		return nil
	}
	return append([]*Container{self}, t.Ancestors(id)...)
}

// Descendants returns id's descendants in pre-order, excluding id itself.
func (t *Tree) Descendants(id ID) []*Container {
	var out []*Container
	var walk func(ID)
	walk = func(cur ID) {
		for _, child := range t.Children(cur) {
			out = append(out, child)
			walk(child.id)
		}
	}
	walk(id)
	return out
}

// Siblings returns id's siblings (other children of the same parent),
// excluding id itself.
func (t *Tree) Siblings(id ID) []*Container {
	c, ok := t.Get(id)
	if !ok {
		return nil
	}
	parent, ok := t.Parent(id)
	if !ok {
		return nil
	}
	var out []*Container
	for _, child := range t.Children(parent.id) {
		if child.id != c.id {
			out = append(out, child)
		}
	}
	return out
}

// PrevSiblings returns the siblings before id in its parent's child list,
// in index order (the closest preceding sibling is last).
func (t *Tree) PrevSiblings(id ID) []*Container {
	parent, ok := t.Parent(id)
	if !ok {
		return nil
	}
	idx := t.Index(id)
	if idx <= 0 {
		return nil
	}
	children := t.Children(parent.id)
	return children[:idx]
}

// NextSiblings returns the siblings after id in its parent's child list.
func (t *Tree) NextSiblings(id ID) []*Container {
	parent, ok := t.Parent(id)
	if !ok {
		return nil
	}
	idx := t.Index(id)
	children := t.Children(parent.id)
	if idx < 0 || idx+1 >= len(children) {
		return nil
	}
	return children[idx+1:]
}

// Workspace returns id's unique Workspace ancestor (or itself if id is a
// Workspace), per invariant 4.
func (t *Tree) Workspace(id ID) (*Container, bool) {
	for _, c := range t.SelfAndAncestors(id) {
		if c.kind == KindWorkspace {
			return c, true
		}
	}
	return nil, false
}

// Monitor returns id's unique Monitor ancestor (or itself if id is a
// Monitor), per invariant 4.
func (t *Tree) Monitor(id ID) (*Container, bool) {
	for _, c := range t.SelfAndAncestors(id) {
		if c.kind == KindMonitor {
			return c, true
		}
	}
	return nil, false
}

// Index returns id's position in its parent's child list, or -1 if id is
// Root or unknown.
func (t *Tree) Index(id ID) int {
	parent, ok := t.Parent(id)
	if !ok {
		return -1
	}
	for i, childID := range parent.children {
		if childID == id {
			return i
		}
	}
	return -1
}

// FocusIndex returns id's position in its parent's child-focus-order list.
func (t *Tree) FocusIndex(id ID) int {
	parent, ok := t.Parent(id)
	if !ok {
		return -1
	}
	for i, childID := range parent.focusOrder {
		if childID == id {
			return i
		}
	}
	return -1
}

// LastFocusedChild returns id's most-recently-focused child still present
// in the tree, or false if id has no children.
func (t *Tree) LastFocusedChild(id ID) (*Container, bool) {
	c, ok := t.Get(id)
	if !ok {
		return nil, false
	}
	for _, childID := range c.focusOrder {
		if child, ok := t.Get(childID); ok {
			return child, true
		}
	}
	return nil, false
}

// LastFocusedDescendant walks LastFocusedChild down from id until reaching
// a leaf (window container or empty workspace), per spec.md §3.3 invariant
// 10 ("the chain of last_focused_child from Root reaches it").
func (t *Tree) LastFocusedDescendant(id ID) (*Container, bool) {
	cur, ok := t.Get(id)
	if !ok {
		return nil, false
	}
	for {
		child, ok := t.LastFocusedChild(cur.id)
		if !ok {
			return cur, true
		}
		cur = child
	}
}

// FocusedContainer returns the tree's single focused leaf, found by
// following last_focused_child from Root (spec.md §3.3 invariant 10).
func (t *Tree) FocusedContainer() (*Container, bool) {
	return t.LastFocusedDescendant(t.rootID)
}

// DescendantFocusOrder returns every focusable leaf under id (window
// containers, or childless workspaces) ordered most-recently-focused
// first: at each level it descends fully into the most-recently-focused
// child before considering the next child, so the result of
// DescendantFocusOrder(root) always starts with FocusedContainer()
// (spec.md §8 "Focus chain" property).
func (t *Tree) DescendantFocusOrder(id ID) []*Container {
	var out []*Container
	for _, child := range t.ChildFocusOrder(id) {
		if len(t.ChildIDs(child.id)) == 0 {
			out = append(out, child)
		} else {
			out = append(out, t.DescendantFocusOrder(child.id)...)
		}
	}
	return out
}
