package containers

// Tree is the in-memory container tree: an arena of Containers keyed by
// id, with parent links stored as ids (weak back-references, spec.md §3.5)
// resolved through the arena rather than dereferenced directly.
type Tree struct {
	nodes  map[ID]*Container
	rootID ID
}

// NewTree creates a tree containing only the singleton Root.
func NewTree() *Tree {
	root := NewRoot()
	return &Tree{
		nodes:  map[ID]*Container{root.ID(): root},
		rootID: root.ID(),
	}
}

// RootID returns the singleton Root's id.
func (t *Tree) RootID() ID { return t.rootID }

// Get resolves an id to its Container, reporting false if the node has
// been removed (or never existed) — the only case a weak back-reference
// should be treated as dangling-safe rather than dereferenced (spec.md §3.5).
func (t *Tree) Get(id ID) (*Container, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

// insert adds a raw node to the arena without touching any parent/child
// links; callers (attach_container et al.) are responsible for linkage.
func (t *Tree) insert(c *Container) {
	t.nodes[c.id] = c
}

// remove deletes a raw node from the arena. It is the sole act of
// destruction (spec.md §3.5); callers must have already unlinked it from
// its parent's child list.
func (t *Tree) remove(id ID) {
	delete(t.nodes, id)
}

// Count returns the number of live nodes, including Root.
func (t *Tree) Count() int { return len(t.nodes) }
