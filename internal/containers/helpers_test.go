package containers

import (
	"github.com/tilewm/tilewm/internal/geometry"
	"github.com/tilewm/tilewm/internal/platform/fake"
)

func rectFixture() geometry.Rect {
	return geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
}

func geometry0() geometry.RectDelta {
	return geometry.RectDelta{}
}

// buildWorkspace returns a tree with one Monitor and one Workspace attached
// under Root, ready for tiling windows to be attached.
func buildWorkspace(t *Tree) (monitor, workspace *Container) {
	monitor = NewMonitor(fake.NewMonitor("m1", "DISPLAY1", rectFixture(), 1.0, true), rectFixture(), 1.0)
	t.AttachContainer(monitor, t.RootID(), -1)
	workspace = NewWorkspace("1", DefaultWorkspaceLayout(), GapsConfig{})
	t.AttachContainer(workspace, monitor.ID(), -1)
	return monitor, workspace
}

func attachWindow(t *Tree, parentID ID, index int, name string) *Container {
	w := NewTilingWindow(fake.NewWindow("h-"+name, "proc", "class", name), 0, geometry.RectDelta{})
	t.AttachContainer(w, parentID, index)
	return w
}
