package geometry

// Point is a single OS-pixel coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle in OS pixel space.
type Rect struct {
	X, Y, Width, Height int
}

// Valid reports whether the rect has positive area. The tree-mutation
// invariants in spec.md §4.2 reject any mutation that produces a non-valid
// rect for a tiling child.
func (r Rect) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Center returns the rect's centre point, used by cursor-jump.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Inset shrinks the rect by a RectDelta, clamping width/height at 0 rather
// than going negative.
func (r Rect) Inset(d RectDelta) Rect {
	out := Rect{
		X:      r.X + d.Left,
		Y:      r.Y + d.Top,
		Width:  r.Width - d.Left - d.Right,
		Height: r.Height - d.Top - d.Bottom,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Expand grows the rect by a RectDelta; the inverse of Inset, used when
// platform-sync adds a window's total border delta back onto its
// tiling-assigned rect (spec.md §4.3 step 4).
func (r Rect) Expand(d RectDelta) Rect {
	return Rect{
		X:      r.X - d.Left,
		Y:      r.Y - d.Top,
		Width:  r.Width + d.Left + d.Right,
		Height: r.Height + d.Top + d.Bottom,
	}
}

// Contains reports whether p lies within the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Quadrant identifies which side of the rect's centre a point falls on,
// used by drag-to-retile (spec.md §4.6 WindowMovedOrResizedEnd).
type Quadrant int

const (
	QuadrantTop Quadrant = iota
	QuadrantBottom
	QuadrantLeft
	QuadrantRight
)

// QuadrantOf reports which quadrant of r contains p, splitting ties toward
// the horizontal axis when p sits exactly on the diagonal.
func (r Rect) QuadrantOf(p Point) Quadrant {
	relX := float64(p.X-r.X) / float64(max(r.Width, 1))
	relY := float64(p.Y-r.Y) / float64(max(r.Height, 1))

	// Distance from each edge, normalized; closest edge wins.
	distTop := relY
	distBottom := 1 - relY
	distLeft := relX
	distRight := 1 - relX

	minDist := distTop
	quadrant := QuadrantTop
	if distBottom < minDist {
		minDist = distBottom
		quadrant = QuadrantBottom
	}
	if distLeft < minDist {
		minDist = distLeft
		quadrant = QuadrantLeft
	}
	if distRight < minDist {
		quadrant = QuadrantRight
	}
	return quadrant
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RectDelta is a per-side length adjustment, used for border deltas,
// outer/inner gaps, and floating-placement insets.
type RectDelta struct {
	Top, Right, Bottom, Left int
}

// Add sums two deltas per side.
func (d RectDelta) Add(o RectDelta) RectDelta {
	return RectDelta{
		Top:    d.Top + o.Top,
		Right:  d.Right + o.Right,
		Bottom: d.Bottom + o.Bottom,
		Left:   d.Left + o.Left,
	}
}

// LengthRectDelta is a per-side delta of LengthValues (px or %), resolved
// to a concrete RectDelta given the parent extents and optional DPI scale.
type LengthRectDelta struct {
	Top, Right, Bottom, Left LengthValue
}

// Resolve converts a LengthRectDelta into OS pixels. Horizontal lengths
// (Left/Right) resolve against parentWidth, vertical ones against
// parentHeight, matching how outer gaps scale against their respective
// workspace axis.
func (d LengthRectDelta) Resolve(parentWidth, parentHeight int, scaleFactor float64) RectDelta {
	return RectDelta{
		Top:    d.Top.ToPx(parentHeight, scaleFactor),
		Bottom: d.Bottom.ToPx(parentHeight, scaleFactor),
		Left:   d.Left.ToPx(parentWidth, scaleFactor),
		Right:  d.Right.ToPx(parentWidth, scaleFactor),
	}
}

// IsNegligible reports whether every side of the delta resolves to ~0px,
// used for the `has_outer_gaps` check (spec.md §9 Open Question #1).
func (d LengthRectDelta) IsNegligible(parentWidth, parentHeight int) bool {
	return d.Top.IsNegligible(parentHeight) &&
		d.Bottom.IsNegligible(parentHeight) &&
		d.Left.IsNegligible(parentWidth) &&
		d.Right.IsNegligible(parentWidth)
}
