package geometry

import "testing"

// TestRectInset tests that Inset shrinks a rect and clamps at zero area.
func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	got := r.Inset(RectDelta{Top: 10, Right: 10, Bottom: 10, Left: 10})
	want := Rect{X: 10, Y: 10, Width: 80, Height: 80}
	if got != want {
		t.Errorf("Inset() = %+v, want %+v", got, want)
	}

	clamped := r.Inset(RectDelta{Top: 60, Bottom: 60})
	if clamped.Height != 0 {
		t.Errorf("Inset() should clamp height at 0, got %d", clamped.Height)
	}
}

// TestRectExpand tests that Expand is Inset's inverse.
func TestRectExpand(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 80, Height: 80}
	delta := RectDelta{Top: 10, Right: 10, Bottom: 10, Left: 10}
	got := r.Expand(delta)
	want := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if got != want {
		t.Errorf("Expand() = %+v, want %+v", got, want)
	}
}

// TestRectContains tests point-in-rect membership, including edge exclusion.
func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Contains(Point{X: 5, Y: 5}) {
		t.Error("expected (5,5) inside rect")
	}
	if !r.Contains(Point{X: 0, Y: 0}) {
		t.Error("expected top-left corner inside rect")
	}
	if r.Contains(Point{X: 10, Y: 10}) {
		t.Error("expected bottom-right corner to be exclusive")
	}
}

// TestQuadrantOf tests that the nearest edge is reported for each side.
func TestQuadrantOf(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	cases := []struct {
		p    Point
		want Quadrant
	}{
		{Point{X: 50, Y: 1}, QuadrantTop},
		{Point{X: 50, Y: 99}, QuadrantBottom},
		{Point{X: 1, Y: 50}, QuadrantLeft},
		{Point{X: 99, Y: 50}, QuadrantRight},
	}
	for _, c := range cases {
		if got := r.QuadrantOf(c.p); got != c.want {
			t.Errorf("QuadrantOf(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

// TestLengthRectDeltaResolve tests mixed px/percent resolution per axis.
func TestLengthRectDeltaResolve(t *testing.T) {
	d := LengthRectDelta{
		Top:    Px(10),
		Bottom: Percent(10),
		Left:   Px(5),
		Right:  Percent(5),
	}
	got := d.Resolve(1000, 500, 1.0)
	want := RectDelta{Top: 10, Bottom: 50, Left: 5, Right: 50}
	if got != want {
		t.Errorf("Resolve() = %+v, want %+v", got, want)
	}
}

// TestLengthRectDeltaIsNegligible tests the all-sides-zero fast path.
func TestLengthRectDeltaIsNegligible(t *testing.T) {
	zero := LengthRectDelta{Top: Px(0), Bottom: Px(0), Left: Px(0), Right: Px(0)}
	if !zero.IsNegligible(1000, 1000) {
		t.Error("all-zero delta should be negligible")
	}

	nonzero := LengthRectDelta{Top: Px(1), Bottom: Px(0), Left: Px(0), Right: Px(0)}
	if nonzero.IsNegligible(1000, 1000) {
		t.Error("non-zero top should not be negligible")
	}
}
