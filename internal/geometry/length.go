// Package geometry provides the pure value types the container tree and
// platform-sync pass use to describe rectangles, points, and per-side
// length deltas.
package geometry

import (
	"fmt"
	"strconv"
	"strings"
)

// LengthUnit distinguishes an absolute pixel count from a percentage of
// some parent extent.
type LengthUnit int

const (
	UnitPixels LengthUnit = iota
	UnitPercent
)

// LengthValue is either a pixel count or a percentage of a parent extent,
// matching the `<number>` / `<number>%` forms accepted throughout the YAML
// config (gaps, floating placements, etc).
type LengthValue struct {
	Amount float64
	Unit   LengthUnit
}

// Px is a convenience constructor for an absolute pixel length.
func Px(n int) LengthValue {
	return LengthValue{Amount: float64(n), Unit: UnitPixels}
}

// Percent is a convenience constructor for a percentage length.
func Percent(n float64) LengthValue {
	return LengthValue{Amount: n, Unit: UnitPercent}
}

// ParseLengthValue parses strings like "12px", "12", or "5%".
func ParseLengthValue(s string) (LengthValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LengthValue{}, fmt.Errorf("empty length value")
	}
	if strings.HasSuffix(s, "%") {
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return LengthValue{}, fmt.Errorf("invalid percent length %q: %w", s, err)
		}
		return Percent(n), nil
	}
	trimmed := strings.TrimSuffix(s, "px")
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return LengthValue{}, fmt.Errorf("invalid pixel length %q: %w", s, err)
	}
	return Px(int(n)), nil
}

// ToPx resolves the length to an OS pixel count relative to parentExtent,
// optionally scaled by a DPI scale factor (1.0 when scaling is disabled).
func (l LengthValue) ToPx(parentExtent int, scaleFactor float64) int {
	if scaleFactor == 0 {
		scaleFactor = 1
	}
	switch l.Unit {
	case UnitPercent:
		return int((l.Amount / 100.0) * float64(parentExtent))
	default:
		return int(l.Amount * scaleFactor)
	}
}

// IsNegligible reports whether the length resolves to ~0px against extent.
// Both px and % forms are resolved before comparison, so the "no gaps"
// check is consistent across units (Open Question in spec.md §9).
func (l LengthValue) IsNegligible(parentExtent int) bool {
	return l.ToPx(parentExtent, 1.0) == 0
}

func (l LengthValue) String() string {
	if l.Unit == UnitPercent {
		return fmt.Sprintf("%g%%", l.Amount)
	}
	return fmt.Sprintf("%gpx", l.Amount)
}

// UnmarshalYAML accepts either a bare number (px) or a "N%"/"Npx" string.
func (l *LengthValue) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case int:
		*l = Px(v)
		return nil
	case float64:
		*l = Px(int(v))
		return nil
	case string:
		parsed, err := ParseLengthValue(v)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	default:
		return fmt.Errorf("unsupported length value type %T", raw)
	}
}
