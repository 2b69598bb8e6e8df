package config

import "testing"

func TestParseChordSingleKey(t *testing.T) {
	c, err := ParseChord("h")
	if err != nil {
		t.Fatalf("ParseChord(\"h\") error = %v", err)
	}
	if c.Key != "h" || len(c.Modifiers) != 0 {
		t.Errorf("ParseChord(\"h\") = %+v, want key=h no modifiers", c)
	}
}

func TestParseChordModifiersAndKey(t *testing.T) {
	c, err := ParseChord("alt+shift+h")
	if err != nil {
		t.Fatalf("ParseChord() error = %v", err)
	}
	if c.Key != "h" {
		t.Errorf("Key = %q, want h", c.Key)
	}
	if !c.Modifiers[ModAlt] || !c.Modifiers[ModShift] {
		t.Errorf("Modifiers = %v, want alt and shift set", c.Modifiers)
	}
}

func TestParseChordNormalizesSideVariants(t *testing.T) {
	c, err := ParseChord("lalt+ralt+h")
	if err != nil {
		t.Fatalf("ParseChord() error = %v", err)
	}
	if !c.Modifiers[ModAlt] {
		t.Errorf("lalt/ralt did not normalize to ModAlt: %v", c.Modifiers)
	}
}

func TestParseChordCaseInsensitive(t *testing.T) {
	c, err := ParseChord("ALT+H")
	if err != nil {
		t.Fatalf("ParseChord() error = %v", err)
	}
	if c.Key != "h" || !c.Modifiers[ModAlt] {
		t.Errorf("ParseChord(\"ALT+H\") = %+v, want lowercased alt+h", c)
	}
}

func TestParseChordFunctionAndNumpadKeys(t *testing.T) {
	for _, s := range []string{"f12", "numpad5", "volumeup", "bracketleft"} {
		if _, err := ParseChord(s); err != nil {
			t.Errorf("ParseChord(%q) error = %v, want valid", s, err)
		}
	}
}

func TestParseChordRejectsUnknownToken(t *testing.T) {
	if _, err := ParseChord("alt+nonsense"); err == nil {
		t.Fatal("ParseChord(\"alt+nonsense\") succeeded, want error")
	}
}

func TestParseChordRejectsNoKey(t *testing.T) {
	if _, err := ParseChord("alt+shift"); err == nil {
		t.Fatal("ParseChord(\"alt+shift\") succeeded, want error for missing key token")
	}
}

func TestParseChordRejectsTwoKeys(t *testing.T) {
	if _, err := ParseChord("h+j"); err == nil {
		t.Fatal("ParseChord(\"h+j\") succeeded, want error for two key tokens")
	}
}

func TestParseChordRejectsEmptyToken(t *testing.T) {
	if _, err := ParseChord("alt++h"); err == nil {
		t.Fatal("ParseChord(\"alt++h\") succeeded, want error for empty token")
	}
}

func TestChordStringRoundTrips(t *testing.T) {
	c, err := ParseChord("shift+control+h")
	if err != nil {
		t.Fatalf("ParseChord() error = %v", err)
	}
	s := c.String()
	c2, err := ParseChord(s)
	if err != nil {
		t.Fatalf("ParseChord(%q) (round trip) error = %v", s, err)
	}
	if !c.Equal(c2) {
		t.Errorf("round-tripped chord %+v != original %+v", c2, c)
	}
}

func TestChordEqualIgnoresModifierOrder(t *testing.T) {
	a, _ := ParseChord("alt+shift+h")
	b, _ := ParseChord("shift+alt+h")
	if !a.Equal(b) {
		t.Errorf("Equal() = false for chords differing only in modifier order")
	}
}
