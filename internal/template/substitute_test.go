package template

import "testing"

func TestSubstituteReplacesPlaceholders(t *testing.T) {
	got := Substitute("hello {{ name }}, run {{cmd}}", map[string]string{
		"name": "world",
		"cmd":  "make",
	})
	if got != "hello world, run make" {
		t.Errorf("Substitute = %q", got)
	}
}

func TestSubstituteLeavesUnknownPlaceholders(t *testing.T) {
	got := Substitute("{{ known }} and {{ unknown }}", map[string]string{"known": "yes"})
	if got != "yes and {{ unknown }}" {
		t.Errorf("Substitute = %q", got)
	}
}

func TestSubstituteSkipsLiteralRegions(t *testing.T) {
	text := "before {{ x }} " + WrapLiteral("inside {{ x }}") + " after {{ x }}"
	got := Substitute(text, map[string]string{"x": "VALUE"})

	want := "before VALUE " + WrapLiteral("inside {{ x }}") + " after VALUE"
	if got != want {
		t.Errorf("Substitute = %q, want %q", got, want)
	}
}

func TestCommandOutputSurvivesSubstitution(t *testing.T) {
	// The property the literal wrap exists for: command output containing
	// template-like syntax reaches the final document verbatim.
	output := WrapLiteral("{{ x }}")
	substituted := Substitute("result: "+output, map[string]string{"x": "clobbered"})
	final := StripLiteralMarkers(substituted)

	if final != "result: {{ x }}" {
		t.Errorf("final = %q, want literal {{ x }} preserved", final)
	}
}

func TestSubstituteUnterminatedLiteral(t *testing.T) {
	text := "a {{ x }} " + literalOpen + "tail {{ x }}"
	got := Substitute(text, map[string]string{"x": "V"})
	want := "a V " + literalOpen + "tail {{ x }}"
	if got != want {
		t.Errorf("Substitute = %q, want %q", got, want)
	}
}

func TestStripLiteralMarkers(t *testing.T) {
	if got := StripLiteralMarkers(WrapLiteral("abc")); got != "abc" {
		t.Errorf("StripLiteralMarkers = %q, want abc", got)
	}
}

func TestSubstituteNoVarsIsIdentity(t *testing.T) {
	text := "nothing {{ here }}"
	if got := Substitute(text, nil); got != text {
		t.Errorf("Substitute with no vars should be identity, got %q", got)
	}
}
