package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersionCanBeOverridden(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	if got := Banner(); got != "Generated with bindgen 1.2.3" {
		t.Fatalf("Banner() = %q", got)
	}
}

func TestPrettyWithoutColor(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()
	color.NoColor = true

	cases := map[string]string{
		"0.1.0-dev": "0.1.0-dev",
		"2.0.7":     "2.0.7",
		"nightly":   "nightly",
	}
	for in, want := range cases {
		Version = in
		if got := Pretty(); got != want {
			t.Fatalf("Pretty(%q) = %q, want %q", in, got, want)
		}
	}
}
