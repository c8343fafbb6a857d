package main

import (
	"bytes"
	"testing"
)

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("invalid mode accepted")
	}
}

func TestShouldUseTUI(t *testing.T) {
	var buf bytes.Buffer
	if shouldUseTUI(uiModeAuto, &buf, false) {
		t.Fatalf("auto mode drew progress on a buffer")
	}
	if !shouldUseTUI(uiModeOn, &buf, true) || shouldUseTUI(uiModeOff, &buf, false) {
		t.Fatalf("explicit modes ignored")
	}
}

func TestGenerateRejectsBadUIMode(t *testing.T) {
	f := newFixture(t, "")
	input := f.input(t, "pair.toml", pairDecls)
	if _, _, err := execute(t, "generate", "--config", f.config, "--ui", "maybe", input); err == nil {
		t.Fatalf("bad --ui accepted")
	}
}
