package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bindgen/internal/diag"
	"bindgen/internal/rename"
)

func TestParseOverridesDefaults(t *testing.T) {
	text := `
language = "C++"
include_guard = "API_H"

[export]
include = ["Extra"]
exclude = ["Hidden"]
prefix = "Api"
[export.rename]
Foo = "ApiFooT"

[struct]
rename_fields = "CamelCase"

[enum]
rename_variants = "QualifiedScreamingSnakeCase"
prefix_with_name = true

[defines]
"feature = cool" = "DEFINE_COOL"
`
	cfg, err := Parse("bindgen.toml", text, nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Language != LangCxx || !cfg.Language.HasGenerics() {
		t.Fatalf("language = %v", cfg.Language)
	}
	if !cfg.Documentation || cfg.TabWidth != 2 || cfg.Mono.MaxDepth != 64 {
		t.Fatalf("defaults lost: %+v", cfg)
	}
	if cfg.Structure.RenameFields != rename.RuleCamelCase {
		t.Fatalf("struct rule = %v", cfg.Structure.RenameFields)
	}
	opts := cfg.RenameOptions()
	if opts.Prefix != "Api" || opts.Renames["Foo"] != "ApiFooT" || !opts.PrefixVariantsWithName {
		t.Fatalf("rename options = %+v", opts)
	}
	if !cfg.Export.Excluded("Hidden") || cfg.Export.Excluded("Extra") {
		t.Fatalf("Excluded gives wrong answers")
	}
	if cfg.Defines["feature = cool"] != "DEFINE_COOL" {
		t.Fatalf("defines = %v", cfg.Defines)
	}
}

func TestUnknownKeysWarn(t *testing.T) {
	bag := diag.NewBag(10)
	_, err := Parse("bindgen.toml", "langauge = \"C\"\n[struct]\nrename = \"x\"\n", diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := diag.FormatShortDiagnostics(bag.Items(), false)
	want := "warning CFG6001 bindgen.toml unknown configuration key \"langauge\"\n" +
		"warning CFG6001 bindgen.toml unknown configuration key \"struct.rename\""
	if got != want {
		t.Fatalf("diagnostics:\n%s\nwant:\n%s", got, want)
	}
}

func TestBadValuesRejected(t *testing.T) {
	if _, err := Parse("x.toml", `language = "Pascal"`, nil); err == nil {
		t.Fatalf("expected error for unknown language")
	}
	if _, err := Parse("x.toml", "[fn]\nrename_args = \"kebab\"\n", nil); err == nil {
		t.Fatalf("expected error for unknown rename rule")
	}
	_, err := Parse("x.toml", "tab_width = 99\n", nil)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := filepath.Join(root, FileName)
	if err := os.WriteFile(want, []byte("language = \"C\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok || got != want {
		t.Fatalf("Find = %q, %v, %v; want %q", got, ok, err, want)
	}
	cfg, err := Load(got, nil)
	if err != nil || cfg.Language != LangC {
		t.Fatalf("Load = %+v, %v", cfg, err)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.Language = LangCxx
	cfg.Export.Prefix = "Ffi"
	cfg.Export.Rename = map[string]string{"b": "B", "a": "A"}
	cfg.Structure.RenameFields = rename.RuleCamelCase
	cfg.Defines = map[string]string{"unix": "DEFINE_UNIX"}

	var first, second bytes.Buffer
	if err := Encode(&first, cfg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Parse("encoded.toml", first.String(), nil)
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, first.String())
	}
	if back.Language != LangCxx || back.Export.Prefix != "Ffi" || back.Export.Rename["a"] != "A" ||
		back.Structure.RenameFields != rename.RuleCamelCase || back.Defines["unix"] != "DEFINE_UNIX" {
		t.Fatalf("round trip = %+v", back)
	}
	if err := Encode(&second, back); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if first.String() != second.String() {
		t.Fatalf("encoding is not stable:\n%s\n---\n%s", first.String(), second.String())
	}
}
