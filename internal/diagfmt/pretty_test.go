package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"bindgen/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.DepValueCycle,
		Message:  "A contains itself by value through B",
		Primary:  diag.Subject{File: "/home/user/project/decls/api.toml", Item: "A"},
		Notes:    []diag.Note{{Subject: diag.Item("B"), Msg: "B holds A by value"}},
	})
	bag.Add(diag.Diagnostic{
		Severity: diag.SevWarning,
		Code:     diag.DeclZeroSized,
		Message:  "static has zero sized type ()",
		Primary:  diag.Subject{File: "/home/user/project/decls/api.toml", Item: "NOTHING"},
	})
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "--> /home/user/project/decls/api.toml: A"},
		{"Relative path", PathModeRelative, "--> decls/api.toml: A"},
		{"Auto path", PathModeAuto, "--> decls/api.toml: A"},
		{"Basename only", PathModeBasename, "--> api.toml: A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"}
			if err := Pretty(&buf, sampleBag(), opts); err != nil {
				t.Fatalf("Pretty: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Fatalf("output does not contain %q:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	opts := PrettyOpts{PathMode: PathModeBasename, ShowNotes: true}
	if err := Pretty(&buf, sampleBag(), opts); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := "error[DEP5001]: A contains itself by value through B\n" +
		"  --> api.toml: A\n" +
		"  = note: B: B holds A by value\n" +
		"  = help: Cycle through by-value fields\n" +
		"warning[DECL1001]: static has zero sized type ()\n" +
		"  --> api.toml: NOTHING\n" +
		"  = help: Zero sized declaration\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyColorAndWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("no escape sequences in colored output: %q", buf.String())
	}

	buf.Reset()
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Width: 30, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	first := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasSuffix(first, "…") || len([]rune(first)) != 30 {
		t.Fatalf("line not clipped to 30 columns: %q", first)
	}
}

func TestSummary(t *testing.T) {
	if got := Summary(sampleBag()); got != "1 error, 1 warning" {
		t.Fatalf("Summary = %q", got)
	}
	bag := diag.NewBag(10)
	if got := Summary(bag); got != "" {
		t.Fatalf("empty Summary = %q", got)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{PathMode: PathModeBasename, Max: 1, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.Dropped != 1 {
		t.Fatalf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	d := out.Diagnostics[0]
	if d.Code != "DEP5001" || d.Severity != "ERROR" || d.Location.File != "api.toml" || d.Location.Item != "A" {
		t.Fatalf("diagnostic = %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Item != "B" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestSarifOutput(t *testing.T) {
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "bindgen", ToolVersion: "test", InvocationArgs: []string{"generate"}, PathMode: PathModeBasename}
	if err := Sarif(&buf, sampleBag(), meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("decode: %v", err)
	}
	run := log.Runs[0]
	if len(run.Results) != 2 || run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("results = %+v", run.Results)
	}
	if got := run.Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI; got != "api.toml" {
		t.Fatalf("uri = %q", got)
	}
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "DECL1001" {
		t.Fatalf("rules = %+v", run.Tool.Driver.Rules)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("run with errors reported as successful")
	}
}
