package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, input := StartInput(ctx, "/tmp/decls/api.toml")
	_, pass := Start(ctx, ScopePass, "rename")
	pass.End("")
	input.End("ok")
	if buf.Len() != 0 {
		t.Fatalf("stream wrote before Flush:\n%s", buf.String())
	}
	if err := tr.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "← input (ok) @api.toml") {
		t.Fatalf("missing input span end:\n%s", out)
	}
	if strings.Contains(out, "rename") {
		t.Fatalf("pass span emitted at phase level:\n%s", out)
	}
}

func TestSpansInheritInput(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := StartInput(ctx, "a.toml")
	ctx, inner := Start(ctx, ScopePass, "mono")
	Point(ctx, ScopeItem, "instantiate", "Pair<i32> as Pair_i32")
	inner.End("")
	outer.End("")
	_, other := StartInput(WithTracer(context.Background(), ring), "b.toml")
	other.End("")

	events := ring.ForInput("a.toml")
	if len(events) != 5 {
		t.Fatalf("got %d events for a.toml, want 5", len(events))
	}
	if events[1].Name != "mono" || events[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", events[1].ParentID, outer.ID())
	}
	if events[2].Kind != KindPoint || events[2].ParentID != inner.ID() {
		t.Fatalf("point = %+v", events[2])
	}
	if events[4].Kind != KindSpanEnd || events[4].Elapsed < 0 {
		t.Fatalf("outer end = %+v", events[4])
	}
	if got := len(ring.ForInput("b.toml")); got != 2 {
		t.Fatalf("b.toml has %d events", got)
	}
}

func TestRingKeepsPassesAtErrorLevel(t *testing.T) {
	ring := NewRingTracer(2, LevelError)
	ctx := WithTracer(context.Background(), ring)
	for _, name := range []string{"a", "b", "c"} {
		Point(ctx, ScopePass, name, "")
	}
	Point(ctx, ScopeItem, "item", "")

	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", events)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("dump has %d lines, want 2", len(lines))
	}
	var ev struct {
		Kind  string `json:"kind"`
		Scope string `json:"scope"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != "point" || ev.Scope != "pass" || ev.Name != "c" {
		t.Fatalf("decoded %+v", ev)
	}
}

func TestNopTracerFromEmptyContext(t *testing.T) {
	ctx, span := Start(context.Background(), ScopePass, "x")
	if span.ID() != 0 || CurrentSpan(ctx).SpanID != 0 {
		t.Fatalf("nop tracer produced a span")
	}
	if d := span.WithExtra("k", "v").End(""); d != 0 {
		t.Fatalf("nop span duration = %v", d)
	}
}

func TestNewBuildsRequestedMode(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tr.(*MultiTracer); !ok || RingOf(tr) == nil {
		t.Fatalf("both mode gave %T", tr)
	}
	if tr, _ := New(Config{Level: LevelOff, Mode: ModeStream}); tr != Nop {
		t.Fatalf("off level gave %T", tr)
	}
	if _, err := New(Config{Level: LevelPhase}); err == nil {
		t.Fatalf("missing mode accepted")
	}
	if formatFor("trace.jsonl") != FormatNDJSON || formatFor("-") != FormatText {
		t.Fatalf("format not picked from the output path")
	}
}

func TestParseHelpers(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth || m.String() != "both" {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
	if LevelPhase.ShouldEmit(ScopePass) || !LevelDebug.ShouldEmit(ScopeItem) || LevelError.ShouldEmit(ScopeDriver) {
		t.Fatalf("ShouldEmit table is off")
	}
}
