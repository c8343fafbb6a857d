package library

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"bindgen/internal/config"
	"bindgen/internal/deps"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/observ"
	"bindgen/internal/registry"
	"bindgen/internal/rename"
	"bindgen/internal/trace"
)

func pairSet() *registry.DeclSet {
	set := registry.NewDeclSet()
	set.Insert(ir.NewStruct("Pair", ir.GenericParams{"T"}, []ir.Field{
		{Name: "a", Ty: ir.Named("T")},
		{Name: "b", Ty: ir.Named("T")},
	}, false, ir.Metadata{}))
	set.Insert(ir.NewStruct("Unused", nil, []ir.Field{{Name: "x", Ty: ir.Prim(ir.PrimI32)}}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{
		{Name: "g", Ret: ir.Void(), Args: []ir.FuncArg{{Name: "p", Ty: ir.Named("Pair", ir.Prim(ir.PrimF64))}}},
		{Name: "f", Ret: ir.Void(), Args: []ir.FuncArg{{Name: "p", Ty: ir.Named("Pair", ir.Prim(ir.PrimI32))}}},
	}
	return set
}

func generate(t *testing.T, cfg *config.Config, set *registry.DeclSet) (*diag.Bag, []string, []string) {
	t.Helper()
	bag := diag.NewBag(100)
	out, err := New(cfg, set, diag.BagReporter{Bag: bag}, nil).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v\n%s", err, diag.FormatShortDiagnostics(bag.Items(), false))
	}
	fns := make([]string, len(out.Functions))
	for i, fn := range out.Functions {
		fns[i] = fn.Name
	}
	return bag, out.ItemNames(), fns
}

func TestGeneratePairScenario(t *testing.T) {
	tm := observ.NewTimer()
	bag := diag.NewBag(100)
	out, err := New(config.Default(), pairSet(), diag.BagReporter{Bag: bag}, tm).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShortDiagnostics(bag.Items(), false))
	}
	if got, want := out.ItemNames(), []string{"Pair_i32", "Pair_f64"}; !slices.Equal(got, want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	if out.Functions[0].Name != "f" || out.Functions[1].Name != "g" {
		t.Fatalf("functions not sorted: %s, %s", out.Functions[0].Name, out.Functions[1].Name)
	}
	if len(out.Monomorphs) != 2 {
		t.Fatalf("monomorphs = %+v", out.Monomorphs)
	}

	header := string(out.Render())
	for _, name := range []string{"Pair_i32", "Pair_f64"} {
		if !strings.Contains(header, "} "+name+";") {
			t.Fatalf("missing %s in header:\n%s", name, header)
		}
	}
	if strings.Contains(header, "Unused") {
		t.Fatalf("unreachable declaration emitted:\n%s", header)
	}
	if strings.Index(header, "} Pair_i32;") > strings.Index(header, "void f(") {
		t.Fatalf("Pair_i32 must precede f:\n%s", header)
	}

	var phases []string
	for _, p := range tm.Phases() {
		phases = append(phases, p.Name)
	}
	want := []string{"exclude", "sort_functions", "rename", "simplify_option", "monomorphize", "resolve", "assemble"}
	if !slices.Equal(phases, want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
}

func TestGenerateKeepsTemplatesForCxx(t *testing.T) {
	cfg := config.Default()
	cfg.Language = config.LangCxx
	_, items, _ := generate(t, cfg, pairSet())
	if !slices.Equal(items, []string{"Pair"}) {
		t.Fatalf("items = %v", items)
	}
}

func TestGenerateExclusion(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewConstant("N", ir.Prim(ir.PrimI32), ir.LiteralInt(1), ir.Metadata{}))
	set.Insert(ir.NewStatic("N", ir.Prim(ir.PrimI32), false, ir.Metadata{}))
	set.Insert(ir.NewOpaque("N", nil, ir.Metadata{}))
	set.Functions = []*ir.Function{
		{Name: "N", Ret: ir.Void()},
		{Name: "keep", Ret: ir.Void()},
	}
	cfg := config.Default()
	cfg.Export.Exclude = []string{"N"}

	out, err := New(cfg, set, nil, nil).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out.Constants) != 0 || len(out.Globals) != 0 || len(out.Items) != 0 {
		t.Fatalf("N survived: constants=%d globals=%d items=%v", len(out.Constants), len(out.Globals), out.ItemNames())
	}
	if len(out.Functions) != 1 || out.Functions[0].Name != "keep" {
		t.Fatalf("functions = %+v", out.Functions)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	build := func() []byte {
		set := pairSet()
		set.Insert(ir.NewStruct("Inner", nil, []ir.Field{{Name: "v", Ty: ir.Prim(ir.PrimU8)}}, false, ir.Metadata{}))
		set.Insert(ir.NewStruct("Outer", nil, []ir.Field{
			{Name: "a", Ty: ir.Named("Inner")},
			{Name: "next", Ty: ir.Ptr(ir.Named("Outer"))},
		}, false, ir.Metadata{}))
		set.Functions = append(set.Functions, &ir.Function{Name: "h", Ret: ir.Named("Outer")})
		out, err := New(config.Default(), set, nil, nil).Generate(context.Background())
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		return out.Render()
	}
	first := build()
	for i := 0; i < 5; i++ {
		if next := build(); !bytes.Equal(first, next) {
			t.Fatalf("run %d differs:\n%s\n---\n%s", i, first, next)
		}
	}
}

func TestGenerateRenamePrecedence(t *testing.T) {
	set := registry.NewDeclSet()
	var ann ir.AnnotationSet
	ann.Set(rename.AnnFieldNames, ir.ListValue("explicit"))
	ann.Set(rename.AnnRenameAll, ir.AtomValue("UPPERCASE"))
	set.Insert(ir.NewStruct("Foo", nil, []ir.Field{{Name: "some_field", Ty: ir.Prim(ir.PrimI32)}}, false, ir.Metadata{Annotations: ann}))
	set.Insert(ir.NewStruct("Bar", nil, []ir.Field{{Name: "my_field", Ty: ir.Prim(ir.PrimI32)}}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{{Name: "use_them", Ret: ir.Void(), Args: []ir.FuncArg{
		{Name: "foo_value", Ty: ir.Named("Foo")},
		{Name: "bar_value", Ty: ir.Named("Bar")},
	}}}

	cfg := config.Default()
	cfg.Structure.RenameFields = rename.RuleCamelCase
	cfg.Function.RenameArgs = rename.RuleCamelCase
	cfg.Export.Prefix = "Ffi"

	out, err := New(cfg, set, nil, nil).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got, want := out.ItemNames(), []string{"FfiFoo", "FfiBar"}; !slices.Equal(got, want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	if got := out.Items[0].Struct().Fields[0].Name; got != "explicit" {
		t.Fatalf("Foo field = %q, want explicit override", got)
	}
	if got := out.Items[1].Struct().Fields[0].Name; got != "myField" {
		t.Fatalf("Bar field = %q, want myField", got)
	}
	fn := out.Functions[0]
	if fn.Name != "use_them" || fn.Args[0].Name != "fooValue" || fn.Args[0].Ty.String() != "FfiFoo" {
		t.Fatalf("function = %+v", fn)
	}
}

func TestGeneratePrefixAppliesBeforeMangling(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Prefix = "Ffi"
	_, items, _ := generate(t, cfg, pairSet())
	if want := []string{"FfiPair_i32", "FfiPair_f64"}; !slices.Equal(items, want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
}

func TestGenerateSimplifiesOptionalPointers(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewOpaque("Node", nil, ir.Metadata{}))
	set.Functions = []*ir.Function{{Name: "first", Ret: ir.Named("Option", ir.ConstPtr(ir.Named("Node")))}}

	out, err := New(config.Default(), set, nil, nil).Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := out.Functions[0].Ret.String(); got != "*const Node" {
		t.Fatalf("ret = %q", got)
	}
	if !slices.Equal(out.ItemNames(), []string{"Node"}) {
		t.Fatalf("items = %v", out.ItemNames())
	}
}

func TestGenerateValueCycleIsFatal(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewStruct("A", nil, []ir.Field{{Name: "b", Ty: ir.Named("B")}}, false, ir.Metadata{}))
	set.Insert(ir.NewStruct("B", nil, []ir.Field{{Name: "a", Ty: ir.Named("A")}}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{{Name: "f", Ret: ir.Named("A")}}

	bag := diag.NewBag(100)
	out, err := New(config.Default(), set, diag.BagReporter{Bag: bag}, nil).Generate(context.Background())
	if !errors.Is(err, deps.ErrValueCycle) || out != nil {
		t.Fatalf("Generate = %v, %v; want value cycle", out, err)
	}
	if !bag.HasErrors() {
		t.Fatalf("cycle not reported as an error diagnostic")
	}
}

func TestGenerateWarnsOnUnmappedCfg(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewOpaque("Fd", nil, ir.Metadata{Cfg: ir.CfgFlag("unix")}))
	set.Functions = []*ir.Function{{Name: "open_fd", Ret: ir.Ptr(ir.Named("Fd"))}}

	bag, items, _ := generate(t, config.Default(), set)
	if !slices.Equal(items, []string{"Fd"}) {
		t.Fatalf("items = %v", items)
	}
	got := diag.FormatShortDiagnostics(bag.Items(), false)
	if !strings.HasPrefix(got, "warning CFG6002 Fd cfg unix cannot be expressed") {
		t.Fatalf("diagnostics = %q", got)
	}
}

func TestGenerateTracesPhases(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, err := New(config.Default(), pairSet(), nil, nil).Generate(ctx); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	seen := map[string]bool{}
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanEnd {
			seen[ev.Name] = true
		}
	}
	for _, name := range []string{"rename", "monomorphize", "mono_instantiate", "deps_order", "assemble"} {
		if !seen[name] {
			t.Fatalf("span %q not traced; got %v", name, seen)
		}
	}
}
