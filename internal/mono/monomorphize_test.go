package mono

import (
	"context"
	"errors"
	"slices"
	"testing"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/registry"
)

func pairSet() *registry.DeclSet {
	set := registry.NewDeclSet()
	set.Insert(ir.NewStruct("Pair", ir.GenericParams{"T"}, []ir.Field{
		{Name: "a", Ty: ir.Named("T")},
		{Name: "b", Ty: ir.Named("T")},
	}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{
		{Name: "f", Ret: ir.Void(), Args: []ir.FuncArg{{Name: "p", Ty: ir.Named("Pair", ir.Prim(ir.PrimI32))}}},
		{Name: "g", Ret: ir.Void(), Args: []ir.FuncArg{{Name: "p", Ty: ir.Named("Pair", ir.Prim(ir.PrimF64))}}},
	}
	return set
}

func TestMonomorphizePairScenario(t *testing.T) {
	set := pairSet()
	table, err := Monomorphize(context.Background(), set, Options{}, nil)
	if err != nil {
		t.Fatalf("Monomorphize: %v", err)
	}
	if got, want := set.Types.Names(), []string{"Pair_f64", "Pair_i32"}; !slices.Equal(got, want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	if table.Len() != 2 {
		t.Fatalf("table has %d entries, want 2", table.Len())
	}
	if got := set.Functions[0].Args[0].Ty.String(); got != "Pair_i32" {
		t.Fatalf("f arg = %q", got)
	}
	if got := set.Functions[1].Args[0].Ty.String(); got != "Pair_f64" {
		t.Fatalf("g arg = %q", got)
	}
	inst := set.Types.Get("Pair_i32")[0]
	if inst.IsGeneric() || inst.Struct().Fields[1].Ty.String() != "i32" {
		t.Fatalf("instantiation not substituted: %+v", inst.Struct().Fields)
	}
}

func TestMonomorphizeDedup(t *testing.T) {
	set := pairSet()
	set.Functions[1].Args[0].Ty = ir.Ptr(ir.Named("Pair", ir.Prim(ir.PrimI32)))
	set.Insert(ir.NewStatic("G", ir.Named("Pair", ir.Prim(ir.PrimI32)), false, ir.Metadata{}))

	table, err := Monomorphize(context.Background(), set, Options{}, nil)
	if err != nil {
		t.Fatalf("Monomorphize: %v", err)
	}
	if table.Len() != 1 || set.Types.Len() != 1 {
		t.Fatalf("expected one instantiation, table=%d types=%v", table.Len(), set.Types.Names())
	}
	if got := set.Globals.Get("G")[0].Static().Ty.String(); got != "Pair_i32" {
		t.Fatalf("static type = %q", got)
	}
}

func TestMonomorphizeNestedGenerics(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewStruct("Box", ir.GenericParams{"T"}, []ir.Field{{Name: "v", Ty: ir.Ptr(ir.Named("T"))}}, false, ir.Metadata{}))
	set.Insert(ir.NewStruct("Wrap", ir.GenericParams{"U"}, []ir.Field{{Name: "inner", Ty: ir.Named("Box", ir.Named("U"))}}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{{Name: "h", Ret: ir.Named("Wrap", ir.Prim(ir.PrimU8))}}

	if _, err := Monomorphize(context.Background(), set, Options{}, nil); err != nil {
		t.Fatalf("Monomorphize: %v", err)
	}
	if got, want := set.Types.Names(), []string{"Box_u8", "Wrap_u8"}; !slices.Equal(got, want) {
		t.Fatalf("types = %v, want %v", got, want)
	}
	wrap := set.Types.Get("Wrap_u8")[0]
	if got := wrap.Struct().Fields[0].Ty.String(); got != "Box_u8" {
		t.Fatalf("nested reference = %q", got)
	}
}

func TestMonomorphizeCfgVariants(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewStruct("Opt", ir.GenericParams{"T"}, []ir.Field{{Name: "v", Ty: ir.Named("T")}}, false, ir.Metadata{Cfg: ir.CfgFlag("unix")}))
	set.Insert(ir.NewOpaque("Opt", ir.GenericParams{"T"}, ir.Metadata{Cfg: ir.CfgFlag("windows")}))
	set.Functions = []*ir.Function{{Name: "k", Ret: ir.Named("Opt", ir.Prim(ir.PrimBool))}}

	if _, err := Monomorphize(context.Background(), set, Options{}, nil); err != nil {
		t.Fatalf("Monomorphize: %v", err)
	}
	if got := set.Types.Get("Opt_bool"); len(got) != 2 {
		t.Fatalf("cfg variants instantiated = %d, want 2", len(got))
	}
}

func TestMonomorphizeArityMismatch(t *testing.T) {
	set := pairSet()
	set.Functions[0].Ret = ir.Named("Pair", ir.Prim(ir.PrimI32), ir.Prim(ir.PrimU8))
	bag := diag.NewBag(10)
	_, err := Monomorphize(context.Background(), set, Options{}, diag.BagReporter{Bag: bag})
	if !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("err = %v, want ErrArityMismatch", err)
	}
	if !bag.HasErrors() {
		t.Fatalf("fatal error not reported as diagnostic")
	}
}

func TestMonomorphizeDepthBound(t *testing.T) {
	set := registry.NewDeclSet()
	// List<T> mentions List<Box<T>>, which never stops growing.
	set.Insert(ir.NewStruct("Box", ir.GenericParams{"T"}, []ir.Field{{Name: "v", Ty: ir.Named("T")}}, false, ir.Metadata{}))
	set.Insert(ir.NewStruct("List", ir.GenericParams{"T"}, []ir.Field{
		{Name: "next", Ty: ir.Ptr(ir.Named("List", ir.Named("Box", ir.Named("T"))))},
	}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{{Name: "l", Ret: ir.Ptr(ir.Named("List", ir.Prim(ir.PrimI32)))}}

	_, err := Monomorphize(context.Background(), set, Options{MaxDepth: 8}, nil)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("err = %v, want ErrDepthExceeded", err)
	}
}

func TestMonomorphizeExternalGenericWarns(t *testing.T) {
	set := registry.NewDeclSet()
	set.Functions = []*ir.Function{{Name: "e", Ret: ir.Named("Option", ir.Prim(ir.PrimI32))}}
	bag := diag.NewBag(10)
	if _, err := Monomorphize(context.Background(), set, Options{}, diag.BagReporter{Bag: bag}); err != nil {
		t.Fatalf("Monomorphize: %v", err)
	}
	got := diag.FormatShortDiagnostics(bag.Items(), false)
	want := "warning MONO4004 e Option<i32> names no generic declaration; left unmangled"
	if got != want {
		t.Fatalf("diagnostics = %q, want %q", got, want)
	}
}

func TestMonomorphizeNameCollision(t *testing.T) {
	set := pairSet()
	set.Insert(ir.NewOpaque("Pair_i32", nil, ir.Metadata{}))
	_, err := Monomorphize(context.Background(), set, Options{}, nil)
	if !errors.Is(err, ErrNameCollision) {
		t.Fatalf("err = %v, want ErrNameCollision", err)
	}
}

func TestMangle(t *testing.T) {
	cases := []struct {
		path ir.GenericPath
		want string
	}{
		{ir.NewGenericPath("Pair", ir.Prim(ir.PrimI32)), "Pair_i32"},
		{ir.NewGenericPath("Map", ir.Prim(ir.PrimU8), ir.Prim(ir.PrimF32)), "Map_u8__f32"},
		{ir.NewGenericPath("Pair", ir.Named("Box", ir.Prim(ir.PrimI32))), "Pair_Box_i32"},
		{ir.NewGenericPath("Pair", ir.Named("Box", ir.Prim(ir.PrimI32)), ir.Prim(ir.PrimU8)), "Pair_Box_i32_____u8"},
		{ir.NewGenericPath("Box", ir.ConstPtr(ir.Prim(ir.PrimCChar))), "Box_1ConstPtr_c_0char"},
		{ir.NewGenericPath("Box", ir.Ptr(ir.Prim(ir.PrimI32))), "Box_1Ptr_i32"},
		{ir.NewGenericPath("Box", ir.Array(ir.Prim(ir.PrimU8), "4")), "Box_1Array_u8__N4"},
		{ir.NewGenericPath("Box", ir.Array(ir.Prim(ir.PrimU8), "LEN + 1")), "Box_1Array_u8__NLEN_92b1"},
		{ir.NewGenericPath("Box", ir.FuncPtr(ir.Void(), ir.Prim(ir.PrimI32))), "Box_1Fn_i32__1Ret_void"},
		{ir.NewGenericPath("My_Box", ir.Named("T_x")), "My_0Box_T_0x"},
	}
	for _, tc := range cases {
		if got := Mangle(tc.path); got != tc.want {
			t.Fatalf("Mangle(%s) = %q, want %q", tc.path, got, tc.want)
		}
	}

	a := Mangle(ir.NewGenericPath("Pair", ir.Named("Box", ir.Prim(ir.PrimI32)), ir.Prim(ir.PrimU8)))
	b := Mangle(ir.NewGenericPath("Pair", ir.Named("Box", ir.Prim(ir.PrimI32), ir.Prim(ir.PrimU8))))
	if a == b {
		t.Fatalf("distinct paths share mangled name %q", a)
	}
}

func TestMangleDistinctPaths(t *testing.T) {
	pairs := [][2]ir.GenericPath{
		{
			ir.NewGenericPath("Foo", ir.Named("Ptr", ir.Prim(ir.PrimI32))),
			ir.NewGenericPath("Foo", ir.Ptr(ir.Prim(ir.PrimI32))),
		},
		{
			ir.NewGenericPath("Foo", ir.Named("ConstPtr", ir.Prim(ir.PrimI32))),
			ir.NewGenericPath("Foo", ir.ConstPtr(ir.Prim(ir.PrimI32))),
		},
		{
			ir.NewGenericPath("Foo", ir.Named("Array", ir.Prim(ir.PrimU8), ir.Named("N4"))),
			ir.NewGenericPath("Foo", ir.Array(ir.Prim(ir.PrimU8), "4")),
		},
		{
			ir.NewGenericPath("My_Box", ir.Prim(ir.PrimI32)),
			ir.NewGenericPath("My", ir.Named("Box", ir.Prim(ir.PrimI32))),
		},
		{
			ir.NewGenericPath("Box_8"),
			ir.NewGenericPath("Box", ir.Prim(ir.PrimU8)),
		},
		{
			ir.NewGenericPath("Pair", ir.Named("a_b")),
			ir.NewGenericPath("Pair", ir.Named("a"), ir.Named("b")),
		},
		{
			ir.NewGenericPath("Foo", ir.Named("_Bar")),
			ir.NewGenericPath("Foo", ir.Named("Bar")),
		},
	}
	for _, p := range pairs {
		a, b := Mangle(p[0]), Mangle(p[1])
		if a == b {
			t.Fatalf("%s and %s both mangle to %q", p[0], p[1], a)
		}
	}
}

func TestMonomorphizePointerVersusPtrStruct(t *testing.T) {
	set := registry.NewDeclSet()
	set.Insert(ir.NewStruct("Foo", ir.GenericParams{"T"}, []ir.Field{{Name: "v", Ty: ir.Named("T")}}, false, ir.Metadata{}))
	set.Insert(ir.NewStruct("Ptr", ir.GenericParams{"T"}, []ir.Field{{Name: "p", Ty: ir.Ptr(ir.Named("T"))}}, false, ir.Metadata{}))
	set.Functions = []*ir.Function{
		{Name: "a", Ret: ir.Void(), Args: []ir.FuncArg{{Name: "x", Ty: ir.Named("Foo", ir.Named("Ptr", ir.Prim(ir.PrimI32)))}}},
		{Name: "b", Ret: ir.Void(), Args: []ir.FuncArg{{Name: "x", Ty: ir.Named("Foo", ir.Ptr(ir.Prim(ir.PrimI32)))}}},
	}

	if _, err := Monomorphize(context.Background(), set, Options{}, nil); err != nil {
		t.Fatalf("Monomorphize: %v", err)
	}
	a := set.Functions[0].Args[0].Ty.String()
	b := set.Functions[1].Args[0].Ty.String()
	if a != "Foo_Ptr_i32" || b != "Foo_1Ptr_i32" {
		t.Fatalf("argument types = %q, %q", a, b)
	}
	if len(set.Types.Get("Foo_Ptr_i32")) != 1 || len(set.Types.Get("Foo_1Ptr_i32")) != 1 {
		t.Fatalf("types = %v", set.Types.Names())
	}
}
