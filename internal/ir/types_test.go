package ir

import (
	"slices"
	"testing"
)

type edge struct {
	name    string
	byValue bool
}

func collectEdges(t Type, skip GenericParams) []edge {
	var out []edge
	t.VisitEdges(skip, func(name string, byValue bool) {
		out = append(out, edge{name, byValue})
	})
	return out
}

func TestTypeString(t *testing.T) {
	cases := []struct {
		ty   Type
		want string
	}{
		{Prim(PrimI32), "i32"},
		{Void(), "()"},
		{Ptr(Named("Foo")), "*mut Foo"},
		{ConstPtr(Named("Pair", Prim(PrimF64))), "*const Pair<f64>"},
		{Array(Prim(PrimU8), "4"), "[u8; 4]"},
		{FuncPtr(Prim(PrimBool), Prim(PrimI32), Ptr(Named("T"))), "fn(i32, *mut T) -> bool"},
		{FuncPtr(Void()), "fn()"},
		{Named("Map", Named("K"), Named("Vec", Prim(PrimU8))), "Map<K, Vec<u8>>"},
	}
	for _, tc := range cases {
		if got := tc.ty.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}

func TestVisitEdgesClassifiesPointers(t *testing.T) {
	ty := Named("Wrapper", Named("Inner"), Ptr(Named("Node")))
	got := collectEdges(ty, nil)
	want := []edge{{"Wrapper", true}, {"Inner", true}, {"Node", false}}
	if !slices.Equal(got, want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}

	fp := FuncPtr(Named("Ret"), Named("Arg"))
	got = collectEdges(fp, nil)
	want = []edge{{"Ret", false}, {"Arg", false}}
	if !slices.Equal(got, want) {
		t.Fatalf("fn ptr edges = %v, want %v", got, want)
	}

	arr := Array(Named("Elem"), "3")
	got = collectEdges(arr, nil)
	if len(got) != 1 || !got[0].byValue {
		t.Fatalf("array edge should be by value, got %v", got)
	}
}

func TestVisitEdgesSkipsGenericParams(t *testing.T) {
	ty := Named("Box", Named("T"))
	got := collectEdges(ty, GenericParams{"T"})
	want := []edge{{"Box", true}}
	if !slices.Equal(got, want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}
}

func TestSubstituteReplacesParams(t *testing.T) {
	ty := Ptr(Named("Box", Named("T"), Array(Named("U"), "2")))
	ty.Substitute(map[string]Type{"T": Prim(PrimI32), "U": Named("Foo")})
	if got, want := ty.String(), "*mut Box<i32, [Foo; 2]>"; got != want {
		t.Fatalf("after substitute = %q, want %q", got, want)
	}
	if ty.MentionsParam(GenericParams{"T", "U"}) {
		t.Fatalf("substituted type still mentions params")
	}
}

func TestSubstituteDoesNotAliasReplacement(t *testing.T) {
	repl := Ptr(Prim(PrimU8))
	a := Named("T")
	b := Named("T")
	m := map[string]Type{"T": repl}
	a.Substitute(m)
	b.Substitute(m)
	a.Elem.Prim = PrimI64
	if b.Elem.Prim != PrimU8 {
		t.Fatalf("substitution shares storage between sites")
	}
}

func TestSimplifyOptionToPtr(t *testing.T) {
	ty := Named("Option", ConstPtr(Named("Foo")))
	ty.SimplifyOptionToPtr()
	if got, want := ty.String(), "*const Foo"; got != want {
		t.Fatalf("simplified = %q, want %q", got, want)
	}

	nested := Array(Named("Option", FuncPtr(Void())), "2")
	nested.SimplifyOptionToPtr()
	if got, want := nested.String(), "[fn(); 2]"; got != want {
		t.Fatalf("simplified nested = %q, want %q", got, want)
	}

	byValue := Named("Option", Prim(PrimI32))
	byValue.SimplifyOptionToPtr()
	if got, want := byValue.String(), "Option<i32>"; got != want {
		t.Fatalf("non-pointer option changed: %q", got)
	}
}

func TestRenamePathsSkipsParams(t *testing.T) {
	ty := Named("Foo", Named("T"), Named("Bar"))
	ty.RenamePaths(GenericParams{"T"}, func(name string) (string, bool) {
		return "P_" + name, true
	})
	if got, want := ty.String(), "P_Foo<T, P_Bar>"; got != want {
		t.Fatalf("renamed = %q, want %q", got, want)
	}
}

func TestTypeEqualAndClone(t *testing.T) {
	a := Named("Pair", Ptr(Prim(PrimI32)))
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatalf("clone not equal")
	}
	b.Path.Args[0].Elem.Prim = PrimF64
	if a.Equal(b) {
		t.Fatalf("clone shares storage with original")
	}
	if Named("Pair", Prim(PrimI32)).Equal(Named("Pair", Prim(PrimF64))) {
		t.Fatalf("different args compared equal")
	}
}

func TestGenericPathKey(t *testing.T) {
	p := NewGenericPath("Pair", Prim(PrimI32))
	q := NewGenericPath("Pair", Prim(PrimI32))
	if p.Key() != q.Key() || !p.Equal(q) {
		t.Fatalf("equal paths have different keys: %q %q", p.Key(), q.Key())
	}
	r := NewGenericPath("Pair", Prim(PrimF64))
	if p.Key() == r.Key() {
		t.Fatalf("distinct paths share key %q", p.Key())
	}
}
