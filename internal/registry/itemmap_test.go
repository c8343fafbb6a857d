package registry

import (
	"slices"
	"testing"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

func opaque(name string, cfg *ir.Cfg) *ir.Item {
	return ir.NewOpaque(name, nil, ir.Metadata{Cfg: cfg})
}

func names(items []*ir.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestTryInsertConflictTable(t *testing.T) {
	cases := []struct {
		name        string
		first, next *ir.Cfg
		ok          bool
	}{
		{"two unconditional", nil, nil, false},
		{"cfg into unconditional", nil, ir.CfgFlag("unix"), false},
		{"unconditional into cfg", ir.CfgFlag("unix"), nil, false},
		{"two cfg", ir.CfgFlag("unix"), ir.CfgFlag("windows"), true},
	}
	for _, tc := range cases {
		m := New("type")
		if !m.TryInsert(opaque("Foo", tc.first)) {
			t.Fatalf("%s: first insert failed", tc.name)
		}
		if got := m.TryInsert(opaque("Foo", tc.next)); got != tc.ok {
			t.Fatalf("%s: TryInsert = %v, want %v", tc.name, got, tc.ok)
		}
		wantLen := 1
		if tc.ok {
			wantLen = 2
		}
		if m.Len() != wantLen {
			t.Fatalf("%s: Len = %d, want %d", tc.name, m.Len(), wantLen)
		}
	}
}

func TestItemsOrderedByNameThenGroup(t *testing.T) {
	m := New("type")
	unix := opaque("B", ir.CfgFlag("unix"))
	win := opaque("B", ir.CfgFlag("windows"))
	m.TryInsert(opaque("C", nil))
	m.TryInsert(unix)
	m.TryInsert(opaque("A", nil))
	m.TryInsert(win)

	items := m.Items()
	if got, want := names(items), []string{"A", "B", "B", "C"}; !slices.Equal(got, want) {
		t.Fatalf("Items = %v, want %v", got, want)
	}
	if items[1] != unix || items[2] != win {
		t.Fatalf("cfg group lost insertion order")
	}
}

func TestFilterRemovesAcrossGroups(t *testing.T) {
	m := New("type")
	m.TryInsert(opaque("Keep", nil))
	m.TryInsert(opaque("Drop", ir.CfgFlag("unix")))
	m.TryInsert(opaque("Drop", ir.CfgFlag("windows")))

	removed := m.Filter(func(it *ir.Item) bool { return it.Name == "Drop" })
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if m.Contains("Drop") || !m.Contains("Keep") {
		t.Fatalf("unexpected names after filter: %v", m.Names())
	}
}

func TestRebuildMergesAndWarns(t *testing.T) {
	m := New("type")
	a := opaque("A", nil)
	b := opaque("B", nil)
	m.TryInsert(a)
	m.TryInsert(b)

	b.Name = "A"
	bag := diag.NewBag(10)
	m.Rebuild(diag.BagReporter{Bag: bag})

	if got := m.Get("A"); len(got) != 1 || got[0] != a {
		t.Fatalf("Get(A) = %v, want the first item only", names(got))
	}
	if m.Contains("B") {
		t.Fatalf("stale name B survived rebuild")
	}
	got := diag.FormatShortDiagnostics(bag.Items(), false)
	want := `warning REG2002 A type "A" collides with an existing declaration after renaming; dropped`
	if got != want {
		t.Fatalf("diagnostics:\n%s\nwant:\n%s", got, want)
	}
}

func TestRebuildKeepsRenamedCfgGroups(t *testing.T) {
	m := New("type")
	x := opaque("X", ir.CfgFlag("unix"))
	y := opaque("Y", ir.CfgFlag("windows"))
	m.TryInsert(x)
	m.TryInsert(y)
	y.Name = "X"
	m.Rebuild(nil)
	if got := m.Get("X"); len(got) != 2 {
		t.Fatalf("cfg alternatives not merged: %d", len(got))
	}
}

func TestDeclSetCategories(t *testing.T) {
	s := NewDeclSet()
	s.Insert(ir.NewConstant("N", ir.Prim(ir.PrimI32), ir.LiteralInt(1), ir.Metadata{}))
	s.Insert(ir.NewStatic("N", ir.Prim(ir.PrimI32), false, ir.Metadata{}))
	s.Insert(opaque("N", nil))
	for _, m := range s.Maps() {
		if m.Len() != 1 {
			t.Fatalf("%s map has %d items, want 1", m.Label(), m.Len())
		}
	}
}
