package registry

import (
	"fmt"
	"slices"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
)

// group is the value stored under one name: either a single unconditional
// item or a list of cfg-gated alternatives.
type group struct {
	cfg   bool
	items []*ir.Item
}

// ItemMap stores declarations of one category keyed by name. Iteration is
// always in name order, then in insertion order within a cfg group.
type ItemMap struct {
	label  string
	groups map[string]*group
}

// New creates an empty map. label names the category in diagnostics.
func New(label string) *ItemMap {
	return &ItemMap{label: label, groups: make(map[string]*group)}
}

func (m *ItemMap) Label() string {
	return m.label
}

// TryInsert adds item under its name. It fails without touching the map when
// the name already holds an unconditional item, or when a cfg-gated item
// meets an unconditional one.
func (m *ItemMap) TryInsert(item *ir.Item) bool {
	gated := item.Cfg() != nil
	g, ok := m.groups[item.Name]
	if !ok {
		m.groups[item.Name] = &group{cfg: gated, items: []*ir.Item{item}}
		return true
	}
	if !g.cfg || !gated {
		return false
	}
	g.items = append(g.items, item)
	return true
}

// Filter removes every item for which drop returns true and reports how many
// were removed. Emptied names disappear.
func (m *ItemMap) Filter(drop func(*ir.Item) bool) int {
	removed := 0
	for name, g := range m.groups {
		kept := g.items[:0]
		for _, it := range g.items {
			if drop(it) {
				removed++
				continue
			}
			kept = append(kept, it)
		}
		clear(g.items[len(kept):])
		g.items = kept
		if len(g.items) == 0 {
			delete(m.groups, name)
		}
	}
	return removed
}

// Rebuild re-inserts every item through TryInsert so that groups follow the
// current item names. Items that no longer fit are dropped with a warning.
func (m *ItemMap) Rebuild(r diag.Reporter) {
	items := m.Items()
	m.groups = make(map[string]*group, len(items))
	for _, it := range items {
		if m.TryInsert(it) {
			continue
		}
		if r == nil {
			continue
		}
		diag.ReportWarning(r, diag.RegRebuildConflict, diag.Item(it.Name),
			fmt.Sprintf("%s %q collides with an existing declaration after renaming; dropped", m.label, it.Name)).
			WithNote(diag.Subject{}, "cfg-gated and unconditional declarations cannot share a name").
			Emit()
	}
}

// Get returns every variant stored under name.
func (m *ItemMap) Get(name string) []*ir.Item {
	g, ok := m.groups[name]
	if !ok {
		return nil
	}
	return g.items
}

func (m *ItemMap) Contains(name string) bool {
	_, ok := m.groups[name]
	return ok
}

// Names returns the stored names in sorted order.
func (m *ItemMap) Names() []string {
	names := make([]string, 0, len(m.groups))
	for name := range m.groups {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Items flattens the map in iteration order.
func (m *ItemMap) Items() []*ir.Item {
	out := make([]*ir.Item, 0, len(m.groups))
	for _, name := range m.Names() {
		out = append(out, m.groups[name].items...)
	}
	return out
}

// Len counts items, not names.
func (m *ItemMap) Len() int {
	n := 0
	for _, g := range m.groups {
		n += len(g.items)
	}
	return n
}

func (m *ItemMap) ForEach(fn func(*ir.Item)) {
	for _, it := range m.Items() {
		fn(it)
	}
}

// ForName calls fn for every variant stored under name and reports whether
// the name was present.
func (m *ItemMap) ForName(name string, fn func(*ir.Item)) bool {
	g, ok := m.groups[name]
	if !ok {
		return false
	}
	for _, it := range g.items {
		fn(it)
	}
	return true
}

// ExtendWith inserts every item of other and returns those that conflicted.
func (m *ItemMap) ExtendWith(other *ItemMap) []*ir.Item {
	var rejected []*ir.Item
	for _, it := range other.Items() {
		if !m.TryInsert(it) {
			rejected = append(rejected, it)
		}
	}
	return rejected
}
