package mono

import "bindgen/internal/ir"

// Entry records one instantiation: the generic path and the concrete name it
// resolves to.
type Entry struct {
	Path ir.GenericPath
	Name string
}

// Table maps generic paths to mangled names and owns the generated concrete
// declarations. A path is instantiated at most once.
//
// Note: Go maps cannot use slices as keys, so paths are keyed by
// GenericPath.Key.
type Table struct {
	replacements map[string]string
	owners       map[string]string // mangled name -> path key
	entries      []Entry
	items        []*ir.Item
}

func NewTable() *Table {
	return &Table{
		replacements: make(map[string]string),
		owners:       make(map[string]string),
	}
}

func (t *Table) Contains(p ir.GenericPath) bool {
	_, ok := t.replacements[p.Key()]
	return ok
}

// Lookup returns the mangled name recorded for p.
func (t *Table) Lookup(p ir.GenericPath) (string, bool) {
	name, ok := t.replacements[p.Key()]
	return name, ok
}

// Owner returns the key of the path that already produced name.
func (t *Table) Owner(name string) (string, bool) {
	key, ok := t.owners[name]
	return key, ok
}

// Insert records the concrete clones of one instantiation. clones are every
// cfg variant of the template, already renamed to name.
func (t *Table) Insert(p ir.GenericPath, name string, clones []*ir.Item) {
	key := p.Key()
	t.replacements[key] = name
	t.owners[name] = key
	t.entries = append(t.entries, Entry{Path: p.Clone(), Name: name})
	t.items = append(t.items, clones...)
}

// Entries lists instantiations in the order they were made.
func (t *Table) Entries() []Entry {
	return t.entries
}

// Items returns the generated declarations in instantiation order.
func (t *Table) Items() []*ir.Item {
	return t.items
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Drain hands over the generated declarations and forgets them.
func (t *Table) Drain() []*ir.Item {
	items := t.items
	t.items = nil
	return items
}
