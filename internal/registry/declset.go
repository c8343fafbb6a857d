package registry

import "bindgen/internal/ir"

// DeclSet is what a front end hands to the pipeline: constants, globals and
// type declarations keyed by name, plus the exported functions in the order
// they were found.
type DeclSet struct {
	Constants *ItemMap
	Globals   *ItemMap
	Types     *ItemMap
	Functions []*ir.Function
}

func NewDeclSet() *DeclSet {
	return &DeclSet{
		Constants: New("constant"),
		Globals:   New("static"),
		Types:     New("type"),
	}
}

// Category returns the map an item of this kind belongs to.
func (s *DeclSet) Category(kind ir.ItemKind) *ItemMap {
	switch kind {
	case ir.ItemConstant:
		return s.Constants
	case ir.ItemStatic:
		return s.Globals
	default:
		return s.Types
	}
}

// Insert places item in its category map.
func (s *DeclSet) Insert(item *ir.Item) bool {
	return s.Category(item.Kind).TryInsert(item)
}

// Maps lists the three registries in a fixed order.
func (s *DeclSet) Maps() []*ItemMap {
	return []*ItemMap{s.Constants, s.Globals, s.Types}
}
