package ir

import "fmt"

// ItemKind enumerates the closed set of declaration kinds held by a registry.
type ItemKind uint8

const (
	ItemInvalid ItemKind = iota
	ItemConstant
	ItemStatic
	ItemOpaque
	ItemStruct
	ItemUnion
	ItemEnum
	ItemTypedef
)

func (k ItemKind) String() string {
	switch k {
	case ItemConstant:
		return "constant"
	case ItemStatic:
		return "static"
	case ItemOpaque:
		return "opaque"
	case ItemStruct:
		return "struct"
	case ItemUnion:
		return "union"
	case ItemEnum:
		return "enum"
	case ItemTypedef:
		return "typedef"
	default:
		return fmt.Sprintf("ItemKind(%d)", k)
	}
}

// Item is one top-level declaration. Data holds the kind-specific payload and
// always matches Kind.
type Item struct {
	Kind     ItemKind
	Name     string
	Generics GenericParams
	Meta     Metadata
	Data     ItemData
}

// ItemData is the interface for kind-specific declaration data.
type ItemData interface {
	itemData()
}

type ConstantData struct {
	Ty    Type
	Value LiteralExpr
}

type StaticData struct {
	Ty      Type
	Mutable bool
}

type OpaqueData struct{}

// Field is a member of a struct, union or enum variant body.
type Field struct {
	Name string
	Ty   Type
	Doc  Documentation
}

type StructData struct {
	Fields []Field
	// Tuple marks positional fields whose names are indices.
	Tuple bool
}

type UnionData struct {
	Fields []Field
	Tuple  bool
}

type EnumVariant struct {
	Name         string
	Discriminant *int64
	Body         []Field
	Tuple        bool
	Doc          Documentation
}

type EnumData struct {
	Repr     Repr
	Variants []EnumVariant
}

// HasBodies reports whether any variant carries fields, which makes the enum
// a tagged union in the header.
func (e *EnumData) HasBodies() bool {
	for i := range e.Variants {
		if len(e.Variants[i].Body) > 0 {
			return true
		}
	}
	return false
}

type TypedefData struct {
	Aliased Type
}

func (*ConstantData) itemData() {}
func (*StaticData) itemData()   {}
func (*OpaqueData) itemData()   {}
func (*StructData) itemData()   {}
func (*UnionData) itemData()    {}
func (*EnumData) itemData()     {}
func (*TypedefData) itemData()  {}

// Constructors ---------------------------------------------------------------

func NewConstant(name string, ty Type, value LiteralExpr, meta Metadata) *Item {
	return &Item{Kind: ItemConstant, Name: name, Meta: meta, Data: &ConstantData{Ty: ty, Value: value}}
}

func NewStatic(name string, ty Type, mutable bool, meta Metadata) *Item {
	return &Item{Kind: ItemStatic, Name: name, Meta: meta, Data: &StaticData{Ty: ty, Mutable: mutable}}
}

func NewOpaque(name string, generics GenericParams, meta Metadata) *Item {
	return &Item{Kind: ItemOpaque, Name: name, Generics: generics, Meta: meta, Data: &OpaqueData{}}
}

func NewStruct(name string, generics GenericParams, fields []Field, tuple bool, meta Metadata) *Item {
	return &Item{Kind: ItemStruct, Name: name, Generics: generics, Meta: meta, Data: &StructData{Fields: fields, Tuple: tuple}}
}

func NewUnion(name string, generics GenericParams, fields []Field, tuple bool, meta Metadata) *Item {
	return &Item{Kind: ItemUnion, Name: name, Generics: generics, Meta: meta, Data: &UnionData{Fields: fields, Tuple: tuple}}
}

func NewEnum(name string, generics GenericParams, repr Repr, variants []EnumVariant, meta Metadata) *Item {
	return &Item{Kind: ItemEnum, Name: name, Generics: generics, Meta: meta, Data: &EnumData{Repr: repr, Variants: variants}}
}

func NewTypedef(name string, generics GenericParams, aliased Type, meta Metadata) *Item {
	return &Item{Kind: ItemTypedef, Name: name, Generics: generics, Meta: meta, Data: &TypedefData{Aliased: aliased}}
}

// Accessors ------------------------------------------------------------------

func (it *Item) Cfg() *Cfg {
	return it.Meta.Cfg
}

func (it *Item) IsGeneric() bool {
	return len(it.Generics) > 0
}

// IsType reports whether the item belongs in the type registry.
func (it *Item) IsType() bool {
	switch it.Kind {
	case ItemOpaque, ItemStruct, ItemUnion, ItemEnum, ItemTypedef:
		return true
	}
	return false
}

func (it *Item) Constant() *ConstantData { d, _ := it.Data.(*ConstantData); return d }
func (it *Item) Static() *StaticData     { d, _ := it.Data.(*StaticData); return d }
func (it *Item) Struct() *StructData     { d, _ := it.Data.(*StructData); return d }
func (it *Item) Union() *UnionData       { d, _ := it.Data.(*UnionData); return d }
func (it *Item) Enum() *EnumData         { d, _ := it.Data.(*EnumData); return d }
func (it *Item) Typedef() *TypedefData   { d, _ := it.Data.(*TypedefData); return d }

// SetGenericName turns a clone of a generic declaration into a concrete one.
func (it *Item) SetGenericName(name string) {
	it.Name = name
	it.Generics = nil
}

// ForEachType calls fn for every top-level type the item mentions. Use
// Type.Visit inside fn to reach nested types.
func (it *Item) ForEachType(fn func(*Type)) {
	switch it.Kind {
	case ItemConstant:
		fn(&it.Constant().Ty)
	case ItemStatic:
		fn(&it.Static().Ty)
	case ItemOpaque:
	case ItemStruct:
		d := it.Struct()
		for i := range d.Fields {
			fn(&d.Fields[i].Ty)
		}
	case ItemUnion:
		d := it.Union()
		for i := range d.Fields {
			fn(&d.Fields[i].Ty)
		}
	case ItemEnum:
		d := it.Enum()
		for i := range d.Variants {
			for j := range d.Variants[i].Body {
				fn(&d.Variants[i].Body[j].Ty)
			}
		}
	case ItemTypedef:
		fn(&it.Typedef().Aliased)
	default:
		panic(fmt.Sprintf("ir: unexpected item kind %v", it.Kind))
	}
}

// VisitTypes calls fn for every type nested anywhere in the item.
func (it *Item) VisitTypes(fn func(*Type)) {
	it.ForEachType(func(t *Type) { t.Visit(fn) })
}

// VisitEdges reports every declaration the item mentions, ignoring its own
// generic parameters.
func (it *Item) VisitEdges(fn func(name string, byValue bool)) {
	it.ForEachType(func(t *Type) { t.VisitEdges(it.Generics, fn) })
}

// Clone returns a deep copy.
func (it *Item) Clone() *Item {
	out := &Item{
		Kind:     it.Kind,
		Name:     it.Name,
		Generics: it.Generics.Clone(),
		Meta:     it.Meta.Clone(),
	}
	switch it.Kind {
	case ItemConstant:
		d := it.Constant()
		out.Data = &ConstantData{Ty: d.Ty.Clone(), Value: d.Value}
	case ItemStatic:
		d := it.Static()
		out.Data = &StaticData{Ty: d.Ty.Clone(), Mutable: d.Mutable}
	case ItemOpaque:
		out.Data = &OpaqueData{}
	case ItemStruct:
		d := it.Struct()
		out.Data = &StructData{Fields: cloneFields(d.Fields), Tuple: d.Tuple}
	case ItemUnion:
		d := it.Union()
		out.Data = &UnionData{Fields: cloneFields(d.Fields), Tuple: d.Tuple}
	case ItemEnum:
		d := it.Enum()
		variants := make([]EnumVariant, len(d.Variants))
		for i, v := range d.Variants {
			variants[i] = EnumVariant{
				Name:  v.Name,
				Body:  cloneFields(v.Body),
				Tuple: v.Tuple,
				Doc:   v.Doc.Clone(),
			}
			if v.Discriminant != nil {
				disc := *v.Discriminant
				variants[i].Discriminant = &disc
			}
		}
		out.Data = &EnumData{Repr: d.Repr, Variants: variants}
	case ItemTypedef:
		out.Data = &TypedefData{Aliased: it.Typedef().Aliased.Clone()}
	default:
		panic(fmt.Sprintf("ir: unexpected item kind %v", it.Kind))
	}
	return out
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{Name: f.Name, Ty: f.Ty.Clone(), Doc: f.Doc.Clone()}
	}
	return out
}
