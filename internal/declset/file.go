package declset

// SchemaVersion is bumped whenever the serialized layout changes.
const SchemaVersion uint16 = 1

// File is a declaration set as a front end writes it: plain strings for types
// and cfg predicates, validated and converted by Build.
type File struct {
	Schema    uint16         `toml:"schema" msgpack:"schema"`
	Constants []ConstantDecl `toml:"constant" msgpack:"constant,omitempty"`
	Statics   []StaticDecl   `toml:"static" msgpack:"static,omitempty"`
	Items     []ItemDecl     `toml:"item" msgpack:"item,omitempty"`
	Functions []FunctionDecl `toml:"function" msgpack:"function,omitempty"`
}

type ConstantDecl struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
	// Value is a string, integer, float or bool.
	Value       any            `toml:"value" msgpack:"value"`
	Cfg         string         `toml:"cfg" msgpack:"cfg,omitempty"`
	Annotations map[string]any `toml:"annotations" msgpack:"annotations,omitempty"`
	Doc         []string       `toml:"doc" msgpack:"doc,omitempty"`
}

type StaticDecl struct {
	Name        string         `toml:"name" msgpack:"name"`
	Type        string         `toml:"type" msgpack:"type"`
	Mutable     bool           `toml:"mutable" msgpack:"mutable,omitempty"`
	Cfg         string         `toml:"cfg" msgpack:"cfg,omitempty"`
	Annotations map[string]any `toml:"annotations" msgpack:"annotations,omitempty"`
	Doc         []string       `toml:"doc" msgpack:"doc,omitempty"`
}

type FieldDecl struct {
	Name string   `toml:"name" msgpack:"name"`
	Type string   `toml:"type" msgpack:"type"`
	Doc  []string `toml:"doc" msgpack:"doc,omitempty"`
}

type VariantDecl struct {
	Name         string      `toml:"name" msgpack:"name"`
	Discriminant *int64      `toml:"discriminant" msgpack:"discriminant,omitempty"`
	Fields       []FieldDecl `toml:"fields" msgpack:"fields,omitempty"`
	Tuple        bool        `toml:"tuple" msgpack:"tuple,omitempty"`
	Doc          []string    `toml:"doc" msgpack:"doc,omitempty"`
}

// ItemDecl is any type declaration; Kind selects which fields apply.
type ItemDecl struct {
	Kind        string         `toml:"kind" msgpack:"kind"`
	Name        string         `toml:"name" msgpack:"name"`
	Generics    []string       `toml:"generics" msgpack:"generics,omitempty"`
	Repr        string         `toml:"repr" msgpack:"repr,omitempty"`
	Tuple       bool           `toml:"tuple" msgpack:"tuple,omitempty"`
	Fields      []FieldDecl    `toml:"fields" msgpack:"fields,omitempty"`
	Variants    []VariantDecl  `toml:"variants" msgpack:"variants,omitempty"`
	Aliased     string         `toml:"aliased" msgpack:"aliased,omitempty"`
	Cfg         string         `toml:"cfg" msgpack:"cfg,omitempty"`
	Annotations map[string]any `toml:"annotations" msgpack:"annotations,omitempty"`
	Doc         []string       `toml:"doc" msgpack:"doc,omitempty"`
}

type ArgDecl struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
}

type FunctionDecl struct {
	Name string `toml:"name" msgpack:"name"`
	// Ret is empty for functions returning nothing.
	Ret         string         `toml:"ret" msgpack:"ret,omitempty"`
	Args        []ArgDecl      `toml:"args" msgpack:"args,omitempty"`
	Cfg         string         `toml:"cfg" msgpack:"cfg,omitempty"`
	Annotations map[string]any `toml:"annotations" msgpack:"annotations,omitempty"`
	Doc         []string       `toml:"doc" msgpack:"doc,omitempty"`
}
