package ir

import "strings"

// GenericParams lists the free type parameter names of a declaration.
type GenericParams []string

func (g GenericParams) Contains(name string) bool {
	for _, p := range g {
		if p == name {
			return true
		}
	}
	return false
}

func (g GenericParams) Clone() GenericParams {
	if len(g) == 0 {
		return nil
	}
	out := make(GenericParams, len(g))
	copy(out, g)
	return out
}

// GenericPath names a declaration, optionally with concrete type arguments.
// Two paths are equal iff name and argument lists are structurally equal.
type GenericPath struct {
	Name string
	Args []Type
}

func NewGenericPath(name string, args ...Type) GenericPath {
	return GenericPath{Name: name, Args: args}
}

// IsGeneric reports whether the path carries type arguments.
func (p GenericPath) IsGeneric() bool {
	return len(p.Args) > 0
}

// Key returns a canonical string identifying the path. Go maps cannot key on
// slices, so instantiation tables use this instead of the struct itself.
func (p GenericPath) Key() string {
	return p.String()
}

func (p GenericPath) String() string {
	if len(p.Args) == 0 {
		return p.Name
	}
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte('<')
	for i := range p.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		p.Args[i].writeTo(&b)
	}
	b.WriteByte('>')
	return b.String()
}

func (p GenericPath) Equal(o GenericPath) bool {
	if p.Name != o.Name || len(p.Args) != len(o.Args) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func (p GenericPath) Clone() GenericPath {
	out := GenericPath{Name: p.Name}
	if len(p.Args) > 0 {
		out.Args = make([]Type, len(p.Args))
		for i := range p.Args {
			out.Args[i] = p.Args[i].Clone()
		}
	}
	return out
}
