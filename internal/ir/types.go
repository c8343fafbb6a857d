package ir

import (
	"fmt"
	"strings"
)

// TypeKind enumerates the shapes a Type can take.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	// TypePrimitive is a scalar such as i32 or c_char.
	TypePrimitive
	// TypePath references another declaration by name, optionally with type arguments.
	TypePath
	// TypePtr is a mutable pointer.
	TypePtr
	// TypeConstPtr is a pointer to const.
	TypeConstPtr
	// TypeArray is a fixed size array; Len holds the length expression.
	TypeArray
	// TypeFuncPtr is a pointer to a function.
	TypeFuncPtr
)

func (k TypeKind) String() string {
	switch k {
	case TypeInvalid:
		return "invalid"
	case TypePrimitive:
		return "primitive"
	case TypePath:
		return "path"
	case TypePtr:
		return "ptr"
	case TypeConstPtr:
		return "const-ptr"
	case TypeArray:
		return "array"
	case TypeFuncPtr:
		return "fn-ptr"
	default:
		return fmt.Sprintf("TypeKind(%d)", k)
	}
}

// Type is a recursive value describing a C-representable type. References to
// declarations are weak: a path holds a name that is resolved against the
// registry on demand.
type Type struct {
	Kind   TypeKind
	Prim   PrimitiveType // TypePrimitive
	Path   GenericPath   // TypePath
	Elem   *Type         // TypePtr, TypeConstPtr, TypeArray
	Len    string        // TypeArray
	Ret    *Type         // TypeFuncPtr
	Params []Type        // TypeFuncPtr
}

// Descriptor helpers ---------------------------------------------------------

func Prim(p PrimitiveType) Type {
	return Type{Kind: TypePrimitive, Prim: p}
}

func Void() Type {
	return Prim(PrimVoid)
}

// Named references a declaration, optionally generic.
func Named(name string, args ...Type) Type {
	return Type{Kind: TypePath, Path: GenericPath{Name: name, Args: args}}
}

func Ptr(elem Type) Type {
	return Type{Kind: TypePtr, Elem: &elem}
}

func ConstPtr(elem Type) Type {
	return Type{Kind: TypeConstPtr, Elem: &elem}
}

func Array(elem Type, length string) Type {
	return Type{Kind: TypeArray, Elem: &elem, Len: length}
}

func FuncPtr(ret Type, params ...Type) Type {
	return Type{Kind: TypeFuncPtr, Ret: &ret, Params: params}
}

// IsVoid reports whether t is the unit type.
func (t Type) IsVoid() bool {
	return t.Kind == TypePrimitive && t.Prim.IsVoid()
}

// IsPointerLike reports whether values of t are represented as a single pointer.
func (t Type) IsPointerLike() bool {
	switch t.Kind {
	case TypePtr, TypeConstPtr, TypeFuncPtr:
		return true
	}
	return false
}

// IsPrimitiveOrPtrPrimitive reports whether t is a primitive or a pointer to one.
func (t Type) IsPrimitiveOrPtrPrimitive() bool {
	switch t.Kind {
	case TypePrimitive:
		return true
	case TypePtr, TypeConstPtr:
		return t.Elem != nil && t.Elem.Kind == TypePrimitive
	}
	return false
}

// RootPath returns the referenced path when t is a direct reference to a
// named declaration.
func (t Type) RootPath() (GenericPath, bool) {
	if t.Kind != TypePath {
		return GenericPath{}, false
	}
	return t.Path, true
}

func (t Type) Clone() Type {
	out := t
	if t.Elem != nil {
		e := t.Elem.Clone()
		out.Elem = &e
	}
	if t.Ret != nil {
		r := t.Ret.Clone()
		out.Ret = &r
	}
	if len(t.Params) > 0 {
		out.Params = make([]Type, len(t.Params))
		for i := range t.Params {
			out.Params[i] = t.Params[i].Clone()
		}
	}
	if t.Kind == TypePath {
		out.Path = t.Path.Clone()
	}
	return out
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TypePrimitive:
		return t.Prim == o.Prim
	case TypePath:
		return t.Path.Equal(o.Path)
	case TypePtr, TypeConstPtr:
		return equalElem(t.Elem, o.Elem)
	case TypeArray:
		return t.Len == o.Len && equalElem(t.Elem, o.Elem)
	case TypeFuncPtr:
		if !equalElem(t.Ret, o.Ret) || len(t.Params) != len(o.Params) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func equalElem(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Visit calls fn for t and every type nested in it, parents first. fn may
// replace the visited type in place; children of the replacement are visited.
func (t *Type) Visit(fn func(*Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch t.Kind {
	case TypePath:
		for i := range t.Path.Args {
			t.Path.Args[i].Visit(fn)
		}
	case TypePtr, TypeConstPtr, TypeArray:
		t.Elem.Visit(fn)
	case TypeFuncPtr:
		t.Ret.Visit(fn)
		for i := range t.Params {
			t.Params[i].Visit(fn)
		}
	}
}

// VisitEdges reports every declaration name t mentions, except names listed
// in skip (generic parameters in scope). byValue is false when the mention
// sits behind a pointer or inside a function pointer signature: such a
// reference needs a forward mention, not a complete definition.
func (t *Type) VisitEdges(skip GenericParams, fn func(name string, byValue bool)) {
	t.visitEdges(skip, true, fn)
}

func (t *Type) visitEdges(skip GenericParams, byValue bool, fn func(string, bool)) {
	if t == nil {
		return
	}
	switch t.Kind {
	case TypePath:
		if !(len(t.Path.Args) == 0 && skip.Contains(t.Path.Name)) {
			fn(t.Path.Name, byValue)
		}
		for i := range t.Path.Args {
			t.Path.Args[i].visitEdges(skip, byValue, fn)
		}
	case TypeArray:
		t.Elem.visitEdges(skip, byValue, fn)
	case TypePtr, TypeConstPtr:
		t.Elem.visitEdges(skip, false, fn)
	case TypeFuncPtr:
		t.Ret.visitEdges(skip, false, fn)
		for i := range t.Params {
			t.Params[i].visitEdges(skip, false, fn)
		}
	}
}

// MentionsParam reports whether t references any of params as a bare name.
func (t *Type) MentionsParam(params GenericParams) bool {
	if len(params) == 0 {
		return false
	}
	found := false
	t.Visit(func(x *Type) {
		if x.Kind == TypePath && len(x.Path.Args) == 0 && params.Contains(x.Path.Name) {
			found = true
		}
	})
	return found
}

// Substitute replaces every bare reference to a key of mappings with a copy
// of the mapped type.
func (t *Type) Substitute(mappings map[string]Type) {
	if t == nil || len(mappings) == 0 {
		return
	}
	switch t.Kind {
	case TypePath:
		if len(t.Path.Args) == 0 {
			if repl, ok := mappings[t.Path.Name]; ok {
				*t = repl.Clone()
				return
			}
		}
		for i := range t.Path.Args {
			t.Path.Args[i].Substitute(mappings)
		}
	case TypePtr, TypeConstPtr, TypeArray:
		t.Elem.Substitute(mappings)
	case TypeFuncPtr:
		t.Ret.Substitute(mappings)
		for i := range t.Params {
			t.Params[i].Substitute(mappings)
		}
	}
}

// SimplifyOptionToPtr rewrites Option<P>, where P is pointer-like, into P: a
// nullable pointer is the header representation of an optional reference.
func (t *Type) SimplifyOptionToPtr() {
	if t == nil {
		return
	}
	switch t.Kind {
	case TypePath:
		for i := range t.Path.Args {
			t.Path.Args[i].SimplifyOptionToPtr()
		}
		if t.Path.Name == "Option" && len(t.Path.Args) == 1 && t.Path.Args[0].IsPointerLike() {
			*t = t.Path.Args[0]
		}
	case TypePtr, TypeConstPtr, TypeArray:
		t.Elem.SimplifyOptionToPtr()
	case TypeFuncPtr:
		t.Ret.SimplifyOptionToPtr()
		for i := range t.Params {
			t.Params[i].SimplifyOptionToPtr()
		}
	}
}

// RenamePaths rewrites the name of every path for which rename returns a new
// name. Bare references to names in skip are left untouched.
func (t *Type) RenamePaths(skip GenericParams, rename func(string) (string, bool)) {
	t.Visit(func(x *Type) {
		if x.Kind != TypePath {
			return
		}
		if len(x.Path.Args) == 0 && skip.Contains(x.Path.Name) {
			return
		}
		if name, ok := rename(x.Path.Name); ok {
			x.Path.Name = name
		}
	})
}

// String renders t in the declaration-set type syntax.
func (t Type) String() string {
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

func (t Type) writeTo(b *strings.Builder) {
	switch t.Kind {
	case TypePrimitive:
		b.WriteString(t.Prim.String())
	case TypePath:
		b.WriteString(t.Path.String())
	case TypePtr:
		b.WriteString("*mut ")
		writeElem(b, t.Elem)
	case TypeConstPtr:
		b.WriteString("*const ")
		writeElem(b, t.Elem)
	case TypeArray:
		b.WriteByte('[')
		writeElem(b, t.Elem)
		b.WriteString("; ")
		b.WriteString(t.Len)
		b.WriteByte(']')
	case TypeFuncPtr:
		b.WriteString("fn(")
		for i := range t.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			t.Params[i].writeTo(b)
		}
		b.WriteByte(')')
		if t.Ret != nil && !t.Ret.IsVoid() {
			b.WriteString(" -> ")
			t.Ret.writeTo(b)
		}
	default:
		b.WriteString("<invalid>")
	}
}

func writeElem(b *strings.Builder, t *Type) {
	if t == nil {
		b.WriteString("<invalid>")
		return
	}
	t.writeTo(b)
}
