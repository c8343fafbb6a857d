package declset

import (
	"fmt"
	"sort"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/registry"
)

// Build validates every declaration of f and converts the survivors. A
// declaration that fails validation is reported and left out; Build never
// fails as a whole.
func Build(f *File, r diag.Reporter) *registry.DeclSet {
	b := &builder{set: registry.NewDeclSet(), r: r}
	for i := range f.Constants {
		b.constant(&f.Constants[i])
	}
	for i := range f.Statics {
		b.static(&f.Statics[i])
	}
	for i := range f.Items {
		b.item(&f.Items[i])
	}
	seen := make(map[string]bool, len(f.Functions))
	for i := range f.Functions {
		b.function(&f.Functions[i], seen)
	}
	return b.set
}

type builder struct {
	set *registry.DeclSet
	r   diag.Reporter
}

// reject reports why name was dropped.
func (b *builder) reject(code diag.Code, name, format string, args ...any) {
	diag.ReportWarning(b.r, code, diag.Item(name), fmt.Sprintf(format, args...)+"; declaration skipped").Emit()
}

func (b *builder) insert(it *ir.Item) {
	if b.set.Insert(it) {
		return
	}
	label := b.set.Category(it.Kind).Label()
	b.reject(diag.DeclDuplicate, it.Name, "%s %q conflicts with an earlier declaration of the same name", label, it.Name)
}

func (b *builder) metadata(name, cfg string, annotations map[string]any, doc []string) (ir.Metadata, bool) {
	meta := ir.Metadata{Documentation: ir.Documentation(doc).Clone()}
	if cfg != "" {
		c, err := ParseCfg(cfg)
		if err != nil {
			b.reject(diag.DeclBadCfg, name, "bad cfg: %v", err)
			return ir.Metadata{}, false
		}
		meta.Cfg = c
	}
	meta.Annotations = b.annotations(name, annotations)
	return meta, true
}

// annotations converts decoded values. Unsupported values are dropped with a
// warning; the declaration itself survives.
func (b *builder) annotations(name string, raw map[string]any) ir.AnnotationSet {
	var set ir.AnnotationSet
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			set.Set(k, ir.AtomValue(v))
		case bool:
			set.Set(k, ir.BoolValue(v))
		case []any:
			list := make([]string, 0, len(v))
			ok := true
			for _, e := range v {
				s, isString := e.(string)
				if !isString {
					ok = false
					break
				}
				list = append(list, s)
			}
			if !ok {
				diag.ReportWarning(b.r, diag.DeclInfo, diag.Item(name),
					fmt.Sprintf("annotation %q must be a list of strings; ignored", k)).Emit()
				continue
			}
			set.Set(k, ir.ListValue(list...))
		case []string:
			set.Set(k, ir.ListValue(append([]string(nil), v...)...))
		default:
			diag.ReportWarning(b.r, diag.DeclInfo, diag.Item(name),
				fmt.Sprintf("annotation %q has unsupported value %v; ignored", k, v)).Emit()
		}
	}
	return set
}

func (b *builder) parseType(name, what, src string) (ir.Type, bool) {
	t, err := ParseType(src)
	if err != nil {
		b.reject(diag.DeclBadType, name, "%s: %v", what, err)
		return ir.Type{}, false
	}
	return t, true
}

func (b *builder) constant(d *ConstantDecl) {
	ty, ok := b.parseType(d.Name, "type", d.Type)
	if !ok {
		return
	}
	if ty.IsVoid() {
		b.reject(diag.DeclZeroSized, d.Name, "constant has zero sized type ()")
		return
	}
	if !ty.IsPrimitiveOrPtrPrimitive() {
		b.reject(diag.DeclNonPrimitiveConst, d.Name, "constant type %s is not primitive", ty)
		return
	}
	value, err := literal(ty, d.Value)
	if err != nil {
		b.reject(diag.DeclUnsupportedLiteral, d.Name, "%v", err)
		return
	}
	meta, ok := b.metadata(d.Name, d.Cfg, d.Annotations, d.Doc)
	if !ok {
		return
	}
	b.insert(ir.NewConstant(d.Name, ty, value, meta))
}

func (b *builder) static(d *StaticDecl) {
	ty, ok := b.parseType(d.Name, "type", d.Type)
	if !ok {
		return
	}
	if ty.IsVoid() {
		b.reject(diag.DeclZeroSized, d.Name, "static has zero sized type ()")
		return
	}
	meta, ok := b.metadata(d.Name, d.Cfg, d.Annotations, d.Doc)
	if !ok {
		return
	}
	b.insert(ir.NewStatic(d.Name, ty, d.Mutable, meta))
}

func (b *builder) fields(owner string, decls []FieldDecl) ([]ir.Field, bool) {
	fields := make([]ir.Field, 0, len(decls))
	for i, fd := range decls {
		name := fd.Name
		if name == "" {
			name = fmt.Sprint(i)
		}
		ty, ok := b.parseType(owner, "field "+name, fd.Type)
		if !ok {
			return nil, false
		}
		fields = append(fields, ir.Field{Name: name, Ty: ty, Doc: ir.Documentation(fd.Doc).Clone()})
	}
	return fields, true
}

func (b *builder) item(d *ItemDecl) {
	meta, ok := b.metadata(d.Name, d.Cfg, d.Annotations, d.Doc)
	if !ok {
		return
	}
	generics := ir.GenericParams(d.Generics).Clone()

	switch d.Kind {
	case "opaque":
		b.insert(ir.NewOpaque(d.Name, generics, meta))

	case "struct":
		if d.Repr != "C" && d.Repr != "transparent" {
			// Layout unknown: the header can only name it.
			b.insert(ir.NewOpaque(d.Name, generics, meta))
			return
		}
		fields, ok := b.fields(d.Name, d.Fields)
		if !ok {
			return
		}
		if d.Repr == "transparent" && len(fields) == 1 && !d.Tuple {
			b.insert(ir.NewTypedef(d.Name, generics, fields[0].Ty, meta))
			return
		}
		b.insert(ir.NewStruct(d.Name, generics, fields, d.Tuple, meta))

	case "union":
		if d.Repr != "C" {
			b.reject(diag.DeclNotReprC, d.Name, "union is not repr(C)")
			return
		}
		fields, ok := b.fields(d.Name, d.Fields)
		if !ok {
			return
		}
		b.insert(ir.NewUnion(d.Name, generics, fields, d.Tuple, meta))

	case "enum":
		b.enum(d, generics, meta)

	case "typedef":
		ty, ok := b.parseType(d.Name, "aliased type", d.Aliased)
		if !ok {
			return
		}
		if ty.IsVoid() {
			b.reject(diag.DeclZeroSized, d.Name, "typedef aliases zero sized type ()")
			return
		}
		b.insert(ir.NewTypedef(d.Name, generics, ty, meta))

	default:
		b.reject(diag.DeclUnknownKind, d.Name, "unknown item kind %q", d.Kind)
	}
}

func (b *builder) enum(d *ItemDecl, generics ir.GenericParams, meta ir.Metadata) {
	repr, err := ir.ParseRepr(d.Repr)
	if err != nil || repr == ir.ReprNone {
		b.reject(diag.DeclNotReprC, d.Name, "enum needs repr(C) or an integer repr, got %q", d.Repr)
		return
	}
	if len(d.Variants) == 0 {
		b.reject(diag.DeclZeroSized, d.Name, "enum has no variants")
		return
	}
	variants := make([]ir.EnumVariant, 0, len(d.Variants))
	for _, vd := range d.Variants {
		body, ok := b.fields(d.Name, vd.Fields)
		if !ok {
			return
		}
		v := ir.EnumVariant{Name: vd.Name, Body: body, Tuple: vd.Tuple, Doc: ir.Documentation(vd.Doc).Clone()}
		if vd.Discriminant != nil {
			disc := *vd.Discriminant
			v.Discriminant = &disc
		}
		variants = append(variants, v)
	}
	b.insert(ir.NewEnum(d.Name, generics, repr, variants, meta))
}

func (b *builder) function(d *FunctionDecl, seen map[string]bool) {
	ret := ir.Void()
	if d.Ret != "" {
		t, ok := b.parseType(d.Name, "return type", d.Ret)
		if !ok {
			return
		}
		ret = t
	}
	args := make([]ir.FuncArg, 0, len(d.Args))
	for i, a := range d.Args {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		ty, ok := b.parseType(d.Name, "argument "+name, a.Type)
		if !ok {
			return
		}
		args = append(args, ir.FuncArg{Name: name, Ty: ty})
	}
	meta, ok := b.metadata(d.Name, d.Cfg, d.Annotations, d.Doc)
	if !ok {
		return
	}
	if meta.Cfg == nil {
		if seen[d.Name] {
			b.reject(diag.DeclDuplicate, d.Name, "function %q is declared twice", d.Name)
			return
		}
		seen[d.Name] = true
	}
	b.set.Functions = append(b.set.Functions, &ir.Function{Name: d.Name, Ret: ret, Args: args, Meta: meta})
}
