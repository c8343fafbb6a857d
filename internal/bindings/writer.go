package bindings

import (
	"fmt"
	"strings"

	"bindgen/internal/config"
	"bindgen/internal/ir"
	"bindgen/internal/rename"
	"bindgen/internal/version"
)

// AnnEnumClass turns a C++ enum into a plain enum when set to false.
const AnnEnumClass = "enum-class"

type writer struct {
	b      *Bindings
	cfg    *config.Config
	lang   config.Language
	indent string
	buf    strings.Builder
	// blocks written so far; every block after the first is preceded by a
	// blank line
	blocks int
}

func newWriter(b *Bindings) *writer {
	cfg := b.Config
	if cfg == nil {
		cfg = config.Default()
	}
	return &writer{
		b:      b,
		cfg:    cfg,
		lang:   cfg.Language,
		indent: strings.Repeat(" ", cfg.TabWidth),
	}
}

func (w *writer) emitAll() {
	w.emitPreamble()
	for _, c := range w.b.Constants {
		w.guarded(c.Cfg(), func() { w.emitConstant(c) })
	}
	for _, it := range w.b.Items {
		w.guarded(it.Cfg(), func() { w.emitItem(it) })
	}
	if len(w.b.Globals) > 0 || len(w.b.Functions) > 0 {
		w.emitExterns()
	}
	w.emitPostamble()
}

// block starts a new top-level block.
func (w *writer) block() {
	if w.blocks > 0 {
		w.buf.WriteByte('\n')
	}
	w.blocks++
}

func (w *writer) line(depth int, format string, args ...any) {
	w.buf.WriteString(strings.Repeat(w.indent, depth))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *writer) emitPreamble() {
	if w.cfg.Header != "" {
		w.block()
		w.line(0, "%s", strings.TrimRight(w.cfg.Header, "\n"))
	}
	if w.cfg.IncludeVersion {
		w.block()
		w.line(0, "/* %s */", version.Banner())
	}
	if w.cfg.IncludeGuard != "" {
		w.block()
		w.line(0, "#ifndef %s", w.cfg.IncludeGuard)
		w.line(0, "#define %s", w.cfg.IncludeGuard)
	}
	if w.cfg.AutogenWarning != "" {
		w.block()
		w.line(0, "%s", strings.TrimRight(w.cfg.AutogenWarning, "\n"))
	}

	var includes []string
	if !w.cfg.NoIncludes {
		if w.lang == config.LangCxx {
			includes = append(includes, "<cstdarg>", "<cstdint>", "<cstdlib>", "<new>")
		} else {
			includes = append(includes, "<stdarg.h>", "<stdbool.h>", "<stdint.h>", "<stdlib.h>")
		}
	}
	for _, inc := range w.cfg.SysIncludes {
		includes = append(includes, "<"+inc+">")
	}
	for _, inc := range w.cfg.Includes {
		includes = append(includes, `"`+inc+`"`)
	}
	if len(includes) > 0 {
		w.block()
		for _, inc := range includes {
			w.line(0, "#include %s", inc)
		}
	}
}

func (w *writer) emitPostamble() {
	if w.cfg.Trailer != "" {
		w.block()
		w.line(0, "%s", strings.TrimRight(w.cfg.Trailer, "\n"))
	}
	if w.cfg.IncludeGuard != "" {
		w.block()
		w.line(0, "#endif  /* %s */", w.cfg.IncludeGuard)
	}
}

// guarded opens a block and wraps what body writes in #if/#endif when the
// item carries a cfg the defines table can express. Unmapped predicates were
// already reported by the pipeline; the item is written unguarded.
func (w *writer) guarded(cfg *ir.Cfg, body func()) {
	w.block()
	cond := ""
	if cfg != nil {
		if c, err := cfg.Condition(w.cfg.Defines); err == nil {
			cond = c
		}
	}
	if cond != "" {
		w.line(0, "#if %s", cond)
	}
	body()
	if cond != "" {
		w.line(0, "#endif")
	}
}

func (w *writer) doc(depth int, doc ir.Documentation) {
	if !w.cfg.Documentation {
		return
	}
	for _, l := range doc {
		if l == "" {
			w.line(depth, "///")
			continue
		}
		w.line(depth, "/// %s", l)
	}
}

func (w *writer) emitConstant(c *ir.Item) {
	d := c.Constant()
	w.doc(0, c.Meta.Documentation)
	if w.lang == config.LangCxx && w.cfg.Constant.AllowStaticConst {
		w.line(0, "static %s = %s;", declare(w.lang, d.Ty, c.Name, true), d.Value)
		return
	}
	w.line(0, "#define %s %s", c.Name, d.Value)
}

func (w *writer) templateLine(it *ir.Item) {
	if w.lang != config.LangCxx || !it.IsGeneric() {
		return
	}
	params := make([]string, len(it.Generics))
	for i, g := range it.Generics {
		params[i] = "typename " + g
	}
	w.line(0, "template<%s>", strings.Join(params, ", "))
}

// templateArgs spells the parameter list of a generic item as arguments,
// e.g. "<T, U>".
func (w *writer) templateArgs(it *ir.Item) string {
	if w.lang != config.LangCxx || !it.IsGeneric() {
		return ""
	}
	return "<" + strings.Join(it.Generics, ", ") + ">"
}

func (w *writer) emitItem(it *ir.Item) {
	w.doc(0, it.Meta.Documentation)
	switch it.Kind {
	case ir.ItemOpaque:
		w.emitOpaque(it)
	case ir.ItemStruct:
		d := it.Struct()
		w.emitRecord(it, "struct", it.Name, d.Fields)
	case ir.ItemUnion:
		d := it.Union()
		w.emitRecord(it, "union", it.Name, d.Fields)
	case ir.ItemEnum:
		w.emitEnum(it)
	case ir.ItemTypedef:
		w.emitTypedef(it)
	default:
		panic(fmt.Sprintf("bindings: cannot emit %v item %s", it.Kind, it.Name))
	}
}

func (w *writer) emitOpaque(it *ir.Item) {
	if w.lang == config.LangCxx {
		w.templateLine(it)
		w.line(0, "struct %s;", it.Name)
		return
	}
	w.line(0, "typedef struct %s %s;", it.Name, it.Name)
}

func (w *writer) emitRecord(it *ir.Item, keyword, name string, fields []ir.Field) {
	w.templateLine(it)
	if w.lang == config.LangCxx {
		w.line(0, "%s %s {", keyword, name)
	} else {
		w.line(0, "typedef %s {", keyword)
	}
	w.fields(1, fields)
	if w.lang == config.LangCxx {
		w.line(0, "};")
	} else {
		w.line(0, "} %s;", name)
	}
}

func (w *writer) fields(depth int, fields []ir.Field) {
	for _, f := range fields {
		w.doc(depth, f.Doc)
		w.line(depth, "%s;", declarator(w.lang, f.Ty, f.Name))
	}
}

func (w *writer) emitTypedef(it *ir.Item) {
	aliased := it.Typedef().Aliased
	if w.lang == config.LangCxx {
		w.templateLine(it)
		w.line(0, "using %s = %s;", it.Name, declarator(w.lang, aliased, ""))
		return
	}
	w.line(0, "typedef %s;", declarator(w.lang, aliased, it.Name))
}

func (w *writer) emitEnum(it *ir.Item) {
	d := it.Enum()
	if !d.HasBodies() {
		w.emitEnumTags(it, it.Name, d)
		return
	}

	tag := it.Name + "_Tag"
	w.emitEnumTags(it, tag, d)
	args := w.templateArgs(it)

	type member struct{ ty, name string }
	var members []member
	for i := range d.Variants {
		v := &d.Variants[i]
		if len(v.Body) == 0 {
			continue
		}
		body := bodyName(it.Name, v.Name)
		w.buf.WriteByte('\n')
		w.emitRecord(it, "struct", body, v.Body)
		members = append(members, member{ty: body + args, name: memberName(it.Name, v.Name)})
	}

	w.buf.WriteByte('\n')
	w.templateLine(it)
	if w.lang == config.LangCxx {
		w.line(0, "struct %s {", it.Name)
	} else {
		w.line(0, "typedef struct {")
	}
	w.line(1, "%s tag;", tag)
	w.line(1, "union {")
	for _, m := range members {
		w.line(2, "%s %s;", m.ty, m.name)
	}
	w.line(1, "};")
	if w.lang == config.LangCxx {
		w.line(0, "};")
	} else {
		w.line(0, "} %s;", it.Name)
	}
}

// emitEnumTags writes the C-like part of an enum under name.
func (w *writer) emitEnumTags(it *ir.Item, name string, d *ir.EnumData) {
	prim, sized := d.Repr.Primitive()
	switch {
	case w.lang == config.LangCxx:
		keyword := "enum class"
		if v, ok := it.Meta.Annotations.Bool(AnnEnumClass); ok && !v {
			keyword = "enum"
		}
		if sized {
			w.line(0, "%s %s : %s {", keyword, name, prim.CName())
		} else {
			w.line(0, "%s %s {", keyword, name)
		}
	case sized:
		w.line(0, "enum %s {", name)
	default:
		w.line(0, "typedef enum {")
	}

	for i := range d.Variants {
		v := &d.Variants[i]
		w.doc(1, v.Doc)
		if v.Discriminant != nil {
			w.line(1, "%s = %d,", v.Name, *v.Discriminant)
		} else {
			w.line(1, "%s,", v.Name)
		}
	}

	switch {
	case w.lang == config.LangCxx:
		w.line(0, "};")
	case sized:
		w.line(0, "};")
		w.line(0, "typedef %s %s;", prim.CName(), name)
	default:
		w.line(0, "} %s;", name)
	}
}

// bodyName names the struct holding the fields of one enum variant. Variants
// already prefixed with the enum name keep that single prefix.
func bodyName(enum, variant string) string {
	if strings.HasPrefix(variant, enum+"_") {
		return variant + "_Body"
	}
	return enum + "_" + variant + "_Body"
}

func memberName(enum, variant string) string {
	variant = strings.TrimPrefix(variant, enum+"_")
	return rename.RuleSnakeCase.Apply(variant, rename.StructMember())
}

func (w *writer) emitExterns() {
	cxx := w.lang == config.LangCxx
	if cxx {
		w.block()
		w.line(0, `extern "C" {`)
	}
	for _, g := range w.b.Globals {
		w.guarded(g.Cfg(), func() {
			d := g.Static()
			w.doc(0, g.Meta.Documentation)
			w.line(0, "extern %s;", declare(w.lang, d.Ty, g.Name, !d.Mutable))
		})
	}
	for _, fn := range w.b.Functions {
		w.guarded(fn.Cfg(), func() { w.emitFunction(fn) })
	}
	if cxx {
		w.block()
		w.line(0, `}  // extern "C"`)
	}
}

func (w *writer) emitFunction(fn *ir.Function) {
	w.doc(0, fn.Meta.Documentation)
	args := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = declarator(w.lang, a.Ty, a.Name)
	}
	list := strings.Join(args, ", ")
	if list == "" {
		list = "void"
	}
	w.line(0, "%s;", declarator(w.lang, fn.Ret, fn.Name+"("+list+")"))
}
