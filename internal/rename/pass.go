package rename

import (
	"fmt"
	"strings"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/registry"
)

// Annotation keys understood by the pass.
const (
	AnnRenameAll      = "rename-all"
	AnnFieldNames     = "field-names"
	AnnVariantNames   = "variant-names"
	AnnPrefixWithName = "prefix-with-name"
)

// Options collects the configuration consumed by the pass.
type Options struct {
	// Prefix is prepended to every exported name without an explicit rename.
	Prefix string
	// Renames maps a declared name to its exported name.
	Renames map[string]string

	StructFields RenameRule
	UnionFields  RenameRule
	EnumVariants RenameRule
	FnArgs       RenameRule

	// PrefixVariantsWithName prefixes every variant with "<Enum>_".
	PrefixVariantsWithName bool
}

func (o Options) exportName(name string) (string, bool) {
	if r, ok := o.Renames[name]; ok {
		return r, r != name
	}
	if o.Prefix != "" {
		return o.Prefix + name, true
	}
	return name, false
}

// Apply runs export renaming, member renaming and alias annotation transfer,
// in that order, then rebuilds every registry of set.
func Apply(set *registry.DeclSet, opts Options, r diag.Reporter) {
	if r == nil {
		r = diag.NopReporter{}
	}
	renameExports(set, opts)
	for _, it := range set.Types.Items() {
		renameMembers(it, opts, r)
	}
	for _, fn := range set.Functions {
		renameArgs(fn, opts.FnArgs)
	}
	TransferAnnotations(set.Types.Items(), r)
	for _, m := range set.Maps() {
		m.Rebuild(r)
	}
}

// renameExports rewrites declaration names and every type reference to a
// declared type. Function names are left alone.
func renameExports(set *registry.DeclSet, opts Options) {
	if opts.Prefix == "" && len(opts.Renames) == 0 {
		return
	}
	typeNames := make(map[string]string)
	for _, name := range set.Types.Names() {
		if to, ok := opts.exportName(name); ok {
			typeNames[name] = to
		}
	}
	lookup := func(name string) (string, bool) {
		to, ok := typeNames[name]
		return to, ok
	}

	for _, m := range set.Maps() {
		for _, it := range m.Items() {
			if to, ok := opts.exportName(it.Name); ok {
				it.Name = to
			}
			it.ForEachType(func(t *ir.Type) { t.RenamePaths(it.Generics, lookup) })
		}
	}
	for _, fn := range set.Functions {
		fn.ForEachType(func(t *ir.Type) { t.RenamePaths(nil, lookup) })
	}
}

func renameMembers(it *ir.Item, opts Options, r diag.Reporter) {
	switch it.Kind {
	case ir.ItemStruct:
		d := it.Struct()
		renameFields(it, d.Fields, d.Tuple, opts.StructFields, r)
	case ir.ItemUnion:
		d := it.Union()
		renameFields(it, d.Fields, d.Tuple, opts.UnionFields, r)
	case ir.ItemEnum:
		renameVariants(it, opts, r)
	}
}

func renameFields(it *ir.Item, fields []ir.Field, tuple bool, def RenameRule, r diag.Reporter) {
	names := make([]string, len(fields))
	for i := range fields {
		names[i] = fields[i].Name
	}
	names = MemberNames(names, it.Meta.Annotations, AnnFieldNames, def, tuple, StructMember(), it.Name, r)
	for i := range fields {
		fields[i].Name = names[i]
	}
}

func renameVariants(it *ir.Item, opts Options, r diag.Reporter) {
	d := it.Enum()
	names := make([]string, len(d.Variants))
	for i := range d.Variants {
		names[i] = d.Variants[i].Name
	}
	names = MemberNames(names, it.Meta.Annotations, AnnVariantNames, opts.EnumVariants, false, EnumVariant(it.Name), it.Name, r)

	prefix := opts.PrefixVariantsWithName
	if v, ok := it.Meta.Annotations.Bool(AnnPrefixWithName); ok {
		prefix = v
	}
	for i := range d.Variants {
		v := &d.Variants[i]
		v.Name = names[i]
		if prefix && !strings.HasPrefix(v.Name, it.Name+"_") {
			v.Name = it.Name + "_" + v.Name
		}
		if len(v.Body) == 0 {
			continue
		}
		// Variant bodies are laid out as structs.
		fields := make([]string, len(v.Body))
		for j := range v.Body {
			fields[j] = v.Body[j].Name
		}
		fields = MemberNames(fields, ir.AnnotationSet{}, "", opts.StructFields, v.Tuple, StructMember(), it.Name, r)
		for j := range v.Body {
			v.Body[j].Name = fields[j]
		}
	}
}

// MemberNames applies the member renaming precedence: an explicit positional
// list under listKey, else the rename-all annotation, else def, else an
// underscore prefix for positional members.
func MemberNames(names []string, ann ir.AnnotationSet, listKey string, def RenameRule, tuple bool, ctx IdentifierType, owner string, r diag.Reporter) []string {
	out := make([]string, len(names))
	copy(out, names)

	if listKey != "" {
		if overrides, ok := ann.List(listKey); ok {
			for i := range out {
				if i < len(overrides) {
					out[i] = overrides[i]
				}
			}
			return out
		}
	}

	rule, haveRule := def, def != RuleNone
	if spelled, ok := ann.Atom(AnnRenameAll); ok {
		parsed, err := ParseRule(spelled)
		if err != nil {
			if r != nil {
				diag.ReportWarning(r, diag.AnnBadRenameRule, diag.Item(owner),
					fmt.Sprintf("ignoring %s annotation: %v", AnnRenameAll, err)).Emit()
			}
		} else {
			rule, haveRule = parsed, true
		}
	}
	if haveRule {
		for i := range out {
			out[i] = rule.Apply(out[i], ctx)
		}
		return out
	}

	if tuple {
		for i := range out {
			out[i] = "_" + out[i]
		}
	}
	return out
}

func renameArgs(fn *ir.Function, rule RenameRule) {
	if rule == RuleNone {
		return
	}
	for i := range fn.Args {
		fn.Args[i].Name = rule.Apply(fn.Args[i].Name, FunctionArg())
	}
}

// TransferAnnotations moves the annotations of a plain alias onto the
// declaration it names. The first alias to claim a target wins; later ones
// and aliases of already annotated targets lose their annotations with a
// warning.
func TransferAnnotations(types []*ir.Item, r diag.Reporter) {
	byName := make(map[string][]*ir.Item, len(types))
	for _, it := range types {
		byName[it.Name] = append(byName[it.Name], it)
	}
	claimed := make(map[string]string)

	for _, it := range types {
		if it.Kind != ir.ItemTypedef || it.IsGeneric() || it.Meta.Annotations.IsEmpty() {
			continue
		}
		path, ok := it.Typedef().Aliased.RootPath()
		if !ok {
			continue
		}
		target := path.Name
		if first, dup := claimed[target]; dup {
			diag.ReportWarning(r, diag.AnnMultipleAliases, diag.Item(it.Name),
				fmt.Sprintf("multiple aliases with annotations for %s; ignoring annotations from %s", target, it.Name)).
				WithNote(diag.Item(first), "annotations already transferred from here").
				Emit()
			it.Meta.Annotations = ir.AnnotationSet{}
			continue
		}
		claimed[target] = it.Name

		annotations := it.Meta.Annotations
		it.Meta.Annotations = ir.AnnotationSet{}
		for _, dst := range byName[target] {
			if dst == it {
				continue
			}
			if !dst.Meta.Annotations.IsEmpty() {
				diag.ReportWarning(r, diag.AnnTransferConflict, diag.Item(it.Name),
					fmt.Sprintf("cannot transfer annotations from alias %s to %s, which already has annotations", it.Name, target)).
					Emit()
				continue
			}
			dst.Meta.Annotations = annotations.Clone()
		}
	}
}
