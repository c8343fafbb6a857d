package mono

import (
	"context"
	"errors"
	"fmt"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/registry"
	"bindgen/internal/trace"
)

var (
	ErrArityMismatch       = errors.New("generic arity mismatch")
	ErrUnresolvedMonomorph = errors.New("unresolved monomorph reference")
	ErrDepthExceeded       = errors.New("monomorphization depth exceeded")
	ErrNameCollision       = errors.New("monomorph name collision")
)

type Options struct {
	MaxDepth int
}

const DefaultMaxDepth = 64

type work struct {
	path  ir.GenericPath
	depth int
	from  string
}

type monoBuilder struct {
	ctx   context.Context
	set   *registry.DeclSet
	opt   Options
	r     diag.Reporter
	table *Table

	// generic declarations by name, captured before any clone exists
	templates map[string][]*ir.Item
	queue     []work
	warned    map[string]struct{}
}

// Monomorphize replaces every use of a generic declaration with a concrete
// clone: it instantiates each distinct generic path once, removes the generic
// templates from set.Types and rewrites references to the mangled names.
func Monomorphize(ctx context.Context, set *registry.DeclSet, opt Options, r diag.Reporter) (*Table, error) {
	if opt.MaxDepth <= 0 {
		opt.MaxDepth = DefaultMaxDepth
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	b := &monoBuilder{
		set:       set,
		opt:       opt,
		r:         r,
		table:     NewTable(),
		templates: make(map[string][]*ir.Item),
		warned:    make(map[string]struct{}),
	}

	ictx, span := trace.Start(ctx, trace.ScopePass, "mono_instantiate")
	b.ctx = ictx
	b.seed()
	err := b.drain()
	span.End(fmt.Sprintf("instances=%d", b.table.Len()))
	if err != nil {
		return nil, err
	}

	if err := b.install(); err != nil {
		return nil, err
	}

	_, span = trace.Start(ctx, trace.ScopePass, "mono_rewrite")
	err = b.rewrite()
	span.End("")
	if err != nil {
		return nil, err
	}

	if err := validateNoGenerics(set); err != nil {
		return nil, err
	}
	return b.table, nil
}

func (b *monoBuilder) seed() {
	for _, it := range b.set.Types.Items() {
		if it.IsGeneric() {
			b.templates[it.Name] = append(b.templates[it.Name], it)
		}
	}
	for _, m := range b.set.Maps() {
		for _, it := range m.Items() {
			if it.IsGeneric() {
				continue
			}
			it.VisitTypes(func(t *ir.Type) { b.enqueue(t, 1, it.Name) })
		}
	}
	for _, fn := range b.set.Functions {
		fn.ForEachType(func(t *ir.Type) {
			t.Visit(func(x *ir.Type) { b.enqueue(x, 1, fn.Name) })
		})
	}
}

func (b *monoBuilder) enqueue(t *ir.Type, depth int, from string) {
	if t.Kind != ir.TypePath || !t.Path.IsGeneric() {
		return
	}
	b.queue = append(b.queue, work{path: t.Path.Clone(), depth: depth, from: from})
}

// drain processes the worklist until every reachable generic path has a
// concrete declaration. Clones enqueue the generic paths they mention one
// level deeper.
func (b *monoBuilder) drain() error {
	for len(b.queue) > 0 {
		w := b.queue[0]
		b.queue = b.queue[1:]

		if b.table.Contains(w.path) {
			continue
		}
		templates, ok := b.templates[w.path.Name]
		if !ok {
			if b.set.Types.Contains(w.path.Name) {
				return b.fatal(diag.MonoArityMismatch, w.from, ErrArityMismatch,
					fmt.Sprintf("%s is not generic but is used as %s", w.path.Name, w.path))
			}
			// external generic type, reported during rewrite
			continue
		}
		if w.depth > b.opt.MaxDepth {
			return b.fatal(diag.MonoDepthExceeded, w.from, ErrDepthExceeded,
				fmt.Sprintf("instantiating %s exceeds the maximum depth of %d", w.path, b.opt.MaxDepth))
		}

		name := Mangle(w.path)
		if owner, taken := b.table.Owner(name); taken {
			return b.fatal(diag.MonoNameCollision, w.from, ErrNameCollision,
				fmt.Sprintf("%s and %s both mangle to %s", owner, w.path, name))
		}
		if b.set.Types.Contains(name) {
			return b.fatal(diag.MonoNameCollision, w.from, ErrNameCollision,
				fmt.Sprintf("instantiation %s is named %s, which is already declared", w.path, name))
		}

		clones := make([]*ir.Item, 0, len(templates))
		for _, tmpl := range templates {
			clone, err := b.instantiate(tmpl, w, name)
			if err != nil {
				return err
			}
			clones = append(clones, clone)
		}
		b.table.Insert(w.path, name, clones)
		trace.Point(b.ctx, trace.ScopeItem, "instantiate", w.path.String()+" as "+name)
	}
	return nil
}

func (b *monoBuilder) instantiate(tmpl *ir.Item, w work, name string) (*ir.Item, error) {
	if len(tmpl.Generics) != len(w.path.Args) {
		return nil, b.fatal(diag.MonoArityMismatch, w.from, ErrArityMismatch,
			fmt.Sprintf("%s takes %d type arguments, got %d in %s", tmpl.Name, len(tmpl.Generics), len(w.path.Args), w.path))
	}
	mappings := make(map[string]ir.Type, len(tmpl.Generics))
	for i, param := range tmpl.Generics {
		mappings[param] = w.path.Args[i]
	}

	clone := tmpl.Clone()
	clone.ForEachType(func(t *ir.Type) { t.Substitute(mappings) })
	clone.SetGenericName(name)
	clone.VisitTypes(func(t *ir.Type) { b.enqueue(t, w.depth+1, name) })
	return clone, nil
}

// install moves the clones into the registry and drops the templates.
func (b *monoBuilder) install() error {
	for _, clone := range b.table.Drain() {
		if !b.set.Types.TryInsert(clone) {
			return b.fatal(diag.MonoNameCollision, clone.Name, ErrNameCollision,
				fmt.Sprintf("cannot register instantiation %s: name already taken", clone.Name))
		}
	}
	b.set.Types.Filter(func(it *ir.Item) bool { return it.IsGeneric() })
	return nil
}

// rewrite points every concrete generic path at its mangled declaration.
func (b *monoBuilder) rewrite() error {
	var err error
	visit := func(owner string) func(*ir.Type) {
		return func(t *ir.Type) {
			if err != nil || t.Kind != ir.TypePath || !t.Path.IsGeneric() {
				return
			}
			if name, ok := b.table.Lookup(t.Path); ok {
				*t = ir.Named(name)
				return
			}
			if _, generic := b.templates[t.Path.Name]; generic {
				err = b.fatal(diag.MonoUnresolved, owner, ErrUnresolvedMonomorph,
					fmt.Sprintf("no instantiation recorded for %s", t.Path))
				return
			}
			b.warnMissing(owner, t.Path)
		}
	}
	for _, m := range b.set.Maps() {
		for _, it := range m.Items() {
			it.VisitTypes(visit(it.Name))
			if err != nil {
				return err
			}
		}
	}
	for _, fn := range b.set.Functions {
		v := visit(fn.Name)
		fn.ForEachType(func(t *ir.Type) { t.Visit(v) })
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *monoBuilder) warnMissing(owner string, p ir.GenericPath) {
	key := owner + "\x00" + p.Key()
	if _, seen := b.warned[key]; seen {
		return
	}
	b.warned[key] = struct{}{}
	diag.ReportWarning(b.r, diag.MonoMissingMangling, diag.Item(owner),
		fmt.Sprintf("%s names no generic declaration; left unmangled", p)).Emit()
}

func (b *monoBuilder) fatal(code diag.Code, item string, sentinel error, msg string) error {
	diag.ReportError(b.r, code, diag.Item(item), msg).Emit()
	return fmt.Errorf("mono: %w: %s", sentinel, msg)
}
