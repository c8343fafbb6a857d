package library

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"bindgen/internal/bindings"
	"bindgen/internal/config"
	"bindgen/internal/deps"
	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/mono"
	"bindgen/internal/observ"
	"bindgen/internal/registry"
	"bindgen/internal/rename"
	"bindgen/internal/trace"
)

// Library owns one declaration set for the duration of a single run. Generate
// consumes it; a Library is not reusable.
type Library struct {
	cfg   *config.Config
	set   *registry.DeclSet
	r     diag.Reporter
	timer *observ.Timer

	monomorphs []mono.Entry
}

// New takes ownership of set. r receives every recoverable finding; timer
// may be nil.
func New(cfg *config.Config, set *registry.DeclSet, r diag.Reporter, timer *observ.Timer) *Library {
	if cfg == nil {
		cfg = config.Default()
	}
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Library{cfg: cfg, set: set, r: r, timer: timer}
}

// Generate runs the pipeline and returns the bundle for the emitter. An error
// means the run is structurally broken and nothing should be written.
func (l *Library) Generate(ctx context.Context) (*bindings.Bindings, error) {
	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"exclude", l.removeExcluded},
		{"sort_functions", l.sortFunctions},
		{"rename", l.rename},
		{"simplify_option", l.simplifyOptionToPtr},
		{"monomorphize", l.monomorphize},
	}
	for _, step := range steps {
		if err := l.phase(ctx, step.name, step.run); err != nil {
			return nil, err
		}
	}

	var bundle *deps.Bundle
	err := l.phase(ctx, "resolve", func(ctx context.Context) error {
		var err error
		bundle, err = l.resolve(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var out *bindings.Bindings
	_ = l.phase(ctx, "assemble", func(context.Context) error {
		out = l.assemble(bundle)
		return nil
	})
	return out, nil
}

func (l *Library) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := trace.Start(ctx, trace.ScopePass, name)
	err := l.timer.Measure(name, func() error { return fn(ctx) })
	if err != nil {
		span.WithExtra("error", err.Error())
	}
	span.End("")
	return err
}

func (l *Library) removeExcluded(context.Context) error {
	exclude := l.cfg.Export.Exclude
	if len(exclude) == 0 {
		return nil
	}
	drop := func(it *ir.Item) bool { return slices.Contains(exclude, it.Name) }
	for _, m := range l.set.Maps() {
		m.Filter(drop)
	}
	l.set.Functions = slices.DeleteFunc(l.set.Functions, func(fn *ir.Function) bool {
		return slices.Contains(exclude, fn.Name)
	})
	return nil
}

func (l *Library) sortFunctions(context.Context) error {
	slices.SortStableFunc(l.set.Functions, func(a, b *ir.Function) int {
		return strings.Compare(a.Name, b.Name)
	})
	return nil
}

func (l *Library) rename(context.Context) error {
	rename.Apply(l.set, l.cfg.RenameOptions(), l.r)
	return nil
}

func (l *Library) simplifyOptionToPtr(context.Context) error {
	simplify := func(t *ir.Type) { t.SimplifyOptionToPtr() }
	for _, m := range l.set.Maps() {
		m.ForEach(func(it *ir.Item) { it.ForEachType(simplify) })
	}
	for _, fn := range l.set.Functions {
		fn.ForEachType(simplify)
	}
	return nil
}

func (l *Library) monomorphize(ctx context.Context) error {
	if l.cfg.Language.HasGenerics() {
		return nil
	}
	table, err := mono.Monomorphize(ctx, l.set, l.cfg.MonoOptions(), l.r)
	if err != nil {
		return err
	}
	l.monomorphs = table.Entries()
	return nil
}

func (l *Library) resolve(ctx context.Context) (*deps.Bundle, error) {
	roots := deps.Roots{
		Functions: l.set.Functions,
		Globals:   l.set.Globals.Items(),
		Include:   l.cfg.Export.Include,
	}
	others := []*registry.ItemMap{l.set.Constants, l.set.Globals}
	bundle, err := deps.Resolve(ctx, roots, l.set.Types, others, l.r)
	if err != nil {
		return nil, fmt.Errorf("resolve dependencies: %w", err)
	}
	return bundle, nil
}

func (l *Library) assemble(bundle *deps.Bundle) *bindings.Bindings {
	constants := l.set.Constants.Items()
	globals := l.set.Globals.Items()
	l.checkCfgs(constants, globals, bundle.Order)

	b := bindings.New(l.cfg, constants, globals, bundle.Order, l.set.Functions)
	b.Monomorphs = l.monomorphs
	return b
}

// checkCfgs warns about every emitted declaration whose cfg cannot be spelled
// with the configured defines. Such declarations are written unguarded.
func (l *Library) checkCfgs(groups ...[]*ir.Item) {
	check := func(name string, cfg *ir.Cfg) {
		if cfg == nil {
			return
		}
		if _, err := cfg.Condition(l.cfg.Defines); err != nil {
			diag.ReportWarning(l.r, diag.CfgUnmappedCfg, diag.Item(name),
				fmt.Sprintf("cfg %s cannot be expressed (%v); emitting without a guard", cfg, err)).Emit()
		}
	}
	for _, items := range groups {
		for _, it := range items {
			check(it.Name, it.Cfg())
		}
	}
	for _, fn := range l.set.Functions {
		check(fn.Name, fn.Cfg())
	}
}
