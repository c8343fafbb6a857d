package deps

import (
	"context"
	"errors"
	"fmt"

	"bindgen/internal/diag"
	"bindgen/internal/ir"
	"bindgen/internal/registry"
	"bindgen/internal/trace"
)

var ErrValueCycle = errors.New("declarations contain each other by value")

// Roots seed the traversal. Functions are visited in slice order (arguments
// before the return type), then globals, then explicit includes.
type Roots struct {
	Functions []*ir.Function
	Globals   []*ir.Item
	Include   []string
}

// Bundle is the ordered result of one resolution.
type Bundle struct {
	Order    []*ir.Item
	included map[string]struct{}
}

// Contains reports whether a declaration named name was emitted.
func (b *Bundle) Contains(name string) bool {
	_, ok := b.included[name]
	return ok
}

func (b *Bundle) Names() []string {
	out := make([]string, len(b.Order))
	for i, it := range b.Order {
		out[i] = it.Name
	}
	return out
}

type resolver struct {
	types   *registry.ItemMap
	idx     *Index
	visited map[string]struct{}
}

// Resolve returns every type declaration reachable from roots, ordered so
// that anything contained by value precedes its container. Declarations that
// only meet through pointers keep their discovery order. Includes naming a
// declaration in one of others are accepted without effect.
func Resolve(ctx context.Context, roots Roots, types *registry.ItemMap, others []*registry.ItemMap, r diag.Reporter) (*Bundle, error) {
	res := &resolver{
		types:   types,
		idx:     newIndex(types.Len()),
		visited: make(map[string]struct{}, types.Len()),
	}

	_, span := trace.Start(ctx, trace.ScopePass, "deps_discover")
	for _, fn := range roots.Functions {
		fn.VisitEdges(res.follow)
	}
	for _, g := range roots.Globals {
		g.VisitEdges(res.follow)
	}
	for _, name := range roots.Include {
		if types.Contains(name) {
			res.visit(name)
			continue
		}
		if declaredIn(others, name) {
			continue
		}
		if r != nil {
			diag.ReportWarning(r, diag.DepUnknownInclude, diag.Item(name),
				fmt.Sprintf("explicitly included %q is not declared", name)).Emit()
		}
	}
	span.End(fmt.Sprintf("reachable=%d", res.idx.Len()))

	_, span = trace.Start(ctx, trace.ScopePass, "deps_order")
	defer span.End("")

	graph := BuildGraph(res.idx)
	topo := ToposortStable(graph)
	if topo.Cyclic {
		ReportCycles(res.idx, graph, topo, r)
		names := make([]string, len(topo.Cycles))
		for i, id := range topo.Cycles {
			names[i] = res.idx.Item(id).Name
		}
		return nil, fmt.Errorf("deps: %w: %v", ErrValueCycle, names)
	}

	b := &Bundle{
		Order:    make([]*ir.Item, 0, len(topo.Order)),
		included: make(map[string]struct{}, len(topo.Order)),
	}
	for _, id := range topo.Order {
		it := res.idx.Item(id)
		b.Order = append(b.Order, it)
		b.included[it.Name] = struct{}{}
	}
	return b, nil
}

func (res *resolver) follow(name string, _ bool) {
	res.visit(name)
}

// visit indexes name after everything it mentions, pointer or not, so that
// discovery IDs are a post-order of the reference graph.
func (res *resolver) visit(name string) {
	if _, seen := res.visited[name]; seen {
		return
	}
	items := res.types.Get(name)
	if len(items) == 0 {
		return
	}
	res.visited[name] = struct{}{}
	for _, it := range items {
		it.VisitEdges(res.follow)
	}
	for _, it := range items {
		res.idx.add(it)
	}
}

func declaredIn(maps []*registry.ItemMap, name string) bool {
	for _, m := range maps {
		if m.Contains(name) {
			return true
		}
	}
	return false
}
