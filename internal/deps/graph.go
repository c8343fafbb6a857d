package deps

import (
	"fmt"
	"slices"
	"strings"

	"bindgen/internal/diag"
)

// Graph holds "must precede" edges between discovered declarations: an edge
// from Y to X means X contains Y by value.
type Graph struct {
	Edges [][]NodeID // Edges[from] = []to
	Indeg []int
}

// BuildGraph collects the by-value edges between indexed declarations.
// Pointer edges impose no order and are left out.
func BuildGraph(idx *Index) Graph {
	n := idx.Len()
	g := Graph{
		Edges: make([][]NodeID, n),
		Indeg: make([]int, n),
	}
	for i, it := range idx.Nodes {
		to := nodeID(i)
		seen := make(map[NodeID]struct{})
		it.VisitEdges(func(name string, byValue bool) {
			if !byValue {
				return
			}
			for _, from := range idx.NameToID[name] {
				if _, dup := seen[from]; dup {
					continue
				}
				seen[from] = struct{}{}
				g.Edges[int(from)] = append(g.Edges[int(from)], to)
				g.Indeg[i]++
			}
		})
	}
	for from := range g.Edges {
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}
	return g
}

// ReportCycles emits one error per declaration stuck behind a by-value
// cycle. Members of a cycle are told apart from declarations that only
// contain a cycle member.
func ReportCycles(idx *Index, g Graph, topo *Topo, r diag.Reporter) {
	if !topo.Cyclic || len(topo.Cycles) == 0 || r == nil {
		return
	}
	members := cycleMembers(g, topo.Cycles)
	names := make([]string, 0, len(members))
	for _, id := range members {
		names = append(names, idx.Item(id).Name)
	}
	summary := strings.Join(names, ", ")

	for _, id := range topo.Cycles {
		it := idx.Item(id)
		msg := fmt.Sprintf("%s %q contains itself by value through: %s", it.Kind, it.Name, summary)
		if !slices.Contains(members, id) {
			msg = fmt.Sprintf("%s %q contains a by-value cycle through: %s", it.Kind, it.Name, summary)
		}
		diag.ReportError(r, diag.DepValueCycle, diag.Item(it.Name), msg).Emit()
	}
}

// cycleMembers returns the stuck nodes that reach themselves along edges
// between stuck nodes, in ID order.
func cycleMembers(g Graph, stuck []NodeID) []NodeID {
	inStuck := make(map[NodeID]bool, len(stuck))
	for _, id := range stuck {
		inStuck[id] = true
	}
	var members []NodeID
	for _, start := range stuck {
		seen := make(map[NodeID]bool, len(stuck))
		queue := []NodeID{start}
		for len(queue) > 0 && !seen[start] {
			id := queue[0]
			queue = queue[1:]
			for _, to := range g.Edges[int(id)] {
				if !inStuck[to] || seen[to] {
					continue
				}
				seen[to] = true
				queue = append(queue, to)
			}
		}
		if seen[start] {
			members = append(members, start)
		}
	}
	return members
}
