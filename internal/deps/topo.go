package deps

import "slices"

type Topo struct {
	Order  []NodeID
	Cyclic bool
	Cycles []NodeID // nodes left with unresolved predecessors
}

// ToposortStable is Kahn's algorithm that always takes the ready node with
// the lowest ID. With IDs in discovery order the result is the discovery
// order, changed only where a by-value dependency forces it.
func ToposortStable(g Graph) *Topo {
	n := len(g.Edges)
	indeg := make([]int, n)
	copy(indeg, g.Indeg)

	topo := &Topo{Order: make([]NodeID, 0, n)}

	ready := make([]NodeID, 0, n)
	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, nodeID(i))
		}
	}

	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		topo.Order = append(topo.Order, id)
		for _, to := range g.Edges[int(id)] {
			indeg[int(to)]--
			if indeg[int(to)] == 0 {
				pos, _ := slices.BinarySearch(ready, to)
				ready = slices.Insert(ready, pos, to)
			}
		}
	}

	if len(topo.Order) != n {
		topo.Cyclic = true
		for i := range n {
			if indeg[i] > 0 {
				topo.Cycles = append(topo.Cycles, nodeID(i))
			}
		}
	}
	return topo
}
