package deps

import (
	"fmt"

	"fortio.org/safecast"

	"bindgen/internal/ir"
)

type NodeID uint32

// Index numbers the discovered declarations. IDs follow discovery order, so
// a lower ID means the declaration was reached earlier from the roots.
type Index struct {
	Nodes    []*ir.Item
	NameToID map[string][]NodeID
}

func newIndex(capacity int) *Index {
	return &Index{
		Nodes:    make([]*ir.Item, 0, capacity),
		NameToID: make(map[string][]NodeID, capacity),
	}
}

func nodeID(i int) NodeID {
	id, err := safecast.Conv[NodeID](i)
	if err != nil {
		panic(fmt.Errorf("declaration id overflow: %w", err))
	}
	return id
}

func (idx *Index) add(it *ir.Item) NodeID {
	id := nodeID(len(idx.Nodes))
	idx.Nodes = append(idx.Nodes, it)
	idx.NameToID[it.Name] = append(idx.NameToID[it.Name], id)
	return id
}

func (idx *Index) Len() int {
	return len(idx.Nodes)
}

func (idx *Index) Item(id NodeID) *ir.Item {
	return idx.Nodes[int(id)]
}
