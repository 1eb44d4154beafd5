package partitions

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

// Decomposition is a global mesh split into node partitioned meshes
type Decomposition struct {
	Layout *PartitionLayout
	Meshes []*NodePartitionedMesh
	// NodeOwner is the partition owning each global node
	NodeOwner []int
}

// PartitionMesh splits global along the element partitions of layout. Each node
// is owned by the lowest numbered partition among its incident elements and is
// a ghost node in every other partition using it. Node and cell properties are
// sliced to the local entities.
func PartitionMesh(f *mesh.Factory, global *mesh.Mesh, layout *PartitionLayout) (*Decomposition, error) {
	if layout.TotalElements != global.NumberOfElements() {
		return nil, fmt.Errorf("%w: layout covers %d elements, mesh %q has %d",
			ErrInvalidLayout, layout.TotalElements, global.Name(), global.NumberOfElements())
	}
	if err := layout.ValidateLayout(); err != nil {
		return nil, err
	}

	owner := make([]int, global.NumberOfNodes())
	for i, n := range global.Nodes() {
		for k, e := range n.Elements() {
			if p := layout.EToP[e]; k == 0 || p < owner[i] {
				owner[i] = p
			}
		}
	}

	activeBase := make([]int, layout.NumPartitions)
	activeHigher := make([]int, layout.NumPartitions)
	for i, p := range owner {
		if global.Node(i).NumberOfElements() == 0 {
			continue
		}
		if global.IsBaseNode(i) {
			activeBase[p]++
		} else {
			activeHigher[p]++
		}
	}

	d := &Decomposition{Layout: layout, NodeOwner: owner, Meshes: make([]*NodePartitionedMesh, layout.NumPartitions)}
	for _, part := range layout.Partitions {
		pm, err := buildPartitionMesh(f, global, part, owner, activeBase, activeHigher)
		if err != nil {
			return nil, fmt.Errorf("partition %d: %w", part.ID, err)
		}
		d.Meshes[part.ID] = pm
	}
	f.Logger().Debug("mesh partitioned",
		zap.String("mesh", global.Name()),
		zap.Int("partitions", layout.NumPartitions),
		zap.Ints("active_base_nodes", activeBase),
		zap.Ints("active_high_order_nodes", activeHigher))
	return d, nil
}

func buildPartitionMesh(f *mesh.Factory, global *mesh.Mesh, part Partition, owner, activeBase, activeHigher []int) (*NodePartitionedMesh, error) {
	var blocks [4][]int // active base, active extra, ghost base, ghost extra
	used := make(map[int]bool)
	for _, eid := range part.Elements {
		for _, n := range global.Element(eid).NodeIDs() {
			if used[n] {
				continue
			}
			used[n] = true
			b := 0
			if !global.IsBaseNode(n) {
				b = 1
			}
			if owner[n] != part.ID {
				b += 2
			}
			blocks[b] = append(blocks[b], n)
		}
	}
	var globalIDs []int
	for b := range blocks {
		slices.Sort(blocks[b])
		globalIDs = append(globalIDs, blocks[b]...)
	}

	local := make(map[int]int, len(globalIDs))
	nodes := make([]*mesh.Node, len(globalIDs))
	for i, g := range globalIDs {
		local[g] = i
		nodes[i] = mesh.NewNodeAt(global.Node(g).Coords())
	}
	elements := make([]*mesh.Element, len(part.Elements))
	for i, eid := range part.Elements {
		ge := global.Element(eid)
		ids := make([]int, ge.NumberOfNodes())
		for k, n := range ge.NodeIDs() {
			ids[k] = local[n]
		}
		e, err := mesh.NewElement(ge.Type(), ids)
		if err != nil {
			return nil, err
		}
		elements[i] = e
	}

	return NewNodePartitionedMesh(f, PartitionedMeshSpec{
		Name:          fmt.Sprintf("%s_%d", global.Name(), part.ID),
		Nodes:         nodes,
		GlobalNodeIDs: globalIDs,
		Elements:      elements,
		Properties:    global.Properties().SelectEntities(globalIDs, part.Elements),
		Layout: NodeLayout{
			ActiveBase:  len(blocks[0]),
			ActiveExtra: len(blocks[1]),
			GhostBase:   len(blocks[2]),
			GhostExtra:  len(blocks[3]),
		},
		NumGlobalBaseNodes:         global.NumberOfBaseNodes(),
		NumGlobalNodes:             global.NumberOfNodes(),
		ActiveBaseNodesAtRank:      activeBase,
		ActiveHighOrderNodesAtRank: activeHigher,
	})
}
