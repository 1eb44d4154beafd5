package partitions

import (
	"fmt"

	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

// NodeLayout counts the four node blocks of a partition. Local node IDs are
// ordered [active base | active extra | ghost base | ghost extra], extra nodes
// being the mid-edge and mid-face nodes of quadratic elements.
type NodeLayout struct {
	ActiveBase  int
	ActiveExtra int
	GhostBase   int
	GhostExtra  int
}

func (l NodeLayout) Active() int { return l.ActiveBase + l.ActiveExtra }
func (l NodeLayout) Ghost() int { return l.GhostBase + l.GhostExtra }
func (l NodeLayout) Base() int { return l.ActiveBase + l.GhostBase }
func (l NodeLayout) Total() int { return l.Active() + l.Ghost() }

// IsBase reports whether local node id falls into one of the base blocks
func (l NodeLayout) IsBase(id int) bool {
	if id < l.ActiveBase {
		return true
	}
	a := l.Active()
	return id >= a && id < a+l.GhostBase
}

func (l NodeLayout) validate() error {
	if l.ActiveBase < 0 || l.ActiveExtra < 0 || l.GhostBase < 0 || l.GhostExtra < 0 {
		return fmt.Errorf("%w: negative node count in %+v", ErrInvalidLayout, l)
	}
	return nil
}

// PartitionedMeshSpec is the input of one partition's mesh
type PartitionedMeshSpec struct {
	Name          string
	Nodes         []*mesh.Node // in NodeLayout order
	GlobalNodeIDs []int        // global ID of every local node
	Elements      []*mesh.Element
	Properties    *mesh.Properties
	Layout        NodeLayout

	NumGlobalBaseNodes int
	NumGlobalNodes     int

	// Active node counts of every rank, indexed by rank
	ActiveBaseNodesAtRank      []int
	ActiveHighOrderNodesAtRank []int
}

// NodePartitionedMesh is the mesh of one partition of a domain decomposition by
// nodes. Ghost nodes are copies of nodes owned by other partitions.
type NodePartitionedMesh struct {
	*mesh.Mesh

	globalNodeIDs      []int
	layout             NodeLayout
	nGlobalBaseNodes   int
	nGlobalNodes       int
	activeBaseAtRank   []int
	activeHigherAtRank []int
	singleThread       bool
}

// NewNodePartitionedMesh builds the local mesh of one partition
func NewNodePartitionedMesh(f *mesh.Factory, s PartitionedMeshSpec) (*NodePartitionedMesh, error) {
	if err := s.Layout.validate(); err != nil {
		return nil, err
	}
	if s.Layout.Total() != len(s.Nodes) {
		return nil, fmt.Errorf("%w: layout %+v holds %d nodes, got %d",
			ErrInvalidLayout, s.Layout, s.Layout.Total(), len(s.Nodes))
	}
	if len(s.GlobalNodeIDs) != len(s.Nodes) {
		return nil, fmt.Errorf("%w: %d global node IDs for %d nodes", ErrInvalidLayout, len(s.GlobalNodeIDs), len(s.Nodes))
	}
	if len(s.ActiveBaseNodesAtRank) != len(s.ActiveHighOrderNodesAtRank) {
		return nil, fmt.Errorf("%w: active node counts for %d and %d ranks",
			ErrInvalidLayout, len(s.ActiveBaseNodesAtRank), len(s.ActiveHighOrderNodesAtRank))
	}
	if s.NumGlobalBaseNodes > s.NumGlobalNodes {
		return nil, fmt.Errorf("%w: %d global base nodes of %d", ErrInvalidLayout, s.NumGlobalBaseNodes, s.NumGlobalNodes)
	}
	for _, e := range s.Elements {
		for _, id := range e.BaseNodeIDs() {
			if id >= 0 && id < len(s.Nodes) && !s.Layout.IsBase(id) {
				return nil, fmt.Errorf("%w: element %s uses node %d as base node, which lies in an extra block",
					ErrInvalidLayout, e, id)
			}
		}
	}

	layout := s.Layout
	m, err := f.New(s.Name, s.Nodes, s.Elements, s.Properties, layout.Base(),
		mesh.WithBaseNodeClassifier(layout.IsBase))
	if err != nil {
		return nil, err
	}
	return &NodePartitionedMesh{
		Mesh:               m,
		globalNodeIDs:      s.GlobalNodeIDs,
		layout:             layout,
		nGlobalBaseNodes:   s.NumGlobalBaseNodes,
		nGlobalNodes:       s.NumGlobalNodes,
		activeBaseAtRank:   s.ActiveBaseNodesAtRank,
		activeHigherAtRank: s.ActiveHighOrderNodesAtRank,
	}, nil
}

// NewSingleThread wraps a serial mesh as the only partition: every node is an
// active node whose global ID is its local ID.
func NewSingleThread(m *mesh.Mesh) *NodePartitionedMesh {
	ids := make([]int, m.NumberOfNodes())
	for i := range ids {
		ids[i] = i
	}
	nBase := m.NumberOfBaseNodes()
	return &NodePartitionedMesh{
		Mesh:               m,
		globalNodeIDs:      ids,
		layout:             NodeLayout{ActiveBase: nBase, ActiveExtra: m.NumberOfNodes() - nBase},
		nGlobalBaseNodes:   nBase,
		nGlobalNodes:       m.NumberOfNodes(),
		activeBaseAtRank:   []int{nBase},
		activeHigherAtRank: []int{m.NumberOfNodes() - nBase},
		singleThread:       true,
	}
}

func (pm *NodePartitionedMesh) Layout() NodeLayout { return pm.layout }
func (pm *NodePartitionedMesh) GlobalNodeID(id int) int { return pm.globalNodeIDs[id] }
func (pm *NodePartitionedMesh) GlobalNodeIDs() []int { return pm.globalNodeIDs }
func (pm *NodePartitionedMesh) NumberOfGlobalBaseNodes() int { return pm.nGlobalBaseNodes }
func (pm *NodePartitionedMesh) NumberOfGlobalNodes() int { return pm.nGlobalNodes }
func (pm *NodePartitionedMesh) NumberOfActiveBaseNodes() int { return pm.layout.ActiveBase }
func (pm *NodePartitionedMesh) NumberOfActiveNodes() int { return pm.layout.Active() }
func (pm *NodePartitionedMesh) NumberOfGhostNodes() int { return pm.layout.Ghost() }
func (pm *NodePartitionedMesh) IsForSingleThread() bool { return pm.singleThread }
func (pm *NodePartitionedMesh) NumberOfPartitions() int { return len(pm.activeBaseAtRank) }

// IsGhostNode reports whether local node id is owned by another partition
func (pm *NodePartitionedMesh) IsGhostNode(id int) bool { return id >= pm.layout.Active() }

// LargestActiveNodeID returns the largest local ID of an active node, -1 when
// the partition owns no nodes.
func (pm *NodePartitionedMesh) LargestActiveNodeID() int { return pm.layout.Active() - 1 }

func (pm *NodePartitionedMesh) NumberOfActiveBaseNodesAtRank(rank int) int {
	return pm.activeBaseAtRank[rank]
}

func (pm *NodePartitionedMesh) NumberOfActiveHighOrderNodesAtRank(rank int) int {
	return pm.activeHigherAtRank[rank]
}

// ActiveNodeOffset returns the number of active nodes on all ranks before rank,
// the first global index of rank's unknowns in a rank-contiguous numbering.
func (pm *NodePartitionedMesh) ActiveNodeOffset(rank int) int {
	offset := 0
	for r := 0; r < rank; r++ {
		offset += pm.activeBaseAtRank[r] + pm.activeHigherAtRank[r]
	}
	return offset
}

// MaximumConnectedNodesToNode is the largest node adjacency among active nodes.
// Adjacency of ghost nodes is truncated at the partition border.
func (pm *NodePartitionedMesh) MaximumConnectedNodesToNode() int {
	n := 0
	for id := 0; id < pm.layout.Active(); id++ {
		n = max(n, len(pm.Node(id).ConnectedNodes()))
	}
	return n
}
