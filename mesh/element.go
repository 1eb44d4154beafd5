package mesh

import (
	"fmt"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// NoNeighbor marks a boundary face
const NoNeighbor = -1

// Element is a cell of a Mesh. Node and neighbor references are IDs into the
// owning mesh.
type Element struct {
	id        int
	cellType  element.CellType
	nodes     []int
	neighbors []int
}

// NewElement creates an element of type t over the given node IDs. The number of
// node IDs must match the cell type.
func NewElement(t element.CellType, nodeIDs []int) (*Element, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid cell type %d", uint8(t))
	}
	if len(nodeIDs) != t.NumNodes() {
		return nil, fmt.Errorf("%s requires %d nodes, got %d", t, t.NumNodes(), len(nodeIDs))
	}
	e := &Element{
		id:        -1,
		cellType:  t,
		nodes:     append([]int(nil), nodeIDs...),
		neighbors: make([]int, t.NumFaces()),
	}
	e.resetNeighbors()
	return e, nil
}

// MustElement is NewElement for static input that is known to be valid
func MustElement(t element.CellType, nodeIDs ...int) *Element {
	e, err := NewElement(t, nodeIDs)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Element) ID() int { return e.id }
func (e *Element) Type() element.CellType { return e.cellType }
func (e *Element) Dimension() element.Dimensionality { return e.cellType.Dimension() }
func (e *Element) NumberOfNodes() int { return len(e.nodes) }
func (e *Element) NumberOfBaseNodes() int { return e.cellType.NumBaseNodes() }
func (e *Element) NumberOfFaces() int { return len(e.neighbors) }

// NodeIndex returns the mesh node ID of local node i
func (e *Element) NodeIndex(i int) int { return e.nodes[i] }

// NodeIDs returns the mesh node IDs in local order. The slice must not be modified.
func (e *Element) NodeIDs() []int { return e.nodes }

// BaseNodeIDs returns the IDs of the corner nodes
func (e *Element) BaseNodeIDs() []int { return e.nodes[:e.cellType.NumBaseNodes()] }

// Neighbor returns the element across face i or NoNeighbor
func (e *Element) Neighbor(i int) int { return e.neighbors[i] }

// Neighbors returns the neighbor slots. The slice must not be modified.
func (e *Element) Neighbors() []int { return e.neighbors }

// NumberOfNeighbors counts the occupied neighbor slots
func (e *Element) NumberOfNeighbors() int {
	n := 0
	for _, nb := range e.neighbors {
		if nb != NoNeighbor {
			n++
		}
	}
	return n
}

// IsBoundaryElement reports whether some face has no neighbor
func (e *Element) IsBoundaryElement() bool {
	for _, nb := range e.neighbors {
		if nb == NoNeighbor {
			return true
		}
	}
	return false
}

// FaceNodeIDs returns the mesh node IDs of the base nodes spanning face i
func (e *Element) FaceNodeIDs(i int) []int {
	local := e.cellType.Faces()[i]
	ids := make([]int, len(local))
	for k, l := range local {
		ids[k] = e.nodes[l]
	}
	return ids
}

// HasNode reports whether node id is one of the element's nodes
func (e *Element) HasNode(id int) bool {
	for _, n := range e.nodes {
		if n == id {
			return true
		}
	}
	return false
}

func (e *Element) resetNeighbors() {
	for i := range e.neighbors {
		e.neighbors[i] = NoNeighbor
	}
}

// clone copies the type, ID and node IDs with empty neighbor slots
func (e *Element) clone() *Element {
	c := &Element{
		id:        e.id,
		cellType:  e.cellType,
		nodes:     append([]int(nil), e.nodes...),
		neighbors: make([]int, len(e.neighbors)),
	}
	c.resetNeighbors()
	return c
}

func (e *Element) String() string {
	return fmt.Sprintf("%s#%d%v", e.cellType, e.id, e.nodes)
}
