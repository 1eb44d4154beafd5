package mesh

import "gonum.org/v1/gonum/spatial/r3"

// Node is a point in space owned by a Mesh. Incidence and adjacency are stored
// as indices into the owning mesh's element and node arenas.
type Node struct {
	id        int
	coords    r3.Vec
	elements  []int // incident elements in registration order
	connected []int // adjacent nodes sorted by ID, including the node itself
}

// NewNode creates an unattached node; its ID is assigned by the mesh
func NewNode(x, y, z float64) *Node {
	return &Node{id: -1, coords: r3.Vec{X: x, Y: y, Z: z}}
}

// NewNodeAt creates an unattached node at v
func NewNodeAt(v r3.Vec) *Node { return &Node{id: -1, coords: v} }

func (n *Node) ID() int { return n.id }
func (n *Node) Coords() r3.Vec { return n.coords }
func (n *Node) SetCoords(v r3.Vec) { n.coords = v }

// Elements returns the IDs of elements incident to the node
func (n *Node) Elements() []int { return n.elements }

// NumberOfElements returns the number of incident elements
func (n *Node) NumberOfElements() int { return len(n.elements) }

// ConnectedNodes returns the sorted IDs of nodes sharing an element with n. The
// slice is empty until node adjacency has been computed.
func (n *Node) ConnectedNodes() []int { return n.connected }

// clone copies coordinates and ID only; topology is rebuilt by the new owner
func (n *Node) clone() *Node { return &Node{id: n.id, coords: n.coords} }
