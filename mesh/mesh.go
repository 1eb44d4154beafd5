package mesh

import (
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// Mesh owns a node arena and an element arena together with the topology derived
// from them. Node and element IDs equal their positions in the arenas.
type Mesh struct {
	id         uint64
	name       string
	dim        element.Dimensionality
	nodes      []*Node
	elements   []*Element
	nBaseNodes int
	isBase     func(id int) bool
	props      *Properties

	minEdgeLength float64
	maxEdgeLength float64

	log     *zap.Logger
	workers int
}

// New takes ownership of nodes and elements and derives the mesh topology. When
// nBaseNodes is zero it is inferred as one past the largest base node ID used by
// any element. Elements must reference nodes by their position in nodes.
func (f *Factory) New(name string, nodes []*Node, elements []*Element, props *Properties,
	nBaseNodes int, opts ...Option) (*Mesh, error) {
	var bo buildOptions
	for _, o := range opts {
		o(&bo)
	}
	if props == nil {
		props = NewProperties()
	}
	if nBaseNodes < 0 || nBaseNodes > len(nodes) {
		return nil, fmt.Errorf("mesh %q: %d base nodes out of range [0,%d]", name, nBaseNodes, len(nodes))
	}
	m := &Mesh{
		id:         f.ids.NextID(),
		name:       name,
		nodes:      nodes,
		elements:   elements,
		nBaseNodes: nBaseNodes,
		isBase:     bo.isBase,
		props:      props,
		log:        f.log,
		workers:    f.workers,
	}
	m.resetNodeIDs()
	m.resetElementIDs()
	if err := m.checkNodeReferences(); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}
	if err := props.checkSizes(len(nodes), len(elements)); err != nil {
		return nil, fmt.Errorf("mesh %q: %w", name, err)
	}

	start := time.Now()
	if m.nBaseNodes == 0 {
		m.recalculateMaxBaseNodeID()
	}
	if (nBaseNodes == 0 && m.HasNonlinearElement()) || m.IsNonlinear() {
		m.checkNonlinearNodeIDs()
	}
	m.setDimension()
	m.setElementsConnectedToNodes()
	m.setNodesConnectedByElements()
	m.setElementNeighbors()
	m.calcEdgeLengthRange()

	m.log.Debug("mesh constructed",
		zap.String("mesh", name),
		zap.Uint64("id", m.id),
		zap.Int("nodes", len(nodes)),
		zap.Int("elements", len(elements)),
		zap.Int("base_nodes", m.nBaseNodes),
		zap.Duration("topology", time.Since(start)))
	return m, nil
}

// Copy deep-clones nodes, elements and properties of src and rebuilds node
// incidence and element neighbors. Node adjacency is not rebuilt; call
// ComputeNodeAdjacency on the copy when it is needed.
func (f *Factory) Copy(src *Mesh) *Mesh {
	m := &Mesh{
		id:            f.ids.NextID(),
		name:          src.name,
		dim:           src.dim,
		nodes:         make([]*Node, len(src.nodes)),
		elements:      make([]*Element, len(src.elements)),
		nBaseNodes:    src.nBaseNodes,
		isBase:        src.isBase,
		props:         src.props.Clone(),
		minEdgeLength: src.minEdgeLength,
		maxEdgeLength: src.maxEdgeLength,
		log:           f.log,
		workers:       f.workers,
	}
	for i, n := range src.nodes {
		m.nodes[i] = n.clone()
	}
	for i, e := range src.elements {
		m.elements[i] = e.clone()
	}
	if m.dim == 0 {
		m.setDimension()
	}
	m.setElementsConnectedToNodes()
	m.setElementNeighbors()
	return m
}

// ID is unique among the meshes built by one factory
func (m *Mesh) ID() uint64 { return m.id }
func (m *Mesh) Name() string { return m.name }

// SetName renames the mesh
func (m *Mesh) SetName(name string) { m.name = name }
func (m *Mesh) Dimension() element.Dimensionality { return m.dim }
func (m *Mesh) Nodes() []*Node { return m.nodes }
func (m *Mesh) Elements() []*Element { return m.elements }
func (m *Mesh) Node(id int) *Node { return m.nodes[id] }
func (m *Mesh) Element(id int) *Element { return m.elements[id] }
func (m *Mesh) NumberOfNodes() int { return len(m.nodes) }
func (m *Mesh) NumberOfElements() int { return len(m.elements) }
func (m *Mesh) NumberOfBaseNodes() int { return m.nBaseNodes }
// Properties returns the property vectors attached to the mesh elements and nodes
func (m *Mesh) Properties() *Properties { return m.props }

// MinEdgeLength and MaxEdgeLength bound the element edge lengths at construction
func (m *Mesh) MinEdgeLength() float64 { return m.minEdgeLength }
func (m *Mesh) MaxEdgeLength() float64 { return m.maxEdgeLength }

// Logger returns the logger of the factory that built the mesh
func (m *Mesh) Logger() *zap.Logger { return m.log }

// IsBaseNode reports whether node id belongs to the linear node set
func (m *Mesh) IsBaseNode(id int) bool {
	if m.isBase != nil {
		return m.isBase(id)
	}
	return id < m.nBaseNodes
}

// IsNonlinear reports whether the mesh carries nodes beyond the base nodes
func (m *Mesh) IsNonlinear() bool { return m.nBaseNodes != len(m.nodes) }

// HasNonlinearElement reports whether some element has more nodes than base nodes
func (m *Mesh) HasNonlinearElement() bool {
	return slices.ContainsFunc(m.elements, func(e *Element) bool {
		return e.NumberOfNodes() != e.NumberOfBaseNodes()
	})
}

// NodeIndex returns the mesh node ID of local node i of element e
func (m *Mesh) NodeIndex(e *Element, i int) int { return e.nodes[i] }

// ElementNode returns local node i of element e
func (m *Mesh) ElementNode(e *Element, i int) *Node { return m.nodes[e.nodes[i]] }

// AddElement appends e and registers it with its nodes. Neighbors, node adjacency
// and the edge length range are left untouched.
func (m *Mesh) AddElement(e *Element) error {
	for _, n := range e.nodes {
		if n < 0 || n >= len(m.nodes) {
			return fmt.Errorf("mesh %q: element references node %d outside [0,%d)", m.name, n, len(m.nodes))
		}
	}
	e.id = len(m.elements)
	m.elements = append(m.elements, e)
	for _, n := range e.nodes {
		m.nodes[n].elements = append(m.nodes[n].elements, e.id)
	}
	if e.Dimension() > m.dim {
		m.dim = e.Dimension()
	}
	return nil
}

// ComputeNodeAdjacency rebuilds the connected node lists of every node
func (m *Mesh) ComputeNodeAdjacency() { m.setNodesConnectedByElements() }

// ComputeElementNeighbors rebuilds every neighbor slot from the incidence lists
func (m *Mesh) ComputeElementNeighbors() {
	for _, e := range m.elements {
		e.resetNeighbors()
	}
	m.setElementNeighbors()
}

// MaximumConnectedNodes returns the largest connected node count over all nodes
func (m *Mesh) MaximumConnectedNodes() int {
	maxN := 0
	for _, n := range m.nodes {
		maxN = max(maxN, len(n.connected))
	}
	return maxN
}

func (m *Mesh) resetNodeIDs() {
	for i, n := range m.nodes {
		n.id = i
	}
}

func (m *Mesh) resetElementIDs() {
	for i, e := range m.elements {
		e.id = i
	}
}

func (m *Mesh) checkNodeReferences() error {
	for _, e := range m.elements {
		for _, n := range e.nodes {
			if n < 0 || n >= len(m.nodes) {
				return fmt.Errorf("element %d references node %d outside [0,%d)", e.id, n, len(m.nodes))
			}
		}
	}
	return nil
}

func (m *Mesh) recalculateMaxBaseNodeID() {
	if len(m.elements) == 0 {
		return
	}
	maxID := 0
	for _, e := range m.elements {
		for _, n := range e.BaseNodeIDs() {
			maxID = max(maxID, n)
		}
	}
	m.nBaseNodes = maxID + 1
}

// checkNonlinearNodeIDs warns once about a higher order node that is classified
// as a base node. Construction continues; only algorithms relying on the base
// node ordering are affected.
func (m *Mesh) checkNonlinearNodeIDs() {
	for _, e := range m.elements {
		for i := e.NumberOfBaseNodes(); i < e.NumberOfNodes(); i++ {
			id := e.nodes[i]
			if !m.IsBaseNode(id) {
				continue
			}
			m.log.Warn("found a nonlinear node whose ID is smaller than the number of base node IDs; some functions may not work properly",
				zap.String("mesh", m.name),
				zap.Int("node", id),
				zap.Int("base_nodes", m.nBaseNodes))
			return
		}
	}
}

func (m *Mesh) setDimension() {
	for _, e := range m.elements {
		if e.Dimension() > m.dim {
			m.dim = e.Dimension()
		}
	}
}

// setElementsConnectedToNodes is the sequential barrier before the parallel
// adjacency phases: several elements append to the same node.
func (m *Mesh) setElementsConnectedToNodes() {
	for _, n := range m.nodes {
		n.elements = n.elements[:0]
	}
	for _, e := range m.elements {
		for _, n := range e.nodes {
			m.nodes[n].elements = append(m.nodes[n].elements, e.id)
		}
	}
}

// setNodesConnectedByElements writes only the connected list of the node it
// visits and reads incidence lists, so nodes are processed concurrently.
func (m *Mesh) setNodesConnectedByElements() {
	m.parallelFor(len(m.nodes), func(i int) {
		node := m.nodes[i]
		var adjacent []int
		for _, eid := range node.elements {
			adjacent = append(adjacent, m.elements[eid].nodes...)
		}
		slices.Sort(adjacent)
		node.connected = slices.Compact(adjacent)
	})
}

// setElementNeighbors fills, for every element, the slots of faces shared in full
// with another element of the same dimension. Each element writes only its own
// slots. Neighbors are symmetric only on manifold meshes: a face shared by more
// than two elements takes the lowest-ID matching element on each side.
func (m *Mesh) setElementNeighbors() {
	m.parallelFor(len(m.elements), func(i int) {
		e := m.elements[i]
		if e.NumberOfFaces() == 0 {
			return
		}
		var candidates []int
		for _, n := range e.BaseNodeIDs() {
			candidates = append(candidates, m.nodes[n].elements...)
		}
		slices.Sort(candidates)
		candidates = slices.Compact(candidates)

		for f := range e.neighbors {
			face := e.FaceNodeIDs(f)
			for _, cid := range candidates {
				c := m.elements[cid]
				if cid == e.id || c.Dimension() != e.Dimension() {
					continue
				}
				if c.faceIndex(face) >= 0 {
					e.neighbors[f] = cid
					break
				}
			}
		}
	})
}

// faceIndex returns the face of e spanned by exactly the given node set, or -1
func (e *Element) faceIndex(nodes []int) int {
	for f, local := range e.cellType.Faces() {
		if len(local) != len(nodes) {
			continue
		}
		match := true
		for _, l := range local {
			if !slices.Contains(nodes, e.nodes[l]) {
				match = false
				break
			}
		}
		if match {
			return f
		}
	}
	return -1
}

// calcEdgeLengthRange accumulates squared edge lengths and takes the square root
// once at the end.
func (m *Mesh) calcEdgeLengthRange() {
	minSqr, maxSqr := math.MaxFloat64, 0.
	for _, e := range m.elements {
		lo, hi, ok := m.SqrEdgeLengthRange(e)
		if !ok {
			continue
		}
		minSqr = min(minSqr, lo)
		maxSqr = max(maxSqr, hi)
	}
	if minSqr == math.MaxFloat64 {
		m.minEdgeLength, m.maxEdgeLength = 0, 0
		return
	}
	m.minEdgeLength = math.Sqrt(minSqr)
	m.maxEdgeLength = math.Sqrt(maxSqr)
}

func (m *Mesh) parallelFor(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := max(m.workers, 1)
	chunk := max((n+workers-1)/workers, 1)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (m *Mesh) String() string {
	return fmt.Sprintf("Mesh %q (id %d): %dD, %d nodes (%d base), %d elements",
		m.name, m.id, m.dim, len(m.nodes), m.nBaseNodes, len(m.elements))
}
