package dof

import (
	"fmt"

	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

// Table maps mesh entities to global unknown indices
type Table interface {
	// NumberOfElementDOF returns the number of local unknowns of an element
	NumberOfElementDOF(elementID int) int
	NumberOfDOF() int
}

// Ordering selects how global indices are laid out
type Ordering uint8

const (
	ByLocation  Ordering = iota // node major: all components of a node are contiguous
	ByComponent                 // component major: one block per component
)

// Component is one scalar field of the table
type Component struct {
	Name string
	// BaseNodesOnly restricts the component to the linear node set, as used by
	// pressure-like fields paired with quadratic displacement.
	BaseNodesOnly bool
}

// NodalTable assigns unknowns to mesh nodes, one per node and component
type NodalTable struct {
	mesh       *mesh.Mesh
	components []Component
	ordering   Ordering
	index      [][]int // per component, per node; -1 where the component is absent
	nDOF       int
}

// NewNodalTable numbers the unknowns of every component on m
func NewNodalTable(m *mesh.Mesh, ordering Ordering, components ...Component) (*NodalTable, error) {
	if len(components) == 0 {
		return nil, fmt.Errorf("dof table on mesh %q needs at least one component", m.Name())
	}
	t := &NodalTable{mesh: m, components: components, ordering: ordering}
	nNodes := m.NumberOfNodes()
	t.index = make([][]int, len(components))
	for c := range components {
		t.index[c] = make([]int, nNodes)
		for n := range t.index[c] {
			t.index[c][n] = -1
		}
	}

	next := 0
	assign := func(c, n int) {
		if components[c].BaseNodesOnly && !m.IsBaseNode(n) {
			return
		}
		t.index[c][n] = next
		next++
	}
	switch ordering {
	case ByLocation:
		for n := 0; n < nNodes; n++ {
			for c := range components {
				assign(c, n)
			}
		}
	case ByComponent:
		for c := range components {
			for n := 0; n < nNodes; n++ {
				assign(c, n)
			}
		}
	default:
		return nil, fmt.Errorf("unknown dof ordering %d", ordering)
	}
	t.nDOF = next
	return t, nil
}

func (t *NodalTable) NumberOfDOF() int { return t.nDOF }
func (t *NodalTable) NumberOfComponents() int { return len(t.components) }
func (t *NodalTable) Component(c int) Component { return t.components[c] }

// GlobalIndex returns the unknown of component c at node n, or -1
func (t *NodalTable) GlobalIndex(c, n int) int { return t.index[c][n] }

// NumberOfElementDOF counts the unknowns on the nodes of an element
func (t *NodalTable) NumberOfElementDOF(elementID int) int {
	e := t.mesh.Element(elementID)
	count := 0
	for c := range t.components {
		for _, n := range e.NodeIDs() {
			if t.index[c][n] >= 0 {
				count++
			}
		}
	}
	return count
}

// ElementIndices returns the unknowns of an element, component by component in
// local node order.
func (t *NodalTable) ElementIndices(elementID int) []int {
	e := t.mesh.Element(elementID)
	var out []int
	for c := range t.components {
		for _, n := range e.NodeIDs() {
			if g := t.index[c][n]; g >= 0 {
				out = append(out, g)
			}
		}
	}
	return out
}
