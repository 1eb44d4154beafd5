package mesh

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// MaterialIDsName is the cell property holding per element material groups
const MaterialIDsName = "MaterialIDs"

// MaterialIDs returns the single component int cell property "MaterialIDs", or nil
// when the mesh does not carry one.
func MaterialIDs(m *Mesh) *PropertyVector[int] {
	pv, err := GetProperty[int](m.props, MaterialIDsName, ItemCell, 1)
	if err != nil {
		return nil
	}
	return pv
}

// ScalePropertyVector multiplies every component of a float64 property in place.
// A missing property is logged and ignored.
func ScalePropertyVector(m *Mesh, name string, factor float64) {
	pv, err := GetPropertyByName[float64](m.props, name)
	if err != nil {
		m.log.Warn("did not find property vector for scaling",
			zap.String("mesh", m.name), zap.String("property", name), zap.Error(err))
		return
	}
	floats.Scale(factor, pv.data)
}

// AddPropertyToMesh attaches values to m after checking the tuple count against
// the number of nodes or cells.
func AddPropertyToMesh[T any](m *Mesh, name string, item MeshItemType, components int, values []T) (*PropertyVector[T], error) {
	if want, ok := m.entityCount(item); ok && len(values) != want*components {
		return nil, fmt.Errorf("property %q: %w: %d values, want %d %s tuples of %d",
			name, ErrPropertySize, len(values), want, item, components)
	}
	return AddProperty(m.props, name, item, components, values)
}

func (m *Mesh) entityCount(item MeshItemType) (int, bool) {
	switch item {
	case ItemNode:
		return len(m.nodes), true
	case ItemCell:
		return len(m.elements), true
	}
	return 0, false
}

// CreateMeshFromElementSelection builds an independent mesh from the selected
// elements of src and the nodes they use. Nodes are cloned in first use order.
// The cell property "bulk_element_ids" and the node property "bulk_node_ids" map
// every new entity back to its ID in src.
func (f *Factory) CreateMeshFromElementSelection(name string, src *Mesh, elementIDs []int) (*Mesh, error) {
	f.log.Debug("found elements in the selection", zap.String("mesh", name), zap.Int("elements", len(elementIDs)))

	bulkElementIDs := make([]int, 0, len(elementIDs))
	var bulkNodeIDs []int
	newID := make(map[int]int, len(elementIDs))
	var nodes []*Node
	elements := make([]*Element, 0, len(elementIDs))

	for _, eid := range elementIDs {
		if eid < 0 || eid >= src.NumberOfElements() {
			return nil, fmt.Errorf("element selection: element %d outside [0,%d)", eid, src.NumberOfElements())
		}
		se := src.elements[eid]
		e := se.clone()
		for i, n := range se.nodes {
			id, ok := newID[n]
			if !ok {
				id = len(nodes)
				newID[n] = id
				nodes = append(nodes, src.nodes[n].clone())
				bulkNodeIDs = append(bulkNodeIDs, n)
			}
			e.nodes[i] = id
		}
		elements = append(elements, e)
		bulkElementIDs = append(bulkElementIDs, eid)
	}

	m, err := f.New(name, nodes, elements, nil, 0)
	if err != nil {
		return nil, err
	}
	if _, err := AddPropertyToMesh(m, "bulk_element_ids", ItemCell, 1, bulkElementIDs); err != nil {
		return nil, err
	}
	if _, err := AddPropertyToMesh(m, "bulk_node_ids", ItemNode, 1, bulkNodeIDs); err != nil {
		return nil, err
	}
	return m, nil
}
