package mesh

import "fmt"

// ConvertToLinearMesh builds a mesh of the base nodes of src in which every
// element is replaced by its linear counterpart. Cell properties are copied,
// float64 node properties are copied for the kept nodes and other node properties
// are dropped.
func (f *Factory) ConvertToLinearMesh(src *Mesh, name string) (*Mesh, error) {
	newID := make([]int, len(src.nodes))
	for i := range newID {
		newID[i] = -1
	}
	for _, e := range src.elements {
		for _, n := range e.BaseNodeIDs() {
			newID[n] = 0
		}
	}
	var kept []int
	for old, id := range newID {
		if id == 0 {
			newID[old] = len(kept)
			kept = append(kept, old)
		}
	}
	nodes := make([]*Node, len(kept))
	for i, old := range kept {
		nodes[i] = src.nodes[old].clone()
	}

	elements := make([]*Element, len(src.elements))
	for i, e := range src.elements {
		base := e.BaseNodeIDs()
		ids := make([]int, len(base))
		for k, n := range base {
			ids[k] = newID[n]
		}
		le, err := NewElement(e.cellType.Linear(), ids)
		if err != nil {
			return nil, fmt.Errorf("convert element %d to linear: %w", e.id, err)
		}
		elements[i] = le
	}

	props := src.props.ExcludeCopyItemTypes(ItemNode)
	for _, pname := range src.props.Names() {
		pv, err := GetPropertyByName[float64](src.props, pname)
		if err != nil || pv.item != ItemNode {
			continue
		}
		props.vectors[pname] = pv.selectTuples(kept)
	}

	return f.New(name, nodes, elements, props, len(nodes))
}
