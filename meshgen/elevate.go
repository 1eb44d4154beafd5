package meshgen

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

var quadraticOf = map[element.CellType]element.CellType{
	element.Line:    element.Line3,
	element.Tri:     element.Tri6,
	element.Quad:    element.Quad8,
	element.Tet:     element.Tet10,
	element.Hex:     element.Hex20,
	element.Prism:   element.Prism15,
	element.Pyramid: element.Pyramid13,
}

// Elevate converts a linear mesh into its quadratic counterpart. Mid-edge nodes
// are shared between elements and numbered after all nodes of src, so the nodes
// of src stay the base nodes. With biquadratic set, quadrilaterals become Quad9
// with one extra centre node each. Cell properties are carried over.
func Elevate(f *mesh.Factory, src *mesh.Mesh, name string, biquadratic bool) (*mesh.Mesh, error) {
	if src.HasNonlinearElement() {
		return nil, fmt.Errorf("elevate %q: mesh already has quadratic elements", src.Name())
	}
	nodes := make([]*mesh.Node, src.NumberOfNodes(), src.NumberOfNodes()*2)
	for i, n := range src.Nodes() {
		nodes[i] = mesh.NewNodeAt(n.Coords())
	}

	mid := make(map[[2]int]int)
	midNode := func(a, b int) int {
		key := [2]int{min(a, b), max(a, b)}
		if id, ok := mid[key]; ok {
			return id
		}
		id := len(nodes)
		nodes = append(nodes, mesh.NewNodeAt(r3.Scale(0.5, r3.Add(nodes[a].Coords(), nodes[b].Coords()))))
		mid[key] = id
		return id
	}

	elements := make([]*mesh.Element, 0, src.NumberOfElements())
	for _, e := range src.Elements() {
		ct, ok := quadraticOf[e.Type()]
		if !ok {
			// points have no quadratic form
			el, err := mesh.NewElement(e.Type(), append([]int(nil), e.NodeIDs()...))
			if err != nil {
				return nil, err
			}
			elements = append(elements, el)
			continue
		}
		if ct == element.Quad8 && biquadratic {
			ct = element.Quad9
		}
		ids := make([]int, 0, ct.NumNodes())
		ids = append(ids, e.NodeIDs()...)
		for _, edge := range ct.Edges() {
			ids = append(ids, midNode(ids[edge[0]], ids[edge[1]]))
		}
		if ct == element.Quad9 {
			var c r3.Vec
			for _, id := range e.NodeIDs() {
				c = r3.Add(c, nodes[id].Coords())
			}
			ids = append(ids, len(nodes))
			nodes = append(nodes, mesh.NewNodeAt(r3.Scale(0.25, c)))
		}
		el, err := mesh.NewElement(ct, ids)
		if err != nil {
			return nil, err
		}
		elements = append(elements, el)
	}

	props := src.Properties().ExcludeCopyItemTypes(mesh.ItemNode)
	return f.New(name, nodes, elements, props, src.NumberOfNodes())
}
