package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// SqrEdgeLengthRange returns the smallest and largest squared edge length of e.
// ok is false for elements without edges.
func (m *Mesh) SqrEdgeLengthRange(e *Element) (lo, hi float64, ok bool) {
	edges := e.cellType.Edges()
	if len(edges) == 0 {
		return 0, 0, false
	}
	lo = math.MaxFloat64
	for _, ed := range edges {
		d := r3.Sub(m.ElementNode(e, ed[1]).coords, m.ElementNode(e, ed[0]).coords)
		l := r3.Dot(d, d)
		lo = min(lo, l)
		hi = max(hi, l)
	}
	return lo, hi, true
}

// ElementCentroid returns the mean of the base node coordinates
func (m *Mesh) ElementCentroid(e *Element) r3.Vec {
	var c r3.Vec
	base := e.BaseNodeIDs()
	for _, n := range base {
		c = r3.Add(c, m.nodes[n].coords)
	}
	return r3.Scale(1/float64(len(base)), c)
}

// ElementContent returns length, area or volume of e computed from its base nodes.
// Quadrilateral faces are split into two triangles.
func (m *Mesh) ElementContent(e *Element) float64 {
	p := func(i int) r3.Vec { return m.ElementNode(e, i).coords }
	switch e.Dimension() {
	case element.D1:
		return r3.Norm(r3.Sub(p(1), p(0)))
	case element.D2:
		area := triangleArea(p(0), p(1), p(2))
		if e.NumberOfBaseNodes() == 4 {
			area += triangleArea(p(0), p(2), p(3))
		}
		return area
	case element.D3:
		c := m.ElementCentroid(e)
		var vol float64
		for f := range e.cellType.Faces() {
			face := e.FaceNodeIDs(f)
			a := m.nodes[face[0]].coords
			for k := 1; k+1 < len(face); k++ {
				b, d := m.nodes[face[k]].coords, m.nodes[face[k+1]].coords
				vol += r3.Dot(r3.Sub(a, c), r3.Cross(r3.Sub(b, c), r3.Sub(d, c))) / 6
			}
		}
		return math.Abs(vol)
	}
	return 0
}

func triangleArea(a, b, c r3.Vec) float64 {
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) / 2
}
