package main

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/assembly"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
	"github.com/TobiasMeisel/ogs-taurus/shape"
)

// massKernel holds the consistent mass matrix of one element for a scalar field
type massKernel struct {
	data assembly.ElementData
	mass *mat.Dense
}

// newMassKernel is an assembly.Constructor; m supplies the node coordinates
func newMassKernel(d assembly.ElementData, m *mesh.Mesh) (*massKernel, error) {
	n := d.Shape.NumNodes()
	coords := make([]r3.Vec, n)
	for i := range coords {
		coords[i] = m.ElementNode(d.Element, i).Coords()
	}
	k := &massKernel{data: d, mass: mat.NewDense(n, n, nil)}
	var nn mat.Dense
	for _, p := range d.Integration.Points {
		sm, err := shape.ComputeShapeMatrices(d.Shape, coords, p.Coords)
		if err != nil {
			return nil, err
		}
		v := mat.NewVecDense(n, sm.N)
		nn.Outer(p.Weight*sm.DetJ, v, v)
		k.mass.Add(k.mass, &nn)
	}
	return k, nil
}

// lumped returns the row sums of the mass matrix
func (k *massKernel) lumped() []float64 {
	n, _ := k.mass.Dims()
	out := make([]float64, n)
	for i := range out {
		out[i] = mat.Sum(k.mass.RowView(i))
	}
	return out
}
