package shape

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Matrices holds the shape function values and derivatives at one point
type Matrices struct {
	N    []float64
	DNDr *mat.Dense // Dim x NumNodes
	J    *mat.Dense // Dim x 3, J[d][k] = d x_k / d r_d
	DetJ float64
	InvJ *mat.Dense // 3 x Dim right inverse of J
	DNDx *mat.Dense // 3 x NumNodes
}

// ComputeShapeMatrices evaluates the shape function t on an element with the
// given physical node coordinates at the reference point xi. Elements of lower
// dimension than the embedding space use sqrt(det(J Jᵀ)) as Jacobian determinant
// and the pseudo-inverse of J for the physical gradients.
func ComputeShapeMatrices(t Type, coords []r3.Vec, xi [3]float64) (*Matrices, error) {
	f := t.Function()
	if len(coords) != t.NumNodes() {
		return nil, fmt.Errorf("%s: %d node coordinates, want %d", t, len(coords), t.NumNodes())
	}
	dim := t.Dim()
	sm := &Matrices{N: f.N(xi), DNDr: f.DNDr(xi)}

	x := mat.NewDense(len(coords), 3, nil)
	for i, c := range coords {
		x.SetRow(i, []float64{c.X, c.Y, c.Z})
	}
	sm.J = mat.NewDense(dim, 3, nil)
	sm.J.Mul(sm.DNDr, x)

	var jjt mat.Dense
	jjt.Mul(sm.J, sm.J.T())
	var g mat.Dense
	if dim == 3 {
		sm.DetJ = mat.Det(sm.J)
	} else {
		sm.DetJ = math.Sqrt(mat.Det(&jjt))
	}
	if !(sm.DetJ > 0) {
		return nil, fmt.Errorf("%s: non-positive jacobian determinant %g at %v", t, sm.DetJ, xi)
	}
	if err := g.Inverse(&jjt); err != nil {
		return nil, fmt.Errorf("%s: singular jacobian at %v: %w", t, xi, err)
	}
	sm.InvJ = mat.NewDense(3, dim, nil)
	sm.InvJ.Mul(sm.J.T(), &g)
	sm.DNDx = mat.NewDense(3, len(coords), nil)
	sm.DNDx.Mul(sm.InvJ, sm.DNDr)
	return sm, nil
}

// Interpolate returns the value of nodal data at the point the matrices were
// computed for.
func (sm *Matrices) Interpolate(nodal []float64) float64 {
	return mat.Dot(mat.NewVecDense(len(sm.N), sm.N), mat.NewVecDense(len(nodal), nodal))
}
