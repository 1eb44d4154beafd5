package shape

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// monomial is coef * r^e[0] * s^e[1] * t^e[2]
type monomial struct {
	coef float64
	e    [3]int
}

// term is one polynomial of a basis
type term []monomial

func mono(a, b, c int) term { return term{{1, [3]int{a, b, c}}} }

func monos(exps ...[3]int) []term {
	out := make([]term, len(exps))
	for i, e := range exps {
		out[i] = mono(e[0], e[1], e[2])
	}
	return out
}

func ipow(x float64, n int) float64 {
	v := 1.
	for ; n > 0; n-- {
		v *= x
	}
	return v
}

func (p term) eval(xi [3]float64) float64 {
	var v float64
	for _, m := range p {
		v += m.coef * ipow(xi[0], m.e[0]) * ipow(xi[1], m.e[1]) * ipow(xi[2], m.e[2])
	}
	return v
}

// deriv evaluates the partial derivative along direction d
func (p term) deriv(xi [3]float64, d int) float64 {
	var v float64
	for _, m := range p {
		if m.e[d] == 0 {
			continue
		}
		f := m.coef * float64(m.e[d])
		for k := 0; k < 3; k++ {
			n := m.e[k]
			if k == d {
				n--
			}
			f *= ipow(xi[k], n)
		}
		v += f
	}
	return v
}

// Polynomial spaces spanned by each shape function. The nodal basis is obtained
// by inverting the Vandermonde matrix of these polynomials at the reference nodes.
var bases = [numTypes][]term{
	Line2: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}),
	Line3: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{2, 0, 0}),
	Tri3:  monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}),
	Tri6: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0},
		[3]int{2, 0, 0}, [3]int{1, 1, 0}, [3]int{0, 2, 0}),
	Quad4: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{1, 1, 0}),
	Quad8: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{2, 0, 0},
		[3]int{1, 1, 0}, [3]int{0, 2, 0}, [3]int{2, 1, 0}, [3]int{1, 2, 0}),
	Quad9: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{2, 0, 0},
		[3]int{1, 1, 0}, [3]int{0, 2, 0}, [3]int{2, 1, 0}, [3]int{1, 2, 0}, [3]int{2, 2, 0}),
	Tet4: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1}),
	Tet10: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1},
		[3]int{2, 0, 0}, [3]int{0, 2, 0}, [3]int{0, 0, 2},
		[3]int{1, 1, 0}, [3]int{1, 0, 1}, [3]int{0, 1, 1}),
	Hex8: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1},
		[3]int{1, 1, 0}, [3]int{1, 0, 1}, [3]int{0, 1, 1}, [3]int{1, 1, 1}),
	Hex20: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1},
		[3]int{2, 0, 0}, [3]int{0, 2, 0}, [3]int{0, 0, 2},
		[3]int{1, 1, 0}, [3]int{1, 0, 1}, [3]int{0, 1, 1},
		[3]int{2, 1, 0}, [3]int{2, 0, 1}, [3]int{1, 2, 0}, [3]int{0, 2, 1}, [3]int{1, 0, 2}, [3]int{0, 1, 2},
		[3]int{1, 1, 1}, [3]int{2, 1, 1}, [3]int{1, 2, 1}, [3]int{1, 1, 2}),
	Prism6: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1},
		[3]int{1, 0, 1}, [3]int{0, 1, 1}),
	Prism15: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1},
		[3]int{2, 0, 0}, [3]int{1, 1, 0}, [3]int{0, 2, 0},
		[3]int{1, 0, 1}, [3]int{0, 1, 1}, [3]int{0, 0, 2},
		[3]int{2, 0, 1}, [3]int{1, 1, 1}, [3]int{0, 2, 1}, [3]int{1, 0, 2}, [3]int{0, 1, 2}),
	Pyra5: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1}, [3]int{1, 1, 0}),
	Pyra13: monos([3]int{0, 0, 0}, [3]int{1, 0, 0}, [3]int{0, 1, 0}, [3]int{0, 0, 1},
		[3]int{1, 1, 0}, [3]int{1, 0, 1}, [3]int{0, 1, 1},
		[3]int{2, 0, 0}, [3]int{0, 2, 0}, [3]int{0, 0, 2},
		[3]int{2, 1, 0}, [3]int{1, 2, 0}, [3]int{1, 1, 1}),
}

// Function is the nodal Lagrange basis of one shape function type
type Function struct {
	typ   Type
	basis []term
	vinv  *mat.Dense // inverse Vandermonde, rows basis terms, columns nodes
}

var functions [numTypes]*Function

func init() {
	for _, t := range AllTypes() {
		f, err := newFunction(t)
		if err != nil {
			panic(err)
		}
		functions[t] = f
	}
}

func newFunction(t Type) (*Function, error) {
	basis := bases[t]
	nodes := t.MeshElement().ReferenceCoords()
	n := len(nodes)
	if len(basis) != n {
		return nil, fmt.Errorf("%s: %d basis terms for %d nodes", t, len(basis), n)
	}
	v := mat.NewDense(n, n, nil)
	for i, x := range nodes {
		for j, p := range basis {
			v.Set(i, j, p.eval(x))
		}
	}
	var vinv mat.Dense
	if err := vinv.Inverse(v); err != nil {
		return nil, fmt.Errorf("%s: vandermonde matrix: %w", t, err)
	}
	return &Function{typ: t, basis: basis, vinv: &vinv}, nil
}

// Function returns the nodal basis of t
func (t Type) Function() *Function { return functions[t] }

func (f *Function) Type() Type { return f.typ }

// N evaluates every nodal shape function at xi
func (f *Function) N(xi [3]float64) []float64 {
	n := len(f.basis)
	p := make([]float64, n)
	for j, b := range f.basis {
		p[j] = b.eval(xi)
	}
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var s float64
		for j := 0; j < n; j++ {
			s += p[j] * f.vinv.At(j, k)
		}
		out[k] = s
	}
	return out
}

// DNDr evaluates the reference gradients at xi as a Dim x NumNodes matrix
func (f *Function) DNDr(xi [3]float64) *mat.Dense {
	dim := f.typ.Dim()
	n := len(f.basis)
	dp := mat.NewDense(dim, n, nil)
	for d := 0; d < dim; d++ {
		for j, b := range f.basis {
			dp.Set(d, j, b.deriv(xi, d))
		}
	}
	out := mat.NewDense(dim, n, nil)
	out.Mul(dp, f.vinv)
	return out
}
