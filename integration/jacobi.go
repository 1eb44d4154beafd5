package integration

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GaussJacobi returns the n point Gauss quadrature for the weight
// (1-x)^alpha * (1+x)^beta on [-1,1]. Nodes come from the eigenvalues of the
// symmetric Jacobi matrix and weights from the first eigenvector components
// (Golub-Welsch). Nodes are ascending.
func GaussJacobi(alpha, beta float64, n int) (x, w []float64) {
	if n < 1 {
		panic("gauss-jacobi quadrature needs at least one point")
	}
	if n == 1 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}, []float64{Gamma0(alpha, beta)}
	}
	N := n - 1

	h1 := make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: d0[i] = -(α²-β²)/((2i+α+β)*(2i+α+β+2))
	d0 := make([]float64, N+1)
	fac := beta*beta - alpha*alpha
	for i := 0; i < N+1; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	if alpha+beta < 10*1.e-16 {
		d0[0] = 0.
	}

	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		d1[i] = 2.0 / (h1[i] + 2.0) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(h1[i]+1)/(h1[i]+3),
		)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(symTriDiagonal(d0, d1), true); !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(nil)

	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	g0 := Gamma0(alpha, beta)
	w = make([]float64, n)
	for i := range w {
		v := vecs.At(0, i)
		w[i] = v * v * g0
	}
	return x, w
}

// GaussLegendre is GaussJacobi with a unit weight
func GaussLegendre(n int) (x, w []float64) { return GaussJacobi(0, 0, n) }

// Gamma0 is the integral of (1-x)^alpha * (1+x)^beta over [-1,1]
func Gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func symTriDiagonal(d0, d1 []float64) *mat.SymDense {
	n := len(d0)
	t := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		t.SetSym(i, i, d0[i])
		if i < n-1 {
			t.SetSym(i, i+1, d1[i])
		}
	}
	return t
}
