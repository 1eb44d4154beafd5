package assembly

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/dof"
	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
	"github.com/TobiasMeisel/ogs-taurus/meshgen"
	"github.com/TobiasMeisel/ogs-taurus/shape"
)

// massKernel integrates the consistent mass matrix of one element
type massKernel struct {
	data ElementData
	mass *mat.Dense
}

func newMassKernel(d ElementData, m *mesh.Mesh) (*massKernel, error) {
	n := d.Shape.NumNodes()
	coords := make([]r3.Vec, n)
	for i := range coords {
		coords[i] = m.ElementNode(d.Element, i).Coords()
	}
	k := &massKernel{data: d, mass: mat.NewDense(n, n, nil)}
	for _, p := range d.Integration.Points {
		sm, err := shape.ComputeShapeMatrices(d.Shape, coords, p.Coords)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				k.mass.Set(i, j, k.mass.At(i, j)+p.Weight*sm.DetJ*sm.N[i]*sm.N[j])
			}
		}
	}
	return k, nil
}

func (k *massKernel) total() float64 { return mat.Sum(k.mass) }

func generate(t *testing.T, cell element.CellType, div [3]int, size [3]float64) (*mesh.Mesh, *dof.NodalTable) {
	t.Helper()
	m, err := meshgen.Generate(mesh.NewFactory(), meshgen.Spec{Name: cell.String(), Cell: cell, Divisions: div, Size: size})
	require.NoError(t, err)
	tab, err := dof.NewNodalTable(m, dof.ByLocation, dof.Component{Name: "T"})
	require.NoError(t, err)
	return m, tab
}

// enabledIn keeps the cell types usable when the given families are requested
// and the build tags leave them compiled in
func enabledIn(families []element.Family, cts ...element.CellType) []element.CellType {
	var on []element.Family
	for _, f := range families {
		if f.Compiled() {
			on = append(on, f)
		}
	}
	out := []element.CellType{}
	for _, ct := range cts {
		if element.Enables(on, ct) {
			out = append(out, ct)
		}
	}
	return out
}

func requireCompiled(t *testing.T, cts ...element.CellType) {
	t.Helper()
	for _, ct := range cts {
		if !ct.IsCompiled() {
			t.Skipf("%s is disabled in the build configuration", ct)
		}
	}
}

func TestRegisteredCellTypes(t *testing.T) {
	_, tab := generate(t, element.Line, [3]int{1}, [3]float64{1})
	newInit := func(dim int, opts ...Option) *LocalDataInitializer[*massKernel, *mesh.Mesh] {
		l, err := NewLocalDataInitializer(dim, tab, newMassKernel, opts...)
		require.NoError(t, err)
		return l
	}
	all := element.AllFamilies

	l := newInit(2)
	assert.Equal(t, enabledIn(all,
		element.Line, element.Line3, element.Tri, element.Tri6, element.Quad, element.Quad8, element.Quad9,
	), l.CellTypes())
	if element.Quad8.IsCompiled() {
		st, ok := l.ShapeFunction(element.Quad8)
		assert.True(t, ok)
		assert.Equal(t, shape.Quad8, st)
	}

	l = newInit(3, WithShapeFunctionOrder(1))
	if element.Hex20.IsCompiled() {
		st, _ := l.ShapeFunction(element.Hex20)
		assert.Equal(t, shape.Hex8, st)
	}
	if element.Tri6.IsCompiled() {
		st, _ := l.ShapeFunction(element.Tri6)
		assert.Equal(t, shape.Tri3, st)
	}
	assert.Equal(t, enabledIn(all, element.AllCellTypes()[1:]...), l.CellTypes())

	l = newInit(3, WithShapeFunctionOrder(2))
	_, ok := l.ShapeFunction(element.Tri)
	assert.False(t, ok)
	if element.Pyramid13.IsCompiled() {
		st, _ := l.ShapeFunction(element.Pyramid13)
		assert.Equal(t, shape.Pyra13, st)
	}
	assert.Equal(t, enabledIn(all,
		element.Line3, element.Tri6, element.Quad8, element.Quad9,
		element.Tet10, element.Hex20, element.Prism15, element.Pyramid13,
	), l.CellTypes())

	l = newInit(3, WithMaxElementOrder(1), WithMaxElementDim(2))
	assert.Equal(t, enabledIn(all, element.Line, element.Tri, element.Quad), l.CellTypes())

	simplex := []element.Family{element.FamilySimplex}
	l = newInit(3, WithEnabledFamilies(simplex...))
	assert.Equal(t, enabledIn(simplex,
		element.Line, element.Line3, element.Tri, element.Tri6, element.Tet, element.Tet10,
	), l.CellTypes())
}

func TestCompiledOutTypeIsUnknown(t *testing.T) {
	var off []element.CellType
	for _, ct := range element.AllCellTypes() {
		if ct.Dimension() > element.D0 && !ct.IsCompiled() {
			off = append(off, ct)
		}
	}
	if len(off) == 0 {
		t.Skipf("every element family is compiled in: %v", element.CompiledFamilies())
	}
	for _, ct := range off {
		t.Run(ct.String(), func(t *testing.T) {
			m, tab := generate(t, ct, [3]int{1, 1, 1}, [3]float64{1, 1, 1})
			l, err := NewLocalDataInitializer(3, tab, newMassKernel)
			require.NoError(t, err)
			assert.NotContains(t, l.CellTypes(), ct)

			_, err = l.Instantiate(0, m.Element(0), m)
			require.ErrorIs(t, err, ErrUnknownElementType)
			assert.Contains(t, err.Error(), "build configuration")

			_, err = CreateLocalAssemblers(3, m.Elements(), tab, newMassKernel, m)
			assert.ErrorIs(t, err, ErrUnknownElementType)
		})
	}
}

func TestLowerOrderPairing(t *testing.T) {
	requireCompiled(t, element.Tri6)
	m, tab := generate(t, element.Tri6, [3]int{1, 1}, [3]float64{1, 1})
	var seen []ElementData
	ctor := func(d ElementData, _ struct{}) (ElementData, error) { return d, nil }
	l, err := NewLocalDataInitializer(2, tab, ctor, WithShapeFunctionOrder(2))
	require.NoError(t, err)
	for i, e := range m.Elements() {
		d, err := l.Instantiate(i, e, struct{}{})
		require.NoError(t, err)
		seen = append(seen, d)
	}
	require.Len(t, seen, 2)
	for i, d := range seen {
		assert.Equal(t, i, d.Index)
		assert.Equal(t, shape.Tri6, d.Shape)
		assert.Equal(t, shape.Tri3, d.LowerShape)
		assert.Equal(t, 6, d.LocalMatrixSize)
		assert.Equal(t, 2, d.GlobalDim)
	}
}

func TestExcludedFamilyIsFatal(t *testing.T) {
	m, tab := generate(t, element.Hex, [3]int{1, 1, 1}, [3]float64{1, 1, 1})
	_, err := CreateLocalAssemblers(3, m.Elements(), tab, newMassKernel, m,
		WithEnabledFamilies(element.FamilySimplex))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownElementType))
	assert.Contains(t, err.Error(), "Hex8")
	assert.Contains(t, err.Error(), "build configuration")

	// volume elements have no shape function in a two dimensional problem
	_, err = CreateLocalAssemblers(2, m.Elements(), tab, newMassKernel, m)
	assert.ErrorIs(t, err, ErrUnknownElementType)
}

func TestConfigurationErrors(t *testing.T) {
	m, tab := generate(t, element.Line, [3]int{2}, [3]float64{1})
	_, err := CreateLocalAssemblers(4, m.Elements(), tab, newMassKernel, m)
	assert.ErrorIs(t, err, ErrUnsupportedDimension)
	_, err = CreateLocalAssemblers(0, m.Elements(), tab, newMassKernel, m)
	assert.ErrorIs(t, err, ErrUnsupportedDimension)

	for _, order := range []int{0, 3} {
		_, err = CreateLocalAssemblers(1, m.Elements(), tab, newMassKernel, m, WithShapeFunctionOrder(order))
		assert.ErrorIs(t, err, ErrUnsupportedShapeOrder, "order %d", order)
	}
}

func TestMassMatrixSumsToContent(t *testing.T) {
	tests := []struct {
		cell  element.CellType
		dim   int
		div   [3]int
		size  [3]float64
		opts  []Option
		shape shape.Type
	}{
		{element.Line, 2, [3]int{4}, [3]float64{2}, nil, shape.Line2},
		{element.Quad, 2, [3]int{3, 2}, [3]float64{3, 1}, nil, shape.Quad4},
		{element.Tri6, 2, [3]int{2, 2}, [3]float64{1, 2}, []Option{WithShapeFunctionOrder(1)}, shape.Tri3},
		{element.Quad9, 3, [3]int{2, 1}, [3]float64{2, 1}, nil, shape.Quad9},
		{element.Hex20, 3, [3]int{2, 1, 1}, [3]float64{2, 1, 1}, []Option{WithIntegrationOrder(3)}, shape.Hex20},
		{element.Tet, 3, [3]int{1, 2, 1}, [3]float64{1, 2, 1}, nil, shape.Tet4},
		{element.Prism15, 3, [3]int{1, 1, 2}, [3]float64{1, 1, 2}, []Option{WithShapeFunctionOrder(2)}, shape.Prism15},
		{element.Pyramid, 3, [3]int{1, 1, 1}, [3]float64{1, 1, 1}, nil, shape.Pyra5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_dim%d", tt.cell, tt.dim), func(t *testing.T) {
			requireCompiled(t, tt.cell)
			m, tab := generate(t, tt.cell, tt.div, tt.size)
			kernels, err := CreateLocalAssemblers(tt.dim, m.Elements(), tab, newMassKernel, m,
				append(tt.opts, WithWorkers(3))...)
			require.NoError(t, err)
			require.Len(t, kernels, m.NumberOfElements())

			want := tt.size[0]
			for d := 1; d < int(tt.cell.Dimension()); d++ {
				want *= tt.size[d]
			}
			var got float64
			for i, k := range kernels {
				assert.Equal(t, i, k.data.Index)
				assert.Same(t, m.Element(i), k.data.Element)
				assert.Equal(t, tt.shape, k.data.Shape)
				assert.Equal(t, tt.cell.NumNodes(), k.data.LocalMatrixSize)
				got += k.total()
			}
			assert.InDelta(t, want, got, 1e-10)
		})
	}
}

func TestConstructorFailureStopsCreation(t *testing.T) {
	requireCompiled(t, element.Quad)
	m, tab := generate(t, element.Quad, [3]int{4, 4}, [3]float64{1, 1})
	boom := errors.New("boom")
	ctor := func(d ElementData, _ int) (int, error) {
		if d.Index == 5 {
			return 0, boom
		}
		return d.Index, nil
	}
	_, err := CreateLocalAssemblers(2, m.Elements(), tab, ctor, 0)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "element 5")
}

func TestCreateLocalAssemblersLogs(t *testing.T) {
	requireCompiled(t, element.Tri)
	core, logs := observer.New(zapcore.DebugLevel)
	m, tab := generate(t, element.Tri, [3]int{1, 1}, [3]float64{1, 1})
	_, err := CreateLocalAssemblers(2, m.Elements(), tab, newMassKernel, m, WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Create local assemblers.").Len())
	assert.Equal(t, 1, logs.FilterMessage("Calling local assembler builder for all mesh elements.").Len())
}
