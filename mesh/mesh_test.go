package mesh

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// quadGrid builds nx*ny unit quads in the xy plane, nodes numbered row by row
func quadGrid(nx, ny int) ([]*Node, []*Element) {
	var nodes []*Node
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			nodes = append(nodes, NewNode(float64(i), float64(j), 0))
		}
	}
	var elements []*Element
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			n0 := j*(nx+1) + i
			elements = append(elements, MustElement(element.Quad, n0, n0+1, n0+nx+2, n0+nx+1))
		}
	}
	return nodes, elements
}

func twoTriangles(t *testing.T, f *Factory) *Mesh {
	nodes := []*Node{
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0, 1, 0), NewNode(1, 1, 0),
	}
	elements := []*Element{
		MustElement(element.Tri, 0, 1, 2),
		MustElement(element.Tri, 1, 3, 2),
	}
	m, err := f.New("two_triangles", nodes, elements, nil, 0)
	require.NoError(t, err)
	return m
}

func TestTwoTrianglesSharingAnEdge(t *testing.T) {
	m := twoTriangles(t, NewFactory())

	a, b := m.Element(0), m.Element(1)
	assert.Equal(t, 1, a.NumberOfNeighbors())
	assert.Equal(t, 1, b.NumberOfNeighbors())
	assert.Equal(t, []int{NoNeighbor, 1, NoNeighbor}, a.Neighbors())
	assert.Equal(t, []int{NoNeighbor, NoNeighbor, 0}, b.Neighbors())
	assert.ElementsMatch(t, a.FaceNodeIDs(1), b.FaceNodeIDs(2))

	assert.ElementsMatch(t, []int{0, 1}, m.Node(1).Elements())
	assert.ElementsMatch(t, []int{0, 1}, m.Node(2).Elements())
	assert.Equal(t, []int{0}, m.Node(0).Elements())
	assert.Equal(t, []int{1}, m.Node(3).Elements())

	assert.Equal(t, element.D2, m.Dimension())
	assert.Equal(t, 4, m.NumberOfBaseNodes())
	assert.False(t, m.IsNonlinear())
	assert.NoError(t, Validate(m))
}

func TestUnitTriangleEdgeLength(t *testing.T) {
	nodes := []*Node{NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0.5, math.Sqrt(3)/2, 0)}
	m, err := NewFactory().New("unit", nodes, []*Element{MustElement(element.Tri, 0, 1, 2)}, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.MinEdgeLength(), 1e-12)
	assert.InDelta(t, 1.0, m.MaxEdgeLength(), 1e-12)
}

func TestEdgeLengthRange(t *testing.T) {
	nodes := []*Node{NewNode(0, 0, 0), NewNode(3, 0, 0), NewNode(3, 4, 0)}
	m, err := NewFactory().New("345", nodes, []*Element{MustElement(element.Tri, 0, 1, 2)}, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, m.MinEdgeLength(), 1e-12)
	assert.InDelta(t, 5.0, m.MaxEdgeLength(), 1e-12)
}

func TestMeshIDsAndAdjacency(t *testing.T) {
	nodes, elements := quadGrid(3, 2)
	m, err := NewFactory(WithWorkers(3)).New("grid", nodes, elements, nil, 0)
	require.NoError(t, err)

	for i, n := range m.Nodes() {
		assert.Equal(t, i, n.ID())
	}
	for i, e := range m.Elements() {
		assert.Equal(t, i, e.ID())
	}
	for _, n := range m.Nodes() {
		var want []int
		for _, eid := range n.Elements() {
			want = append(want, m.Element(eid).NodeIDs()...)
		}
		slices.Sort(want)
		want = slices.Compact(want)
		assert.Equal(t, want, n.ConnectedNodes(), "node %d", n.ID())
		assert.True(t, slices.IsSorted(n.ConnectedNodes()))
	}
	// centre nodes of a 3x2 quad grid touch four quads
	assert.Equal(t, 9, m.MaximumConnectedNodes())
	assert.Equal(t, 3, m.Element(1).NumberOfNeighbors())
	assert.NoError(t, Validate(m))
}

func TestNeighborSymmetry(t *testing.T) {
	nodes, elements := quadGrid(4, 4)
	m, err := NewFactory().New("grid", nodes, elements, nil, 0)
	require.NoError(t, err)
	for _, e := range m.Elements() {
		for k, nb := range e.Neighbors() {
			if nb == NoNeighbor {
				continue
			}
			other := m.Element(nb)
			back := 0
			for j, x := range other.Neighbors() {
				if x == e.ID() {
					back++
					assert.ElementsMatch(t, e.FaceNodeIDs(k), other.FaceNodeIDs(j))
				}
			}
			assert.Equal(t, 1, back)
		}
	}
	interior := m.Element(5)
	assert.False(t, interior.IsBoundaryElement())
	assert.True(t, m.Element(0).IsBoundaryElement())
}

func TestNonManifoldJunctionNeighbors(t *testing.T) {
	// three lines meeting at node 1
	nodes := []*Node{NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(2, 0, 0), NewNode(1, 1, 0)}
	elements := []*Element{
		MustElement(element.Line, 0, 1),
		MustElement(element.Line, 1, 2),
		MustElement(element.Line, 1, 3),
	}
	m, err := NewFactory().New("junction", nodes, elements, nil, 0)
	require.NoError(t, err)

	// each side takes the lowest matching element
	assert.Contains(t, m.Element(0).Neighbors(), 1)
	assert.NotContains(t, m.Element(0).Neighbors(), 2)
	assert.Contains(t, m.Element(1).Neighbors(), 0)
	assert.Contains(t, m.Element(2).Neighbors(), 0)

	err = Validate(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "points to 0, which points back 0 times")
}

func TestTetNeighborsAcrossFace(t *testing.T) {
	nodes := []*Node{
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0, 1, 0), NewNode(0, 0, 1), NewNode(1, 1, 1),
	}
	elements := []*Element{
		MustElement(element.Tet, 0, 1, 2, 3),
		MustElement(element.Tet, 1, 2, 3, 4),
	}
	m, err := NewFactory().New("tets", nodes, elements, nil, 0)
	require.NoError(t, err)
	// face {1,2,3} is local face 2 of the first tet and face 0 of the second
	assert.Equal(t, []int{NoNeighbor, NoNeighbor, 1, NoNeighbor}, m.Element(0).Neighbors())
	assert.Equal(t, []int{0, NoNeighbor, NoNeighbor, NoNeighbor}, m.Element(1).Neighbors())
	assert.NoError(t, Validate(m))
}

func TestMeshIdentityFromFactory(t *testing.T) {
	f := NewFactory()
	m0 := twoTriangles(t, f)
	m1 := twoTriangles(t, f)
	assert.Equal(t, uint64(0), m0.ID())
	assert.Equal(t, uint64(1), m1.ID())

	other := NewFactory()
	assert.Equal(t, uint64(0), twoTriangles(t, other).ID())
}

func TestCopySkipsNodeAdjacency(t *testing.T) {
	f := NewFactory()
	nodes, elements := quadGrid(2, 2)
	src, err := f.New("grid", nodes, elements, nil, 0)
	require.NoError(t, err)
	_, err = AddPropertyToMesh(src, "p", ItemNode, 1, make([]float64, src.NumberOfNodes()))
	require.NoError(t, err)

	cp := f.Copy(src)
	assert.NotEqual(t, src.ID(), cp.ID())
	assert.Equal(t, src.Dimension(), cp.Dimension())
	assert.Equal(t, src.MinEdgeLength(), cp.MinEdgeLength())
	assert.Equal(t, src.MaxEdgeLength(), cp.MaxEdgeLength())
	for i, e := range cp.Elements() {
		assert.Equal(t, src.Element(i).Neighbors(), e.Neighbors())
		assert.NotSame(t, src.Element(i), e)
	}
	for i, n := range cp.Nodes() {
		assert.Equal(t, src.Node(i).Elements(), n.Elements())
		assert.Empty(t, n.ConnectedNodes())
		assert.NotSame(t, src.Node(i), n)
	}

	cp.Node(0).SetCoords(r3.Vec{X: 5})
	assert.Equal(t, 0.0, src.Node(0).Coords().X)

	pv, err := GetProperty[float64](cp.Properties(), "p", ItemNode, 1)
	require.NoError(t, err)
	pv.Set(0, 0, 42)
	orig, _ := GetProperty[float64](src.Properties(), "p", ItemNode, 1)
	assert.Equal(t, 0.0, orig.At(0, 0))

	cp.ComputeNodeAdjacency()
	for i, n := range cp.Nodes() {
		assert.Equal(t, src.Node(i).ConnectedNodes(), n.ConnectedNodes())
	}
}

func TestAddElement(t *testing.T) {
	m := twoTriangles(t, NewFactory())
	require.NoError(t, m.AddElement(MustElement(element.Line, 0, 3)))
	assert.Equal(t, 3, m.NumberOfElements())
	assert.Equal(t, 2, m.Element(2).ID())
	assert.Contains(t, m.Node(0).Elements(), 2)
	assert.Contains(t, m.Node(3).Elements(), 2)
	// neighbors are not recomputed
	assert.Equal(t, []int{NoNeighbor, NoNeighbor}, m.Element(2).Neighbors())

	assert.Error(t, m.AddElement(MustElement(element.Line, 0, 9)))
}

func TestNonlinearNodeOrderingWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFactory(WithLogger(zap.New(core)))

	// corner nodes are 3..5, mid-edge nodes 0..2
	nodes := []*Node{
		NewNode(0.5, 0, 0), NewNode(0.5, 0.5, 0), NewNode(0, 0.5, 0),
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0, 1, 0),
	}
	m, err := f.New("tri6", nodes, []*Element{MustElement(element.Tri6, 3, 4, 5, 0, 1, 2)}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 6, m.NumberOfBaseNodes())
	assert.True(t, m.HasNonlinearElement())
	assert.Equal(t, 1, logs.Len())

	// properly ordered nodes do not warn
	core2, logs2 := observer.New(zapcore.WarnLevel)
	f2 := NewFactory(WithLogger(zap.New(core2)))
	ordered := []*Node{
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0, 1, 0),
		NewNode(0.5, 0, 0), NewNode(0.5, 0.5, 0), NewNode(0, 0.5, 0),
	}
	m2, err := f2.New("tri6", ordered, []*Element{MustElement(element.Tri6, 0, 1, 2, 3, 4, 5)}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, m2.NumberOfBaseNodes())
	assert.True(t, m2.IsNonlinear())
	assert.True(t, m2.IsBaseNode(2))
	assert.False(t, m2.IsBaseNode(3))
	assert.Equal(t, 0, logs2.Len())
}

func TestConstructionErrors(t *testing.T) {
	f := NewFactory()
	_, err := f.New("bad", []*Node{NewNode(0, 0, 0)}, []*Element{MustElement(element.Line, 0, 1)}, nil, 0)
	assert.Error(t, err)

	_, err = f.New("bad", []*Node{NewNode(0, 0, 0)}, nil, nil, 2)
	assert.Error(t, err)

	props := NewProperties()
	_, err = AddProperty(props, "MaterialIDs", ItemCell, 1, []int{1, 2, 3})
	require.NoError(t, err)
	nodes, elements := quadGrid(1, 1)
	_, err = f.New("bad", nodes, elements, props, 0)
	assert.True(t, errors.Is(err, ErrPropertySize))

	_, err = NewElement(element.Tet, []int{0, 1, 2})
	assert.Error(t, err)
	assert.Panics(t, func() { MustElement(element.Hex, 0, 1) })
}
