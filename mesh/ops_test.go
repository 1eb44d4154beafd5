package mesh

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

func TestPropertyLookup(t *testing.T) {
	props := NewProperties()
	pv, err := AddProperty(props, "T", ItemNode, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2, pv.NumberOfTuples())
	assert.Equal(t, []float64{3, 4}, pv.Tuple(1))

	_, err = GetProperty[float64](props, "missing", ItemNode, 2)
	assert.True(t, errors.Is(err, ErrPropertyNotFound))

	_, err = GetProperty[int](props, "T", ItemNode, 2)
	assert.True(t, errors.Is(err, ErrPropertyMismatch))
	_, err = GetProperty[float64](props, "T", ItemCell, 2)
	assert.True(t, errors.Is(err, ErrPropertyMismatch))
	_, err = GetProperty[float64](props, "T", ItemNode, 3)
	assert.True(t, errors.Is(err, ErrPropertyMismatch))

	assert.True(t, ExistsProperty[float64](props, "T", ItemNode, 2))
	assert.False(t, ExistsProperty[float64](props, "T", ItemNode, 1))

	_, err = CreateProperty[int](props, "T", ItemCell, 1)
	assert.True(t, errors.Is(err, ErrPropertyExists))
	_, err = AddProperty(props, "odd", ItemNode, 2, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, ErrPropertySize))
	assert.False(t, props.Has("odd"))

	cp := props.ExcludeCopyProperties("T")
	assert.Equal(t, 0, cp.Len())
	sel := props.SelectTuples(ItemNode, []int{1})
	got, err := GetProperty[float64](sel, "T", ItemNode, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, got.Data())
}

func TestMaterialIDsAndScaling(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFactory(WithLogger(zap.New(core)))
	m := twoTriangles(t, f)

	assert.Nil(t, MaterialIDs(m))
	_, err := AddPropertyToMesh(m, MaterialIDsName, ItemCell, 1, []int{3, 7})
	require.NoError(t, err)
	require.NotNil(t, MaterialIDs(m))
	assert.Equal(t, []int{3, 7}, MaterialIDs(m).Data())

	_, err = AddPropertyToMesh(m, "k", ItemCell, 1, []float64{1, 2, 3})
	assert.True(t, errors.Is(err, ErrPropertySize))

	_, err = AddPropertyToMesh(m, "k", ItemCell, 1, []float64{1.5, -2})
	require.NoError(t, err)
	ScalePropertyVector(m, "k", 2)
	k, _ := GetProperty[float64](m.Properties(), "k", ItemCell, 1)
	assert.Equal(t, []float64{3, -4}, k.Data())

	ScalePropertyVector(m, "not_there", 2)
	assert.Equal(t, 1, logs.Len())
}

func TestCreateMeshFromElementSelection(t *testing.T) {
	f := NewFactory()
	nodes, elements := quadGrid(3, 3)
	src, err := f.New("grid", nodes, elements, nil, 0)
	require.NoError(t, err)

	selection := []int{4, 5, 8}
	sub, err := f.CreateMeshFromElementSelection("sub", src, selection)
	require.NoError(t, err)
	assert.Equal(t, len(selection), sub.NumberOfElements())
	assert.NotEqual(t, src.ID(), sub.ID())

	bulkElements, err := GetProperty[int](sub.Properties(), "bulk_element_ids", ItemCell, 1)
	require.NoError(t, err)
	assert.Equal(t, selection, bulkElements.Data())

	bulkNodes, err := GetProperty[int](sub.Properties(), "bulk_node_ids", ItemNode, 1)
	require.NoError(t, err)
	require.Equal(t, sub.NumberOfNodes(), bulkNodes.NumberOfTuples())
	for i, n := range sub.Nodes() {
		orig := src.Node(bulkNodes.At(i, 0))
		assert.Equal(t, orig.Coords(), n.Coords())
		assert.NotSame(t, orig, n)
	}
	// elements 4 and 5 share an edge, 5 and 8 share an edge
	assert.Equal(t, 1, sub.Element(0).NumberOfNeighbors())
	assert.Equal(t, 2, sub.Element(1).NumberOfNeighbors())
	assert.NoError(t, Validate(sub))

	_, err = f.CreateMeshFromElementSelection("bad", src, []int{99})
	assert.Error(t, err)
}

func TestConvertToLinearMesh(t *testing.T) {
	f := NewFactory()
	nodes := []*Node{
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0, 1, 0), NewNode(1, 1, 0),
		NewNode(0.5, 0, 0), NewNode(0.5, 0.5, 0), NewNode(0, 0.5, 0),
		NewNode(1, 0.5, 0), NewNode(0.5, 1, 0),
	}
	elements := []*Element{
		MustElement(element.Tri6, 0, 1, 2, 4, 5, 6),
		MustElement(element.Tri6, 1, 3, 2, 7, 8, 5),
	}
	props := NewProperties()
	_, err := AddProperty(props, MaterialIDsName, ItemCell, 1, []int{1, 2})
	require.NoError(t, err)
	_, err = AddProperty(props, "p", ItemNode, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	_, err = AddProperty(props, "flag", ItemNode, 1, make([]int, 9))
	require.NoError(t, err)

	quadratic, err := f.New("quadratic", nodes, elements, props, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, quadratic.NumberOfBaseNodes())

	linear, err := f.ConvertToLinearMesh(quadratic, "linear")
	require.NoError(t, err)
	assert.Equal(t, 4, linear.NumberOfNodes())
	assert.Equal(t, 4, linear.NumberOfBaseNodes())
	assert.False(t, linear.HasNonlinearElement())
	for _, e := range linear.Elements() {
		assert.Equal(t, element.Tri, e.Type())
	}
	assert.Equal(t, []int{1, 2}, MaterialIDs(linear).Data())
	p, err := GetProperty[float64](linear.Properties(), "p", ItemNode, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 3}, p.Data())
	assert.False(t, linear.Properties().Has("flag"))
	assert.Equal(t, 1, linear.Element(0).NumberOfNeighbors())
}

func TestElementContent(t *testing.T) {
	f := NewFactory()
	cube := []*Node{
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(1, 1, 0), NewNode(0, 1, 0),
		NewNode(0, 0, 1), NewNode(1, 0, 1), NewNode(1, 1, 1), NewNode(0, 1, 1),
	}
	m, err := f.New("shapes", cube, []*Element{
		MustElement(element.Hex, 0, 1, 2, 3, 4, 5, 6, 7),
		MustElement(element.Tet, 0, 1, 3, 4),
		MustElement(element.Prism, 0, 1, 3, 4, 5, 7),
		MustElement(element.Quad, 0, 1, 2, 3),
		MustElement(element.Tri, 0, 1, 3),
		MustElement(element.Line, 0, 6),
	}, nil, 0)
	require.NoError(t, err)

	want := []float64{1, 1.0 / 6, 0.5, 1, 0.5, 1.7320508075688772}
	for i, w := range want {
		assert.InDelta(t, w, m.ElementContent(m.Element(i)), 1e-12, "%s", m.Element(i).Type())
	}
	c := m.ElementCentroid(m.Element(0))
	assert.InDelta(t, 0.5, c.X, 1e-12)
	assert.InDelta(t, 0.5, c.Z, 1e-12)

	apex := []*Node{NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(1, 1, 0), NewNode(0, 1, 0), NewNode(0.5, 0.5, 1)}
	pm, err := f.New("pyramid", apex, []*Element{MustElement(element.Pyramid, 0, 1, 2, 3, 4)}, nil, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, pm.ElementContent(pm.Element(0)), 1e-12)
}

func TestSizeDifferenceAndComponents(t *testing.T) {
	f := NewFactory()
	nodes := []*Node{
		NewNode(0, 0, 0), NewNode(1, 0, 0), NewNode(0, 1, 0), NewNode(2, 2, 0),
		NewNode(5, 5, 0), NewNode(6, 5, 0), NewNode(5, 6, 0),
	}
	elements := []*Element{
		MustElement(element.Tri, 0, 1, 2),
		MustElement(element.Tri, 1, 3, 2),
		MustElement(element.Tri, 4, 5, 6),
	}
	m, err := f.New("islands", nodes, elements, nil, 0)
	require.NoError(t, err)

	pv, err := AddSizeDifferenceProperty(m)
	require.NoError(t, err)
	// areas 0.5 and 1.5
	assert.InDelta(t, 1.0/3, pv.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0/3, pv.At(1, 0), 1e-12)
	assert.Equal(t, 1.0, pv.At(2, 0))

	assert.Equal(t, [][]int{{0, 1}, {2}}, ConnectedComponents(m))

	g := NodeGraph(m)
	assert.Equal(t, 7, g.Nodes().Len())
	assert.True(t, g.HasEdgeBetween(1, 2))
	assert.False(t, g.HasEdgeBetween(0, 3))
}
