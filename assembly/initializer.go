// Package assembly maps the cell types of a mesh to the numerical kernels that
// assemble them.
package assembly

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/TobiasMeisel/ogs-taurus/dof"
	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/integration"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
	"github.com/TobiasMeisel/ogs-taurus/shape"
)

var (
	ErrUnknownElementType    = errors.New("unknown mesh element type")
	ErrUnsupportedShapeOrder = errors.New("unsupported shape function order")
	ErrUnsupportedDimension  = errors.New("meshes with dimension greater than three are not supported")
)

// ElementData is handed to a kernel constructor for one element
type ElementData struct {
	// Index is the position of the kernel in the assembler list. It is not
	// necessarily the element ID when several meshes are assembled together.
	Index           int
	Element         *mesh.Element
	LocalMatrixSize int
	Shape           shape.Type
	// LowerShape is the linear shape function on the same geometry, used by the
	// lower order field of mixed formulations.
	LowerShape  shape.Type
	Integration *integration.Method
	GlobalDim   int
}

// Constructor builds the kernel of one element. args carries the formulation's
// extra constructor arguments and is shared by every call.
type Constructor[K, A any] func(d ElementData, args A) (K, error)

type builder struct {
	shape       shape.Type
	integration *integration.Method
}

// LocalDataInitializer maps every enabled cell type to the shape function and
// integration rule its kernels are built with. It is read-only after
// construction and safe for concurrent Instantiate calls.
type LocalDataInitializer[K, A any] struct {
	globalDim int
	dofTable  dof.Table
	ctor      Constructor[K, A]
	builders  map[element.CellType]builder
}

// NewLocalDataInitializer registers a builder for each cell type that is
// enabled, whose shape function dimension does not exceed globalDim and that is
// at least one dimensional.
func NewLocalDataInitializer[K, A any](globalDim int, dofTable dof.Table, ctor Constructor[K, A],
	opts ...Option) (*LocalDataInitializer[K, A], error) {
	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}
	if globalDim < 1 || globalDim > 3 {
		return nil, fmt.Errorf("%w: dimension %d", ErrUnsupportedDimension, globalDim)
	}
	if s.hasShapeOrder && (s.shapeOrder < 1 || s.shapeOrder > 2) {
		return nil, fmt.Errorf("%w: the given shape function order %d is not supported",
			ErrUnsupportedShapeOrder, s.shapeOrder)
	}
	rules, err := integration.NewCache(s.integrationOrder)
	if err != nil {
		return nil, err
	}

	var families []element.Family
	var familyNames []string
	for _, f := range s.families {
		if f.Compiled() {
			families = append(families, f)
			familyNames = append(familyNames, f.String())
		}
	}

	l := &LocalDataInitializer[K, A]{
		globalDim: globalDim,
		dofTable:  dofTable,
		ctor:      ctor,
		builders:  make(map[element.CellType]builder),
	}
	for _, ct := range element.AllCellTypes() {
		dim := int(ct.Dimension())
		if dim < 1 || dim > s.maxElementDim || ct.Order() > s.maxElementOrder {
			continue
		}
		if !element.Enables(families, ct) {
			continue
		}
		st, ok := shapeFor(ct, s)
		if !ok || st.Dim() > globalDim {
			continue
		}
		l.builders[ct] = builder{shape: st, integration: rules.Method(ct.Geometry())}
	}
	s.log.Debug("local data initializer",
		zap.Int("global_dim", globalDim),
		zap.Strings("families", familyNames),
		zap.Int("cell_types", len(l.builders)))
	return l, nil
}

// shapeFor picks the shape function interpolating on ct
func shapeFor(ct element.CellType, s settings) (shape.Type, bool) {
	if !s.hasShapeOrder {
		return shape.ForCellType(ct)
	}
	switch s.shapeOrder {
	case 1:
		return shape.ForCellType(ct.Linear())
	case 2:
		if !ct.IsHigherOrder() {
			return 0, false
		}
		return shape.ForCellType(ct)
	}
	return 0, false
}

// Instantiate builds the kernel for element e at assembler position localIndex.
// The local matrix size is taken from the DOF table at localIndex.
func (l *LocalDataInitializer[K, A]) Instantiate(localIndex int, e *mesh.Element, args A) (K, error) {
	b, ok := l.builders[e.Type()]
	if !ok {
		var zero K
		return zero, fmt.Errorf("you are trying to build a local assembler for an unknown mesh element type (%s): %w; "+
			"maybe this mesh element type is disabled in the build configuration, "+
			"or the mesh element order does not match the shape function order",
			e.Type(), ErrUnknownElementType)
	}
	return l.ctor(ElementData{
		Index:           localIndex,
		Element:         e,
		LocalMatrixSize: l.dofTable.NumberOfElementDOF(localIndex),
		Shape:           b.shape,
		LowerShape:      b.shape.Lower(),
		Integration:     b.integration,
		GlobalDim:       l.globalDim,
	}, args)
}

// ShapeFunction reports the shape function registered for ct
func (l *LocalDataInitializer[K, A]) ShapeFunction(ct element.CellType) (shape.Type, bool) {
	b, ok := l.builders[ct]
	return b.shape, ok
}

// CellTypes lists the registered cell types in tag order
func (l *LocalDataInitializer[K, A]) CellTypes() []element.CellType {
	out := make([]element.CellType, 0, len(l.builders))
	for ct := range l.builders {
		out = append(out, ct)
	}
	slices.Sort(out)
	return out
}
