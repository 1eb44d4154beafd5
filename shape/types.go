package shape

import (
	"fmt"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// Type identifies a shape function family. Each type interpolates on exactly one
// cell type.
type Type uint8

const (
	Line2 Type = iota
	Line3
	Tri3
	Tri6
	Quad4
	Quad8
	Quad9
	Tet4
	Tet10
	Hex8
	Hex20
	Prism6
	Prism15
	Pyra5
	Pyra13

	numTypes
)

var typeCells = [numTypes]element.CellType{
	Line2:   element.Line,
	Line3:   element.Line3,
	Tri3:    element.Tri,
	Tri6:    element.Tri6,
	Quad4:   element.Quad,
	Quad8:   element.Quad8,
	Quad9:   element.Quad9,
	Tet4:    element.Tet,
	Tet10:   element.Tet10,
	Hex8:    element.Hex,
	Hex20:   element.Hex20,
	Prism6:  element.Prism,
	Prism15: element.Prism15,
	Pyra5:   element.Pyramid,
	Pyra13:  element.Pyramid13,
}

var typeNames = [numTypes]string{
	"ShapeLine2", "ShapeLine3", "ShapeTri3", "ShapeTri6", "ShapeQuad4", "ShapeQuad8",
	"ShapeQuad9", "ShapeTet4", "ShapeTet10", "ShapeHex8", "ShapeHex20", "ShapePrism6",
	"ShapePrism15", "ShapePyra5", "ShapePyra13",
}

// AllTypes lists every shape function type
func AllTypes() []Type {
	out := make([]Type, numTypes)
	for i := range out {
		out[i] = Type(i)
	}
	return out
}

func (t Type) String() string {
	if t >= numTypes {
		return fmt.Sprintf("shape.Type(%d)", uint8(t))
	}
	return typeNames[t]
}

// MeshElement returns the cell type the shape function is defined on
func (t Type) MeshElement() element.CellType { return typeCells[t] }

func (t Type) Dim() int { return int(typeCells[t].Dimension()) }

func (t Type) NumNodes() int { return typeCells[t].NumNodes() }

func (t Type) Order() int { return typeCells[t].Order() }

// Lower returns the linear shape function on the same geometry. Quadratic
// formulations use it for the paired lower order field.
func (t Type) Lower() Type {
	lin, _ := ForCellType(typeCells[t].Linear())
	return lin
}

// ForCellType returns the shape function interpolating on cell type ct
func ForCellType(ct element.CellType) (Type, bool) {
	for i, c := range typeCells {
		if c == ct {
			return Type(i), true
		}
	}
	return 0, false
}
