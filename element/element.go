package element

import (
	"fmt"
	"strings"
)

// Dimensionality represents the topological dimension of an element
type Dimensionality uint8

const (
	D0 Dimensionality = iota // 0D elements (points)
	D1                       // 1D elements (lines, edges)
	D2                       // 2D elements (triangles, quadrilaterals)
	D3                       // 3D elements (tetrahedra, hexahedra, etc.)
)

// Geometry identifies the linear shape underlying a cell type
type Geometry uint8

const (
	// 3D element geometries
	TetGeometry     Geometry = iota // Tetrahedron
	HexGeometry                     // Hexahedron
	PrismGeometry                   // Triangular prism
	PyramidGeometry                 // Square-based pyramid

	// 2D element geometries
	TriGeometry  // Triangle
	QuadGeometry // Quadrilateral

	// 1D / 0D element geometries
	LineGeometry  // Line segment
	PointGeometry // Single vertex
)

func (g Geometry) String() string {
	switch g {
	case TetGeometry:
		return "tet"
	case HexGeometry:
		return "hex"
	case PrismGeometry:
		return "prism"
	case PyramidGeometry:
		return "pyramid"
	case TriGeometry:
		return "tri"
	case QuadGeometry:
		return "quad"
	case LineGeometry:
		return "line"
	case PointGeometry:
		return "point"
	}
	return fmt.Sprintf("Geometry(%d)", uint8(g))
}

// CellType is the closed set of concrete element shapes. Shape specific behavior
// is looked up in a dispatch table keyed by the tag.
type CellType uint8

const (
	Point CellType = iota
	Line
	Line3
	Tri
	Tri6
	Quad
	Quad8
	Quad9
	Tet
	Tet10
	Hex
	Hex20
	Prism
	Prism15
	Pyramid
	Pyramid13

	numCellTypes
)

// Properties contains the metadata describing a cell type
type Properties struct {
	Name         string         // Full descriptive name (e.g., "Quadratic Tetrahedron")
	ShortName    string         // Abbreviated name (e.g., "Tet10")
	Geometry     Geometry       // Linear shape
	Order        int            // Interpolation order of the node set (1 or 2)
	NumNodes     int            // Total number of nodes
	NumBaseNodes int            // Corner nodes; the leading NumBaseNodes entries of the node list
	NumEdges     int            // Number of edges
	Dimension    Dimensionality // Topological dimension

	// Faces holds, per neighbor slot, the local indices of the base nodes spanning
	// the (d-1)-dimensional face: end points for lines, edges for 2D cells.
	Faces [][]int
	// Edges holds the base-node end points of every edge. Higher order cells place
	// their mid-edge nodes in this order right after the base nodes.
	Edges [][2]int
	// Linear is the cell type built from the base nodes alone.
	Linear CellType
	// Reference holds the node coordinates in reference space.
	Reference [][3]float64
}

// NumFaces returns the number of neighbor slots
func (p *Properties) NumFaces() int { return len(p.Faces) }

var cellTable [numCellTypes]Properties

// Props returns the dispatch table entry for t. Cell types form a closed set, so an
// unknown value is a programming error.
func (t CellType) Props() *Properties {
	if t >= numCellTypes {
		panic(fmt.Sprintf("unknown cell type %d", uint8(t)))
	}
	return &cellTable[t]
}

func (t CellType) String() string {
	if t >= numCellTypes {
		return fmt.Sprintf("CellType(%d)", uint8(t))
	}
	return cellTable[t].ShortName
}

func (t CellType) Valid() bool { return t < numCellTypes }
func (t CellType) Dimension() Dimensionality { return t.Props().Dimension }
func (t CellType) NumNodes() int { return t.Props().NumNodes }
func (t CellType) NumBaseNodes() int { return t.Props().NumBaseNodes }
func (t CellType) NumFaces() int { return len(t.Props().Faces) }
func (t CellType) Order() int { return t.Props().Order }
func (t CellType) Geometry() Geometry { return t.Props().Geometry }
func (t CellType) Linear() CellType { return t.Props().Linear }
func (t CellType) IsHigherOrder() bool { return t.Props().NumNodes != t.Props().NumBaseNodes }
func (t CellType) Faces() [][]int { return t.Props().Faces }
func (t CellType) Edges() [][2]int { return t.Props().Edges }
func (t CellType) ReferenceCoords() [][3]float64 { return t.Props().Reference }

// AllCellTypes lists every cell type in tag order
func AllCellTypes() []CellType {
	types := make([]CellType, numCellTypes)
	for i := range types {
		types[i] = CellType(i)
	}
	return types
}

// ParseCellType resolves a short name such as "tet10" (case insensitive)
func ParseCellType(name string) (CellType, error) {
	for i := range cellTable {
		if strings.EqualFold(cellTable[i].ShortName, name) {
			return CellType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cell type %q", name)
}
