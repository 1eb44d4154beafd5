package element

// Corner coordinates of the reference cells. Simplices live on the unit simplex,
// tensor cells on [-1,1]^d, prisms on (unit triangle) x [-1,1] and pyramids on a
// [-1,1]^2 base at t=-1 with the apex at t=1.
var (
	lineCorners = [][3]float64{{-1, 0, 0}, {1, 0, 0}}
	triCorners  = [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	quadCorners = [][3]float64{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	tetCorners  = [][3]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	hexCorners  = [][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	prismCorners = [][3]float64{
		{0, 0, -1}, {1, 0, -1}, {0, 1, -1},
		{0, 0, 1}, {1, 0, 1}, {0, 1, 1},
	}
	pyramidCorners = [][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1}, {0, 0, 1},
	}
)

var (
	lineEdges = [][2]int{{0, 1}}
	triEdges  = [][2]int{{0, 1}, {1, 2}, {2, 0}}
	quadEdges = [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	tetEdges  = [][2]int{{0, 1}, {1, 2}, {0, 2}, {0, 3}, {1, 3}, {2, 3}}
	hexEdges  = [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {0, 3},
		{4, 5}, {5, 6}, {6, 7}, {4, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	prismEdges = [][2]int{
		{0, 1}, {1, 2}, {0, 2},
		{3, 4}, {4, 5}, {3, 5},
		{0, 3}, {1, 4}, {2, 5},
	}
	pyramidEdges = [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {0, 3},
		{0, 4}, {1, 4}, {2, 4}, {3, 4},
	}
)

var (
	lineFaces    = [][]int{{0}, {1}}
	triFaces     = [][]int{{0, 1}, {1, 2}, {2, 0}}
	quadFaces    = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
	tetFaces     = [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {2, 0, 3}}
	hexFaces     = [][]int{{0, 3, 2, 1}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}, {4, 5, 6, 7}}
	prismFaces   = [][]int{{0, 2, 1}, {0, 1, 4, 3}, {1, 2, 5, 4}, {2, 0, 3, 5}, {3, 4, 5}}
	pyramidFaces = [][]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}, {0, 3, 2, 1}}
)

type cellSpec struct {
	cell      CellType
	name      string
	short     string
	geometry  Geometry
	dim       Dimensionality
	corners   [][3]float64
	edges     [][2]int
	faces     [][]int
	linear    CellType
	quadratic bool // mid-edge nodes follow the corners in edge order
	center    bool // one more node at the reference centroid (Quad9)
}

var cellSpecs = []cellSpec{
	{cell: Point, name: "Point", short: "Point1", geometry: PointGeometry, dim: D0,
		corners: [][3]float64{{0, 0, 0}}, linear: Point},
	{cell: Line, name: "Linear Line", short: "Line2", geometry: LineGeometry, dim: D1,
		corners: lineCorners, edges: lineEdges, faces: lineFaces, linear: Line},
	{cell: Line3, name: "Quadratic Line", short: "Line3", geometry: LineGeometry, dim: D1,
		corners: lineCorners, edges: lineEdges, faces: lineFaces, linear: Line, quadratic: true},
	{cell: Tri, name: "Linear Triangle", short: "Tri3", geometry: TriGeometry, dim: D2,
		corners: triCorners, edges: triEdges, faces: triFaces, linear: Tri},
	{cell: Tri6, name: "Quadratic Triangle", short: "Tri6", geometry: TriGeometry, dim: D2,
		corners: triCorners, edges: triEdges, faces: triFaces, linear: Tri, quadratic: true},
	{cell: Quad, name: "Bilinear Quadrilateral", short: "Quad4", geometry: QuadGeometry, dim: D2,
		corners: quadCorners, edges: quadEdges, faces: quadFaces, linear: Quad},
	{cell: Quad8, name: "Serendipity Quadrilateral", short: "Quad8", geometry: QuadGeometry, dim: D2,
		corners: quadCorners, edges: quadEdges, faces: quadFaces, linear: Quad, quadratic: true},
	{cell: Quad9, name: "Biquadratic Quadrilateral", short: "Quad9", geometry: QuadGeometry, dim: D2,
		corners: quadCorners, edges: quadEdges, faces: quadFaces, linear: Quad, quadratic: true, center: true},
	{cell: Tet, name: "Linear Tetrahedron", short: "Tet4", geometry: TetGeometry, dim: D3,
		corners: tetCorners, edges: tetEdges, faces: tetFaces, linear: Tet},
	{cell: Tet10, name: "Quadratic Tetrahedron", short: "Tet10", geometry: TetGeometry, dim: D3,
		corners: tetCorners, edges: tetEdges, faces: tetFaces, linear: Tet, quadratic: true},
	{cell: Hex, name: "Trilinear Hexahedron", short: "Hex8", geometry: HexGeometry, dim: D3,
		corners: hexCorners, edges: hexEdges, faces: hexFaces, linear: Hex},
	{cell: Hex20, name: "Serendipity Hexahedron", short: "Hex20", geometry: HexGeometry, dim: D3,
		corners: hexCorners, edges: hexEdges, faces: hexFaces, linear: Hex, quadratic: true},
	{cell: Prism, name: "Linear Prism", short: "Prism6", geometry: PrismGeometry, dim: D3,
		corners: prismCorners, edges: prismEdges, faces: prismFaces, linear: Prism},
	{cell: Prism15, name: "Quadratic Prism", short: "Prism15", geometry: PrismGeometry, dim: D3,
		corners: prismCorners, edges: prismEdges, faces: prismFaces, linear: Prism, quadratic: true},
	{cell: Pyramid, name: "Linear Pyramid", short: "Pyramid5", geometry: PyramidGeometry, dim: D3,
		corners: pyramidCorners, edges: pyramidEdges, faces: pyramidFaces, linear: Pyramid},
	{cell: Pyramid13, name: "Quadratic Pyramid", short: "Pyramid13", geometry: PyramidGeometry, dim: D3,
		corners: pyramidCorners, edges: pyramidEdges, faces: pyramidFaces, linear: Pyramid, quadratic: true},
}

func init() {
	for _, cs := range cellSpecs {
		ref := make([][3]float64, 0, len(cs.corners)+len(cs.edges)+1)
		ref = append(ref, cs.corners...)
		order := 1
		if cs.quadratic {
			order = 2
			for _, e := range cs.edges {
				a, b := cs.corners[e[0]], cs.corners[e[1]]
				ref = append(ref, [3]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2})
			}
			if cs.center {
				ref = append(ref, centroid(cs.corners))
			}
		}
		cellTable[cs.cell] = Properties{
			Name:         cs.name,
			ShortName:    cs.short,
			Geometry:     cs.geometry,
			Order:        order,
			NumNodes:     len(ref),
			NumBaseNodes: len(cs.corners),
			NumEdges:     len(cs.edges),
			Dimension:    cs.dim,
			Faces:        cs.faces,
			Edges:        cs.edges,
			Linear:       cs.linear,
			Reference:    ref,
		}
	}
}

func centroid(pts [][3]float64) (c [3]float64) {
	for _, p := range pts {
		for i := range c {
			c[i] += p[i]
		}
	}
	for i := range c {
		c[i] /= float64(len(pts))
	}
	return
}
