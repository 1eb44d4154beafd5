// Package meshgen builds structured meshes on lines, rectangles and boxes
package meshgen

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

// Spec describes a structured mesh. Divisions and Size are read up to the
// dimension of Cell.
type Spec struct {
	Name      string
	Cell      element.CellType
	Divisions [3]int
	Size      [3]float64
	Origin    r3.Vec
}

// Generate builds the mesh described by s. Quadratic cell types are produced by
// generating the linear mesh first and inserting mid-edge nodes.
func Generate(f *mesh.Factory, s Spec) (*mesh.Mesh, error) {
	if !s.Cell.Valid() {
		return nil, fmt.Errorf("meshgen: invalid cell type %d", s.Cell)
	}
	dim := int(s.Cell.Dimension())
	if dim == 0 {
		return nil, fmt.Errorf("meshgen: cannot generate %s meshes", s.Cell)
	}
	for d := 0; d < dim; d++ {
		if s.Divisions[d] < 1 {
			return nil, fmt.Errorf("meshgen: %d divisions along axis %d", s.Divisions[d], d)
		}
		if !(s.Size[d] > 0) {
			return nil, fmt.Errorf("meshgen: non-positive size %g along axis %d", s.Size[d], d)
		}
	}

	linearName := s.Name
	if s.Cell.IsHigherOrder() {
		linearName = s.Name + "_linear"
	}
	g := newGrid(s, dim)
	var elements []*mesh.Element
	switch s.Cell.Linear() {
	case element.Line:
		elements = g.lines()
	case element.Quad:
		elements = g.quads()
	case element.Tri:
		elements = g.triangles()
	case element.Hex:
		elements = g.hexes()
	case element.Tet:
		elements = g.tets()
	case element.Prism:
		elements = g.prisms()
	case element.Pyramid:
		elements = g.pyramids()
	default:
		return nil, fmt.Errorf("meshgen: unsupported cell type %s", s.Cell)
	}
	m, err := f.New(linearName, g.nodes, elements, nil, len(g.nodes))
	if err != nil {
		return nil, fmt.Errorf("meshgen: %w", err)
	}
	if !s.Cell.IsHigherOrder() {
		return m, nil
	}
	return Elevate(f, m, s.Name, s.Cell == element.Quad9)
}

// grid holds the lattice points of a structured mesh
type grid struct {
	n     [3]int
	nodes []*mesh.Node
}

func newGrid(s Spec, dim int) *grid {
	g := &grid{}
	for d := 0; d < 3; d++ {
		if d < dim {
			g.n[d] = s.Divisions[d]
		}
	}
	for k := 0; k <= g.n[2]; k++ {
		for j := 0; j <= g.n[1]; j++ {
			for i := 0; i <= g.n[0]; i++ {
				p := s.Origin
				if g.n[0] > 0 {
					p.X += s.Size[0] * float64(i) / float64(g.n[0])
				}
				if g.n[1] > 0 {
					p.Y += s.Size[1] * float64(j) / float64(g.n[1])
				}
				if g.n[2] > 0 {
					p.Z += s.Size[2] * float64(k) / float64(g.n[2])
				}
				g.nodes = append(g.nodes, mesh.NewNodeAt(p))
			}
		}
	}
	return g
}

func (g *grid) id(i, j, k int) int { return (k*(g.n[1]+1)+j)*(g.n[0]+1) + i }

// quad returns the counter-clockwise corners of lattice cell (i,j) at layer k
func (g *grid) quad(i, j, k int) [4]int {
	return [4]int{g.id(i, j, k), g.id(i+1, j, k), g.id(i+1, j+1, k), g.id(i, j+1, k)}
}

// hex returns the corners of lattice cell (i,j,k) in reference order
func (g *grid) hex(i, j, k int) [8]int {
	b, t := g.quad(i, j, k), g.quad(i, j, k+1)
	return [8]int{b[0], b[1], b[2], b[3], t[0], t[1], t[2], t[3]}
}

func (g *grid) lines() []*mesh.Element {
	out := make([]*mesh.Element, 0, g.n[0])
	for i := 0; i < g.n[0]; i++ {
		out = append(out, mesh.MustElement(element.Line, i, i+1))
	}
	return out
}

func (g *grid) quads() []*mesh.Element {
	var out []*mesh.Element
	for j := 0; j < g.n[1]; j++ {
		for i := 0; i < g.n[0]; i++ {
			q := g.quad(i, j, 0)
			out = append(out, mesh.MustElement(element.Quad, q[:]...))
		}
	}
	return out
}

func (g *grid) triangles() []*mesh.Element {
	var out []*mesh.Element
	for j := 0; j < g.n[1]; j++ {
		for i := 0; i < g.n[0]; i++ {
			q := g.quad(i, j, 0)
			out = append(out,
				mesh.MustElement(element.Tri, q[0], q[1], q[2]),
				mesh.MustElement(element.Tri, q[0], q[2], q[3]))
		}
	}
	return out
}

func (g *grid) hexes() []*mesh.Element {
	var out []*mesh.Element
	for k := 0; k < g.n[2]; k++ {
		for j := 0; j < g.n[1]; j++ {
			for i := 0; i < g.n[0]; i++ {
				h := g.hex(i, j, k)
				out = append(out, mesh.MustElement(element.Hex, h[:]...))
			}
		}
	}
	return out
}

// kuhn lists the six tetrahedra of a cube along its 0-6 diagonal. Every cell
// uses the same split, so shared faces are cut along the same diagonal.
var kuhn = [6][4]int{
	{0, 1, 2, 6}, {0, 2, 3, 6}, {0, 3, 7, 6}, {0, 7, 4, 6}, {0, 4, 5, 6}, {0, 5, 1, 6},
}

func (g *grid) tets() []*mesh.Element {
	var out []*mesh.Element
	for k := 0; k < g.n[2]; k++ {
		for j := 0; j < g.n[1]; j++ {
			for i := 0; i < g.n[0]; i++ {
				h := g.hex(i, j, k)
				for _, t := range kuhn {
					ids := []int{h[t[0]], h[t[1]], h[t[2]], h[t[3]]}
					if g.signedVolume(ids) < 0 {
						ids[1], ids[2] = ids[2], ids[1]
					}
					out = append(out, mesh.MustElement(element.Tet, ids...))
				}
			}
		}
	}
	return out
}

func (g *grid) signedVolume(ids []int) float64 {
	a := g.nodes[ids[0]].Coords()
	return r3.Dot(r3.Sub(g.nodes[ids[1]].Coords(), a),
		r3.Cross(r3.Sub(g.nodes[ids[2]].Coords(), a), r3.Sub(g.nodes[ids[3]].Coords(), a)))
}

func (g *grid) prisms() []*mesh.Element {
	var out []*mesh.Element
	for k := 0; k < g.n[2]; k++ {
		for j := 0; j < g.n[1]; j++ {
			for i := 0; i < g.n[0]; i++ {
				b, t := g.quad(i, j, k), g.quad(i, j, k+1)
				out = append(out,
					mesh.MustElement(element.Prism, b[0], b[1], b[2], t[0], t[1], t[2]),
					mesh.MustElement(element.Prism, b[0], b[2], b[3], t[0], t[2], t[3]))
			}
		}
	}
	return out
}

// pyramids splits every lattice cell into six pyramids sharing a new node at
// the cell centre. Each hex face becomes a pyramid base oriented towards the apex.
func (g *grid) pyramids() []*mesh.Element {
	hexFaces := element.Hex.Faces()
	var out []*mesh.Element
	for k := 0; k < g.n[2]; k++ {
		for j := 0; j < g.n[1]; j++ {
			for i := 0; i < g.n[0]; i++ {
				h := g.hex(i, j, k)
				var c r3.Vec
				for _, id := range h {
					c = r3.Add(c, g.nodes[id].Coords())
				}
				apex := len(g.nodes)
				g.nodes = append(g.nodes, mesh.NewNodeAt(r3.Scale(1.0/8, c)))
				for _, f := range hexFaces {
					out = append(out, mesh.MustElement(element.Pyramid,
						h[f[3]], h[f[2]], h[f[1]], h[f[0]], apex))
				}
			}
		}
	}
	return out
}
