package integration

import (
	"fmt"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// DefaultOrder is the number of points per direction used when none is configured
const DefaultOrder = 2

// WeightedPoint is a quadrature point in reference coordinates
type WeightedPoint struct {
	Coords [3]float64
	Weight float64
}

// Method is a quadrature rule on the reference cell of one geometry
type Method struct {
	Geometry element.Geometry
	Order    int // points per direction
	Points   []WeightedPoint
}

func (m *Method) NumberOfPoints() int { return len(m.Points) }

func (m *Method) WeightedPoint(i int) WeightedPoint { return m.Points[i] }

// NewMethod builds the rule for geometry g with order points per direction.
// Lines, quadrilaterals and hexahedra use tensor Gauss-Legendre rules. Triangles,
// tetrahedra and pyramids use collapsed coordinates with Gauss-Jacobi rules
// absorbing the Jacobian of the collapse; prisms combine the triangle rule with a
// line rule.
func NewMethod(g element.Geometry, order int) (*Method, error) {
	if order == 0 {
		order = DefaultOrder
	}
	if order < 1 {
		return nil, fmt.Errorf("integration order %d must be positive", order)
	}
	m := &Method{Geometry: g, Order: order}
	xl, wl := GaussLegendre(order)

	switch g {
	case element.PointGeometry:
		m.Points = []WeightedPoint{{Weight: 1}}
	case element.LineGeometry:
		for i := range xl {
			m.add(wl[i], xl[i], 0, 0)
		}
	case element.QuadGeometry:
		for j := range xl {
			for i := range xl {
				m.add(wl[i]*wl[j], xl[i], xl[j], 0)
			}
		}
	case element.HexGeometry:
		for k := range xl {
			for j := range xl {
				for i := range xl {
					m.add(wl[i]*wl[j]*wl[k], xl[i], xl[j], xl[k])
				}
			}
		}
	case element.TriGeometry:
		for _, p := range triangleRule(order) {
			m.add(p.Weight, p.Coords[0], p.Coords[1], 0)
		}
	case element.PrismGeometry:
		tri := triangleRule(order)
		for k := range xl {
			for _, p := range tri {
				m.add(p.Weight*wl[k], p.Coords[0], p.Coords[1], xl[k])
			}
		}
	case element.TetGeometry:
		xb, wb := GaussJacobi(1, 0, order)
		xc, wc := GaussJacobi(2, 0, order)
		for k := range xc {
			for j := range xb {
				for i := range xl {
					a, b, c := xl[i], xb[j], xc[k]
					m.add(wl[i]*wb[j]*wc[k]/64,
						(1+a)*(1-b)*(1-c)/8,
						(1+b)*(1-c)/4,
						(1+c)/2)
				}
			}
		}
	case element.PyramidGeometry:
		xc, wc := GaussJacobi(2, 0, order)
		for k := range xc {
			for j := range xl {
				for i := range xl {
					c := xc[k]
					m.add(wl[i]*wl[j]*wc[k]/4, xl[i]*(1-c)/2, xl[j]*(1-c)/2, c)
				}
			}
		}
	default:
		return nil, fmt.Errorf("no integration rule for geometry %s", g)
	}
	return m, nil
}

func (m *Method) add(w, r, s, t float64) {
	m.Points = append(m.Points, WeightedPoint{Coords: [3]float64{r, s, t}, Weight: w})
}

// triangleRule integrates over the unit triangle (0,0),(1,0),(0,1)
func triangleRule(order int) []WeightedPoint {
	xa, wa := GaussLegendre(order)
	xb, wb := GaussJacobi(1, 0, order)
	pts := make([]WeightedPoint, 0, order*order)
	for j := range xb {
		for i := range xa {
			a, b := xa[i], xb[j]
			pts = append(pts, WeightedPoint{
				Coords: [3]float64{(1 + a) * (1 - b) / 4, (1 + b) / 2, 0},
				Weight: wa[i] * wb[j] / 8,
			})
		}
	}
	return pts
}

// Cache hands out one shared Method per geometry for a fixed order. It is filled
// on construction and read-only afterwards.
type Cache struct {
	order   int
	methods map[element.Geometry]*Method
}

func NewCache(order int) (*Cache, error) {
	c := &Cache{order: order, methods: make(map[element.Geometry]*Method)}
	for _, g := range []element.Geometry{
		element.PointGeometry, element.LineGeometry, element.TriGeometry, element.QuadGeometry,
		element.TetGeometry, element.HexGeometry, element.PrismGeometry, element.PyramidGeometry,
	} {
		m, err := NewMethod(g, order)
		if err != nil {
			return nil, err
		}
		c.methods[g] = m
	}
	return c, nil
}

func (c *Cache) Method(g element.Geometry) *Method { return c.methods[g] }
