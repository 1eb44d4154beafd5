package element

// Family groups cell types that are compiled in or out together
type Family uint8

const (
	FamilySimplex Family = iota // lines, triangles, tetrahedra
	FamilyCuboid                // lines, quadrilaterals, hexahedra
	FamilyPrism                 // prisms and their triangle/quad faces
	FamilyPyramid               // pyramids and their triangle/quad faces
)

// AllFamilies lists every element family
var AllFamilies = []Family{FamilySimplex, FamilyCuboid, FamilyPrism, FamilyPyramid}

func (f Family) String() string {
	switch f {
	case FamilySimplex:
		return "simplex"
	case FamilyCuboid:
		return "cuboid"
	case FamilyPrism:
		return "prism"
	case FamilyPyramid:
		return "pyramid"
	}
	return "unknown"
}

// Compiled reports whether the family survived the build tags
func (f Family) Compiled() bool {
	switch f {
	case FamilySimplex:
		return simplexEnabled
	case FamilyCuboid:
		return cuboidEnabled
	case FamilyPrism:
		return prismEnabled
	case FamilyPyramid:
		return pyramidEnabled
	}
	return false
}

// ParseFamily resolves a family by its String() name
func ParseFamily(name string) (Family, bool) {
	for _, f := range AllFamilies {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// CompiledFamilies returns the families built into this binary
func CompiledFamilies() []Family {
	var out []Family
	for _, f := range AllFamilies {
		if f.Compiled() {
			out = append(out, f)
		}
	}
	return out
}

// Enables reports whether a cell type is usable when exactly the given families
// are switched on. Lines and points are shared by every family. Triangles are
// needed by simplices and as faces of prisms and pyramids, quadrilaterals by
// cuboids and as faces of prisms and pyramids.
func Enables(families []Family, t CellType) bool {
	has := func(want ...Family) bool {
		for _, f := range families {
			for _, w := range want {
				if f == w {
					return true
				}
			}
		}
		return false
	}
	switch t.Geometry() {
	case PointGeometry, LineGeometry:
		return true
	case TriGeometry:
		return has(FamilySimplex, FamilyPrism, FamilyPyramid)
	case QuadGeometry:
		return has(FamilyCuboid, FamilyPrism, FamilyPyramid)
	case TetGeometry:
		return has(FamilySimplex)
	case HexGeometry:
		return has(FamilyCuboid)
	case PrismGeometry:
		return has(FamilyPrism)
	case PyramidGeometry:
		return has(FamilyPyramid)
	}
	return false
}

// IsCompiled reports whether t is enabled by the families built into this binary
func (t CellType) IsCompiled() bool { return Enables(CompiledFamilies(), t) }
