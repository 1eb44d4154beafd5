package mesh

// SizeDifferenceName is the cell property written by AddSizeDifferenceProperty
const SizeDifferenceName = "size_difference"

// SizeDifferenceMetric rates every element by the smallest ratio of smaller to
// larger content over its neighbors. 1 means all neighbors have the same size,
// elements without neighbors score 1.
func SizeDifferenceMetric(m *Mesh) []float64 {
	content := make([]float64, len(m.elements))
	for i, e := range m.elements {
		content[i] = m.ElementContent(e)
	}
	quality := make([]float64, len(m.elements))
	for i, e := range m.elements {
		q := 1.0
		for _, nb := range e.neighbors {
			if nb == NoNeighbor {
				continue
			}
			a, b := content[i], content[nb]
			lo, hi := min(a, b), max(a, b)
			if hi == 0 {
				continue
			}
			q = min(q, lo/hi)
		}
		quality[i] = q
	}
	return quality
}

// AddSizeDifferenceProperty stores SizeDifferenceMetric as a cell property,
// replacing an existing one.
func AddSizeDifferenceProperty(m *Mesh) (*PropertyVector[float64], error) {
	m.props.Remove(SizeDifferenceName)
	return AddPropertyToMesh(m, SizeDifferenceName, ItemCell, 1, SizeDifferenceMetric(m))
}
