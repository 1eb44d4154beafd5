package mesh

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks the structural invariants of m and returns every violation
// found, joined. Node adjacency is only checked on nodes that have it.
func Validate(m *Mesh) error {
	var errs []error
	report := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if m.nBaseNodes > len(m.nodes) {
		report("%d base nodes exceed %d nodes", m.nBaseNodes, len(m.nodes))
	}
	for i, n := range m.nodes {
		if n.id != i {
			report("node at position %d has ID %d", i, n.id)
		}
	}
	for i, e := range m.elements {
		if e.id != i {
			report("element at position %d has ID %d", i, e.id)
		}
		for _, n := range e.nodes {
			if n < 0 || n >= len(m.nodes) {
				report("element %d references node %d outside the mesh", i, n)
			} else if !slices.Contains(m.nodes[n].elements, i) {
				report("node %d does not list incident element %d", n, i)
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, e := range m.elements {
		for k, nb := range e.neighbors {
			if nb == NoNeighbor {
				continue
			}
			back := 0
			for _, x := range m.elements[nb].neighbors {
				if x == e.id {
					back++
				}
			}
			if back != 1 {
				report("element %d face %d points to %d, which points back %d times", e.id, k, nb, back)
				continue
			}
			if m.elements[nb].faceIndex(e.FaceNodeIDs(k)) < 0 {
				report("element %d face %d is not a face of neighbor %d", e.id, k, nb)
			}
		}
	}

	for _, n := range m.nodes {
		if len(n.connected) == 0 {
			continue
		}
		var want []int
		for _, eid := range n.elements {
			want = append(want, m.elements[eid].nodes...)
		}
		slices.Sort(want)
		want = slices.Compact(want)
		if !slices.Equal(want, n.connected) {
			report("node %d connected nodes %v, want %v", n.id, n.connected, want)
		}
	}

	if err := m.props.checkSizes(len(m.nodes), len(m.elements)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
