package partitions

import (
	"fmt"
)

// GhostConnector manages pick and place indices that copy active node values of
// the owning partition into the ghost nodes of every partition that uses them.
type GhostConnector struct {
	NumPartitions int

	// Local node counts per partition
	NumActive []int
	NumNodes  []int

	// Pick/Place indices per partition
	PickIndices  [][]PickBuffer  // [sourcePartition][targetPartition]
	PlaceIndices [][]PlaceBuffer // [targetPartition][sourcePartition]
}

// PickBuffer contains indices for gathering values to send
type PickBuffer struct {
	Indices         []int // Local active node IDs in the source partition
	TargetPartition int
}

// PlaceBuffer contains indices for scattering received values
type PlaceBuffer struct {
	Indices         []int // Local ghost node IDs in the target partition
	SourcePartition int
}

// NewGhostConnector builds the exchange pattern of a decomposition
func NewGhostConnector(d *Decomposition) (*GhostConnector, error) {
	np := len(d.Meshes)
	if np == 0 {
		return nil, fmt.Errorf("%w: decomposition has no partitions", ErrInvalidLayout)
	}
	gc := &GhostConnector{
		NumPartitions: np,
		NumActive:     make([]int, np),
		NumNodes:      make([]int, np),
	}

	// Global node to local active node of its owner
	globalToActive := make(map[int]int)
	for p, m := range d.Meshes {
		gc.NumActive[p] = m.NumberOfActiveNodes()
		gc.NumNodes[p] = m.NumberOfNodes()
		for id := 0; id < m.NumberOfActiveNodes(); id++ {
			globalToActive[m.GlobalNodeID(id)] = id
		}
	}

	gc.initializeBuffers()

	for q, m := range d.Meshes {
		for id := m.NumberOfActiveNodes(); id < m.NumberOfNodes(); id++ {
			g := m.GlobalNodeID(id)
			p := d.NodeOwner[g]
			src, ok := globalToActive[g]
			if !ok || p == q {
				return nil, fmt.Errorf("%w: ghost node %d (global %d) of partition %d has no active owner",
					ErrInvalidLayout, id, g, q)
			}
			gc.PickIndices[p][q].Indices = append(gc.PickIndices[p][q].Indices, src)
			gc.PlaceIndices[q][p].Indices = append(gc.PlaceIndices[q][p].Indices, id)
		}
	}
	return gc, nil
}

// initializeBuffers creates empty pick and place buffer structures
func (gc *GhostConnector) initializeBuffers() {
	gc.PickIndices = make([][]PickBuffer, gc.NumPartitions)
	gc.PlaceIndices = make([][]PlaceBuffer, gc.NumPartitions)

	for p := 0; p < gc.NumPartitions; p++ {
		gc.PickIndices[p] = make([]PickBuffer, gc.NumPartitions)
		gc.PlaceIndices[p] = make([]PlaceBuffer, gc.NumPartitions)

		for q := 0; q < gc.NumPartitions; q++ {
			gc.PickIndices[p][q] = PickBuffer{TargetPartition: q}
			gc.PlaceIndices[p][q] = PlaceBuffer{SourcePartition: q}
		}
	}
}

// GetPickIndices returns pick indices for sending from source to target partition
func (gc *GhostConnector) GetPickIndices(sourcePartition, targetPartition int) []int {
	if sourcePartition < 0 || sourcePartition >= gc.NumPartitions ||
		targetPartition < 0 || targetPartition >= gc.NumPartitions {
		return nil
	}
	return gc.PickIndices[sourcePartition][targetPartition].Indices
}

// GetPlaceIndices returns place indices for target partition receiving from source
func (gc *GhostConnector) GetPlaceIndices(targetPartition, sourcePartition int) []int {
	if targetPartition < 0 || targetPartition >= gc.NumPartitions ||
		sourcePartition < 0 || sourcePartition >= gc.NumPartitions {
		return nil
	}
	return gc.PlaceIndices[targetPartition][sourcePartition].Indices
}

// Exchange overwrites the ghost entries of values[q] with the active values of
// their owners. values[p] holds one entry per local node of partition p.
func (gc *GhostConnector) Exchange(values [][]float64) error {
	if len(values) != gc.NumPartitions {
		return fmt.Errorf("exchange: %d value arrays for %d partitions", len(values), gc.NumPartitions)
	}
	for p, v := range values {
		if len(v) != gc.NumNodes[p] {
			return fmt.Errorf("exchange: partition %d has %d values for %d nodes", p, len(v), gc.NumNodes[p])
		}
	}
	buf := make([]float64, 0)
	for p := 0; p < gc.NumPartitions; p++ {
		for q := 0; q < gc.NumPartitions; q++ {
			pick := gc.PickIndices[p][q].Indices
			if len(pick) == 0 {
				continue
			}
			buf = buf[:0]
			for _, i := range pick {
				buf = append(buf, values[p][i])
			}
			for k, i := range gc.PlaceIndices[q][p].Indices {
				values[q][i] = buf[k]
			}
		}
	}
	return nil
}

// Verify checks index validity and that every ghost node is placed exactly once
func (gc *GhostConnector) Verify() error {
	// Pick indices address active nodes
	for p := 0; p < gc.NumPartitions; p++ {
		for q := 0; q < gc.NumPartitions; q++ {
			for _, idx := range gc.PickIndices[p][q].Indices {
				if idx < 0 || idx >= gc.NumActive[p] {
					return fmt.Errorf("invalid pick index %d for partition %d (max %d)",
						idx, p, gc.NumActive[p]-1)
				}
			}
		}
	}

	// Pick and place arrays have same length
	for p := 0; p < gc.NumPartitions; p++ {
		for q := 0; q < gc.NumPartitions; q++ {
			pickLen := len(gc.PickIndices[p][q].Indices)
			placeLen := len(gc.PlaceIndices[q][p].Indices)
			if pickLen != placeLen {
				return fmt.Errorf("length mismatch: pick[%d][%d]=%d, place[%d][%d]=%d",
					p, q, pickLen, q, p, placeLen)
			}
		}
	}

	// Every ghost node is filled once, no active node is overwritten
	for q := 0; q < gc.NumPartitions; q++ {
		placed := make([]int, gc.NumNodes[q])
		for p := 0; p < gc.NumPartitions; p++ {
			for _, idx := range gc.PlaceIndices[q][p].Indices {
				if idx < gc.NumActive[q] || idx >= gc.NumNodes[q] {
					return fmt.Errorf("invalid place index %d for partition %d", idx, q)
				}
				placed[idx]++
			}
		}
		for id := gc.NumActive[q]; id < gc.NumNodes[q]; id++ {
			if placed[id] != 1 {
				return fmt.Errorf("conservation error: ghost node %d of partition %d placed %d times",
					id, q, placed[id])
			}
		}
	}
	return nil
}
