package partitions

import (
	"errors"
	"fmt"
	"math"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

// ErrInvalidLayout reports an inconsistent element or node partition layout
var ErrInvalidLayout = errors.New("invalid partition layout")

// Partition is the set of elements assigned to one rank
type Partition struct {
	// Unique identifier for this partition
	ID int

	// Element membership
	Elements    []int // Global element indices in this partition, ascending
	NumElements int

	// Mixed element support
	ElementTypes []element.CellType // Type of each element
	TypeGroups   []ElementGroup     // Grouped by cell type, in tag order
}

// ElementGroup represents elements of the same cell type within a partition
type ElementGroup struct {
	CellType   element.CellType
	StartIndex int   // Position of the group when the partition is sorted by type
	Count      int   // Number of elements of this type
	NumNodes   int   // Nodes per element for this type
	LocalIDs   []int // Indices within the partition
}

// PartitionLayout manages the complete mesh decomposition
type PartitionLayout struct {
	Partitions []Partition

	// Global sizing information
	MaxElements   int // max(NumElements) across all partitions
	TotalElements int // Sum of all elements across partitions
	NumPartitions int

	// Element to partition mapping
	EToP []int // Length TotalElements: element k belongs to partition EToP[k]
}

// GetPartition returns the partition containing element k
func (pl *PartitionLayout) GetPartition(elementID int) int {
	if elementID < 0 || elementID >= len(pl.EToP) {
		return -1
	}
	return pl.EToP[elementID]
}

// ValidateLayout checks that every element belongs to exactly the partition
// EToP names for it and that the sizing information is consistent.
func (pl *PartitionLayout) ValidateLayout() error {
	if len(pl.Partitions) != pl.NumPartitions {
		return fmt.Errorf("%w: %d partitions, NumPartitions %d", ErrInvalidLayout, len(pl.Partitions), pl.NumPartitions)
	}
	if len(pl.EToP) != pl.TotalElements {
		return fmt.Errorf("%w: EToP length %d != TotalElements %d", ErrInvalidLayout, len(pl.EToP), pl.TotalElements)
	}
	seen := make([]bool, pl.TotalElements)
	actualMax, total := 0, 0
	for i, p := range pl.Partitions {
		if p.ID != i {
			return fmt.Errorf("%w: partition at %d has ID %d", ErrInvalidLayout, i, p.ID)
		}
		if p.NumElements != len(p.Elements) {
			return fmt.Errorf("%w: partition %d: NumElements %d != %d elements",
				ErrInvalidLayout, p.ID, p.NumElements, len(p.Elements))
		}
		for _, e := range p.Elements {
			if e < 0 || e >= pl.TotalElements {
				return fmt.Errorf("%w: partition %d: element %d out of range", ErrInvalidLayout, p.ID, e)
			}
			if seen[e] {
				return fmt.Errorf("%w: element %d assigned twice", ErrInvalidLayout, e)
			}
			seen[e] = true
			if pl.EToP[e] != p.ID {
				return fmt.Errorf("%w: element %d in partition %d but EToP says %d",
					ErrInvalidLayout, e, p.ID, pl.EToP[e])
			}
		}
		actualMax = max(actualMax, p.NumElements)
		total += p.NumElements
	}
	if total != pl.TotalElements {
		return fmt.Errorf("%w: partitions hold %d of %d elements", ErrInvalidLayout, total, pl.TotalElements)
	}
	if actualMax != pl.MaxElements {
		return fmt.Errorf("%w: computed MaxElements %d != stored MaxElements %d",
			ErrInvalidLayout, actualMax, pl.MaxElements)
	}
	return nil
}

// PartitionStatistics computes load balance metrics
func (pl *PartitionLayout) PartitionStatistics() PartitionStats {
	stats := PartitionStats{
		NumPartitions: pl.NumPartitions,
		MinElements:   math.MaxInt32,
		MaxElements:   0,
		AvgElements:   float64(pl.TotalElements) / float64(pl.NumPartitions),
	}

	for _, p := range pl.Partitions {
		if p.NumElements < stats.MinElements {
			stats.MinElements = p.NumElements
		}
		if p.NumElements > stats.MaxElements {
			stats.MaxElements = p.NumElements
		}
	}

	stats.Imbalance = float64(stats.MaxElements) / stats.AvgElements

	return stats
}

type PartitionStats struct {
	NumPartitions int
	MinElements   int
	MaxElements   int
	AvgElements   float64
	Imbalance     float64 // MaxElements / AvgElements
}
