package partitions

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

// PartitionBuilder constructs partitions from mesh connectivity
type PartitionBuilder struct {
	Mesh *mesh.Mesh

	// Partitioning parameters. NumPartitions wins over TargetPartitionSize
	// when both are set.
	NumPartitions       int
	TargetPartitionSize int // Desired elements per partition
	Strategy            PartitionStrategy

	Log *zap.Logger
}

// PartitionStrategy defines how elements are grouped
type PartitionStrategy int

const (
	// Simple strategies
	BlockPartition PartitionStrategy = iota // Consecutive elements
	RoundRobin                              // Distribute cyclically

	// Connectivity based strategies
	GraphPartition    // Breadth first growth over shared faces
	SpaceFillingCurve // Morton order of element centroids
)

var strategyNames = map[PartitionStrategy]string{
	BlockPartition:    "block",
	RoundRobin:        "round-robin",
	GraphPartition:    "graph",
	SpaceFillingCurve: "morton",
}

func (s PartitionStrategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("PartitionStrategy(%d)", int(s))
}

// ParseStrategy resolves a strategy by the name String returns
func ParseStrategy(name string) (PartitionStrategy, error) {
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown partition strategy %q", name)
}

// BuildPartitions creates a partition layout from mesh connectivity
func (pb *PartitionBuilder) BuildPartitions() (*PartitionLayout, error) {
	log := pb.Log
	if log == nil {
		log = zap.NewNop()
	}
	numElements := pb.Mesh.NumberOfElements()
	numPartitions, err := pb.calculateNumPartitions()
	if err != nil {
		return nil, err
	}

	eToP, err := pb.partitionElements(numPartitions)
	if err != nil {
		return nil, err
	}
	partitions := pb.createPartitions(eToP, numPartitions)

	layout := &PartitionLayout{
		Partitions:    partitions,
		MaxElements:   calculateMaxElements(partitions),
		TotalElements: numElements,
		NumPartitions: numPartitions,
		EToP:          eToP,
	}

	if err := layout.ValidateLayout(); err != nil {
		return nil, fmt.Errorf("invalid partition layout: %w", err)
	}
	stats := layout.PartitionStatistics()
	log.Debug("partitions built",
		zap.String("mesh", pb.Mesh.Name()),
		zap.Stringer("strategy", pb.Strategy),
		zap.Int("partitions", numPartitions),
		zap.Int("min_elements", stats.MinElements),
		zap.Int("max_elements", stats.MaxElements),
		zap.Float64("imbalance", stats.Imbalance))
	return layout, nil
}

// calculateNumPartitions determines the partition count
func (pb *PartitionBuilder) calculateNumPartitions() (int, error) {
	numElements := pb.Mesh.NumberOfElements()
	numPartitions := pb.NumPartitions
	if numPartitions <= 0 {
		if pb.TargetPartitionSize <= 0 {
			return 0, fmt.Errorf("%w: neither NumPartitions nor TargetPartitionSize is set", ErrInvalidLayout)
		}
		numPartitions = int(math.Ceil(float64(numElements) / float64(pb.TargetPartitionSize)))
	}

	// Ensure at least one partition
	if numPartitions < 1 {
		numPartitions = 1
	}
	if numElements > 0 && numPartitions > numElements {
		return 0, fmt.Errorf("%w: %d partitions for %d elements", ErrInvalidLayout, numPartitions, numElements)
	}
	return numPartitions, nil
}

// partitionSizes splits n elements into p nearly equal parts, larger parts first
func partitionSizes(n, p int) []int {
	sizes := make([]int, p)
	for i := range sizes {
		sizes[i] = n / p
		if i < n%p {
			sizes[i]++
		}
	}
	return sizes
}

// partitionElements assigns elements to partitions
func (pb *PartitionBuilder) partitionElements(numPartitions int) ([]int, error) {
	numElements := pb.Mesh.NumberOfElements()

	switch pb.Strategy {
	case BlockPartition:
		order := make([]int, numElements)
		for i := range order {
			order[i] = i
		}
		return assignInOrder(order, numPartitions), nil

	case RoundRobin:
		// Distribute elements cyclically
		eToP := make([]int, numElements)
		for i := 0; i < numElements; i++ {
			eToP[i] = i % numPartitions
		}
		return eToP, nil

	case GraphPartition:
		return pb.growPartitions(numPartitions), nil

	case SpaceFillingCurve:
		return assignInOrder(mortonOrder(pb.Mesh), numPartitions), nil
	}
	return nil, fmt.Errorf("unknown partition strategy %s", pb.Strategy)
}

// assignInOrder hands out consecutive runs of order to the partitions
func assignInOrder(order []int, numPartitions int) []int {
	eToP := make([]int, len(order))
	sizes := partitionSizes(len(order), numPartitions)
	p, count := 0, 0
	for _, e := range order {
		for count == sizes[p] {
			p++
			count = 0
		}
		eToP[e] = p
		count++
	}
	return eToP
}

// growPartitions fills one partition at a time by breadth first search over the
// element dual graph, restarting from the lowest unassigned element when a
// region is exhausted.
func (pb *PartitionBuilder) growPartitions(numPartitions int) []int {
	g := mesh.ElementGraph(pb.Mesh)
	numElements := pb.Mesh.NumberOfElements()
	sizes := partitionSizes(numElements, numPartitions)

	eToP := make([]int, numElements)
	for i := range eToP {
		eToP[i] = -1
	}
	part, count := 0, 0
	for seed := 0; seed < numElements; seed++ {
		if eToP[seed] >= 0 {
			continue
		}
		// The walk's current element is already assigned, so either end
		// being free means the far end is.
		bf := traverse.BreadthFirst{
			Traverse: func(e graph.Edge) bool { return eToP[e.From().ID()] < 0 || eToP[e.To().ID()] < 0 },
		}
		bf.Walk(g, g.Node(int64(seed)), func(n graph.Node, _ int) bool {
			eToP[n.ID()] = part
			count++
			if count == sizes[part] {
				part++
				count = 0
				return true
			}
			return false
		})
	}
	return eToP
}

// mortonOrder sorts elements along a Z-order curve through their centroids
func mortonOrder(m *mesh.Mesh) []int {
	n := m.NumberOfElements()
	centroids := make([][3]float64, n)
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i, e := range m.Elements() {
		c := m.ElementCentroid(e)
		centroids[i] = [3]float64{c.X, c.Y, c.Z}
		for d := 0; d < 3; d++ {
			lo[d] = min(lo[d], centroids[i][d])
			hi[d] = max(hi[d], centroids[i][d])
		}
	}

	const bits = 21
	const scale = 1<<bits - 1
	keys := make([]uint64, n)
	for i, c := range centroids {
		var q [3]uint64
		for d := 0; d < 3; d++ {
			if hi[d] > lo[d] {
				q[d] = uint64((c[d] - lo[d]) / (hi[d] - lo[d]) * scale)
			}
		}
		keys[i] = interleave(q)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(keys[a], keys[b]) })
	return order
}

// interleave spreads the low 21 bits of each coordinate into a 63 bit key
func interleave(q [3]uint64) uint64 {
	var key uint64
	for b := 0; b < 21; b++ {
		for d := 0; d < 3; d++ {
			key |= (q[d] >> b & 1) << (3*b + d)
		}
	}
	return key
}

// createPartitions builds partition structures from element assignments
func (pb *PartitionBuilder) createPartitions(eToP []int, numPartitions int) []Partition {
	partitions := make([]Partition, numPartitions)

	// Initialize partitions
	for i := range partitions {
		partitions[i] = Partition{
			ID:           i,
			Elements:     make([]int, 0),
			ElementTypes: make([]element.CellType, 0),
		}
	}

	// Assign elements to partitions
	for elem, part := range eToP {
		partitions[part].Elements = append(partitions[part].Elements, elem)
		partitions[part].ElementTypes = append(partitions[part].ElementTypes,
			pb.Mesh.Element(elem).Type())
		partitions[part].NumElements++
	}

	// Create element groups for mixed meshes
	for i := range partitions {
		partitions[i].TypeGroups = createElementGroups(&partitions[i])
	}

	return partitions
}

// createElementGroups organizes elements by type within a partition
func createElementGroups(p *Partition) []ElementGroup {
	if len(p.ElementTypes) == 0 {
		return nil
	}

	// Collect elements by type
	byType := make(map[element.CellType][]int)
	for i, t := range p.ElementTypes {
		byType[t] = append(byType[t], i)
	}
	types := make([]element.CellType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	slices.Sort(types)

	groups := make([]ElementGroup, 0, len(types))
	currentIndex := 0
	for _, t := range types {
		indices := byType[t]
		groups = append(groups, ElementGroup{
			CellType:   t,
			StartIndex: currentIndex,
			Count:      len(indices),
			NumNodes:   t.NumNodes(),
			LocalIDs:   indices,
		})
		currentIndex += len(indices)
	}

	return groups
}

// calculateMaxElements finds maximum elements across all partitions
func calculateMaxElements(partitions []Partition) int {
	maxElements := 0
	for _, p := range partitions {
		if p.NumElements > maxElements {
			maxElements = p.NumElements
		}
	}
	return maxElements
}
