package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TobiasMeisel/ogs-taurus/mesh"
	"github.com/TobiasMeisel/ogs-taurus/partitions"
)

func newPartitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Decompose the configured mesh into node partitioned meshes",
		Long: `Partition the elements of the generated mesh with the configured strategy,
build one node partitioned mesh per partition and verify the ghost node exchange.`,
		RunE: runPartition,
	}
	cmd.Flags().IntP("count", "n", 0, "number of partitions, overrides partition.count")
	cmd.Flags().String("strategy", "", "block, round-robin, graph or morton, overrides partition.strategy")
	return cmd
}

func runPartition(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("count") {
		cfg.Partition.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Partition.Strategy, _ = cmd.Flags().GetString("strategy")
	}
	f, m, err := generateMesh()
	if err != nil {
		return err
	}
	d, err := decompose(f, m)
	if err != nil {
		return err
	}
	gc, err := partitions.NewGhostConnector(d)
	if err != nil {
		return err
	}
	if err := gc.Verify(); err != nil {
		return fmt.Errorf("ghost exchange pattern: %w", err)
	}
	if err := checkExchange(gc, d); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	stats := d.Layout.PartitionStatistics()
	fmt.Fprintf(out, "%d partitions, imbalance %.3f\n", stats.NumPartitions, stats.Imbalance)
	fmt.Fprintf(out, "%-4s %8s %12s %12s %12s %12s\n", "rank", "elements", "active base", "active extra", "ghost base", "ghost extra")
	for i, pm := range d.Meshes {
		l := pm.Layout()
		fmt.Fprintf(out, "%-4d %8d %12d %12d %12d %12d\n",
			i, pm.NumberOfElements(), l.ActiveBase, l.ActiveExtra, l.GhostBase, l.GhostExtra)
	}
	return nil
}

func decompose(f *mesh.Factory, m *mesh.Mesh) (*partitions.Decomposition, error) {
	strategy, err := cfg.PartitionStrategy()
	if err != nil {
		return nil, err
	}
	pb := &partitions.PartitionBuilder{
		Mesh:                m,
		NumPartitions:       cfg.Partition.Count,
		TargetPartitionSize: cfg.Partition.TargetSize,
		Strategy:            strategy,
		Log:                 log,
	}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return nil, err
	}
	return partitions.PartitionMesh(f, m, layout)
}

// checkExchange fills active nodes with their global IDs and expects every
// ghost node to receive its own global ID.
func checkExchange(gc *partitions.GhostConnector, d *partitions.Decomposition) error {
	values := make([][]float64, len(d.Meshes))
	for p, pm := range d.Meshes {
		values[p] = make([]float64, pm.NumberOfNodes())
		for id := 0; id < pm.NumberOfActiveNodes(); id++ {
			values[p][id] = float64(pm.GlobalNodeID(id))
		}
	}
	if err := gc.Exchange(values); err != nil {
		return err
	}
	ghosts := 0
	for p, pm := range d.Meshes {
		for id := pm.NumberOfActiveNodes(); id < pm.NumberOfNodes(); id++ {
			if values[p][id] != float64(pm.GlobalNodeID(id)) {
				return fmt.Errorf("partition %d: ghost node %d received %g, want %d",
					p, id, values[p][id], pm.GlobalNodeID(id))
			}
			ghosts++
		}
	}
	log.Debug("ghost exchange verified", zap.Int("ghost_nodes", ghosts))
	return nil
}
