package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/TobiasMeisel/ogs-taurus/assembly"
	"github.com/TobiasMeisel/ogs-taurus/dof"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

var assemblePartitioned bool

func newAssembleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Create local assemblers for every element and assemble a mass vector",
		Long: `Create one local assembler per element of the generated mesh, integrate the
element mass matrices and assemble the lumped mass vector. Its sum equals the
content of the domain.`,
		RunE: runAssemble,
	}
	cmd.Flags().BoolVar(&assemblePartitioned, "partitioned", false, "assemble every partition of the decomposition separately")
	return cmd
}

func runAssemble(cmd *cobra.Command, args []string) error {
	f, m, err := generateMesh()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !assemblePartitioned {
		total, nDOF, err := assembleMass(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d unknowns, domain content %g\n", nDOF, total)
		return nil
	}

	d, err := decompose(f, m)
	if err != nil {
		return err
	}
	sum := 0.0
	for i, pm := range d.Meshes {
		total, nDOF, err := assembleMass(pm.Mesh)
		if err != nil {
			return fmt.Errorf("partition %d: %w", i, err)
		}
		fmt.Fprintf(out, "rank %d: %d unknowns, content %g\n", i, nDOF, total)
		sum += total
	}
	fmt.Fprintf(out, "domain content %g\n", sum)
	return nil
}

// assembleMass sums the lumped element mass matrices of m into a nodal vector
// and returns its total and length.
func assembleMass(m *mesh.Mesh) (float64, int, error) {
	dim := cfg.Assembly.Dimension
	if dim == 0 {
		dim = int(m.Dimension())
	}
	table, err := dof.NewNodalTable(m, dof.ByLocation,
		dof.Component{Name: "u", BaseNodesOnly: cfg.Assembly.ShapeOrder == 1})
	if err != nil {
		return 0, 0, err
	}
	opts, err := cfg.AssemblyOptions(log)
	if err != nil {
		return 0, 0, err
	}
	kernels, err := assembly.CreateLocalAssemblers(dim, m.Elements(), table, newMassKernel, m, opts...)
	if err != nil {
		return 0, 0, err
	}

	global := make([]float64, table.NumberOfDOF())
	for _, k := range kernels {
		idx := table.ElementIndices(k.data.Element.ID())
		local := k.lumped()
		if len(idx) != len(local) {
			return 0, 0, fmt.Errorf("element %d: %d unknowns for a %d node shape function",
				k.data.Element.ID(), len(idx), len(local))
		}
		for i, g := range idx {
			global[g] += local[i]
		}
	}
	log.Debug("mass vector assembled",
		zap.String("mesh", m.Name()),
		zap.Int("kernels", len(kernels)),
		zap.Int("unknowns", len(global)))
	return floats.Sum(global), len(global), nil
}
