package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

var generateLinear bool

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the configured mesh and report its topology",
		Long: `Generate the structured mesh described by the mesh section, check its
invariants and print node, element and quality statistics.`,
		RunE: runGenerate,
	}
	cmd.Flags().BoolVar(&generateLinear, "linear", false, "also report the linear mesh of a quadratic one")
	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	f, m, err := generateMesh()
	if err != nil {
		return err
	}
	if err := mesh.Validate(m); err != nil {
		return fmt.Errorf("generated mesh is inconsistent: %w", err)
	}
	out := cmd.OutOrStdout()
	printSummary(cmd, m)

	quality, err := mesh.AddSizeDifferenceProperty(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "size difference: min %.4f\n", floats.Min(quality.Data()))

	if generateLinear && m.IsNonlinear() {
		lin, err := f.ConvertToLinearMesh(m, m.Name()+"_linear")
		if err != nil {
			return err
		}
		printSummary(cmd, lin)
	}
	return nil
}

func printSummary(cmd *cobra.Command, m *mesh.Mesh) {
	out := cmd.OutOrStdout()
	content := make([]float64, m.NumberOfElements())
	for i, e := range m.Elements() {
		content[i] = m.ElementContent(e)
	}
	fmt.Fprintf(out, "mesh %q (dimension %d)\n", m.Name(), m.Dimension())
	fmt.Fprintf(out, "  nodes: %d (%d base)\n", m.NumberOfNodes(), m.NumberOfBaseNodes())
	fmt.Fprintf(out, "  elements: %d\n", m.NumberOfElements())
	fmt.Fprintf(out, "  edge length: [%g, %g]\n", m.MinEdgeLength(), m.MaxEdgeLength())
	fmt.Fprintf(out, "  content: %g\n", floats.Sum(content))
	fmt.Fprintf(out, "  connected components: %d\n", len(mesh.ConnectedComponents(m)))
	fmt.Fprintf(out, "  max connected nodes: %d\n", m.MaximumConnectedNodes())
}
