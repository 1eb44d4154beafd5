package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiasMeisel/ogs-taurus/element"
)

func execute(t *testing.T, yaml string, args ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ogsmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", path, "--log-level", "error"}, args...))
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

var contentRe = regexp.MustCompile(`domain content (\S+)`)

func domainContent(t *testing.T, out string) float64 {
	t.Helper()
	m := contentRe.FindStringSubmatch(out)
	require.NotNil(t, m, out)
	v, err := strconv.ParseFloat(m[1], 64)
	require.NoError(t, err)
	return v
}

const unitSquare = `
mesh:
  cell: Quad8
  divisions: [4, 3]
  size: [2, 1.5]
`

func TestGenerateCommand(t *testing.T) {
	out := execute(t, unitSquare, "generate", "--linear")
	t.Log(out)
	assert.Contains(t, out, "elements: 12")
	assert.Contains(t, out, "nodes: 51 (20 base)")
	assert.Contains(t, out, "connected components: 1")
	assert.Contains(t, out, "size difference: min 1.0000")
	// linear summary
	assert.Contains(t, out, "nodes: 20 (20 base)")
}

func TestPartitionCommand(t *testing.T) {
	out := execute(t, unitSquare, "partition", "-n", "3", "--strategy", "block")
	t.Log(out)
	assert.Contains(t, out, "3 partitions, imbalance 1.000")
	assert.Regexp(t, `(?m)^0\s+4\s+`, out)
}

func TestAssembleCommand(t *testing.T) {
	tests := []struct {
		name string
		cell element.CellType
		yaml string
		args []string
		want float64
	}{
		{"serial", element.Quad8, unitSquare, nil, 3},
		{"partitioned", element.Quad8, unitSquare, []string{"--partitioned"}, 3},
		{"linear shape", element.Quad8, unitSquare + "assembly:\n  shape_order: 1\n", nil, 3},
		{"hexahedra", element.Hex20, "mesh:\n  cell: Hex20\n  divisions: [2, 2, 2]\n  size: [1, 2, 3]\npartition:\n  strategy: morton\n",
			[]string{"--partitioned"}, 6},
		{"pyramids", element.Pyramid, "mesh:\n  cell: Pyramid5\n  divisions: [2, 1, 1]\n", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.cell.IsCompiled() {
				t.Skipf("%s is disabled in the build configuration", tt.cell)
			}
			out := execute(t, tt.yaml, append([]string{"assemble"}, tt.args...)...)
			assert.InDelta(t, tt.want, domainContent(t, out), 1e-10)
		})
	}
}

func TestExcludedFamilyFailsAssembly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ogsmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(unitSquare+"elements:\n  families: [simplex]\n"), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "--log-level", "error", "assemble"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quad8")
}
