package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TobiasMeisel/ogs-taurus/config"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
	"github.com/TobiasMeisel/ogs-taurus/meshgen"
	"github.com/TobiasMeisel/ogs-taurus/utils"
)

var (
	configPath string
	logLevel   string
	cellName   string

	cfg *config.Config
	log *zap.Logger
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ogsmesh",
		Short: "Generate, partition and assemble finite element meshes",
		Long: `ogsmesh builds structured meshes of any supported cell type, decomposes
them into node partitioned meshes and instantiates per element local assemblers.
Settings come from ogsmesh.yaml, OGSMESH_* environment variables and flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default ./ogsmesh.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides log.level")
	rootCmd.PersistentFlags().StringVar(&cellName, "cell", "", "cell type of the generated mesh, overrides mesh.cell")

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newPartitionCmd())
	rootCmd.AddCommand(newAssembleCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the run's
// logger. Every log line of one invocation carries the same run ID.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		c.Log.Level = logLevel
	}
	if cmd.Flags().Changed("cell") {
		c.Mesh.Cell = cellName
		if err := c.Validate(); err != nil {
			return err
		}
	}
	cfg = c

	if cfg.Log.Development {
		log = utils.NewDevelopmentLogger(cfg.Log.Level)
	} else {
		log = utils.NewLogger(cfg.Log.Level)
	}
	log = log.With(zap.String("run", uuid.New().String()), zap.String("command", cmd.Name()))
	return nil
}

// generateMesh builds the configured mesh with a factory logging to the run logger
func generateMesh() (*mesh.Factory, *mesh.Mesh, error) {
	spec, err := cfg.MeshSpec()
	if err != nil {
		return nil, nil, err
	}
	f := mesh.NewFactory(mesh.WithLogger(log), mesh.WithWorkers(cfg.Assembly.Workers))
	m, err := meshgen.Generate(f, spec)
	if err != nil {
		return nil, nil, err
	}
	log.Info("mesh generated",
		zap.String("mesh", m.Name()),
		zap.Stringer("cell", spec.Cell),
		zap.Int("nodes", m.NumberOfNodes()),
		zap.Int("elements", m.NumberOfElements()))
	return f, m, nil
}
