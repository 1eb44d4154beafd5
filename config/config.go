// Package config loads the ogsmesh command configuration
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/TobiasMeisel/ogs-taurus/assembly"
	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/meshgen"
	"github.com/TobiasMeisel/ogs-taurus/partitions"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents the ogsmesh configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Mesh      MeshConfig      `mapstructure:"mesh"`
	Elements  ElementsConfig  `mapstructure:"elements"`
	Assembly  AssemblyConfig  `mapstructure:"assembly"`
	Partition PartitionConfig `mapstructure:"partition"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// MeshConfig describes the structured mesh to generate
type MeshConfig struct {
	Name      string    `mapstructure:"name"`
	Cell      string    `mapstructure:"cell"`
	Divisions []int     `mapstructure:"divisions"`
	Size      []float64 `mapstructure:"size"`
	Origin    []float64 `mapstructure:"origin"`
}

// ElementsConfig restricts the element types local assemblers are built for
type ElementsConfig struct {
	Families []string `mapstructure:"families"`
	MaxDim   int      `mapstructure:"max_dim"`
	MaxOrder int      `mapstructure:"max_order"`
}

type AssemblyConfig struct {
	// Zero uses the mesh dimension
	Dimension int `mapstructure:"dimension"`
	// Zero keeps the natural shape function of every element
	ShapeOrder       int `mapstructure:"shape_order"`
	IntegrationOrder int `mapstructure:"integration_order"`
	Workers          int `mapstructure:"workers"`
}

type PartitionConfig struct {
	Count      int    `mapstructure:"count"`
	TargetSize int    `mapstructure:"target_size"`
	Strategy   string `mapstructure:"strategy"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("mesh.name", "domain")
	v.SetDefault("mesh.cell", "Quad4")
	v.SetDefault("mesh.divisions", []int{4, 4, 4})
	v.SetDefault("mesh.size", []float64{1, 1, 1})
	v.SetDefault("mesh.origin", []float64{0, 0, 0})
	v.SetDefault("elements.families", []string{"simplex", "cuboid", "prism", "pyramid"})
	v.SetDefault("elements.max_dim", 3)
	v.SetDefault("elements.max_order", 2)
	v.SetDefault("assembly.dimension", 0)
	v.SetDefault("assembly.shape_order", 0)
	v.SetDefault("assembly.integration_order", 2)
	v.SetDefault("assembly.workers", 0)
	v.SetDefault("partition.count", 2)
	v.SetDefault("partition.target_size", 0)
	v.SetDefault("partition.strategy", "graph")
}

// Load reads the configuration from path, or from ogsmesh.yaml in the working
// directory when path is empty. A missing ogsmesh.yaml is not an error.
// Environment variables prefixed with OGSMESH_ override both, e.g.
// OGSMESH_PARTITION_COUNT.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ogsmesh")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("OGSMESH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field that names a cell type, family or strategy and
// the numeric ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.MeshSpec(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.EnabledFamilies(); err != nil {
		errs = append(errs, err)
	}
	if _, err := partitions.ParseStrategy(c.Partition.Strategy); err != nil {
		errs = append(errs, fmt.Errorf("partition.strategy: %w", err))
	}
	if c.Partition.Count < 0 || c.Partition.TargetSize < 0 {
		errs = append(errs, fmt.Errorf("partition: negative count %d or target size %d",
			c.Partition.Count, c.Partition.TargetSize))
	}
	if c.Assembly.Dimension < 0 || c.Assembly.Dimension > 3 {
		errs = append(errs, fmt.Errorf("assembly.dimension must be in [0,3], got %d", c.Assembly.Dimension))
	}
	if c.Assembly.ShapeOrder < 0 || c.Assembly.ShapeOrder > 2 {
		errs = append(errs, fmt.Errorf("assembly.shape_order must be in [0,2], got %d", c.Assembly.ShapeOrder))
	}
	if c.Assembly.IntegrationOrder < 1 {
		errs = append(errs, fmt.Errorf("assembly.integration_order must be positive, got %d", c.Assembly.IntegrationOrder))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// MeshSpec converts the mesh section into a generator description
func (c *Config) MeshSpec() (meshgen.Spec, error) {
	cell, err := element.ParseCellType(c.Mesh.Cell)
	if err != nil {
		return meshgen.Spec{}, fmt.Errorf("mesh.cell: %w", err)
	}
	s := meshgen.Spec{Name: c.Mesh.Name, Cell: cell}
	if len(c.Mesh.Divisions) > 3 || len(c.Mesh.Size) > 3 || len(c.Mesh.Origin) > 3 {
		return meshgen.Spec{}, fmt.Errorf("mesh: divisions, size and origin take at most 3 values")
	}
	dim := int(cell.Dimension())
	if len(c.Mesh.Divisions) < dim || len(c.Mesh.Size) < dim {
		return meshgen.Spec{}, fmt.Errorf("mesh: %s needs %d divisions and sizes, got %d and %d",
			cell, dim, len(c.Mesh.Divisions), len(c.Mesh.Size))
	}
	copy(s.Divisions[:], c.Mesh.Divisions)
	copy(s.Size[:], c.Mesh.Size)
	var o [3]float64
	copy(o[:], c.Mesh.Origin)
	s.Origin = r3.Vec{X: o[0], Y: o[1], Z: o[2]}
	return s, nil
}

// EnabledFamilies parses the requested element families
func (c *Config) EnabledFamilies() ([]element.Family, error) {
	out := make([]element.Family, 0, len(c.Elements.Families))
	for _, name := range c.Elements.Families {
		f, ok := element.ParseFamily(strings.ToLower(name))
		if !ok {
			return nil, fmt.Errorf("elements.families: unknown family %q", name)
		}
		out = append(out, f)
	}
	return out, nil
}

// AssemblyOptions translates the elements and assembly sections into options
// for local assembler creation.
func (c *Config) AssemblyOptions(log *zap.Logger) ([]assembly.Option, error) {
	families, err := c.EnabledFamilies()
	if err != nil {
		return nil, err
	}
	opts := []assembly.Option{
		assembly.WithEnabledFamilies(families...),
		assembly.WithMaxElementDim(c.Elements.MaxDim),
		assembly.WithMaxElementOrder(c.Elements.MaxOrder),
		assembly.WithIntegrationOrder(c.Assembly.IntegrationOrder),
		assembly.WithLogger(log),
	}
	if c.Assembly.ShapeOrder > 0 {
		opts = append(opts, assembly.WithShapeFunctionOrder(c.Assembly.ShapeOrder))
	}
	if c.Assembly.Workers > 0 {
		opts = append(opts, assembly.WithWorkers(c.Assembly.Workers))
	}
	return opts, nil
}

// PartitionStrategy parses partition.strategy
func (c *Config) PartitionStrategy() (partitions.PartitionStrategy, error) {
	return partitions.ParseStrategy(c.Partition.Strategy)
}
