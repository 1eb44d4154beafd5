package mesh

import (
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
)

// IDSource hands out mesh identifiers that are unique within one process context
type IDSource interface {
	NextID() uint64
}

// Counter is a monotonically increasing IDSource starting at zero
type Counter struct {
	next atomic.Uint64
}

func (c *Counter) NextID() uint64 { return c.next.Add(1) - 1 }

// Factory constructs meshes. It owns the identity source and the logger every
// mesh it builds reports to.
type Factory struct {
	ids     IDSource
	log     *zap.Logger
	workers int
}

type FactoryOption func(*Factory)

// WithIDSource replaces the default counter
func WithIDSource(ids IDSource) FactoryOption {
	return func(f *Factory) { f.ids = ids }
}

func WithLogger(log *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if log != nil {
			f.log = log
		}
	}
}

// WithWorkers bounds the goroutines used for adjacency computation; n < 1 means
// GOMAXPROCS.
func WithWorkers(n int) FactoryOption {
	return func(f *Factory) { f.workers = n }
}

func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{ids: &Counter{}, log: zap.NewNop()}
	for _, o := range opts {
		o(f)
	}
	if f.workers < 1 {
		f.workers = runtime.GOMAXPROCS(0)
	}
	return f
}

func (f *Factory) Logger() *zap.Logger { return f.log }
func (f *Factory) Workers() int { return f.workers }

// Option configures a single mesh construction
type Option func(*buildOptions)

type buildOptions struct {
	isBase func(id int) bool
}

// WithBaseNodeClassifier overrides the default base node test (id < number of base
// nodes). Meshes whose base nodes are not a leading block of the node array, such
// as partitioned meshes, provide their own.
func WithBaseNodeClassifier(isBase func(id int) bool) Option {
	return func(o *buildOptions) { o.isBase = isBase }
}
