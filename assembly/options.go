package assembly

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/TobiasMeisel/ogs-taurus/element"
	"github.com/TobiasMeisel/ogs-taurus/integration"
)

type settings struct {
	families         []element.Family
	maxElementDim    int
	maxElementOrder  int
	shapeOrder       int
	hasShapeOrder    bool
	integrationOrder int
	workers          int
	log              *zap.Logger
}

func defaultSettings() settings {
	return settings{
		families:         element.AllFamilies,
		maxElementDim:    3,
		maxElementOrder:  2,
		integrationOrder: integration.DefaultOrder,
		workers:          runtime.GOMAXPROCS(0),
		log:              zap.NewNop(),
	}
}

// Option configures a LocalDataInitializer
type Option func(*settings)

// WithEnabledFamilies restricts the element families to the given ones. Families
// not compiled into the binary stay disabled.
func WithEnabledFamilies(families ...element.Family) Option {
	return func(s *settings) { s.families = families }
}

// WithMaxElementDim excludes cell types of higher dimension
func WithMaxElementDim(dim int) Option {
	return func(s *settings) { s.maxElementDim = dim }
}

// WithMaxElementOrder excludes cell types of higher order
func WithMaxElementOrder(order int) Option {
	return func(s *settings) { s.maxElementOrder = order }
}

// WithShapeFunctionOrder selects the interpolation order for formulations that
// pair a quadratic field with a linear one. Order 1 interpolates every cell,
// quadratic ones included, with linear shape functions. Order 2 registers only
// quadratic cells. Without this option every cell uses its own shape function.
func WithShapeFunctionOrder(order int) Option {
	return func(s *settings) {
		s.shapeOrder = order
		s.hasShapeOrder = true
	}
}

// WithIntegrationOrder sets the Gauss points per direction
func WithIntegrationOrder(order int) Option {
	return func(s *settings) { s.integrationOrder = order }
}

func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}
