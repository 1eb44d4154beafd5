package assembly

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TobiasMeisel/ogs-taurus/dof"
	"github.com/TobiasMeisel/ogs-taurus/mesh"
)

// CreateLocalAssemblers builds one kernel per element for a problem of the given
// dimension. Kernels are instantiated concurrently and returned in element
// order. The first failure stops the remaining instantiations and is returned.
func CreateLocalAssemblers[K, A any](dim int, elements []*mesh.Element, dofTable dof.Table,
	ctor Constructor[K, A], args A, opts ...Option) ([]K, error) {
	s := defaultSettings()
	for _, o := range opts {
		o(&s)
	}
	s.log.Debug("Create local assemblers.")

	switch dim {
	case 1, 2, 3:
	default:
		return nil, fmt.Errorf("%w: dimension %d", ErrUnsupportedDimension, dim)
	}
	initializer, err := NewLocalDataInitializer(dim, dofTable, ctor, opts...)
	if err != nil {
		return nil, err
	}

	s.log.Debug("Calling local assembler builder for all mesh elements.",
		zap.Int("elements", len(elements)), zap.Int("workers", s.workers))
	out := make([]K, len(elements))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(s.workers)
	for i, e := range elements {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			k, err := initializer.Instantiate(i, e, args)
			if err != nil {
				return fmt.Errorf("element %d: %w", e.ID(), err)
			}
			out[i] = k
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
