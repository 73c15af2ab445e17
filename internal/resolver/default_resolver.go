package resolver

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/bayleafwalker/unlockpath/internal/bonus"
	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/graph"
)

// DefaultResolver finds minimum-size unlock paths by exhaustive
// branch-and-bound search over a catalog.
type DefaultResolver struct {
	catalog  *catalog.Catalog
	allPaths bool
	progress func(Progress)
}

// Option configures a DefaultResolver.
type Option func(*DefaultResolver)

// WithAllPaths makes the resolver return every distinct minimal path instead
// of the first one found.
func WithAllPaths(all bool) Option {
	return func(r *DefaultResolver) {
		r.allPaths = all
	}
}

// WithProgress registers a callback invoked synchronously from the search.
func WithProgress(fn func(Progress)) Option {
	return func(r *DefaultResolver) {
		r.progress = fn
	}
}

func NewDefault(cat *catalog.Catalog, opts ...Option) *DefaultResolver {
	r := &DefaultResolver{catalog: cat}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *DefaultResolver) Resolve(ctx context.Context, in Input) (Plan, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("requests", len(in.Requests), "allPaths", r.allPaths)

	contexts, err := buildContexts(r.catalog, in.Requests)
	if err != nil {
		return Plan{}, err
	}

	s := newSearcher(r.catalog, contexts, r.allPaths, r.progress)
	log.V(1).Info("searching", "combinations", s.stats.Total.String())
	if err := s.run(ctx); err != nil {
		return Plan{Stats: s.stats}, err
	}
	log.V(1).Info("search finished",
		"evaluated", s.stats.Evaluated,
		"pruned", s.stats.Pruned,
		"improvements", s.stats.Improvements,
		"solutions", len(s.best))

	if len(s.best) == 0 {
		return Plan{Stats: s.stats}, ErrInfeasible
	}

	wanted := make([]catalog.Offering, 0, len(in.Requests))
	for _, req := range in.Requests {
		wanted = append(wanted, catalog.Offering{Quality: req.Quality, Kind: req.Kind})
	}

	plan := Plan{Stats: s.stats}
	for _, sol := range s.solutions() {
		ordered, err := graph.Order(r.catalog, sol.Required.Items())
		if err != nil {
			return Plan{}, fmt.Errorf("order providers: %w", err)
		}
		plan.Paths = append(plan.Paths, UnlockPath{
			Providers:  ordered,
			Assignment: sol.Assignment,
			Bonus:      bonus.Compute(r.catalog, ordered, wanted),
		})
	}
	return plan, nil
}
