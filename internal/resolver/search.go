package resolver

import (
	"context"
	"math/big"
	"slices"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/multiset"
)

// searcher runs the branch-and-bound search over one set of candidate
// contexts. It mutates a single working solution in place; every change made
// while trying a provider is undone by a deferred release before the next
// provider is tried.
type searcher struct {
	cat      *catalog.Catalog
	contexts []candidateContext
	allPaths bool

	required   *multiset.Counted[catalog.ProviderID]
	assignment map[catalog.ProviderID][]RequestedCapability

	best     []Solution
	bestSize int
	seen     map[string]struct{}

	stats    Stats
	progress *progressTracker
}

func newSearcher(cat *catalog.Catalog, contexts []candidateContext, allPaths bool, report func(Progress)) *searcher {
	sizes := make([]int, len(contexts))
	for i, c := range contexts {
		sizes[i] = c.eligible.Len()
	}
	p := newProgressTracker(sizes, report)
	return &searcher{
		cat:        cat,
		contexts:   contexts,
		allPaths:   allPaths,
		required:   multiset.New[catalog.ProviderID](),
		assignment: make(map[catalog.ProviderID][]RequestedCapability),
		seen:       make(map[string]struct{}),
		stats:      Stats{Total: new(big.Int).Set(p.total)},
		progress:   p,
	}
}

func (s *searcher) run(ctx context.Context) error {
	if len(s.contexts) == 0 {
		s.evaluate()
		return nil
	}
	return s.search(ctx, 0)
}

func (s *searcher) search(ctx context.Context, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Later depths only change later contexts, so the snapshot stays accurate
	// for the whole loop.
	for _, p := range s.contexts[depth].eligible.Items() {
		if err := s.try(ctx, depth, p); err != nil {
			return err
		}
	}
	return nil
}

// try extends the working solution with p for the request at depth and
// explores everything below it.
func (s *searcher) try(ctx context.Context, depth int, p catalog.ProviderID) error {
	start := s.progress.begin()
	defer func() {
		// An aborted search reports no further progress.
		if ctx.Err() == nil {
			s.progress.settle(start, depth)
		}
	}()

	release := s.acquire(depth, p)
	defer release()

	if depth == len(s.contexts)-1 {
		s.evaluate()
		return nil
	}
	if s.cannotImprove() {
		s.stats.Pruned++
		return nil
	}
	if s.contexts[depth].req.Pinned {
		restore := s.pin(depth, p)
		defer restore()
	}
	return s.search(ctx, depth+1)
}

// acquire adds p's prerequisite chain and its assignment to the request at
// depth. The returned func removes exactly what was added.
func (s *searcher) acquire(depth int, p catalog.ProviderID) func() {
	chain := s.cat.Chain(p)
	for _, id := range chain {
		s.required.Insert(id)
	}
	s.assignment[p] = append(s.assignment[p], s.contexts[depth].req)

	return func() {
		for _, id := range chain {
			s.required.Erase(id)
		}
		reqs := s.assignment[p]
		if len(reqs) <= 1 {
			delete(s.assignment, p)
			return
		}
		s.assignment[p] = reqs[:len(reqs)-1]
	}
}

// pin removes p from every later pinned context. Contexts that did not list p
// are left alone so the restore is exact.
func (s *searcher) pin(depth int, p catalog.ProviderID) func() {
	var touched []int
	for i := depth + 1; i < len(s.contexts); i++ {
		c := s.contexts[i]
		if !c.req.Pinned || !c.eligible.Contains(p) {
			continue
		}
		c.eligible.Erase(p)
		touched = append(touched, i)
	}
	return func() {
		for _, i := range touched {
			s.contexts[i].eligible.Insert(p)
		}
	}
}

// cannotImprove reports whether the partial solution is already too large to
// become a (tied) best.
func (s *searcher) cannotImprove() bool {
	if len(s.best) == 0 {
		return false
	}
	size := s.required.Len()
	if s.allPaths {
		return size > s.bestSize
	}
	return size >= s.bestSize
}

func (s *searcher) evaluate() {
	s.stats.Evaluated++
	size := s.required.Len()
	switch {
	case len(s.best) == 0 || size < s.bestSize:
		if len(s.best) > 0 {
			s.stats.Improvements++
		}
		s.best = s.best[:0]
		clear(s.seen)
		s.bestSize = size
		s.record()
	case size == s.bestSize && s.allPaths:
		s.record()
	}
}

// record snapshots the working solution unless an equal provider set is
// already stored.
func (s *searcher) record() {
	ids := s.required.Items()
	key := setKey(ids)
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}

	assignment := make(map[catalog.ProviderID][]RequestedCapability, len(s.assignment))
	for id, reqs := range s.assignment {
		assignment[id] = slices.Clone(reqs)
	}
	s.best = append(s.best, Solution{Required: s.required.Clone(), Assignment: assignment})
}

// solutions returns the stored solutions ordered by their provider sets.
func (s *searcher) solutions() []Solution {
	out := slices.Clone(s.best)
	slices.SortFunc(out, func(a, b Solution) int {
		return a.Required.Compare(b.Required)
	})
	return out
}

func setKey(ids []catalog.ProviderID) string {
	b := make([]byte, 0, 2*len(ids))
	for _, id := range ids {
		b = append(b, byte(id>>8), byte(id))
	}
	return string(b)
}

// progressTracker counts covered combinations. Finishing a provider at depth
// d always accounts for the full original subtree below it, which corrects
// for subtrees that were pruned or shrunk by pinning.
type progressTracker struct {
	total  *big.Int
	done   *big.Int
	suffix []*big.Int
	report func(Progress)
}

func newProgressTracker(sizes []int, report func(Progress)) *progressTracker {
	suffix := make([]*big.Int, len(sizes)+1)
	suffix[len(sizes)] = big.NewInt(1)
	for i := len(sizes) - 1; i >= 0; i-- {
		suffix[i] = new(big.Int).Mul(suffix[i+1], big.NewInt(int64(sizes[i])))
	}
	return &progressTracker{
		total:  suffix[0],
		done:   new(big.Int),
		suffix: suffix,
		report: report,
	}
}

func (t *progressTracker) begin() *big.Int {
	if t.report == nil {
		return nil
	}
	return new(big.Int).Set(t.done)
}

func (t *progressTracker) settle(start *big.Int, depth int) {
	if t.report == nil {
		return
	}
	t.done.Add(start, t.suffix[depth+1])
	t.report(Progress{Done: t.done, Total: t.total})
}
