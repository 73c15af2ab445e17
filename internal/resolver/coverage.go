package resolver

import (
	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/multiset"
)

// FindProviders returns every provider with an offering of req's kind at
// req's quality or better. The result may be empty.
func FindProviders(cat *catalog.Catalog, req RequestedCapability) *multiset.Counted[catalog.ProviderID] {
	out := multiset.New[catalog.ProviderID]()
	for _, n := range cat.Providers() {
		for _, o := range n.Offerings {
			if o.Covers(req.Kind, req.Quality) {
				out.Insert(n.ID)
				break
			}
		}
	}
	return out
}

// candidateContext is one request together with the providers currently
// eligible for it.
type candidateContext struct {
	req      RequestedCapability
	eligible *multiset.Counted[catalog.ProviderID]
}

// buildContexts resolves eligibility for every request in order and fails on
// the first request nobody covers.
func buildContexts(cat *catalog.Catalog, reqs []RequestedCapability) ([]candidateContext, error) {
	out := make([]candidateContext, 0, len(reqs))
	for i, req := range reqs {
		eligible := FindProviders(cat, req)
		if eligible.Empty() {
			return nil, &MissingCoverageError{Index: i, Request: req, Capability: cat.KindName(req.Kind)}
		}
		out = append(out, candidateContext{req: req, eligible: eligible})
	}
	return out, nil
}
