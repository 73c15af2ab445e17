// Package bonus lists the offerings a set of providers grants beyond what was
// asked for.
package bonus

import (
	"cmp"
	"slices"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
)

// Offerings exposes what each provider offers. *catalog.Catalog implements it.
type Offerings interface {
	Offerings(id catalog.ProviderID) []catalog.Offering
}

// Compute returns, per capability kind, the best quality offered by providers.
// A kind is left out when some wanted entry of that kind already asks for at
// least that quality. The result is sorted by kind, then quality.
func Compute(src Offerings, providers []catalog.ProviderID, wanted []catalog.Offering) []catalog.Offering {
	best := make(map[catalog.CapabilityKind]catalog.Quality)
	for _, id := range providers {
		for _, o := range src.Offerings(id) {
			if q, ok := best[o.Kind]; !ok || o.Quality > q {
				best[o.Kind] = o.Quality
			}
		}
	}

	for _, w := range wanted {
		if q, ok := best[w.Kind]; ok && q <= w.Quality {
			delete(best, w.Kind)
		}
	}

	out := make([]catalog.Offering, 0, len(best))
	for kind, q := range best {
		out = append(out, catalog.Offering{Quality: q, Kind: kind})
	}
	slices.SortFunc(out, func(a, b catalog.Offering) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Quality, b.Quality)
	})
	return out
}
