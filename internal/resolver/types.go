package resolver

import (
	"math/big"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/multiset"
)

// RequestedCapability is one capability the caller wants, at a minimum
// quality. A pinned request must be served by a provider that serves no other
// pinned request.
type RequestedCapability struct {
	Quality catalog.Quality
	Kind    catalog.CapabilityKind
	Pinned  bool
}

// Input is the ordered list of requests a Resolver plans for.
//
// Request order drives search order; it does not change which solutions are
// minimal.
type Input struct {
	Requests []RequestedCapability
}

// Solution is a complete assignment found by the search.
type Solution struct {
	// Required is the prerequisite-closed set of providers to unlock.
	Required *multiset.Counted[catalog.ProviderID]
	// Assignment maps each chosen provider to the requests it serves.
	Assignment map[catalog.ProviderID][]RequestedCapability
}

// UnlockPath is a Solution in unlock order plus the offerings the caller gets
// without asking for them.
type UnlockPath struct {
	Providers  []catalog.ProviderID
	Assignment map[catalog.ProviderID][]RequestedCapability
	Bonus      []catalog.Offering
}

// Plan is the output of a Resolver.
type Plan struct {
	// Paths holds every minimal path found, ordered by provider ids. Without
	// WithAllPaths it holds exactly one.
	Paths []UnlockPath
	Stats Stats
}

// Stats describes the work the search did.
type Stats struct {
	// Total is the number of raw combinations, the product of eligible-set
	// sizes.
	Total *big.Int
	// Evaluated counts complete candidate assignments that reached evaluation.
	Evaluated uint64
	// Pruned counts partial assignments cut off because they could not beat
	// the best size found so far.
	Pruned uint64
	// Improvements counts how often a strictly smaller solution replaced the
	// best one.
	Improvements uint64
}

// Progress reports how much of the combination space has been covered.
// Both values are owned by the search and only valid during the callback.
type Progress struct {
	Done  *big.Int
	Total *big.Int
}

// Fraction returns Done/Total in 0..1.
func (p Progress) Fraction() float64 {
	if p.Total == nil || p.Total.Sign() == 0 {
		return 1
	}
	f, _ := new(big.Rat).SetFrac(p.Done, p.Total).Float64()
	return f
}
