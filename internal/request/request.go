// Package request converts requests and unlock paths between their text and
// API forms and the catalog-bound types the resolver works with.
package request

import (
	"errors"
	"fmt"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

var (
	ErrMalformed         = errors.New("invalid request format (must be: [>] <quality> <capability name>)")
	ErrQuality           = errors.New("invalid quality")
	ErrUnknownCapability = errors.New("unknown capability")
)

// FromSpec binds API requests to cat. The first invalid entry aborts.
func FromSpec(cat *catalog.Catalog, specs []unlockv1alpha1.CapabilityRequest) ([]resolver.RequestedCapability, error) {
	out := make([]resolver.RequestedCapability, 0, len(specs))
	for i, s := range specs {
		r, err := bind(cat, s.Capability, int(s.Quality), s.Pinned)
		if err != nil {
			return nil, fmt.Errorf("request #%d: %w", i+1, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// ToSpec renders r with catalog names.
func ToSpec(cat *catalog.Catalog, r resolver.RequestedCapability) unlockv1alpha1.CapabilityRequest {
	return unlockv1alpha1.CapabilityRequest{
		Capability: cat.KindName(r.Kind),
		Quality:    int32(r.Quality),
		Pinned:     r.Pinned,
	}
}

// PathStatus renders an unlock path in its API form.
func PathStatus(cat *catalog.Catalog, p resolver.UnlockPath) unlockv1alpha1.UnlockPathStatus {
	out := unlockv1alpha1.UnlockPathStatus{
		Steps: make([]unlockv1alpha1.UnlockStep, 0, len(p.Providers)),
	}
	for _, id := range p.Providers {
		step := unlockv1alpha1.UnlockStep{Provider: cat.ProviderName(id)}
		for _, r := range p.Assignment[id] {
			step.Satisfies = append(step.Satisfies, ToSpec(cat, r))
		}
		out.Steps = append(out.Steps, step)
	}
	for _, o := range p.Bonus {
		out.Bonus = append(out.Bonus, unlockv1alpha1.OfferingRef{
			Capability: cat.KindName(o.Kind),
			Quality:    int32(o.Quality),
		})
	}
	return out
}

func bind(cat *catalog.Catalog, capability string, quality int, pinned bool) (resolver.RequestedCapability, error) {
	q, err := catalog.ParseQuality(quality)
	if err != nil {
		return resolver.RequestedCapability{}, fmt.Errorf("%w: %v", ErrQuality, err)
	}
	kind, ok := cat.KindByName(capability)
	if !ok {
		return resolver.RequestedCapability{}, fmt.Errorf("%w: %q", ErrUnknownCapability, capability)
	}
	return resolver.RequestedCapability{Quality: q, Kind: kind, Pinned: pinned}, nil
}
