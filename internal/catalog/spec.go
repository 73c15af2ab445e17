package catalog

import (
	"fmt"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
)

// FromSpec builds a Catalog from its API form. Provider ids are assigned
// 1..N in declaration order and capability kinds 0..M-1 likewise.
func FromSpec(spec unlockv1alpha1.ProviderCatalogSpec) (*Catalog, error) {
	kindIdx := make(map[string]CapabilityKind, len(spec.Capabilities))
	for i, k := range spec.Capabilities {
		kindIdx[nameKey(k)] = CapabilityKind(i)
	}
	providerIdx := make(map[string]ProviderID, len(spec.Providers))
	for i, p := range spec.Providers {
		providerIdx[nameKey(p.Name)] = ProviderID(i + 1)
	}

	nodes := make([]ProviderNode, 0, len(spec.Providers))
	for i, p := range spec.Providers {
		n := ProviderNode{ID: ProviderID(i + 1), Name: p.Name}
		if p.Requires != "" {
			req, ok := providerIdx[nameKey(p.Requires)]
			if !ok {
				return nil, fmt.Errorf("%w: provider %q requires unknown provider %q", ErrInvalidCatalog, p.Name, p.Requires)
			}
			n.Requires = req
		}
		for _, o := range p.Offerings {
			kind, ok := kindIdx[nameKey(o.Capability)]
			if !ok {
				return nil, fmt.Errorf("%w: provider %q offers unknown capability %q", ErrInvalidCatalog, p.Name, o.Capability)
			}
			q, err := ParseQuality(int(o.Quality))
			if err != nil {
				return nil, fmt.Errorf("%w: provider %q offering %q: %v", ErrInvalidCatalog, p.Name, o.Capability, err)
			}
			n.Offerings = append(n.Offerings, Offering{Quality: q, Kind: kind})
		}
		nodes = append(nodes, n)
	}
	return New(spec.Version, spec.Capabilities, nodes)
}

// Spec renders c back into its API form.
func (c *Catalog) Spec() unlockv1alpha1.ProviderCatalogSpec {
	spec := unlockv1alpha1.ProviderCatalogSpec{
		Version:      c.version,
		Capabilities: c.Kinds(),
		Providers:    make([]unlockv1alpha1.ProviderSpec, 0, len(c.ids)),
	}
	for _, id := range c.ids {
		n := c.nodes[id]
		p := unlockv1alpha1.ProviderSpec{Name: n.Name}
		if n.Requires != None {
			p.Requires = c.ProviderName(n.Requires)
		}
		for _, o := range n.Offerings {
			p.Offerings = append(p.Offerings, unlockv1alpha1.OfferingRef{
				Capability: c.KindName(o.Kind),
				Quality:    int32(o.Quality),
			})
		}
		spec.Providers = append(spec.Providers, p)
	}
	return spec
}
