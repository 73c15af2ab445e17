// Package catalog holds the read-only provider catalog the planner searches.
//
// A Catalog is built once (New, FromSpec, LoadFile or Builtin), validated for
// consistency and acyclicity, and then shared by reference. Nothing mutates it
// afterwards.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Catalog is an immutable, validated set of providers forming a forest under
// the prerequisite relation.
type Catalog struct {
	version string
	kinds   []string
	nodes   map[ProviderID]ProviderNode
	ids     []ProviderID

	providerByName map[string]ProviderID
	kindByName     map[string]CapabilityKind
}

// New validates the given providers and capability enumeration and returns a
// Catalog. Offerings reference kinds by index into kinds.
func New(version string, kinds []string, nodes []ProviderNode) (*Catalog, error) {
	c := &Catalog{
		version:        version,
		kinds:          slices.Clone(kinds),
		nodes:          make(map[ProviderID]ProviderNode, len(nodes)),
		ids:            make([]ProviderID, 0, len(nodes)),
		providerByName: make(map[string]ProviderID, len(nodes)),
		kindByName:     make(map[string]CapabilityKind, len(kinds)),
	}

	for i, k := range kinds {
		key := nameKey(k)
		if key == "" {
			return nil, fmt.Errorf("%w: capability #%d has an empty name", ErrInvalidCatalog, i)
		}
		if _, dup := c.kindByName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate capability %q", ErrInvalidCatalog, k)
		}
		c.kindByName[key] = CapabilityKind(i)
	}

	for _, n := range nodes {
		if n.ID == None {
			return nil, fmt.Errorf("%w: provider %q uses the reserved id 0", ErrInvalidCatalog, n.Name)
		}
		if _, dup := c.nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate provider id %d", ErrInvalidCatalog, n.ID)
		}
		key := nameKey(n.Name)
		if key == "" {
			return nil, fmt.Errorf("%w: provider %d has an empty name", ErrInvalidCatalog, n.ID)
		}
		if _, dup := c.providerByName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate provider name %q", ErrInvalidCatalog, n.Name)
		}
		for _, o := range n.Offerings {
			if !o.Quality.Valid() {
				return nil, fmt.Errorf("%w: provider %q offers quality %d", ErrInvalidCatalog, n.Name, o.Quality)
			}
			if int(o.Kind) >= len(kinds) {
				return nil, fmt.Errorf("%w: provider %q offers unknown capability #%d", ErrInvalidCatalog, n.Name, o.Kind)
			}
		}
		n.Offerings = slices.Clone(n.Offerings)
		c.nodes[n.ID] = n
		c.ids = append(c.ids, n.ID)
		c.providerByName[key] = n.ID
	}
	slices.Sort(c.ids)

	for _, id := range c.ids {
		n := c.nodes[id]
		if n.Requires == None {
			continue
		}
		if _, ok := c.nodes[n.Requires]; !ok {
			return nil, fmt.Errorf("%w: provider %q requires unknown provider id %d", ErrInvalidCatalog, n.Name, n.Requires)
		}
	}
	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkAcyclic walks every prerequisite chain; a chain longer than the number
// of providers must revisit a node.
func (c *Catalog) checkAcyclic() error {
	limit := len(c.ids)
	for _, id := range c.ids {
		steps := 0
		for cur := id; cur != None; cur = c.nodes[cur].Requires {
			if steps > limit {
				return fmt.Errorf("%w: %w through provider %q", ErrInvalidCatalog, ErrCycle, c.nodes[id].Name)
			}
			steps++
		}
	}
	return nil
}

// Version returns the catalog data version.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of providers.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// IDs returns all provider ids in ascending order.
func (c *Catalog) IDs() []ProviderID {
	return slices.Clone(c.ids)
}

// Provider returns the node for id.
func (c *Catalog) Provider(id ProviderID) (ProviderNode, bool) {
	n, ok := c.nodes[id]
	return n, ok
}

// Providers returns every node in ascending id order.
func (c *Catalog) Providers() []ProviderNode {
	out := make([]ProviderNode, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.nodes[id])
	}
	return out
}

// Prerequisite returns the provider id must be unlocked after, or None.
func (c *Catalog) Prerequisite(id ProviderID) ProviderID {
	return c.nodes[id].Requires
}

// Offerings returns the offerings of id in catalog order.
func (c *Catalog) Offerings(id ProviderID) []Offering {
	return c.nodes[id].Offerings
}

// Chain returns id followed by every provider on its prerequisite chain.
func (c *Catalog) Chain(id ProviderID) []ProviderID {
	var out []ProviderID
	for cur := id; cur != None; cur = c.nodes[cur].Requires {
		out = append(out, cur)
	}
	return out
}

// ProviderName returns the display name of id.
func (c *Catalog) ProviderName(id ProviderID) string {
	if n, ok := c.nodes[id]; ok {
		return n.Name
	}
	if id == None {
		return "<none>"
	}
	return "<invalid>"
}

// ProviderByName looks a provider up, ignoring case and surrounding space.
func (c *Catalog) ProviderByName(name string) (ProviderID, bool) {
	id, ok := c.providerByName[nameKey(name)]
	return id, ok
}

// Kinds returns the capability enumeration in declaration order.
func (c *Catalog) Kinds() []string {
	return slices.Clone(c.kinds)
}

// KindName returns the display name of a capability kind.
func (c *Catalog) KindName(k CapabilityKind) string {
	if int(k) < len(c.kinds) {
		return c.kinds[k]
	}
	return "<invalid>"
}

// KindByName looks a capability kind up, ignoring case and surrounding space.
func (c *Catalog) KindByName(name string) (CapabilityKind, bool) {
	k, ok := c.kindByName[nameKey(name)]
	return k, ok
}

func nameKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
