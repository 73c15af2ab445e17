package catalog

import "fmt"

// ProviderID identifies a provider within one Catalog. IDs are small positive
// integers; None marks "no prerequisite".
type ProviderID uint16

const None ProviderID = 0

// CapabilityKind indexes the catalog's capability enumeration.
type CapabilityKind uint16

// Quality is the rank of an offering. An offering of quality q satisfies any
// request of the same kind at quality <= q.
type Quality uint8

const (
	MinQuality Quality = 1
	MaxQuality Quality = 5
)

// Valid reports whether q lies in MinQuality..MaxQuality.
func (q Quality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// ParseQuality converts an integer into a Quality, rejecting out of range values.
func ParseQuality(n int) (Quality, error) {
	if n < int(MinQuality) || n > int(MaxQuality) {
		return 0, fmt.Errorf("quality %d out of range %d..%d", n, MinQuality, MaxQuality)
	}
	return Quality(n), nil
}

// Offering is a capability a provider grants once unlocked.
type Offering struct {
	Quality Quality
	Kind    CapabilityKind
}

// Covers reports whether o satisfies a request for kind at quality q.
func (o Offering) Covers(kind CapabilityKind, q Quality) bool {
	return o.Kind == kind && o.Quality >= q
}

// ProviderNode is one catalog entry.
type ProviderNode struct {
	ID        ProviderID
	Name      string
	Requires  ProviderID
	Offerings []Offering
}
