package v1alpha1

// NOTE: Capability and provider names are matched case-insensitively against
// the referenced ProviderCatalog.

type ObjectRef struct {
	Name string `json:"name"`
}

// OfferingRef names a capability at a quality level (1..5).
type OfferingRef struct {
	Capability string `json:"capability"`
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=5
	Quality int32 `json:"quality"`
}

const (
	PhaseValid    = "Valid"
	PhaseInvalid  = "Invalid"
	PhaseResolved = "Resolved"
	PhaseError    = "Error"
)
