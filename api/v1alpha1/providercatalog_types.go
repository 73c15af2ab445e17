package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ProviderCatalog declares the providers that can be unlocked, the provider
// each one requires first, and the capabilities each one offers.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=pcat
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.version`
// +kubebuilder:printcolumn:name="Providers",type=integer,JSONPath=`.status.providerCount`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type ProviderCatalog struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ProviderCatalogSpec   `json:"spec"`
	Status ProviderCatalogStatus `json:"status,omitempty"`
}

type ProviderCatalogSpec struct {
	// Version is the semantic version of the catalog data.
	Version string `json:"version"`

	// Capabilities enumerates every capability kind. Declaration order is the
	// canonical sort order for reports.
	Capabilities []string `json:"capabilities"`

	// Providers in declaration order. Declaration order is the tie-break
	// order used when planning.
	Providers []ProviderSpec `json:"providers"`
}

type ProviderSpec struct {
	Name string `json:"name"`

	// Requires names the provider that must be unlocked first, if any.
	Requires string `json:"requires,omitempty"`

	Offerings []OfferingRef `json:"offerings,omitempty"`
}

type ProviderCatalogStatus struct {
	ObservedGeneration int64              `json:"observedGeneration,omitempty"`
	Phase              string             `json:"phase,omitempty"`
	Message            string             `json:"message,omitempty"`
	ProviderCount      int32              `json:"providerCount,omitempty"`
	Conditions         []metav1.Condition `json:"conditions,omitempty"`
}

// +kubebuilder:object:root=true
type ProviderCatalogList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ProviderCatalog `json:"items"`
}

func init() {
	SchemeBuilder.Register(&ProviderCatalog{}, &ProviderCatalogList{})
}
