package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// UnlockPlan asks for the shortest provider unlocking path that grants the
// requested capabilities.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=uplan
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Catalog",type=string,JSONPath=`.spec.catalogRef.name`
// +kubebuilder:printcolumn:name="Providers",type=integer,JSONPath=`.status.providerCount`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type UnlockPlan struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   UnlockPlanSpec   `json:"spec"`
	Status UnlockPlanStatus `json:"status,omitempty"`
}

type UnlockPlanSpec struct {
	// CatalogRef references a ProviderCatalog in the same namespace.
	CatalogRef ObjectRef `json:"catalogRef"`

	Requests []CapabilityRequest `json:"requests"`

	// AllPaths surfaces every distinct minimal path instead of the first one.
	AllPaths bool `json:"allPaths,omitempty"`
}

type CapabilityRequest struct {
	Capability string `json:"capability"`
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=5
	Quality int32 `json:"quality"`
	// Pinned requires a provider that no other pinned request uses.
	Pinned bool `json:"pinned,omitempty"`
}

type UnlockPlanStatus struct {
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// CatalogGeneration is the generation of the ProviderCatalog the paths
	// were computed against.
	CatalogGeneration int64              `json:"catalogGeneration,omitempty"`
	Phase             string             `json:"phase,omitempty"`
	Message           string             `json:"message,omitempty"`
	ProviderCount     int32              `json:"providerCount,omitempty"`
	Paths             []UnlockPathStatus `json:"paths,omitempty"`
	Conditions        []metav1.Condition `json:"conditions,omitempty"`
}

type UnlockPathStatus struct {
	// Steps in unlocking order.
	Steps []UnlockStep `json:"steps"`
	// Bonus lists capabilities granted beyond the requests.
	Bonus []OfferingRef `json:"bonus,omitempty"`
}

type UnlockStep struct {
	Provider  string              `json:"provider"`
	Satisfies []CapabilityRequest `json:"satisfies,omitempty"`
}

// +kubebuilder:object:root=true
type UnlockPlanList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []UnlockPlan `json:"items"`
}

func init() {
	SchemeBuilder.Register(&UnlockPlan{}, &UnlockPlanList{})
}
