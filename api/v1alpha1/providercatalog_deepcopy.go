package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ProviderCatalog) DeepCopyInto(out *ProviderCatalog) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new ProviderCatalog.
func (in *ProviderCatalog) DeepCopy() *ProviderCatalog {
	if in == nil {
		return nil
	}
	out := new(ProviderCatalog)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ProviderCatalog) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ProviderCatalogList) DeepCopyInto(out *ProviderCatalogList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]ProviderCatalog, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new ProviderCatalogList.
func (in *ProviderCatalogList) DeepCopy() *ProviderCatalogList {
	if in == nil {
		return nil
	}
	out := new(ProviderCatalogList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *ProviderCatalogList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ProviderCatalogSpec) DeepCopyInto(out *ProviderCatalogSpec) {
	*out = *in
	if in.Capabilities != nil {
		out.Capabilities = make([]string, len(in.Capabilities))
		copy(out.Capabilities, in.Capabilities)
	}
	if in.Providers != nil {
		out.Providers = make([]ProviderSpec, len(in.Providers))
		for i := range in.Providers {
			in.Providers[i].DeepCopyInto(&out.Providers[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new ProviderCatalogSpec.
func (in *ProviderCatalogSpec) DeepCopy() *ProviderCatalogSpec {
	if in == nil {
		return nil
	}
	out := new(ProviderCatalogSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ProviderSpec) DeepCopyInto(out *ProviderSpec) {
	*out = *in
	if in.Offerings != nil {
		out.Offerings = make([]OfferingRef, len(in.Offerings))
		copy(out.Offerings, in.Offerings)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *ProviderCatalogStatus) DeepCopyInto(out *ProviderCatalogStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}
