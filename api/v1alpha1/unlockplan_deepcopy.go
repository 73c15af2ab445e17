package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *UnlockPlan) DeepCopyInto(out *UnlockPlan) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy copies the receiver, creating a new UnlockPlan.
func (in *UnlockPlan) DeepCopy() *UnlockPlan {
	if in == nil {
		return nil
	}
	out := new(UnlockPlan)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *UnlockPlan) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *UnlockPlanList) DeepCopyInto(out *UnlockPlanList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]UnlockPlan, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy copies the receiver, creating a new UnlockPlanList.
func (in *UnlockPlanList) DeepCopy() *UnlockPlanList {
	if in == nil {
		return nil
	}
	out := new(UnlockPlanList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject copies the receiver, creating a new runtime.Object.
func (in *UnlockPlanList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *UnlockPlanSpec) DeepCopyInto(out *UnlockPlanSpec) {
	*out = *in
	out.CatalogRef = in.CatalogRef
	if in.Requests != nil {
		out.Requests = make([]CapabilityRequest, len(in.Requests))
		copy(out.Requests, in.Requests)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *UnlockPlanStatus) DeepCopyInto(out *UnlockPlanStatus) {
	*out = *in
	if in.Paths != nil {
		out.Paths = make([]UnlockPathStatus, len(in.Paths))
		for i := range in.Paths {
			in.Paths[i].DeepCopyInto(&out.Paths[i])
		}
	}
	if in.Conditions != nil {
		out.Conditions = make([]metav1.Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *UnlockPathStatus) DeepCopyInto(out *UnlockPathStatus) {
	*out = *in
	if in.Steps != nil {
		out.Steps = make([]UnlockStep, len(in.Steps))
		for i := range in.Steps {
			in.Steps[i].DeepCopyInto(&out.Steps[i])
		}
	}
	if in.Bonus != nil {
		out.Bonus = make([]OfferingRef, len(in.Bonus))
		copy(out.Bonus, in.Bonus)
	}
}

// DeepCopyInto copies the receiver, writing into out. in must be non-nil.
func (in *UnlockStep) DeepCopyInto(out *UnlockStep) {
	*out = *in
	if in.Satisfies != nil {
		out.Satisfies = make([]CapabilityRequest, len(in.Satisfies))
		copy(out.Satisfies, in.Satisfies)
	}
}
