package controllers

import (
	"fmt"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
)

const (
	CatalogConditionReady = "Ready"

	PlanConditionCatalogReady = "CatalogReady"
	PlanConditionResolved     = "Resolved"
)

func setCatalogCondition(c *unlockv1alpha1.ProviderCatalog, condition metav1.Condition) {
	if c == nil {
		return
	}
	condition.ObservedGeneration = c.Generation
	meta.SetStatusCondition(&c.Status.Conditions, condition)
}

func setPlanCondition(p *unlockv1alpha1.UnlockPlan, condition metav1.Condition) {
	if p == nil {
		return
	}
	condition.ObservedGeneration = p.Generation
	meta.SetStatusCondition(&p.Status.Conditions, condition)
}

func resolvedMessage(paths, providers int) string {
	if paths == 1 {
		return fmt.Sprintf("Found a path unlocking %d providers", providers)
	}
	return fmt.Sprintf("Found %d equally short paths unlocking %d providers each", paths, providers)
}
