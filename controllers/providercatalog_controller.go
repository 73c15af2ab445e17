package controllers

import (
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/catalog"
)

// ProviderCatalogReconciler validates ProviderCatalogs and publishes the
// verdict in their status.
//
// RBAC:
// +kubebuilder:rbac:groups=unlockpath.bayleafwalker.io,resources=providercatalogs,verbs=get;list;watch
// +kubebuilder:rbac:groups=unlockpath.bayleafwalker.io,resources=providercatalogs/status,verbs=get;update;patch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type ProviderCatalogReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// VersionConstraint, when set, rejects catalogs whose spec.version does
	// not satisfy it.
	VersionConstraint string
}

func (r *ProviderCatalogReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	unlockpathControllerReconcileTotal.WithLabelValues("ProviderCatalog").Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", "ProviderCatalog",
		"namespace", req.Namespace,
		"catalog", req.Name,
	)

	var pc unlockv1alpha1.ProviderCatalog
	if err := r.Get(ctx, req.NamespacedName, &pc); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return ctrl.Result{}, nil
		}
		unlockpathControllerReconcileErrorTotal.WithLabelValues("ProviderCatalog").Inc()
		return ctrl.Result{}, err
	}
	prevPhase := pc.Status.Phase

	cat, err := catalog.FromSpec(pc.Spec)
	if err == nil {
		err = catalog.CheckVersion(cat, r.VersionConstraint)
	}
	if err != nil {
		reason := "InvalidCatalog"
		switch {
		case errors.Is(err, catalog.ErrCycle):
			reason = "PrerequisiteCycle"
		case errors.Is(err, catalog.ErrUnsupportedVersion):
			reason = "UnsupportedVersion"
		}
		providerCatalogInvalid.Set(1)
		msg := err.Error()
		if perr := r.patchStatus(ctx, &pc, unlockv1alpha1.PhaseInvalid, msg, 0, metav1.Condition{
			Type:    CatalogConditionReady,
			Status:  metav1.ConditionFalse,
			Reason:  reason,
			Message: msg,
		}); perr != nil {
			logger.Error(perr, "failed to patch catalog status")
			unlockpathControllerReconcileErrorTotal.WithLabelValues("ProviderCatalog").Inc()
			return ctrl.Result{}, perr
		}
		logger.Info("catalog rejected", "reason", reason, "error", msg)
		if prevPhase != unlockv1alpha1.PhaseInvalid {
			r.recordEventf(&pc, corev1.EventTypeWarning, reason, "%s", msg)
		}
		return ctrl.Result{}, nil
	}

	providerCatalogInvalid.Set(0)
	msg := fmt.Sprintf("%d providers offering %d capabilities", cat.Len(), len(cat.Kinds()))
	if perr := r.patchStatus(ctx, &pc, unlockv1alpha1.PhaseValid, msg, int32(cat.Len()), metav1.Condition{
		Type:    CatalogConditionReady,
		Status:  metav1.ConditionTrue,
		Reason:  "Validated",
		Message: msg,
	}); perr != nil {
		logger.Error(perr, "failed to patch catalog status")
		unlockpathControllerReconcileErrorTotal.WithLabelValues("ProviderCatalog").Inc()
		return ctrl.Result{}, perr
	}
	logger.Info("catalog validated", "providers", cat.Len(), "version", cat.Version())
	if prevPhase != unlockv1alpha1.PhaseValid {
		r.recordEventf(&pc, corev1.EventTypeNormal, "Validated", "%s", msg)
	}
	return ctrl.Result{}, nil
}

func (r *ProviderCatalogReconciler) patchStatus(ctx context.Context, pc *unlockv1alpha1.ProviderCatalog, phase, message string, providers int32, conds ...metav1.Condition) error {
	before := pc.DeepCopy()
	pc.Status.ObservedGeneration = pc.Generation
	pc.Status.Phase = phase
	pc.Status.Message = message
	pc.Status.ProviderCount = providers
	for _, c := range conds {
		setCatalogCondition(pc, c)
	}
	return r.Status().Patch(ctx, pc, client.MergeFrom(before))
}

func (r *ProviderCatalogReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *ProviderCatalogReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&unlockv1alpha1.ProviderCatalog{}).
		Complete(r)
}
