package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/catalog"
	plannermetrics "github.com/bayleafwalker/unlockpath/internal/metrics"
	"github.com/bayleafwalker/unlockpath/internal/request"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

const catalogRefIndex = ".spec.catalogRef.name"

// UnlockPlanReconciler computes unlock paths for UnlockPlans against the
// ProviderCatalog they reference.
//
// RBAC:
// +kubebuilder:rbac:groups=unlockpath.bayleafwalker.io,resources=unlockplans,verbs=get;list;watch
// +kubebuilder:rbac:groups=unlockpath.bayleafwalker.io,resources=unlockplans/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=unlockpath.bayleafwalker.io,resources=providercatalogs,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch;update
type UnlockPlanReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder

	// Timeout bounds a single search. Zero means no limit.
	Timeout time.Duration

	// Metrics receives one observation per search. Defaults to the
	// controller-runtime registry.
	Metrics *plannermetrics.Metrics
}

func (r *UnlockPlanReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	unlockpathControllerReconcileTotal.WithLabelValues("UnlockPlan").Inc()

	logger := log.FromContext(ctx).WithValues(
		"controller", "UnlockPlan",
		"namespace", req.Namespace,
		"plan", req.Name,
	)

	var plan unlockv1alpha1.UnlockPlan
	if err := r.Get(ctx, req.NamespacedName, &plan); err != nil {
		if client.IgnoreNotFound(err) == nil {
			return ctrl.Result{}, nil
		}
		unlockpathControllerReconcileErrorTotal.WithLabelValues("UnlockPlan").Inc()
		return ctrl.Result{}, err
	}
	logger = logger.WithValues("catalog", plan.Spec.CatalogRef.Name)

	var pc unlockv1alpha1.ProviderCatalog
	if err := r.Get(ctx, types.NamespacedName{Namespace: plan.Namespace, Name: plan.Spec.CatalogRef.Name}, &pc); err != nil {
		if !apierrors.IsNotFound(err) {
			unlockpathControllerReconcileErrorTotal.WithLabelValues("UnlockPlan").Inc()
			return ctrl.Result{}, err
		}
		msg := fmt.Sprintf("ProviderCatalog %q not found", plan.Spec.CatalogRef.Name)
		return r.fail(ctx, &plan, 0, "CatalogNotFound", msg, metav1.Condition{
			Type:    PlanConditionCatalogReady,
			Status:  metav1.ConditionFalse,
			Reason:  "CatalogNotFound",
			Message: msg,
		})
	}

	if settled(&plan, pc.Generation) {
		return ctrl.Result{}, nil
	}

	cat, err := catalog.FromSpec(pc.Spec)
	if err != nil {
		msg := err.Error()
		return r.fail(ctx, &plan, pc.Generation, "CatalogInvalid", msg, metav1.Condition{
			Type:    PlanConditionCatalogReady,
			Status:  metav1.ConditionFalse,
			Reason:  "CatalogInvalid",
			Message: msg,
		})
	}
	catalogReady := metav1.Condition{
		Type:    PlanConditionCatalogReady,
		Status:  metav1.ConditionTrue,
		Reason:  "CatalogLoaded",
		Message: fmt.Sprintf("catalog %s with %d providers", cat.Version(), cat.Len()),
	}

	reqs, err := request.FromSpec(cat, plan.Spec.Requests)
	if err != nil {
		msg := err.Error()
		return r.fail(ctx, &plan, pc.Generation, "InvalidRequest", msg, catalogReady, metav1.Condition{
			Type:    PlanConditionResolved,
			Status:  metav1.ConditionFalse,
			Reason:  "InvalidRequest",
			Message: msg,
		})
	}

	searchCtx := log.IntoContext(ctx, logger)
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(searchCtx, r.Timeout)
		defer cancel()
	}
	res := plannermetrics.Instrument(resolver.NewDefault(cat, resolver.WithAllPaths(plan.Spec.AllPaths)), r.metrics())
	result, err := res.Resolve(searchCtx, resolver.Input{Requests: reqs})
	if err != nil {
		reason := "SearchFailed"
		switch {
		case ctx.Err() != nil:
			// Shutting down; let the next leader retry.
			return ctrl.Result{}, ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			reason = "SearchTimeout"
		case errors.Is(err, resolver.ErrMissingCoverage):
			reason = "MissingCoverage"
		case errors.Is(err, resolver.ErrInfeasible):
			reason = "Infeasible"
		}
		msg := err.Error()
		return r.fail(ctx, &plan, pc.Generation, reason, msg, catalogReady, metav1.Condition{
			Type:    PlanConditionResolved,
			Status:  metav1.ConditionFalse,
			Reason:  reason,
			Message: msg,
		})
	}

	paths := make([]unlockv1alpha1.UnlockPathStatus, 0, len(result.Paths))
	for _, p := range result.Paths {
		paths = append(paths, request.PathStatus(cat, p))
	}
	providers := 0
	if len(result.Paths) > 0 {
		providers = len(result.Paths[0].Providers)
	}
	msg := resolvedMessage(len(paths), providers)

	before := plan.DeepCopy()
	plan.Status.ObservedGeneration = plan.Generation
	plan.Status.CatalogGeneration = pc.Generation
	plan.Status.Phase = unlockv1alpha1.PhaseResolved
	plan.Status.Message = msg
	plan.Status.ProviderCount = int32(providers)
	plan.Status.Paths = paths
	setPlanCondition(&plan, catalogReady)
	setPlanCondition(&plan, metav1.Condition{
		Type:    PlanConditionResolved,
		Status:  metav1.ConditionTrue,
		Reason:  "Resolved",
		Message: msg,
	})
	if err := r.Status().Patch(ctx, &plan, client.MergeFrom(before)); err != nil {
		logger.Error(err, "failed to patch plan status")
		unlockpathControllerReconcileErrorTotal.WithLabelValues("UnlockPlan").Inc()
		return ctrl.Result{}, err
	}

	logger.Info("plan resolved",
		"paths", len(paths),
		"providers", providers,
		"evaluated", result.Stats.Evaluated,
		"pruned", result.Stats.Pruned)
	if before.Status.Phase != unlockv1alpha1.PhaseResolved {
		r.recordEventf(&plan, corev1.EventTypeNormal, "Resolved", "%s", msg)
	}
	return ctrl.Result{}, nil
}

// fail records a terminal planning failure. Such failures are not retried
// until the plan or its catalog changes.
func (r *UnlockPlanReconciler) fail(ctx context.Context, plan *unlockv1alpha1.UnlockPlan, catalogGeneration int64, reason, message string, conds ...metav1.Condition) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	before := plan.DeepCopy()
	plan.Status.ObservedGeneration = plan.Generation
	plan.Status.CatalogGeneration = catalogGeneration
	plan.Status.Phase = unlockv1alpha1.PhaseError
	plan.Status.Message = message
	plan.Status.ProviderCount = 0
	plan.Status.Paths = nil
	for _, c := range conds {
		setPlanCondition(plan, c)
	}
	if err := r.Status().Patch(ctx, plan, client.MergeFrom(before)); err != nil {
		logger.Error(err, "failed to patch plan status")
		unlockpathControllerReconcileErrorTotal.WithLabelValues("UnlockPlan").Inc()
		return ctrl.Result{}, err
	}

	logger.Info("plan not resolved", "reason", reason, "message", message)
	if before.Status.Phase != unlockv1alpha1.PhaseError || before.Status.Message != message {
		r.recordEventf(plan, corev1.EventTypeWarning, reason, "%s", message)
	}
	return ctrl.Result{}, nil
}

// settled reports whether plan already carries a result, resolved or failed,
// for its current generation and the given catalog generation.
func settled(plan *unlockv1alpha1.UnlockPlan, catalogGeneration int64) bool {
	switch plan.Status.Phase {
	case unlockv1alpha1.PhaseResolved, unlockv1alpha1.PhaseError:
	default:
		return false
	}
	return plan.Status.ObservedGeneration == plan.Generation &&
		plan.Status.CatalogGeneration == catalogGeneration
}

func (r *UnlockPlanReconciler) metrics() *plannermetrics.Metrics {
	if r.Metrics != nil {
		return r.Metrics
	}
	return plannerMetrics
}

func (r *UnlockPlanReconciler) recordEventf(obj client.Object, eventType, reason, messageFmt string, args ...any) {
	if r.Recorder == nil || obj == nil {
		return
	}
	r.Recorder.Eventf(obj, eventType, reason, messageFmt, args...)
}

func (r *UnlockPlanReconciler) enqueuePlansForCatalog(ctx context.Context, obj client.Object) []reconcile.Request {
	var plans unlockv1alpha1.UnlockPlanList
	if err := r.List(ctx, &plans,
		client.InNamespace(obj.GetNamespace()),
		client.MatchingFields{catalogRefIndex: obj.GetName()},
	); err != nil {
		log.FromContext(ctx).Error(err, "failed to list plans for catalog", "catalog", obj.GetName())
		return nil
	}
	out := make([]reconcile.Request, 0, len(plans.Items))
	for _, p := range plans.Items {
		out = append(out, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: p.Namespace, Name: p.Name}})
	}
	return out
}

func catalogRefIndexer(obj client.Object) []string {
	plan, ok := obj.(*unlockv1alpha1.UnlockPlan)
	if !ok || plan.Spec.CatalogRef.Name == "" {
		return nil
	}
	return []string{plan.Spec.CatalogRef.Name}
}

func (r *UnlockPlanReconciler) SetupWithManager(mgr ctrl.Manager) error {
	if err := mgr.GetFieldIndexer().IndexField(context.Background(), &unlockv1alpha1.UnlockPlan{}, catalogRefIndex, catalogRefIndexer); err != nil {
		return err
	}
	return ctrl.NewControllerManagedBy(mgr).
		For(&unlockv1alpha1.UnlockPlan{}).
		Watches(&unlockv1alpha1.ProviderCatalog{}, handler.EnqueueRequestsFromMapFunc(r.enqueuePlansForCatalog)).
		Complete(r)
}
