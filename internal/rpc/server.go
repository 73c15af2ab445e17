package rpc

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/metrics"
	"github.com/bayleafwalker/unlockpath/internal/request"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

// Server implements PlannerServer over one catalog. Every call runs its own
// search; the catalog is shared read-only.
type Server struct {
	catalog  *catalog.Catalog
	metrics  *metrics.Metrics
	allPaths bool
	timeout  time.Duration
}

type ServerOption func(*Server)

// WithMetrics records every Plan call on m.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// WithAllPaths sets the default for requests that do not choose.
func WithAllPaths(all bool) ServerOption {
	return func(s *Server) { s.allPaths = all }
}

// WithTimeout bounds each search. Zero disables the bound.
func WithTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.timeout = d }
}

func NewServer(cat *catalog.Catalog, opts ...ServerOption) *Server {
	s := &Server{catalog: cat, allPaths: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Plan(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	log := logr.FromContextOrDiscard(ctx)

	var req PlanRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(req.Requests) == 0 {
		return nil, status.Error(codes.InvalidArgument, "no requests given")
	}
	reqs, err := request.FromSpec(s.catalog, req.Requests)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	allPaths := s.allPaths
	if req.AllPaths != nil {
		allPaths = *req.AllPaths
	}
	var r resolver.Resolver = resolver.NewDefault(s.catalog, resolver.WithAllPaths(allPaths))
	if s.metrics != nil {
		r = metrics.Instrument(r, s.metrics)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	plan, err := r.Resolve(ctx, resolver.Input{Requests: reqs})
	if err != nil {
		log.V(1).Info("plan failed", "requests", len(reqs), "outcome", metrics.Outcome(err), "error", err.Error())
		return nil, statusFor(err)
	}

	resp := PlanResponse{
		Paths: make([]unlockv1alpha1.UnlockPathStatus, 0, len(plan.Paths)),
		Stats: PlanStats{
			Combinations: plan.Stats.Total.String(),
			Evaluated:    plan.Stats.Evaluated,
			Pruned:       plan.Stats.Pruned,
			Improvements: plan.Stats.Improvements,
		},
	}
	for _, p := range plan.Paths {
		resp.Paths = append(resp.Paths, request.PathStatus(s.catalog, p))
	}
	log.Info("planned", "requests", len(reqs), "paths", len(resp.Paths), "providers", len(plan.Paths[0].Providers))

	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func (s *Server) Capabilities(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	resp := CapabilitiesResponse{
		Version:      s.catalog.Version(),
		Capabilities: s.catalog.Kinds(),
	}
	for _, n := range s.catalog.Providers() {
		resp.Providers = append(resp.Providers, n.Name)
	}
	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// statusFor maps planner errors onto gRPC status codes.
func statusFor(err error) error {
	switch {
	case errors.Is(err, resolver.ErrMissingCoverage):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, resolver.ErrInfeasible):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
