package rpc

import (
	"context"
	"net"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
	"github.com/bayleafwalker/unlockpath/internal/catalog"
	"github.com/bayleafwalker/unlockpath/internal/metrics"
)

func startServer(t *testing.T, opts ...ServerOption) *Client {
	t.Helper()

	cat, err := catalog.Builtin()
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logr.Discard())))
	RegisterPlannerServer(s, NewServer(cat, opts...))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn)
}

func TestPlan(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c := startServer(t, WithMetrics(m))

	resp, err := c.Plan(context.Background(), PlanRequest{Requests: []unlockv1alpha1.CapabilityRequest{
		{Capability: "fuel scoop", Quality: 5},
		{Capability: "Refinery", Quality: 5},
	}})
	require.NoError(t, err)

	require.Len(t, resp.Paths, 1)
	steps := resp.Paths[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, "The Dweller", steps[0].Provider)
	assert.Equal(t, "Marsha Hicks", steps[1].Provider)
	assert.Equal(t, []unlockv1alpha1.CapabilityRequest{
		{Capability: "Fuel Scoop", Quality: 5},
		{Capability: "Refinery", Quality: 5},
	}, steps[1].Satisfies)
	assert.NotEmpty(t, resp.Paths[0].Bonus)
	assert.NotEmpty(t, resp.Stats.Combinations)
	assert.NotZero(t, resp.Stats.Evaluated)
}

func TestPlan_Errors(t *testing.T) {
	c := startServer(t)

	tests := []struct {
		name string
		req  PlanRequest
		code codes.Code
	}{
		{
			name: "no requests",
			req:  PlanRequest{},
			code: codes.InvalidArgument,
		},
		{
			name: "unknown capability",
			req:  PlanRequest{Requests: []unlockv1alpha1.CapabilityRequest{{Capability: "Warp Core", Quality: 1}}},
			code: codes.InvalidArgument,
		},
		{
			name: "bad quality",
			req:  PlanRequest{Requests: []unlockv1alpha1.CapabilityRequest{{Capability: "Sensors", Quality: 6}}},
			code: codes.InvalidArgument,
		},
		{
			name: "missing coverage",
			req:  PlanRequest{Requests: []unlockv1alpha1.CapabilityRequest{{Capability: "Shield Cell Bank", Quality: 5}}},
			code: codes.NotFound,
		},
		{
			name: "infeasible",
			req: PlanRequest{Requests: []unlockv1alpha1.CapabilityRequest{
				{Capability: "Fuel Scoop", Quality: 5, Pinned: true},
				{Capability: "Refinery", Quality: 5, Pinned: true},
			}},
			code: codes.FailedPrecondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Plan(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err), "%v", err)
		})
	}
}

func TestPlan_AllPathsOverride(t *testing.T) {
	c := startServer(t, WithAllPaths(false))
	reqs := []unlockv1alpha1.CapabilityRequest{{Capability: "Thrusters", Quality: 1}}

	single, err := c.Plan(context.Background(), PlanRequest{Requests: reqs})
	require.NoError(t, err)
	assert.Len(t, single.Paths, 1)

	all := true
	many, err := c.Plan(context.Background(), PlanRequest{Requests: reqs, AllPaths: &all})
	require.NoError(t, err)
	assert.Greater(t, len(many.Paths), 1)
}

func TestCapabilities(t *testing.T) {
	c := startServer(t)

	resp, err := c.Capabilities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.4.0", resp.Version)
	assert.Len(t, resp.Capabilities, 39)
	assert.Len(t, resp.Providers, 25)
	assert.Equal(t, "Felicity Farseer", resp.Providers[0])
}
