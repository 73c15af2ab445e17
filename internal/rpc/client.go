package rpc

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls the Planner service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Plan sends req and decodes the reply. Errors carry the server's gRPC status.
func (c *Client) Plan(ctx context.Context, req PlanRequest, opts ...grpc.CallOption) (*PlanResponse, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(withRequestID(ctx), planMethod, in, out, opts...); err != nil {
		return nil, err
	}
	var resp PlanResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Capabilities describes the catalog the server plans against.
func (c *Client) Capabilities(ctx context.Context, opts ...grpc.CallOption) (*CapabilitiesResponse, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(withRequestID(ctx), capabilitiesMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	var resp CapabilitiesResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func withRequestID(ctx context.Context) context.Context {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(RequestIDKey)) > 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, RequestIDKey, uuid.NewString())
}
