package rpc

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key carrying a caller supplied request id.
const RequestIDKey = "x-request-id"

// LoggingInterceptor puts a request-scoped logger into the handler context
// and logs the outcome of each call.
func LoggingInterceptor(base logr.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		log := base.WithValues("method", info.FullMethod, "requestID", requestID(ctx))
		start := time.Now()

		resp, err := handler(logr.NewContext(ctx, log), req)

		log.V(1).Info("call finished", "code", status.Code(err).String(), "duration", time.Since(start).String())
		return resp, err
	}
}

func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(RequestIDKey); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}
