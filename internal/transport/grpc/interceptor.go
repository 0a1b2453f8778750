package grpcserver

import (
	"context"
	"path"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/milad/meterreads/internal/logger"
)

// RequestIDHeader is the metadata key the HTTP gateway forwards its request id under.
const RequestIDHeader = "x-request-id"

// UnaryLogging attaches a request-scoped logger to the context, then records one
// log line and the handled-requests metric per call.
func UnaryLogging(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		method := path.Base(info.FullMethod)

		l := base.With(zap.String("method", method))
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				l = l.With(zap.String("request_id", ids[0]))
			}
		}
		ctx = logger.WithContext(ctx, l)

		resp, err := handler(ctx, req)

		code := status.Code(err)
		dur := time.Since(start)
		observeHandled(method, code.String(), dur)

		fields := []zap.Field{zap.String("code", code.String()), zap.Duration("duration", dur)}
		if err != nil {
			l.Warn("grpc call failed", append(fields, zap.Error(err))...)
		} else {
			l.Info("grpc call", fields...)
		}
		return resp, err
	}
}
