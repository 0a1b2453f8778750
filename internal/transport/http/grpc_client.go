package httpserver

import (
	"context"
	"time"

	"google.golang.org/grpc"

	meterusagev1 "github.com/milad/meterreads/internal/api/meterusage/v1"
	"github.com/milad/meterreads/internal/domain"
)

// MeterUsageClient is the subset of the gRPC client the gateway calls.
type MeterUsageClient interface {
	ListReadings(ctx context.Context, in *meterusagev1.ListReadingsRequest, opts ...grpc.CallOption) (*meterusagev1.ListReadingsResponse, error)
	CreateReading(ctx context.Context, in *meterusagev1.CreateReadingRequest, opts ...grpc.CallOption) (*meterusagev1.CreateReadingResponse, error)
	GetMonthlyUsage(ctx context.Context, in *meterusagev1.GetMonthlyUsageRequest, opts ...grpc.CallOption) (*meterusagev1.GetMonthlyUsageResponse, error)
}

func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := domain.ParseReadingDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
