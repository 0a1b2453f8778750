package grpcserver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	meterusagev1 "github.com/milad/meterreads/internal/api/meterusage/v1"
	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/logger"
	"github.com/milad/meterreads/internal/service"
)

type Server struct {
	meterusagev1.UnimplementedMeterUsageServiceServer
	svc *service.MeterUsageService
}

func New(svc *service.MeterUsageService) *Server {
	return &Server{svc: svc}
}

func (s *Server) ListReadings(ctx context.Context, req *meterusagev1.ListReadingsRequest) (*meterusagev1.ListReadingsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	start, end, err := fromProtoRange(req.GetStart(), req.GetEnd())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.svc.ListReadingsPage(ctx, start, end, int(req.GetPageSize()), req.GetPageToken())
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	out := make([]*meterusagev1.Reading, 0, len(res.Readings))
	for _, r := range res.Readings {
		out = append(out, toProtoReading(r))
	}
	return &meterusagev1.ListReadingsResponse{
		Readings:      out,
		NextPageToken: res.NextPageToken,
	}, nil
}

func (s *Server) CreateReading(ctx context.Context, req *meterusagev1.CreateReadingRequest) (*meterusagev1.CreateReadingResponse, error) {
	in := req.GetReading()
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "reading is required")
	}
	ts := in.GetReadingDate()
	if ts == nil {
		return nil, status.Error(codes.InvalidArgument, "'readingDate' must be a valid ISO date string")
	}
	if err := ts.CheckValid(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	rd, err := s.svc.CreateReading(ctx, in.GetCumulative(), ts.AsTime(), in.GetUnit())
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &meterusagev1.CreateReadingResponse{Reading: toProtoReading(rd)}, nil
}

func (s *Server) GetMonthlyUsage(ctx context.Context, req *meterusagev1.GetMonthlyUsageRequest) (*meterusagev1.GetMonthlyUsageResponse, error) {
	start, end, err := fromProtoRange(req.GetStart(), req.GetEnd())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	usage, err := s.svc.MonthlyUsage(ctx, start, end)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	out := make([]*meterusagev1.MonthlyUsage, 0, len(usage))
	for _, u := range usage {
		out = append(out, &meterusagev1.MonthlyUsage{
			Month:      u.ReadingDate,
			Cumulative: u.Cumulative,
			Unit:       u.Unit,
		})
	}
	return &meterusagev1.GetMonthlyUsageResponse{Usage: out}, nil
}

// toStatus maps service errors to gRPC codes. Unclassified errors are logged and
// hidden behind a generic Internal status.
func toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidPagination),
		errors.Is(err, service.ErrInvalidReading):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrUnprocessable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	}
	logger.FromContext(ctx).Error("request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

func toProtoReading(r domain.Reading) *meterusagev1.Reading {
	return &meterusagev1.Reading{
		ReadingDate: timestamppb.New(r.ReadingDate),
		Cumulative:  r.Cumulative,
		Unit:        r.Unit,
	}
}

func fromProtoRange(start, end *timestamppb.Timestamp) (*time.Time, *time.Time, error) {
	s, err := fromProtoTime(start)
	if err != nil {
		return nil, nil, err
	}
	e, err := fromProtoTime(end)
	if err != nil {
		return nil, nil, err
	}
	return s, e, nil
}

func fromProtoTime(ts *timestamppb.Timestamp) (*time.Time, error) {
	if ts == nil {
		return nil, nil
	}
	if err := ts.CheckValid(); err != nil {
		return nil, err
	}
	t := ts.AsTime().UTC()
	return &t, nil
}
