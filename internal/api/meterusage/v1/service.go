package meterusagev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "meterusage.v1.MeterUsageService"

	ListReadingsFullMethodName    = "/" + ServiceName + "/ListReadings"
	CreateReadingFullMethodName   = "/" + ServiceName + "/CreateReading"
	GetMonthlyUsageFullMethodName = "/" + ServiceName + "/GetMonthlyUsage"
)

type MeterUsageServiceClient interface {
	ListReadings(ctx context.Context, in *ListReadingsRequest, opts ...grpc.CallOption) (*ListReadingsResponse, error)
	CreateReading(ctx context.Context, in *CreateReadingRequest, opts ...grpc.CallOption) (*CreateReadingResponse, error)
	GetMonthlyUsage(ctx context.Context, in *GetMonthlyUsageRequest, opts ...grpc.CallOption) (*GetMonthlyUsageResponse, error)
}

type meterUsageServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMeterUsageServiceClient returns a client that always sends the JSON content-subtype.
func NewMeterUsageServiceClient(cc grpc.ClientConnInterface) MeterUsageServiceClient {
	return &meterUsageServiceClient{cc: cc}
}

func (c *meterUsageServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, callOpts...)
}

func (c *meterUsageServiceClient) ListReadings(ctx context.Context, in *ListReadingsRequest, opts ...grpc.CallOption) (*ListReadingsResponse, error) {
	out := new(ListReadingsResponse)
	if err := c.invoke(ctx, ListReadingsFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *meterUsageServiceClient) CreateReading(ctx context.Context, in *CreateReadingRequest, opts ...grpc.CallOption) (*CreateReadingResponse, error) {
	out := new(CreateReadingResponse)
	if err := c.invoke(ctx, CreateReadingFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *meterUsageServiceClient) GetMonthlyUsage(ctx context.Context, in *GetMonthlyUsageRequest, opts ...grpc.CallOption) (*GetMonthlyUsageResponse, error) {
	out := new(GetMonthlyUsageResponse)
	if err := c.invoke(ctx, GetMonthlyUsageFullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// MeterUsageServiceServer is implemented by the service. Implementations must
// embed UnimplementedMeterUsageServiceServer.
type MeterUsageServiceServer interface {
	ListReadings(context.Context, *ListReadingsRequest) (*ListReadingsResponse, error)
	CreateReading(context.Context, *CreateReadingRequest) (*CreateReadingResponse, error)
	GetMonthlyUsage(context.Context, *GetMonthlyUsageRequest) (*GetMonthlyUsageResponse, error)
	mustEmbedUnimplementedMeterUsageServiceServer()
}

type UnimplementedMeterUsageServiceServer struct{}

func (UnimplementedMeterUsageServiceServer) ListReadings(context.Context, *ListReadingsRequest) (*ListReadingsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReadings not implemented")
}

func (UnimplementedMeterUsageServiceServer) CreateReading(context.Context, *CreateReadingRequest) (*CreateReadingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateReading not implemented")
}

func (UnimplementedMeterUsageServiceServer) GetMonthlyUsage(context.Context, *GetMonthlyUsageRequest) (*GetMonthlyUsageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetMonthlyUsage not implemented")
}

func (UnimplementedMeterUsageServiceServer) mustEmbedUnimplementedMeterUsageServiceServer() {}

func RegisterMeterUsageServiceServer(s grpc.ServiceRegistrar, srv MeterUsageServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodDesc.
func unaryHandler[Req any, Resp any](fullMethod string, call func(MeterUsageServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MeterUsageServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MeterUsageServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MeterUsageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListReadings",
			Handler:    unaryHandler(ListReadingsFullMethodName, MeterUsageServiceServer.ListReadings),
		},
		{
			MethodName: "CreateReading",
			Handler:    unaryHandler(CreateReadingFullMethodName, MeterUsageServiceServer.CreateReading),
		},
		{
			MethodName: "GetMonthlyUsage",
			Handler:    unaryHandler(GetMonthlyUsageFullMethodName, MeterUsageServiceServer.GetMonthlyUsage),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "meterusage/v1/meterusage.proto",
}
