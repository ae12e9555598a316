package grpc

// proto.go describes debt.v1.DebtService by hand. Messages are the
// application DTOs, carried by the JSON codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/debt-service/internal/application/dto"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "debt.v1.DebtService"

// DebtServiceServer is the server API for DebtService.
type DebtServiceServer interface {
	CreateDebt(context.Context, *dto.CreateDebtRequest) (*dto.DebtResponse, error)
	GetDebt(context.Context, *dto.GetDebtRequest) (*dto.DebtResponse, error)
	PreviewSchedule(context.Context, *dto.PreviewScheduleRequest) (*dto.ScheduleResponse, error)
	RecordPayment(context.Context, *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error)
	SimulatePrepayment(context.Context, *dto.SimulatePrepaymentRequest) (*dto.PrepaymentResponse, error)
	ApplyPrepayment(context.Context, *dto.ApplyPrepaymentRequest) (*dto.ApplyPrepaymentResponse, error)
	RestructureDebt(context.Context, *dto.RestructureDebtRequest) (*dto.RestructureDebtResponse, error)
	RecordRateChange(context.Context, *dto.RecordRateChangeRequest) (*dto.RecordRateChangeResponse, error)
	MarkOverdue(context.Context, *dto.MarkOverdueRequest) (*dto.MarkOverdueResponse, error)
	mustEmbedUnimplementedDebtServiceServer()
}

// UnimplementedDebtServiceServer provides forward-compatible default implementations.
type UnimplementedDebtServiceServer struct{}

func (UnimplementedDebtServiceServer) CreateDebt(context.Context, *dto.CreateDebtRequest) (*dto.DebtResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateDebt not implemented")
}
func (UnimplementedDebtServiceServer) GetDebt(context.Context, *dto.GetDebtRequest) (*dto.DebtResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDebt not implemented")
}
func (UnimplementedDebtServiceServer) PreviewSchedule(context.Context, *dto.PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PreviewSchedule not implemented")
}
func (UnimplementedDebtServiceServer) RecordPayment(context.Context, *dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordPayment not implemented")
}
func (UnimplementedDebtServiceServer) SimulatePrepayment(context.Context, *dto.SimulatePrepaymentRequest) (*dto.PrepaymentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SimulatePrepayment not implemented")
}
func (UnimplementedDebtServiceServer) ApplyPrepayment(context.Context, *dto.ApplyPrepaymentRequest) (*dto.ApplyPrepaymentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApplyPrepayment not implemented")
}
func (UnimplementedDebtServiceServer) RestructureDebt(context.Context, *dto.RestructureDebtRequest) (*dto.RestructureDebtResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RestructureDebt not implemented")
}
func (UnimplementedDebtServiceServer) RecordRateChange(context.Context, *dto.RecordRateChangeRequest) (*dto.RecordRateChangeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecordRateChange not implemented")
}
func (UnimplementedDebtServiceServer) MarkOverdue(context.Context, *dto.MarkOverdueRequest) (*dto.MarkOverdueResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkOverdue not implemented")
}
func (UnimplementedDebtServiceServer) mustEmbedUnimplementedDebtServiceServer() {}

// RegisterDebtServiceServer registers srv with s.
func RegisterDebtServiceServer(s grpclib.ServiceRegistrar, srv DebtServiceServer) {
	s.RegisterService(&debtServiceDesc, srv)
}

var debtServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DebtServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unaryMethod("CreateDebt", DebtServiceServer.CreateDebt),
		unaryMethod("GetDebt", DebtServiceServer.GetDebt),
		unaryMethod("PreviewSchedule", DebtServiceServer.PreviewSchedule),
		unaryMethod("RecordPayment", DebtServiceServer.RecordPayment),
		unaryMethod("SimulatePrepayment", DebtServiceServer.SimulatePrepayment),
		unaryMethod("ApplyPrepayment", DebtServiceServer.ApplyPrepayment),
		unaryMethod("RestructureDebt", DebtServiceServer.RestructureDebt),
		unaryMethod("RecordRateChange", DebtServiceServer.RecordRateChange),
		unaryMethod("MarkOverdue", DebtServiceServer.MarkOverdue),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "debt/v1/debt.proto",
}

func fullMethod(name string) string { return "/" + ServiceName + "/" + name }

func unaryMethod[Req, Resp any](
	name string,
	call func(DebtServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	info := &grpclib.UnaryServerInfo{FullMethod: fullMethod(name)}
	return grpclib.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(DebtServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			i := *info
			i.Server = srv
			return interceptor(ctx, in, &i, handler)
		},
	}
}

// DebtServiceClient calls DebtService over the JSON codec.
type DebtServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewDebtServiceClient creates a client on cc.
func NewDebtServiceClient(cc grpclib.ClientConnInterface) *DebtServiceClient {
	return &DebtServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpclib.ClientConnInterface, name string, in any, opts []grpclib.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DebtServiceClient) CreateDebt(ctx context.Context, in *dto.CreateDebtRequest, opts ...grpclib.CallOption) (*dto.DebtResponse, error) {
	return invoke[dto.DebtResponse](ctx, c.cc, "CreateDebt", in, opts)
}

func (c *DebtServiceClient) GetDebt(ctx context.Context, in *dto.GetDebtRequest, opts ...grpclib.CallOption) (*dto.DebtResponse, error) {
	return invoke[dto.DebtResponse](ctx, c.cc, "GetDebt", in, opts)
}

func (c *DebtServiceClient) PreviewSchedule(ctx context.Context, in *dto.PreviewScheduleRequest, opts ...grpclib.CallOption) (*dto.ScheduleResponse, error) {
	return invoke[dto.ScheduleResponse](ctx, c.cc, "PreviewSchedule", in, opts)
}

func (c *DebtServiceClient) RecordPayment(ctx context.Context, in *dto.RecordPaymentRequest, opts ...grpclib.CallOption) (*dto.RecordPaymentResponse, error) {
	return invoke[dto.RecordPaymentResponse](ctx, c.cc, "RecordPayment", in, opts)
}

func (c *DebtServiceClient) SimulatePrepayment(ctx context.Context, in *dto.SimulatePrepaymentRequest, opts ...grpclib.CallOption) (*dto.PrepaymentResponse, error) {
	return invoke[dto.PrepaymentResponse](ctx, c.cc, "SimulatePrepayment", in, opts)
}

func (c *DebtServiceClient) ApplyPrepayment(ctx context.Context, in *dto.ApplyPrepaymentRequest, opts ...grpclib.CallOption) (*dto.ApplyPrepaymentResponse, error) {
	return invoke[dto.ApplyPrepaymentResponse](ctx, c.cc, "ApplyPrepayment", in, opts)
}

func (c *DebtServiceClient) RestructureDebt(ctx context.Context, in *dto.RestructureDebtRequest, opts ...grpclib.CallOption) (*dto.RestructureDebtResponse, error) {
	return invoke[dto.RestructureDebtResponse](ctx, c.cc, "RestructureDebt", in, opts)
}

func (c *DebtServiceClient) RecordRateChange(ctx context.Context, in *dto.RecordRateChangeRequest, opts ...grpclib.CallOption) (*dto.RecordRateChangeResponse, error) {
	return invoke[dto.RecordRateChangeResponse](ctx, c.cc, "RecordRateChange", in, opts)
}

func (c *DebtServiceClient) MarkOverdue(ctx context.Context, in *dto.MarkOverdueRequest, opts ...grpclib.CallOption) (*dto.MarkOverdueResponse, error) {
	return invoke[dto.MarkOverdueResponse](ctx, c.cc, "MarkOverdue", in, opts)
}
