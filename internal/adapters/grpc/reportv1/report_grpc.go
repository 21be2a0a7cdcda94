// Package reportv1 は orgreport.v1.ReportService の gRPC サービス定義です。
// リクエストとレスポンスには well-known 型 (google.protobuf.Empty / Struct) を使います。
package reportv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName                  = "orgreport.v1.ReportService"
	GenerateReportFullMethodName = "/" + ServiceName + "/GenerateReport"
)

// ReportServiceServer はサーバー側の実装が満たすインターフェースです。
type ReportServiceServer interface {
	GenerateReport(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedReportServiceServer は未実装メソッドに Unimplemented を返します。
type UnimplementedReportServiceServer struct{}

func (UnimplementedReportServiceServer) GenerateReport(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GenerateReport not implemented")
}

// RegisterReportServiceServer は srv を s に登録します。
func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportServiceDesc, srv)
}

func generateReportHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).GenerateReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GenerateReportFullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReportServiceServer).GenerateReport(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ReportServiceDesc は ReportService の grpc.ServiceDesc です。
var ReportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GenerateReport",
			Handler:    generateReportHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "orgreport/v1/report.proto",
}

// ReportServiceClient はクライアント側のインターフェースです。
type ReportServiceClient interface {
	GenerateReport(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type reportServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReportServiceClient は ReportServiceClient を生成します。
func NewReportServiceClient(cc grpc.ClientConnInterface) ReportServiceClient {
	return &reportServiceClient{cc: cc}
}

func (c *reportServiceClient) GenerateReport(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GenerateReportFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
