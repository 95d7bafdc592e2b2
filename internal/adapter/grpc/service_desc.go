package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProjectionServiceName is the fully-qualified gRPC service name
const ProjectionServiceName = "letsretire.v1.ProjectionService"

const (
	RunProjectionMethod = "/" + ProjectionServiceName + "/RunProjection"
	GetProjectionMethod = "/" + ProjectionServiceName + "/GetProjection"
)

// ProjectionServiceServer is the server API for the projection service.
// Messages are google.protobuf.Struct so no generated code is required.
type ProjectionServiceServer interface {
	RunProjection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProjection(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ProjectionServiceDesc describes the projection service to grpc.Server
var ProjectionServiceDesc = grpc.ServiceDesc{
	ServiceName: ProjectionServiceName,
	HandlerType: (*ProjectionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunProjection", Handler: runProjectionHandler},
		{MethodName: "GetProjection", Handler: getProjectionHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "letsretire/v1/projection.proto",
}

// RegisterProjectionServiceServer registers srv with the gRPC registrar
func RegisterProjectionServiceServer(s grpc.ServiceRegistrar, srv ProjectionServiceServer) {
	s.RegisterService(&ProjectionServiceDesc, srv)
}

func runProjectionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectionServiceServer).RunProjection(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RunProjectionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectionServiceServer).RunProjection(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getProjectionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProjectionServiceServer).GetProjection(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetProjectionMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ProjectionServiceServer).GetProjection(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ProjectionServiceClient calls the projection service over a client connection
type ProjectionServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProjectionServiceClient creates a new ProjectionServiceClient instance
func NewProjectionServiceClient(cc grpc.ClientConnInterface) *ProjectionServiceClient {
	return &ProjectionServiceClient{cc: cc}
}

func (c *ProjectionServiceClient) RunProjection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RunProjectionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProjectionServiceClient) GetProjection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetProjectionMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
