package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "promptify.v1.Marketplace"

// Fully-qualified method names, used by interceptors for routing decisions.
const (
	MethodPing                  = "/" + ServiceName + "/Ping"
	MethodEnsureProfile         = "/" + ServiceName + "/EnsureProfile"
	MethodListPrompts           = "/" + ServiceName + "/ListPrompts"
	MethodGetPrompt             = "/" + ServiceName + "/GetPrompt"
	MethodUnlockPrompt          = "/" + ServiceName + "/UnlockPrompt"
	MethodGetPromptSecret       = "/" + ServiceName + "/GetPromptSecret"
	MethodListUnlockedPromptIDs = "/" + ServiceName + "/ListUnlockedPromptIDs"
)

// MarketplaceServer is implemented by the gRPC handler.
type MarketplaceServer interface {
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)
	EnsureProfile(context.Context, *emptypb.Empty) (*ProfileResponse, error)
	ListPrompts(context.Context, *emptypb.Empty) (*ListPromptsResponse, error)
	GetPrompt(context.Context, *PromptRequest) (*PromptResponse, error)
	UnlockPrompt(context.Context, *PromptRequest) (*UnlockResponse, error)
	GetPromptSecret(context.Context, *PromptRequest) (*SecretResponse, error)
	ListUnlockedPromptIDs(context.Context, *emptypb.Empty) (*UnlockedResponse, error)
}

// UnimplementedMarketplaceServer can be embedded to get forward-compatible
// Unimplemented answers.
type UnimplementedMarketplaceServer struct{}

func (UnimplementedMarketplaceServer) Ping(context.Context, *emptypb.Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedMarketplaceServer) EnsureProfile(context.Context, *emptypb.Empty) (*ProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EnsureProfile not implemented")
}
func (UnimplementedMarketplaceServer) ListPrompts(context.Context, *emptypb.Empty) (*ListPromptsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPrompts not implemented")
}
func (UnimplementedMarketplaceServer) GetPrompt(context.Context, *PromptRequest) (*PromptResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPrompt not implemented")
}
func (UnimplementedMarketplaceServer) UnlockPrompt(context.Context, *PromptRequest) (*UnlockResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UnlockPrompt not implemented")
}
func (UnimplementedMarketplaceServer) GetPromptSecret(context.Context, *PromptRequest) (*SecretResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPromptSecret not implemented")
}
func (UnimplementedMarketplaceServer) ListUnlockedPromptIDs(context.Context, *emptypb.Empty) (*UnlockedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUnlockedPromptIDs not implemented")
}

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(MarketplaceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MarketplaceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MarketplaceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MarketplaceServiceDesc describes the service for grpc.Server.RegisterService.
var MarketplaceServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, MarketplaceServer.Ping)},
		{MethodName: "EnsureProfile", Handler: unaryHandler(MethodEnsureProfile, MarketplaceServer.EnsureProfile)},
		{MethodName: "ListPrompts", Handler: unaryHandler(MethodListPrompts, MarketplaceServer.ListPrompts)},
		{MethodName: "GetPrompt", Handler: unaryHandler(MethodGetPrompt, MarketplaceServer.GetPrompt)},
		{MethodName: "UnlockPrompt", Handler: unaryHandler(MethodUnlockPrompt, MarketplaceServer.UnlockPrompt)},
		{MethodName: "GetPromptSecret", Handler: unaryHandler(MethodGetPromptSecret, MarketplaceServer.GetPromptSecret)},
		{MethodName: "ListUnlockedPromptIDs", Handler: unaryHandler(MethodListUnlockedPromptIDs, MarketplaceServer.ListUnlockedPromptIDs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "promptify/v1/marketplace",
}

// RegisterMarketplaceServer registers srv on s.
func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&MarketplaceServiceDesc, srv)
}

// MarketplaceClient is the client stub of the service.
type MarketplaceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error)
	EnsureProfile(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ProfileResponse, error)
	ListPrompts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListPromptsResponse, error)
	GetPrompt(ctx context.Context, in *PromptRequest, opts ...grpc.CallOption) (*PromptResponse, error)
	UnlockPrompt(ctx context.Context, in *PromptRequest, opts ...grpc.CallOption) (*UnlockResponse, error)
	GetPromptSecret(ctx context.Context, in *PromptRequest, opts ...grpc.CallOption) (*SecretResponse, error)
	ListUnlockedPromptIDs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*UnlockedResponse, error)
}

type marketplaceClient struct {
	cc grpc.ClientConnInterface
}

// NewMarketplaceClient returns a stub bound to cc. Calls default to the JSON
// content subtype.
func NewMarketplaceClient(cc grpc.ClientConnInterface) MarketplaceClient {
	return &marketplaceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketplaceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *marketplaceClient) EnsureProfile(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodEnsureProfile, in, opts)
}

func (c *marketplaceClient) ListPrompts(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListPromptsResponse, error) {
	return invoke[ListPromptsResponse](ctx, c.cc, MethodListPrompts, in, opts)
}

func (c *marketplaceClient) GetPrompt(ctx context.Context, in *PromptRequest, opts ...grpc.CallOption) (*PromptResponse, error) {
	return invoke[PromptResponse](ctx, c.cc, MethodGetPrompt, in, opts)
}

func (c *marketplaceClient) UnlockPrompt(ctx context.Context, in *PromptRequest, opts ...grpc.CallOption) (*UnlockResponse, error) {
	return invoke[UnlockResponse](ctx, c.cc, MethodUnlockPrompt, in, opts)
}

func (c *marketplaceClient) GetPromptSecret(ctx context.Context, in *PromptRequest, opts ...grpc.CallOption) (*SecretResponse, error) {
	return invoke[SecretResponse](ctx, c.cc, MethodGetPromptSecret, in, opts)
}

func (c *marketplaceClient) ListUnlockedPromptIDs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*UnlockedResponse, error) {
	return invoke[UnlockedResponse](ctx, c.cc, MethodListUnlockedPromptIDs, in, opts)
}
