package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/promptify/internal/api"
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const identityKey ctxKey = "identity"

// authenticatedMethods require a verified identity token.
var authenticatedMethods = map[string]bool{
	api.MethodEnsureProfile:         true,
	api.MethodUnlockPrompt:          true,
	api.MethodGetPromptSecret:       true,
	api.MethodListUnlockedPromptIDs: true,
}

func withIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// identityFromContext returns the caller set by identityInterceptor.
func identityFromContext(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*auth.Identity)
	return id, ok && id != nil
}

func (s *GRPCServer) identityInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !authenticatedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			token = values[0]
		}
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	id, err := auth.ParseIdentity(token, s.identitySecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return handler(withIdentity(ctx, id), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	requestID := uuid.NewString()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	if s.observer != nil {
		s.observer.ObserveRequest(info.FullMethod, code.String())
	}

	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start), "request_id", requestID}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "request failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "request handled", args...)
	}

	return resp, err
}
