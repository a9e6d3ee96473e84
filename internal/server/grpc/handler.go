package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/promptify/internal/api"
	"github.com/dmitrijs2005/promptify/internal/common"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) EnsureProfile(ctx context.Context, _ *emptypb.Empty) (*api.ProfileResponse, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ReasonUnauthenticated)
	}

	p, err := s.services.Profiles.EnsureProfile(ctx, *id)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.ProfileResponse{Profile: toAPIProfile(p)}, nil
}

func (s *GRPCServer) ListPrompts(ctx context.Context, _ *emptypb.Empty) (*api.ListPromptsResponse, error) {
	list, err := s.services.Catalog.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*api.Prompt, 0, len(list))
	for _, p := range list {
		out = append(out, toAPIPrompt(p))
	}

	return &api.ListPromptsResponse{Prompts: out}, nil
}

func (s *GRPCServer) GetPrompt(ctx context.Context, req *api.PromptRequest) (*api.PromptResponse, error) {
	p, err := s.services.Catalog.Get(ctx, req.GetPromptID())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.PromptResponse{Prompt: toAPIPrompt(p)}, nil
}

func (s *GRPCServer) UnlockPrompt(ctx context.Context, req *api.PromptRequest) (*api.UnlockResponse, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ReasonUnauthenticated)
	}

	res, err := s.services.Ledger.Unlock(ctx, id.ID, req.GetPromptID())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.UnlockResponse{
		Unlocked:     res.Granted,
		CoinsLeft:    res.CoinsRemaining,
		AlreadyOwned: res.AlreadyOwned,
	}, nil
}

func (s *GRPCServer) GetPromptSecret(ctx context.Context, req *api.PromptRequest) (*api.SecretResponse, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ReasonUnauthenticated)
	}

	text, err := s.services.Gate.FetchSecret(ctx, id.ID, req.GetPromptID())
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.SecretResponse{SecretText: text}, nil
}

func (s *GRPCServer) ListUnlockedPromptIDs(ctx context.Context, _ *emptypb.Empty) (*api.UnlockedResponse, error) {
	id, ok := identityFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, common.ReasonUnauthenticated)
	}

	ids, err := s.services.Ledger.ListGrants(ctx, id.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return &api.UnlockedResponse{PromptIDs: ids}, nil
}

// toStatus maps service errors to gRPC statuses. Business failures carry a
// machine-readable reason as the message; anything else is Internal and
// its details stay in the log.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, common.ReasonInsufficientFunds)
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, common.ReasonForbidden)
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ReasonNotFound)
	case errors.Is(err, common.ErrInvalidPromptID):
		return status.Error(codes.InvalidArgument, common.ReasonInvalidArgument)
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ReasonUnauthenticated)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toAPIProfile(p *models.Profile) *api.Profile {
	return &api.Profile{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Coins:       p.Coins,
		Role:        string(p.Role),
	}
}

func toAPIPrompt(p *models.Prompt) *api.Prompt {
	return &api.Prompt{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		AIModel:     p.AIModel,
		Category:    p.Category,
		Author:      p.Author,
		IsTrending:  p.IsTrending,
		RatingAvg:   p.RatingAvg,
		UnlockCount: p.UnlockCount,
		CreatedAt:   p.CreatedAt,
	}
}
