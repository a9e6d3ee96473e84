package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/promptify/internal/api"
	"github.com/dmitrijs2005/promptify/internal/client/models"
	"github.com/dmitrijs2005/promptify/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const pingTimeout = 3 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.MarketplaceClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// accessTokenInterceptor attaches the current token, if any, to every call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewMarketplaceClientService(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewMarketplaceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) EnsureProfile(ctx context.Context) (*models.Profile, error) {
	resp, err := s.client.EnsureProfile(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Profile == nil {
		return nil, fmt.Errorf("rpc error: empty profile")
	}

	p := resp.Profile
	return &models.Profile{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Coins:       p.Coins,
		Role:        p.Role,
	}, nil
}

func (s *GRPCClient) ListPrompts(ctx context.Context) ([]*models.Prompt, error) {
	resp, err := s.client.ListPrompts(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	list := make([]*models.Prompt, 0, len(resp.Prompts))
	for _, p := range resp.Prompts {
		list = append(list, fromAPIPrompt(p))
	}
	return list, nil
}

func (s *GRPCClient) GetPrompt(ctx context.Context, promptID string) (*models.Prompt, error) {
	resp, err := s.client.GetPrompt(ctx, &api.PromptRequest{PromptID: promptID})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.Prompt == nil {
		return nil, ErrNotFound
	}
	return fromAPIPrompt(resp.Prompt), nil
}

func (s *GRPCClient) UnlockPrompt(ctx context.Context, promptID string) (*models.UnlockOutcome, error) {
	resp, err := s.client.UnlockPrompt(ctx, &api.PromptRequest{PromptID: promptID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.UnlockOutcome{
		Unlocked:     resp.Unlocked,
		AlreadyOwned: resp.AlreadyOwned,
		CoinsLeft:    resp.CoinsLeft,
	}, nil
}

func (s *GRPCClient) GetPromptSecret(ctx context.Context, promptID string) (string, error) {
	resp, err := s.client.GetPromptSecret(ctx, &api.PromptRequest{PromptID: promptID})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.SecretText, nil
}

func (s *GRPCClient) ListUnlockedPromptIDs(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListUnlockedPromptIDs(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	if resp.PromptIDs == nil {
		return []string{}, nil
	}
	return resp.PromptIDs, nil
}

func fromAPIPrompt(p *api.Prompt) *models.Prompt {
	return &models.Prompt{
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

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrNotAuthenticated
	case codes.FailedPrecondition:
		if st.Message() == common.ReasonInsufficientFunds {
			return ErrInsufficientBalance
		}
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return ErrInvalidArgument
	case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.ResourceExhausted:
		return ErrUnavailable
	}
	return fmt.Errorf("rpc error: %w", err)
}
