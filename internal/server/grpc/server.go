// Package grpc exposes the marketplace services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/promptify/internal/api"
	"github.com/dmitrijs2005/promptify/internal/logging"
	"github.com/dmitrijs2005/promptify/internal/server/auth"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"google.golang.org/grpc"
)

type LedgerService interface {
	Unlock(ctx context.Context, userID, promptID string) (*models.UnlockResult, error)
	ListGrants(ctx context.Context, userID string) ([]string, error)
}

type GateService interface {
	FetchSecret(ctx context.Context, userID, promptID string) (string, error)
}

type ProfileService interface {
	EnsureProfile(ctx context.Context, id auth.Identity) (*models.Profile, error)
}

type CatalogService interface {
	List(ctx context.Context) ([]*models.Prompt, error)
	Get(ctx context.Context, promptID string) (*models.Prompt, error)
}

// RequestObserver is notified of every handled call.
type RequestObserver interface {
	ObserveRequest(method, code string)
}

// Services bundles the business services the server delegates to.
type Services struct {
	Ledger   LedgerService
	Gate     GateService
	Profiles ProfileService
	Catalog  CatalogService
}

type GRPCServer struct {
	api.UnimplementedMarketplaceServer
	address        string
	services       Services
	observer       RequestObserver
	logger         logging.Logger
	identitySecret []byte
}

func NewGRPCServer(address string, l logging.Logger, svcs Services, identitySecret string, observer RequestObserver) *GRPCServer {
	return &GRPCServer{
		address:        address,
		services:       svcs,
		observer:       observer,
		logger:         l.With("module", "grpc_server"),
		identitySecret: []byte(identitySecret),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.identityInterceptor))

	api.RegisterMarketplaceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
