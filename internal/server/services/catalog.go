package services

import (
	"context"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/logging"
	sc "github.com/dmitrijs2005/promptify/internal/server/config"
	"github.com/dmitrijs2005/promptify/internal/server/models"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// CatalogService serves public prompt metadata. Images stored in the bucket
// are referenced by key and handed out as presigned GET URLs.
type CatalogService struct {
	db          dbx.Transactor
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewCatalogService(db dbx.Transactor, m repomanager.RepositoryManager, config *sc.Config, logger logging.Logger) *CatalogService {
	return &CatalogService{
		db:          db,
		repomanager: m,
		config:      config,
		logger:      logger.With("module", "catalog"),
	}
}

func (s *CatalogService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *CatalogService) presign(ctx context.Context, pc *s3.PresignClient, key string) (string, error) {
	bucket := s.config.S3Bucket

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.urlValidity()))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *CatalogService) urlValidity() time.Duration {
	if s.config.ImageURLValidityDuration > 0 {
		return s.config.ImageURLValidityDuration
	}
	return 15 * time.Minute
}

// List returns the catalog newest first.
func (s *CatalogService) List(ctx context.Context) ([]*models.Prompt, error) {
	list, err := s.repomanager.Prompts(s.db.Conn()).List(ctx)
	if err != nil {
		return nil, err
	}
	s.resolveImages(ctx, list...)
	return list, nil
}

// Get returns one prompt. Errors: common.ErrInvalidPromptID,
// common.ErrorNotFound.
func (s *CatalogService) Get(ctx context.Context, promptID string) (*models.Prompt, error) {
	promptID, err := canonicalPromptID(promptID)
	if err != nil {
		return nil, err
	}
	p, err := s.repomanager.Prompts(s.db.Conn()).GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}
	s.resolveImages(ctx, p)
	return p, nil
}

// resolveImages swaps storage keys for presigned URLs. Absolute URLs pass
// through; a presign failure blanks the image rather than failing the read.
func (s *CatalogService) resolveImages(ctx context.Context, list ...*models.Prompt) {
	var pc *s3.PresignClient
	for _, p := range list {
		if p.ImageURL == "" || isAbsoluteURL(p.ImageURL) {
			continue
		}
		if pc == nil {
			var err error
			if pc, err = s.getPresignClient(ctx); err != nil {
				s.logger.Warn(ctx, "presign client unavailable", "error", err)
				blankStorageImages(list)
				return
			}
		}
		u, err := s.presign(ctx, pc, p.ImageURL)
		if err != nil {
			s.logger.Warn(ctx, "image presign failed", "prompt_id", p.ID, "error", err)
			p.ImageURL = ""
			continue
		}
		p.ImageURL = u
	}
}

func blankStorageImages(list []*models.Prompt) {
	for _, p := range list {
		if !isAbsoluteURL(p.ImageURL) {
			p.ImageURL = ""
		}
	}
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
