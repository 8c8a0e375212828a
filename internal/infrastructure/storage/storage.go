package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimikegami/e-commerce/catalog-service/config"
	"github.com/alimikegami/e-commerce/catalog-service/pkg/errs"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// ImageProvider removes hosted images by their provider-side id.
type ImageProvider interface {
	DeleteImage(ctx context.Context, publicID string) error
}

type S3ImageProvider struct {
	client s3iface.S3API
	bucket string
}

// CreateImageProvider returns an S3 backed provider, or a logging no-op when no
// credentials are configured (local development).
func CreateImageProvider(conf config.StorageConfig) (ImageProvider, error) {
	if conf.AccessKeyID == "" {
		return LogOnlyImageProvider{}, nil
	}

	awsConfig := &aws.Config{
		Region: aws.String(conf.Region),
		Credentials: credentials.NewStaticCredentials(
			conf.AccessKeyID,
			conf.SecretAccessKey,
			"",
		),
	}
	if conf.Endpoint != "" {
		awsConfig.Endpoint = aws.String(conf.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return CreateS3ImageProvider(s3.New(sess), conf.Bucket), nil
}

func CreateS3ImageProvider(client s3iface.S3API, bucket string) *S3ImageProvider {
	return &S3ImageProvider{client: client, bucket: bucket}
}

// DeleteImage is idempotent: S3 reports success for keys that no longer exist.
func (p *S3ImageProvider) DeleteImage(ctx context.Context, publicID string) error {
	_, err := p.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image %s: %w", publicID, err)
	}

	return nil
}

type LogOnlyImageProvider struct{}

func (LogOnlyImageProvider) DeleteImage(ctx context.Context, publicID string) error {
	log.Ctx(ctx).Info().Str("component", "DeleteImage").Str("public_id", publicID).Msg("image storage not configured, skipping delete")
	return nil
}

// BreakerImageProvider stops calling the provider while it keeps failing.
type BreakerImageProvider struct {
	next ImageProvider
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func WithCircuitBreaker(next ImageProvider, cb *gobreaker.CircuitBreaker[struct{}]) *BreakerImageProvider {
	return &BreakerImageProvider{next: next, cb: cb}
}

func (p *BreakerImageProvider) DeleteImage(ctx context.Context, publicID string) error {
	_, err := p.cb.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.DeleteImage(ctx, publicID)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", errs.ErrImageProvider, err)
	}

	return err
}
