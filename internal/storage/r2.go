package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2 is an ObjectStore backed by Cloudflare R2 through the S3-compatible
// API. One instance is constructed at startup and shared process-wide.
type R2 struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	logger    *log.Logger
}

// NewR2 validates cfg eagerly and builds the client. A configuration gap
// returns a *ConfigError naming every missing variable; no usable client
// is returned in that case.
func NewR2(cfg Config, logger *log.Logger) (*R2, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// R2 uses "auto" as the region.
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		awsconfig.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
	if err != nil {
		return nil, fmt.Errorf("build aws config: %w", err)
	}

	endpoint := cfg.EndpointURL()
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	logger.Printf("storage: r2 client ready bucket=%s endpoint=%s", cfg.Bucket, endpoint)
	return &R2{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		logger:    logger,
	}, nil
}

// Metadata heads the object and returns size and content type.
func (r *R2) Metadata(ctx context.Context, key string) (*ObjectMetadata, error) {
	out, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound
		}
		r.logger.Printf("storage: head key=%s error=%v", key, err)
		return nil, fmt.Errorf("head object: %w", err)
	}
	return &ObjectMetadata{
		Size:         aws.ToInt64(out.ContentLength),
		ContentType:  aws.ToString(out.ContentType),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

// PresignGet verifies the object exists, then signs a GET URL with the
// given expiry. The returned URL carries no credentials beyond itself.
func (r *R2) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if _, err := r.Metadata(ctx, key); err != nil {
		return "", err
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		r.logger.Printf("storage: presign key=%s error=%v", key, err)
		return "", fmt.Errorf("presign get: %w", err)
	}
	return req.URL, nil
}

// Put uploads an object. Used by content-authoring tooling, not the
// issuance hot path.
func (r *R2) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := r.client.PutObject(ctx, input); err != nil {
		r.logger.Printf("storage: put key=%s error=%v", key, err)
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
