package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config contains minimal configuration for creating an S3 client.
// Values are optional and will fall back to the standard AWS config/credential chain.
type S3Config struct {
	// Bucket is the target bucket for clip artifacts. Required.
	Bucket string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Profile selects a named shared config/credentials profile. If empty, default chain applies.
	Profile string
	// Endpoint overrides the service endpoint (useful for S3-compatible providers).
	// Also used when deriving public object URLs.
	Endpoint string
	// UsePathStyle forces path-style addressing (useful for some S3-compatible providers).
	UsePathStyle bool
}

// S3 wraps the AWS SDK for Go v2 S3 client with a narrow interface we can mock.
type S3 struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3 creates a new S3 wrapper using the default AWS configuration chain,
// with optional overrides from S3Config.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	c := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3{client: c, cfg: cfg}, nil
}

// Put uploads a publicly readable object to the configured bucket and returns
// its public URL. Metadata keys are attached as object metadata.
func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
		ACL:    s3types.ObjectCannedACLPublicRead,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if len(metadata) > 0 {
		in.Metadata = metadata
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

// Delete removes the object at key.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// Exists returns true if the object exists (HTTP 200 from HeadObject); false if 404/NotFound.
func (s *S3) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	// Check for HTTP 404 response error
	var respErr *http.ResponseError
	if errors.As(err, &respErr) {
		if respErr.HTTPStatusCode() == 404 {
			return false, nil
		}
	}

	// Check for API error code NotFound
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "NotFound" {
			return false, nil
		}
	}

	return false, err
}

// PublicURL derives the public HTTP URL for an object key. With a custom
// endpoint (or path-style addressing) the bucket appears in the path;
// otherwise the standard virtual-hosted form is used.
func (s *S3) PublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")

	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	if s.cfg.UsePathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.cfg.Region, s.cfg.Bucket, key)
	}
	if s.cfg.Region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.cfg.Bucket, key)
}

// Client exposes the underlying SDK client for advanced callers (avoid when possible).
func (s *S3) Client() *s3.Client { return s.client }
