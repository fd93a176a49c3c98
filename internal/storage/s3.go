package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	appconfig "storynest/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage stores media objects in an S3 bucket (or an S3-compatible
// endpoint such as MinIO in development).
type S3Storage struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	allowlist *PathAllowlist
}

// NewS3Storage builds the S3 client from application config.
func NewS3Storage(ctx context.Context, cfg *appconfig.Config) (*S3Storage, error) {
	allowlist, err := NewPathAllowlist(strings.Split(cfg.MediaDirs, ","))
	if err != nil {
		return nil, fmt.Errorf("invalid MEDIA_DIRS: %w", err)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// Path-style addressing for MinIO and other local endpoints.
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.S3Bucket,
		region:    cfg.S3Region,
		endpoint:  cfg.S3Endpoint,
		allowlist: allowlist,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.URL(key), nil
}

// UploadFile reads a local sidecar-produced file and uploads it under key.
// The path must pass the allowlist check before any file access happens.
func (s *S3Storage) UploadFile(ctx context.Context, key, localPath, contentType string) (string, error) {
	canonical, err := s.allowlist.Check(localPath)
	if err != nil {
		return "", err
	}

	f, err := os.Open(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to open media file: %w", err)
	}
	defer f.Close()

	return s.Upload(ctx, key, f, contentType)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) URL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
