package snapshot

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Sink stores snapshots in an S3-compatible bucket.
type S3Sink struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// S3SinkConfig contains configuration for creating an S3 snapshot sink.
type S3SinkConfig struct {
	// Client is the configured AWS S3 client (required)
	Client *s3.Client

	// Bucket is the bucket snapshots are written to (required)
	Bucket string

	// KeyPrefix is prepended to every snapshot key (optional)
	KeyPrefix string
}

// NewS3Sink creates an S3 snapshot sink and verifies the bucket is reachable.
func NewS3Sink(ctx context.Context, cfg S3SinkConfig) (*S3Sink, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	_, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Sink{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// Put uploads one snapshot body. S3 PutObject is atomic per key, so readers
// only ever see complete snapshots.
func (s *S3Sink) Put(ctx context.Context, key string, body io.Reader) error {
	objectKey := key
	if s.keyPrefix != "" {
		objectKey = path.Join(s.keyPrefix, key)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to write snapshot to S3: %w", err)
	}
	return nil
}
