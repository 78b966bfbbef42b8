package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-viper/mapstructure/v2"

	"github.com/fileledger/fileledger/internal/logger"
	"github.com/fileledger/fileledger/pkg/metrics"
	"github.com/fileledger/fileledger/pkg/registry"
	registryBadger "github.com/fileledger/fileledger/pkg/registry/badger"
	registryMemory "github.com/fileledger/fileledger/pkg/registry/memory"
	"github.com/fileledger/fileledger/pkg/snapshot"
)

// CreateStore creates a registry store based on configuration.
//
// This factory function uses the Type field to determine which store
// implementation to create, then decodes the type-specific configuration from
// the corresponding map and passes it to the store's constructor.
//
// Supported types:
//   - "memory": Uses pkg/registry/memory (in-memory storage, ephemeral)
//   - "badger": Uses pkg/registry/badger (BadgerDB storage, persistent)
func CreateStore(ctx context.Context, cfg *RegistryConfig, storeMetrics metrics.StoreMetrics) (registry.Store, error) {
	switch cfg.Type {
	case "memory":
		return createMemoryStore(ctx, cfg, storeMetrics)
	case "badger":
		return createBadgerStore(ctx, cfg, storeMetrics)
	default:
		return nil, fmt.Errorf("unknown registry store type: %q (supported: memory, badger)", cfg.Type)
	}
}

// createMemoryStore creates an in-memory registry store.
func createMemoryStore(ctx context.Context, cfg *RegistryConfig, storeMetrics metrics.StoreMetrics) (registry.Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := registryMemory.New(registryMemory.Config{
		AdminAccount:       registry.AccountID(cfg.AdminAccount),
		MaxFilesPerAccount: cfg.MaxFilesPerAccount,
		Metrics:            storeMetrics,
	})

	logger.Info("memory registry store initialized")
	return store, nil
}

// createBadgerStore creates a BadgerDB-backed persistent registry store.
func createBadgerStore(ctx context.Context, cfg *RegistryConfig, storeMetrics metrics.StoreMetrics) (registry.Store, error) {
	type BadgerStoreOptions struct {
		Path string `mapstructure:"path"`
	}

	var storeOpts BadgerStoreOptions
	if err := mapstructure.Decode(cfg.Badger, &storeOpts); err != nil {
		return nil, fmt.Errorf("failed to decode badger registry store options: %w", err)
	}

	if storeOpts.Path == "" {
		return nil, fmt.Errorf("badger registry store: path is required")
	}

	store, err := registryBadger.New(ctx, registryBadger.Config{
		DBPath:             storeOpts.Path,
		AdminAccount:       registry.AccountID(cfg.AdminAccount),
		MaxFilesPerAccount: cfg.MaxFilesPerAccount,
		Metrics:            storeMetrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create badger registry store: %w", err)
	}

	logger.Info("badger registry store initialized: path=%s", storeOpts.Path)
	return store, nil
}

// CreateSnapshotSink creates a snapshot sink based on configuration.
//
// Supported sinks:
//   - "fs": Uses a local directory
//   - "s3": Uses Amazon S3 or compatible object storage (MinIO, Localstack)
func CreateSnapshotSink(ctx context.Context, cfg *SnapshotConfig) (snapshot.Sink, error) {
	switch cfg.Sink {
	case "fs":
		return createFSSink(cfg.FS)
	case "s3":
		return createS3Sink(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown snapshot sink: %q (supported: fs, s3)", cfg.Sink)
	}
}

// createFSSink creates a filesystem snapshot sink.
func createFSSink(options map[string]any) (snapshot.Sink, error) {
	type FSSinkOptions struct {
		Path string `mapstructure:"path"`
	}

	var sinkOpts FSSinkOptions
	if err := mapstructure.Decode(options, &sinkOpts); err != nil {
		return nil, fmt.Errorf("failed to decode fs snapshot sink options: %w", err)
	}

	if sinkOpts.Path == "" {
		return nil, fmt.Errorf("fs snapshot sink: path is required")
	}

	sink, err := snapshot.NewFSSink(sinkOpts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create fs snapshot sink: %w", err)
	}

	return sink, nil
}

// createS3Sink creates an S3 snapshot sink.
func createS3Sink(ctx context.Context, options map[string]any) (snapshot.Sink, error) {
	type S3SinkOptions struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var sinkOpts S3SinkOptions
	if err := mapstructure.Decode(options, &sinkOpts); err != nil {
		return nil, fmt.Errorf("failed to decode s3 snapshot sink options: %w", err)
	}

	if sinkOpts.Bucket == "" {
		return nil, fmt.Errorf("s3 snapshot sink: bucket is required")
	}
	if sinkOpts.Region == "" {
		return nil, fmt.Errorf("s3 snapshot sink: region is required")
	}

	var configOptions []func(*awsConfig.LoadOptions) error

	configOptions = append(configOptions, awsConfig.WithRegion(sinkOpts.Region))

	// Static credentials if provided, otherwise the default credential chain.
	if sinkOpts.AccessKeyID != "" && sinkOpts.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			sinkOpts.AccessKeyID,
			sinkOpts.SecretAccessKey,
			"", // session token (empty for static credentials)
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	// Snapshots are periodic and small; retry hard against transient S3
	// failures (502, 503, timeouts) rather than dropping one.
	maxRetries := sinkOpts.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoint with path-style addressing for MinIO/Localstack.
		if sinkOpts.Endpoint != "" {
			o.BaseEndpoint = aws.String(sinkOpts.Endpoint)
			o.UsePathStyle = true
		}
	})

	sink, err := snapshot.NewS3Sink(ctx, snapshot.S3SinkConfig{
		Client:    client,
		Bucket:    sinkOpts.Bucket,
		KeyPrefix: sinkOpts.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 snapshot sink: %w", err)
	}

	logger.Info("s3 snapshot sink initialized: bucket=%s, region=%s, prefix=%s",
		sinkOpts.Bucket, sinkOpts.Region, sinkOpts.KeyPrefix)

	return sink, nil
}
