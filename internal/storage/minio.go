package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinIOConfig holds connection settings for an S3-compatible store.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOSink uploads artifacts to a bucket.
type MinIOSink struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// NewMinIOSink connects to the store and creates the bucket if it does not exist.
func NewMinIOSink(ctx context.Context, cfg MinIOConfig, log *zap.Logger) (*MinIOSink, error) {
	if log == nil {
		log = zap.NewNop()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		log.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinIOSink{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Put uploads data as object name and returns "bucket/name".
func (m *MinIOSink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}

	m.log.Info("artifact uploaded",
		zap.String("bucket", m.bucket),
		zap.String("object", name),
		zap.Int64("size", info.Size),
	)
	return m.bucket + "/" + name, nil
}

// Delete removes object name. Removing a missing object is not an error.
func (m *MinIOSink) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	m.log.Info("artifact deleted", zap.String("bucket", m.bucket), zap.String("object", name))
	return nil
}
