// Package blob stores uploaded images in an S3-compatible object store.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/electrodrive/catalog-api/internal/config"
	"github.com/electrodrive/catalog-api/internal/metrics"
)

const keyPrefix = "motors/"

// ObjectClient is the slice of the S3 API the store uses.
type ObjectClient interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store writes and removes image objects under a fixed key prefix.
type Store struct {
	client        ObjectClient
	bucket        string
	region        string
	publicBaseURL string
	logger        *logrus.Logger
}

// NewStore builds an S3 client from the application config. A
// BaseEndpoint override points the client at MinIO for local use.
func NewStore(ctx context.Context, cfg *config.S3Config, logger *logrus.Logger) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	logger.WithFields(logrus.Fields{
		"bucket": cfg.Bucket,
		"region": cfg.Region,
	}).Info("S3 blob store initialized")

	return NewStoreWithClient(client, cfg, logger), nil
}

// NewStoreWithClient wires an existing client; used by tests.
func NewStoreWithClient(client ObjectClient, cfg *config.S3Config, logger *logrus.Logger) *Store {
	return &Store{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: cfg.PublicBaseURL,
		logger:        logger,
	}
}

// Put stores an image under a generated key and returns its public URL.
func (s *Store) Put(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	key := keyPrefix + uuid.New().String() + strings.ToLower(path.Ext(fileName))

	start := time.Now()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		metrics.RecordUploadOperation("put", "failure")
		return "", fmt.Errorf("put object failed: %w", err)
	}
	metrics.RecordUploadOperation("put", "success")

	s.logger.WithFields(logrus.Fields{
		"key":         key,
		"size":        len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Image uploaded")

	return s.objectURL(key), nil
}

// Delete removes an image by its bare file name.
func (s *Store) Delete(ctx context.Context, fileName string) error {
	key := keyPrefix + fileName

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordUploadOperation("delete", "failure")
		return fmt.Errorf("delete object failed: %w", err)
	}
	metrics.RecordUploadOperation("delete", "success")

	s.logger.WithField("key", key).Info("Image deleted")

	return nil
}

func (s *Store) objectURL(key string) string {
	if s.publicBaseURL != "" {
		return strings.TrimSuffix(s.publicBaseURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
