// Package objectstore removes product image objects from S3 or the local disk.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"storefront/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Store deletes stored objects by key. Deleting a missing object is not an error.
type Store interface {
	Delete(ctx context.Context, key string) error
}

// s3API is the subset of the S3 client used by s3Store.
type s3API interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client s3API
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates a Store backed by an S3 bucket.
func NewS3Store(ctx context.Context, cfg config.S3Config, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-object-store").Logger()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("region", cfg.Region).
		Str("prefix", cfg.Prefix).
		Msg("S3 object store initialised")

	return newS3Store(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Prefix, logger), nil
}

func newS3Store(client s3API, bucket, prefix string, logger zerolog.Logger) *s3Store {
	return &s3Store{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	fullKey := path.Join(s.prefix, strings.TrimPrefix(key, s.prefix))

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("bucket", s.bucket).Str("key", fullKey).Msg("failed to delete object")
		return fmt.Errorf("failed to delete object %s: %w", fullKey, err)
	}

	s.logger.Debug().Str("key", fullKey).Msg("object deleted")
	return nil
}

type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a Store rooted at dir on the local file system.
func NewLocalStore(dir string, logger zerolog.Logger) Store {
	return &localStore{
		dir:    dir,
		logger: logger.With().Str("component", "local-object-store").Logger(),
	}
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	// Clean against a rooted path so keys cannot escape dir.
	p := filepath.Join(s.dir, filepath.FromSlash(path.Clean("/"+key)))

	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug().Str("path", p).Msg("object already absent")
			return nil
		}
		s.logger.Error().Err(err).Str("path", p).Msg("failed to delete object")
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	s.logger.Debug().Str("path", p).Msg("object deleted")
	return nil
}

// New builds the Store selected by cfg. When S3 cannot be initialised the
// local store is used instead.
func New(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) Store {
	local := NewLocalStore(cfg.LocalDir, logger)

	if cfg.Backend != config.StorageBackendS3 {
		logger.Info().Str("dir", cfg.LocalDir).Msg("using local file system for product images")
		return local
	}

	store, err := NewS3Store(ctx, cfg.S3, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 object store, falling back to local file system")
		return local
	}

	return store
}
