package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/linskybing/orgflow/internal/config"
	"github.com/rs/zerolog/log"
)

var ErrObjectNotFound = errors.New("object not found")

// Driver stores attachment bodies under opaque keys.
type Driver interface {
	Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Get streams the object back together with its content type.
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

// NewFromConfig builds the driver selected by STORAGE_TYPE.
func NewFromConfig(ctx context.Context) (Driver, error) {
	switch config.StorageType {
	case "local":
		log.Info().Str("dir", config.StorageLocalDir).Msg("Initializing local attachment storage")
		d, err := NewLocalDriver(config.StorageLocalDir)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "minio":
		log.Info().Str("endpoint", config.MinioEndpoint).Str("bucket", config.MinioBucket).Msg("Initializing MinIO attachment storage")
		d, err := NewMinioDriver(ctx, MinioOptions{
			Endpoint:  config.MinioEndpoint,
			AccessKey: config.MinioAccessKey,
			SecretKey: config.MinioSecretKey,
			UseSSL:    config.MinioUseSSL,
			Bucket:    config.MinioBucket,
		})
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.StorageType)
	}
}
