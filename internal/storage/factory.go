package storage

import (
	"context"
	"fmt"

	"github.com/pageza/recipeshare/backend/config"
)

// uploadsPrefix is the S3 key prefix for thumbnails and avatars
const uploadsPrefix = "uploads/"

// NewFromConfig builds the file store selected by STORAGE_BACKEND
func NewFromConfig(ctx context.Context, cfg *config.Config) (FileStore, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStore(cfg.UploadDir)
	case "s3":
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3: %w", err)
		}
		return NewS3Store(s3Cfg, uploadsPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
