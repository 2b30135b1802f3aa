package storage

import (
	"context"
	"fmt"

	"onboardapi/internal/config"
)

// New builds the configured backend. It always returns a usable Client: when the
// backend cannot be initialized the result is an Unavailable client and the
// returned error explains why, so the host process keeps serving.
func New(ctx context.Context, cfg config.StorageConfig) (Client, error) {
	var (
		c   Client
		err error
	)
	switch cfg.Backend {
	case "gdrive", "":
		c, err = NewGoogleDrive(ctx, cfg.GoogleDrive)
	case "minio":
		c, err = NewMinIO(ctx, cfg.MinIO)
	case "memory":
		c = NewMemory()
	default:
		err = fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return Unavailable{Reason: err}, err
	}
	return c, nil
}
