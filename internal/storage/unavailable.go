package storage

import (
	"context"
	"fmt"
	"io"
)

// Unavailable is the degraded client installed when a backend could not be
// initialized. Every call fails with ErrUnavailable and no network access.
type Unavailable struct {
	Reason error
}

var _ Client = Unavailable{}

func (u Unavailable) Ready() error {
	if u.Reason == nil {
		return ErrUnavailable
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, u.Reason)
}

func (u Unavailable) CreateFolder(context.Context, string, string) (FolderRef, error) {
	return FolderRef{}, u.Ready()
}

func (u Unavailable) SearchFolders(context.Context, string, string) ([]FolderRef, error) {
	return nil, u.Ready()
}

func (u Unavailable) CreateFile(context.Context, string, string, string, io.Reader, int64) (Object, error) {
	return Object{}, u.Ready()
}

func (u Unavailable) ListChildren(context.Context, string) ([]Object, error) {
	return nil, u.Ready()
}

func (u Unavailable) Delete(context.Context, string) error {
	return u.Ready()
}
