package storage

import (
	"context"
	"io"
	"time"
)

// Package storage exposes the folder/file capability the onboarding flow needs from a
// cloud file store. Backends: Google Drive, S3-compatible object storage (MinIO) and
// an in-memory store for local development.

// FolderRef identifies a folder by backend id and logical name.
// Two refs denote the same folder only when their IDs are equal.
type FolderRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Object describes a stored file (or a child folder when listing).
type Object struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	CreatedTime time.Time `json:"createdTime"`
}

// Client is the storage capability consumed by the folder resolver and file organizer.
// Implementations are safe for concurrent use by multiple goroutines.
type Client interface {
	// Ready reports nil when the client holds a usable session, or an error wrapping
	// ErrUnavailable otherwise. It never performs network calls.
	Ready() error

	// CreateFolder creates a folder named name under parentID. An empty parentID
	// creates the folder at the top level of the store.
	CreateFolder(ctx context.Context, name, parentID string) (FolderRef, error)

	// SearchFolders returns non-trashed folders whose name equals name exactly.
	// When parentID is empty the whole store is searched. Order is backend-defined.
	SearchFolders(ctx context.Context, name, parentID string) ([]FolderRef, error)

	// CreateFile uploads r as a new file named name inside parentID.
	CreateFile(ctx context.Context, name, parentID, mimeType string, r io.Reader, size int64) (Object, error)

	// ListChildren lists all non-trashed direct children of parentID.
	ListChildren(ctx context.Context, parentID string) ([]Object, error)

	// Delete removes the object with the given id.
	Delete(ctx context.Context, id string) error
}
