package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"onboardapi/internal/model"
	"onboardapi/internal/storage"
)

// FileOrganizer stores uploaded files in a resolved folder under their derived
// names, and lists or deletes a folder's contents.
type FileOrganizer struct {
	client  storage.Client
	log     *zap.Logger
	metrics *Metrics
}

// NewFileOrganizer constructs a FileOrganizer. log and m may be nil.
func NewFileOrganizer(client storage.Client, log *zap.Logger, m *Metrics) *FileOrganizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileOrganizer{
		client:  client,
		log:     log.With(zap.String("component", "file_organizer")),
		metrics: m,
	}
}

// Upload stores f in folderID as DeriveFileName(q, stepTitle, f.OriginalName).
// The returned size is f.Size as supplied by the caller. Re-uploading the same
// file creates a second object with the same name.
func (o *FileOrganizer) Upload(ctx context.Context, folderID string, f FileUpload, q int, stepTitle string) (model.UploadedFile, error) {
	if err := o.client.Ready(); err != nil {
		return model.UploadedFile{}, err
	}
	if folderID == "" {
		return model.UploadedFile{}, invalid("folderId", "folder id is required")
	}
	if f.Reader == nil {
		return model.UploadedFile{}, ErrReaderNil
	}

	name := DeriveFileName(q, stepTitle, f.OriginalName)
	obj, err := o.client.CreateFile(ctx, name, folderID, f.MimeType, f.Reader, f.Size)
	if err != nil {
		o.metrics.fileUploaded(false)
		return model.UploadedFile{}, fmt.Errorf("upload %q: %w", name, err)
	}
	o.metrics.fileUploaded(true)
	o.log.Info("file uploaded",
		zap.String("event", "file_uploaded"),
		zap.String("file_id", obj.ID),
		zap.String("name", name),
		zap.String("folder_id", folderID),
		zap.Int64("size", f.Size),
	)

	return model.UploadedFile{
		ID:             obj.ID,
		Name:           name,
		URL:            obj.URL,
		Size:           f.Size,
		QuestionNumber: q,
	}, nil
}

// List returns the direct children of folderID in backend order.
func (o *FileOrganizer) List(ctx context.Context, folderID string) ([]storage.Object, error) {
	if err := o.client.Ready(); err != nil {
		return nil, err
	}
	if folderID == "" {
		return nil, invalid("folderId", "folder id is required")
	}
	objs, err := o.client.ListChildren(ctx, folderID)
	if err != nil {
		return nil, fmt.Errorf("list folder %q: %w", folderID, err)
	}
	return objs, nil
}

// Delete removes fileID. A missing id is reported by the backend as an operation failure.
func (o *FileOrganizer) Delete(ctx context.Context, fileID string) error {
	if err := o.client.Ready(); err != nil {
		return err
	}
	if fileID == "" {
		return ErrIDRequired
	}
	if err := o.client.Delete(ctx, fileID); err != nil {
		return fmt.Errorf("delete file %q: %w", fileID, err)
	}
	o.log.Info("file deleted", zap.String("event", "file_deleted"), zap.String("file_id", fileID))
	return nil
}
