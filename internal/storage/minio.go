package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"onboardapi/internal/config"
)

// Object layout inside the bucket:
//
//	folders/<parent id | root>/<folder id>   empty marker, metadata folder-name
//	files/<folder id>/<file uuid>            file content, metadata file-name
//
// File ids handed to callers are "<folder id>_<file uuid>".
const (
	folderPrefix   = "folders/"
	filePrefix     = "files/"
	rootParent     = "root"
	metaFolderName = "folder-name"
	metaFileName   = "file-name"
	fileIDSep      = "_"

	presignExpiry = 7 * 24 * time.Hour
)

// minioStorage implements Client using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStorage{client: cli, bucket: cfg.Bucket}, nil
}

func (m *minioStorage) Ready() error { return nil }

func (m *minioStorage) CreateFolder(ctx context.Context, name, parentID string) (FolderRef, error) {
	id := uuid.NewString()
	_, err := m.client.PutObject(ctx, m.bucket, folderKey(parentID, id), bytes.NewReader(nil), 0, minio.PutObjectOptions{
		ContentType:  "application/x-directory",
		UserMetadata: map[string]string{metaFolderName: url.QueryEscape(name)},
	})
	if err != nil {
		return FolderRef{}, wrapMinIOError("create folder", err)
	}
	return FolderRef{ID: id, Name: name}, nil
}

func (m *minioStorage) SearchFolders(ctx context.Context, name, parentID string) ([]FolderRef, error) {
	prefix := folderPrefix
	if parentID != "" {
		prefix = folderPrefix + parentID + "/"
	}

	out := make([]FolderRef, 0)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, wrapMinIOError("search folders", obj.Err)
		}
		st, err := m.client.StatObject(ctx, m.bucket, obj.Key, minio.StatObjectOptions{})
		if err != nil {
			return nil, wrapMinIOError("search folders", err)
		}
		if metaValue(st.UserMetadata, metaFolderName) == name {
			out = append(out, FolderRef{ID: lastSegment(obj.Key), Name: name})
		}
	}
	return out, nil
}

func (m *minioStorage) CreateFile(ctx context.Context, name, parentID, mimeType string, r io.Reader, size int64) (Object, error) {
	fileUUID := uuid.NewString()
	key := fileKey(parentID, fileUUID)
	info, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  mimeType,
		UserMetadata: map[string]string{metaFileName: url.QueryEscape(name)},
	})
	if err != nil {
		return Object{}, wrapMinIOError("create file", err)
	}

	link, err := m.presign(ctx, key)
	if err != nil {
		return Object{}, err
	}
	return Object{
		ID:          parentID + fileIDSep + fileUUID,
		Name:        name,
		URL:         link,
		Size:        info.Size,
		CreatedTime: time.Now().UTC(), // PutObject does not return LastModified
	}, nil
}

func (m *minioStorage) ListChildren(ctx context.Context, parentID string) ([]Object, error) {
	out := make([]Object, 0)

	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: folderPrefix + parentID + "/"}) {
		if obj.Err != nil {
			return nil, wrapMinIOError("list children", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		st, err := m.client.StatObject(ctx, m.bucket, obj.Key, minio.StatObjectOptions{})
		if err != nil {
			return nil, wrapMinIOError("list children", err)
		}
		out = append(out, Object{
			ID:          lastSegment(obj.Key),
			Name:        metaValue(st.UserMetadata, metaFolderName),
			CreatedTime: st.LastModified,
		})
	}

	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: filePrefix + parentID + "/"}) {
		if obj.Err != nil {
			return nil, wrapMinIOError("list children", obj.Err)
		}
		st, err := m.client.StatObject(ctx, m.bucket, obj.Key, minio.StatObjectOptions{})
		if err != nil {
			return nil, wrapMinIOError("list children", err)
		}
		link, err := m.presign(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, Object{
			ID:          parentID + fileIDSep + lastSegment(obj.Key),
			Name:        metaValue(st.UserMetadata, metaFileName),
			URL:         link,
			Size:        st.Size,
			CreatedTime: st.LastModified,
		})
	}
	return out, nil
}

// Delete removes a file. S3 deletes are idempotent, so the object is stat'ed first
// to report missing ids instead of silently succeeding.
func (m *minioStorage) Delete(ctx context.Context, id string) error {
	key, ok := fileKeyFromID(id)
	if !ok {
		return notFoundError("delete", fmt.Errorf("malformed file id %q", id))
	}
	if _, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{}); err != nil {
		return wrapMinIOError("delete", err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return wrapMinIOError("delete", err)
	}
	return nil
}

func (m *minioStorage) presign(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, presignExpiry, url.Values{})
	if err != nil {
		return "", wrapMinIOError("presign", err)
	}
	return u.String(), nil
}

func folderKey(parentID, id string) string {
	if parentID == "" {
		parentID = rootParent
	}
	return folderPrefix + parentID + "/" + id
}

func fileKey(folderID, fileUUID string) string {
	return filePrefix + folderID + "/" + fileUUID
}

func fileKeyFromID(id string) (string, bool) {
	folderID, fileUUID, ok := strings.Cut(id, fileIDSep)
	if !ok || folderID == "" || fileUUID == "" {
		return "", false
	}
	return fileKey(folderID, fileUUID), true
}

func lastSegment(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

// metaValue reads a user metadata entry regardless of the header casing the
// server returned it with, and reverses the query escaping applied on write.
func metaValue(meta map[string]string, key string) string {
	for k, v := range meta {
		if strings.EqualFold(k, key) {
			if s, err := url.QueryUnescape(v); err == nil {
				return s
			}
			return v
		}
	}
	return ""
}

func wrapMinIOError(op string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return notFoundError(op, err)
	}
	return opError(op, err)
}
