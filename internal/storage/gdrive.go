package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"onboardapi/internal/config"
)

// FolderMimeType is the Drive MIME type that marks an entry as a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// googleDrive implements Client on top of the Drive v3 API.
// It is safe for concurrent use by multiple goroutines.
type googleDrive struct {
	svc *drive.Service
}

// NewGoogleDrive opens a Drive session from an OAuth client id/secret and a
// long-lived refresh token. Access tokens are refreshed transparently.
// ctx must outlive the client; it carries the HTTP client used for token refresh.
func NewGoogleDrive(ctx context.Context, cfg config.GoogleDriveConfig) (Client, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("google drive client id, client secret and refresh token are required")
	}

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveScope},
	}

	base := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	hc := oc.Client(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	return newGoogleDrive(ctx, option.WithHTTPClient(hc))
}

func newGoogleDrive(ctx context.Context, opts ...option.ClientOption) (*googleDrive, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &googleDrive{svc: svc}, nil
}

func (g *googleDrive) Ready() error { return nil }

func (g *googleDrive) CreateFolder(ctx context.Context, name, parentID string) (FolderRef, error) {
	meta := &drive.File{Name: name, MimeType: FolderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	f, err := g.svc.Files.Create(meta).Fields("id, name").Context(ctx).Do()
	if err != nil {
		return FolderRef{}, wrapDriveError("create folder", err)
	}
	return FolderRef{ID: f.Id, Name: name}, nil
}

func (g *googleDrive) SearchFolders(ctx context.Context, name, parentID string) ([]FolderRef, error) {
	res, err := g.svc.Files.List().
		Q(folderQuery(name, parentID)).
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapDriveError("search folders", err)
	}
	out := make([]FolderRef, 0, len(res.Files))
	for _, f := range res.Files {
		out = append(out, FolderRef{ID: f.Id, Name: f.Name})
	}
	return out, nil
}

func (g *googleDrive) CreateFile(ctx context.Context, name, parentID, mimeType string, r io.Reader, _ int64) (Object, error) {
	meta := &drive.File{Name: name, Parents: []string{parentID}}
	f, err := g.svc.Files.Create(meta).
		Media(r, googleapi.ContentType(mimeType)).
		Fields("id, name, webViewLink, size, createdTime").
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, wrapDriveError("create file", err)
	}
	return toObject(f), nil
}

func (g *googleDrive) ListChildren(ctx context.Context, parentID string) ([]Object, error) {
	out := make([]Object, 0)
	err := g.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(parentID))).
		Fields("nextPageToken, files(id, name, webViewLink, size, createdTime)").
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				out = append(out, toObject(f))
			}
			return nil
		})
	if err != nil {
		return nil, wrapDriveError("list children", err)
	}
	return out, nil
}

func (g *googleDrive) Delete(ctx context.Context, id string) error {
	if err := g.svc.Files.Delete(id).Context(ctx).Do(); err != nil {
		return wrapDriveError("delete", err)
	}
	return nil
}

// folderQuery builds the Drive search expression for an exact, non-trashed folder name,
// optionally restricted to a parent.
func folderQuery(name, parentID string) string {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(name), FolderMimeType)
	if parentID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(parentID))
	}
	return q
}

// escapeQuery escapes a value for use inside a single-quoted Drive query literal.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func toObject(f *drive.File) Object {
	obj := Object{ID: f.Id, Name: f.Name, URL: f.WebViewLink, Size: f.Size}
	if t, err := time.Parse(time.RFC3339, f.CreatedTime); err == nil {
		obj.CreatedTime = t
	}
	return obj
}

func wrapDriveError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
		return notFoundError(op, err)
	}
	return opError(op, err)
}
