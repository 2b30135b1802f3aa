package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"onboardapi/internal/storage"
)

var tracer = otel.Tracer("onboardapi/internal/service")

const (
	DefaultRootFolderName = "Onboarding Forms"
	DefaultSubfolderName  = "Formulario onboarding"
)

// ResolverConfig names the folder hierarchy. RootFolderID is optional; when it is
// empty a root folder is created on the first full creation and reused afterwards.
type ResolverConfig struct {
	RootFolderID   string
	RootFolderName string
	SubfolderName  string
}

// FolderResolver maps a company name to its upload subfolder, creating the missing
// parts of root -> company -> subfolder on demand.
//
// Resolutions for the same company name inside one process are coalesced, so
// concurrent first-time requests share a single search-then-create run. Separate
// processes can still race and create sibling folders.
type FolderResolver struct {
	client   storage.Client
	log      *zap.Logger
	metrics  *Metrics
	rootName string
	subName  string

	group singleflight.Group

	mu     sync.Mutex
	rootID string
}

// NewFolderResolver constructs a FolderResolver. log and m may be nil.
func NewFolderResolver(client storage.Client, cfg ResolverConfig, log *zap.Logger, m *Metrics) *FolderResolver {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RootFolderName == "" {
		cfg.RootFolderName = DefaultRootFolderName
	}
	if cfg.SubfolderName == "" {
		cfg.SubfolderName = DefaultSubfolderName
	}
	return &FolderResolver{
		client:   client,
		log:      log.With(zap.String("component", "folder_resolver")),
		metrics:  m,
		rootName: cfg.RootFolderName,
		subName:  cfg.SubfolderName,
		rootID:   cfg.RootFolderID,
	}
}

// Resolve returns the id of companyName's upload subfolder. Names are matched
// exactly, so "Acme" and "acme " are different companies. When several folders
// share the name, the first one in backend order wins.
//
// The backend calls run detached from ctx cancellation: a caller that gives up
// does not abort a creation other callers may be waiting on.
func (r *FolderResolver) Resolve(ctx context.Context, companyName string) (string, error) {
	if strings.TrimSpace(companyName) == "" {
		return "", invalid("companyName", "company name is required")
	}
	if err := r.client.Ready(); err != nil {
		return "", err
	}

	ctx, span := tracer.Start(ctx, "FolderResolver.Resolve",
		trace.WithAttributes(attribute.String("onboarding.company", companyName)))
	defer span.End()

	ch := r.group.DoChan(companyName, func() (any, error) {
		return r.resolve(context.WithoutCancel(ctx), companyName)
	})
	select {
	case res := <-ch:
		span.SetAttributes(attribute.Bool("onboarding.shared", res.Shared))
		if res.Err != nil {
			r.metrics.resolved("error")
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, "resolve failed")
			return "", fmt.Errorf("resolve company folder %q: %w", companyName, res.Err)
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (r *FolderResolver) resolve(ctx context.Context, companyName string) (string, error) {
	companies, err := r.client.SearchFolders(ctx, companyName, "")
	if err != nil {
		return "", err
	}
	if len(companies) == 0 {
		return r.createAll(ctx, companyName)
	}

	company := companies[0]
	if len(companies) > 1 {
		r.log.Warn("duplicate company folders",
			zap.String("event", "duplicate_folders"),
			zap.String("company", companyName),
			zap.Int("count", len(companies)),
			zap.String("folder_id", company.ID),
		)
	}

	subs, err := r.client.SearchFolders(ctx, r.subName, company.ID)
	if err != nil {
		return "", err
	}
	if len(subs) > 0 {
		r.metrics.resolved("found")
		return subs[0].ID, nil
	}

	sub, err := r.createFolder(ctx, "subfolder", r.subName, company.ID)
	if err != nil {
		return "", err
	}
	r.metrics.resolved("subfolder_created")
	return sub.ID, nil
}

// createAll builds the full path for a company that has no folder yet.
func (r *FolderResolver) createAll(ctx context.Context, companyName string) (string, error) {
	rootID, err := r.ensureRoot(ctx)
	if err != nil {
		return "", err
	}
	company, err := r.createFolder(ctx, "company", companyName, rootID)
	if err != nil {
		return "", err
	}
	sub, err := r.createFolder(ctx, "subfolder", r.subName, company.ID)
	if err != nil {
		return "", err
	}
	r.metrics.resolved("created")
	return sub.ID, nil
}

// ensureRoot returns the configured root id, or creates the root folder once and
// remembers it. The root is never searched for.
func (r *FolderResolver) ensureRoot(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rootID != "" {
		return r.rootID, nil
	}
	root, err := r.createFolder(ctx, "root", r.rootName, "")
	if err != nil {
		return "", err
	}
	r.rootID = root.ID
	return r.rootID, nil
}

// RootID returns the root folder id in use, or "" when none has been configured or created yet.
func (r *FolderResolver) RootID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rootID
}

func (r *FolderResolver) createFolder(ctx context.Context, level, name, parentID string) (storage.FolderRef, error) {
	ref, err := r.client.CreateFolder(ctx, name, parentID)
	if err != nil {
		return storage.FolderRef{}, err
	}
	r.metrics.folderCreated(level)
	r.log.Info("folder created",
		zap.String("event", "folder_created"),
		zap.String("level", level),
		zap.String("name", name),
		zap.String("folder_id", ref.ID),
		zap.String("parent_id", parentID),
	)
	return ref, nil
}
