package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"onboardapi/internal/storage"
	storeMocks "onboardapi/internal/storage/mocks"
)

func TestFolderResolver_FirstTimeCompany(t *testing.T) {
	client := new(storeMocks.MockClient)
	client.On("Ready").Return(nil)
	client.On("SearchFolders", mock.Anything, "Acme Corp", "").Return([]storage.FolderRef{}, nil)
	client.On("CreateFolder", mock.Anything, DefaultRootFolderName, "").Return(storage.FolderRef{ID: "root-1", Name: DefaultRootFolderName}, nil)
	client.On("CreateFolder", mock.Anything, "Acme Corp", "root-1").Return(storage.FolderRef{ID: "company-1", Name: "Acme Corp"}, nil)
	client.On("CreateFolder", mock.Anything, DefaultSubfolderName, "company-1").Return(storage.FolderRef{ID: "sub-1", Name: DefaultSubfolderName}, nil)

	r := NewFolderResolver(client, ResolverConfig{}, nil, nil)
	id, err := r.Resolve(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)
	client.AssertNumberOfCalls(t, "CreateFolder", 3)
	assert.Equal(t, "root-1", r.RootID())
}

func TestFolderResolver_ConfiguredRootIsNotCreated(t *testing.T) {
	client := new(storeMocks.MockClient)
	client.On("Ready").Return(nil)
	client.On("SearchFolders", mock.Anything, "Acme Corp", "").Return([]storage.FolderRef{}, nil)
	client.On("CreateFolder", mock.Anything, "Acme Corp", "configured-root").Return(storage.FolderRef{ID: "company-1"}, nil)
	client.On("CreateFolder", mock.Anything, DefaultSubfolderName, "company-1").Return(storage.FolderRef{ID: "sub-1"}, nil)

	r := NewFolderResolver(client, ResolverConfig{RootFolderID: "configured-root"}, nil, nil)
	id, err := r.Resolve(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "sub-1", id)
	client.AssertNumberOfCalls(t, "CreateFolder", 2)
}

func TestFolderResolver_ExistingCompanyMissingSubfolder(t *testing.T) {
	client := new(storeMocks.MockClient)
	client.On("Ready").Return(nil)
	client.On("SearchFolders", mock.Anything, "Acme Corp", "").Return([]storage.FolderRef{{ID: "company-1", Name: "Acme Corp"}}, nil)
	client.On("SearchFolders", mock.Anything, DefaultSubfolderName, "company-1").Return([]storage.FolderRef{}, nil)
	client.On("CreateFolder", mock.Anything, DefaultSubfolderName, "company-1").Return(storage.FolderRef{ID: "sub-9"}, nil)

	r := NewFolderResolver(client, ResolverConfig{}, nil, nil)
	id, err := r.Resolve(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "sub-9", id)
	client.AssertNumberOfCalls(t, "CreateFolder", 1)
	client.AssertNotCalled(t, "CreateFolder", mock.Anything, "Acme Corp", mock.Anything)
}

func TestFolderResolver_ExistingHierarchy(t *testing.T) {
	client := new(storeMocks.MockClient)
	client.On("Ready").Return(nil)
	client.On("SearchFolders", mock.Anything, "Acme Corp", "").Return([]storage.FolderRef{
		{ID: "company-1", Name: "Acme Corp"},
		{ID: "company-2", Name: "Acme Corp"},
	}, nil)
	client.On("SearchFolders", mock.Anything, DefaultSubfolderName, "company-1").Return([]storage.FolderRef{{ID: "sub-1"}, {ID: "sub-2"}}, nil)

	r := NewFolderResolver(client, ResolverConfig{}, nil, nil)
	id, err := r.Resolve(context.Background(), "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "sub-1", id, "first match wins")
	client.AssertNotCalled(t, "CreateFolder", mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "SearchFolders", mock.Anything, DefaultSubfolderName, "company-2")
}

func TestFolderResolver_BackendFailureAborts(t *testing.T) {
	boom := errors.New("quota exceeded")
	client := new(storeMocks.MockClient)
	client.On("Ready").Return(nil)
	client.On("SearchFolders", mock.Anything, "Acme Corp", "").Return([]storage.FolderRef{}, nil)
	client.On("CreateFolder", mock.Anything, DefaultRootFolderName, "").Return(storage.FolderRef{ID: "root-1"}, nil)
	client.On("CreateFolder", mock.Anything, "Acme Corp", "root-1").Return(storage.FolderRef{}, boom)

	r := NewFolderResolver(client, ResolverConfig{}, nil, nil)
	_, err := r.Resolve(context.Background(), "Acme Corp")

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "quota exceeded")
	client.AssertNotCalled(t, "CreateFolder", mock.Anything, DefaultSubfolderName, mock.Anything)
}

func TestFolderResolver_Unavailable(t *testing.T) {
	client := new(storeMocks.MockClient)
	client.On("Ready").Return(storage.Unavailable{}.Ready())

	r := NewFolderResolver(client, ResolverConfig{}, nil, nil)
	_, err := r.Resolve(context.Background(), "Acme Corp")

	assert.ErrorIs(t, err, storage.ErrUnavailable)
	client.AssertNotCalled(t, "SearchFolders", mock.Anything, mock.Anything, mock.Anything)
}

func TestFolderResolver_RejectsBlankName(t *testing.T) {
	client := new(storeMocks.MockClient)
	r := NewFolderResolver(client, ResolverConfig{}, nil, nil)

	for _, name := range []string{"", "   "} {
		_, err := r.Resolve(context.Background(), name)
		assert.ErrorIs(t, err, ErrValidation)
	}
	client.AssertNotCalled(t, "Ready")
}

func TestFolderResolver_Memory(t *testing.T) {
	ctx := context.Background()

	t.Run("distinct companies get distinct folders", func(t *testing.T) {
		r := NewFolderResolver(storage.NewMemory(), ResolverConfig{}, nil, nil)
		a, err := r.Resolve(ctx, "Acme Corp")
		require.NoError(t, err)
		b, err := r.Resolve(ctx, "Beta LLC")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("repeat resolution is idempotent", func(t *testing.T) {
		mem := storage.NewMemory()
		r := NewFolderResolver(mem, ResolverConfig{}, nil, nil)
		first, err := r.Resolve(ctx, "Acme Corp")
		require.NoError(t, err)
		second, err := r.Resolve(ctx, "Acme Corp")
		require.NoError(t, err)
		assert.Equal(t, first, second)

		companies, _ := mem.SearchFolders(ctx, "Acme Corp", "")
		assert.Len(t, companies, 1)
	})

	t.Run("root is created once", func(t *testing.T) {
		mem := storage.NewMemory()
		r := NewFolderResolver(mem, ResolverConfig{}, nil, nil)
		_, err := r.Resolve(ctx, "Acme Corp")
		require.NoError(t, err)
		_, err = r.Resolve(ctx, "Beta LLC")
		require.NoError(t, err)

		roots, _ := mem.SearchFolders(ctx, DefaultRootFolderName, "")
		assert.Len(t, roots, 1)
	})

	t.Run("names are matched exactly", func(t *testing.T) {
		r := NewFolderResolver(storage.NewMemory(), ResolverConfig{}, nil, nil)
		a, err := r.Resolve(ctx, "Acme")
		require.NoError(t, err)
		b, err := r.Resolve(ctx, "acme ")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("custom folder names", func(t *testing.T) {
		mem := storage.NewMemory()
		r := NewFolderResolver(mem, ResolverConfig{RootFolderName: "Clients", SubfolderName: "Uploads"}, nil, nil)
		id, err := r.Resolve(ctx, "Acme")
		require.NoError(t, err)

		subs, _ := mem.SearchFolders(ctx, "Uploads", "")
		require.Len(t, subs, 1)
		assert.Equal(t, id, subs[0].ID)
	})
}

func TestFolderResolver_ConcurrentSameCompany(t *testing.T) {
	mem := storage.NewMemory()
	r := NewFolderResolver(mem, ResolverConfig{}, nil, nil)
	ctx := context.Background()

	const n = 16
	ids := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = r.Resolve(ctx, "Acme Corp")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	companies, _ := mem.SearchFolders(ctx, "Acme Corp", "")
	assert.Len(t, companies, 1)
	subs, _ := mem.SearchFolders(ctx, DefaultSubfolderName, "")
	assert.Len(t, subs, 1)
}

func TestFolderResolver_CallerCancelDoesNotAbortCreation(t *testing.T) {
	mem := storage.NewMemory()
	r := NewFolderResolver(mem, ResolverConfig{}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Resolve(ctx, "Acme Corp")
	// Either the shared run finished first or the caller observed its own cancellation.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}

	id, err := r.Resolve(context.Background(), "Acme Corp")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	companies, _ := mem.SearchFolders(context.Background(), "Acme Corp", "")
	assert.Len(t, companies, 1)
}

func TestFolderResolver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	r := NewFolderResolver(storage.NewMemory(), ResolverConfig{}, nil, m)
	_, err = r.Resolve(context.Background(), "Acme Corp")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.foldersCreated.WithLabelValues("root")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.foldersCreated.WithLabelValues("company")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.foldersCreated.WithLabelValues("subfolder")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("found")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}
