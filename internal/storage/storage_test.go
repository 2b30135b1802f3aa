package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboardapi/internal/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		c, err := New(ctx, config.StorageConfig{Backend: "memory"})
		require.NoError(t, err)
		assert.NoError(t, c.Ready())
	})

	t.Run("gdrive without credentials degrades", func(t *testing.T) {
		c, err := New(ctx, config.StorageConfig{Backend: "gdrive"})
		assert.Error(t, err)
		require.NotNil(t, c)
		assert.ErrorIs(t, c.Ready(), ErrUnavailable)
	})

	t.Run("minio without endpoint degrades", func(t *testing.T) {
		c, err := New(ctx, config.StorageConfig{Backend: "minio"})
		assert.Error(t, err)
		assert.ErrorIs(t, c.Ready(), ErrUnavailable)
	})

	t.Run("unknown backend degrades", func(t *testing.T) {
		c, err := New(ctx, config.StorageConfig{Backend: "ftp"})
		assert.ErrorContains(t, err, "unknown storage backend")
		assert.ErrorIs(t, c.Ready(), ErrUnavailable)
	})
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	u := Unavailable{Reason: errors.New("missing refresh token")}

	assert.ErrorIs(t, u.Ready(), ErrUnavailable)
	assert.Contains(t, u.Ready().Error(), "missing refresh token")

	_, err := u.CreateFolder(ctx, "a", "")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = u.SearchFolders(ctx, "a", "")
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = u.CreateFile(ctx, "a", "p", "text/plain", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
	_, err = u.ListChildren(ctx, "p")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, u.Delete(ctx, "id"), ErrUnavailable)

	assert.ErrorIs(t, Unavailable{}.Ready(), ErrUnavailable)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	root, err := m.CreateFolder(ctx, "Onboarding Forms", "")
	require.NoError(t, err)
	acme, err := m.CreateFolder(ctx, "Acme", root.ID)
	require.NoError(t, err)
	_, err = m.CreateFolder(ctx, "Acme", "")
	require.NoError(t, err)

	t.Run("search is exact and optionally scoped", func(t *testing.T) {
		all, err := m.SearchFolders(ctx, "Acme", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, acme.ID, all[0].ID)

		scoped, err := m.SearchFolders(ctx, "Acme", root.ID)
		require.NoError(t, err)
		assert.Equal(t, []FolderRef{acme}, scoped)

		none, err := m.SearchFolders(ctx, "acme", "")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("create list delete file", func(t *testing.T) {
		obj, err := m.CreateFile(ctx, "P0-INFO a.pdf", acme.ID, "application/pdf", strings.NewReader("pdf"), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), obj.Size)
		assert.Equal(t, "memory://"+obj.ID, obj.URL)

		children, err := m.ListChildren(ctx, acme.ID)
		require.NoError(t, err)
		assert.Len(t, children, 1)

		require.NoError(t, m.Delete(ctx, obj.ID))
		err = m.Delete(ctx, obj.ID)
		assert.ErrorIs(t, err, ErrOperationFailed)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, err := m.CreateFile(ctx, "x", "nope", "text/plain", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = m.CreateFolder(ctx, "x", "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMinIOKeys(t *testing.T) {
	assert.Equal(t, "folders/root/abc", folderKey("", "abc"))
	assert.Equal(t, "folders/p1/abc", folderKey("p1", "abc"))
	assert.Equal(t, "files/f1/u1", fileKey("f1", "u1"))

	key, ok := fileKeyFromID("f1_u1")
	assert.True(t, ok)
	assert.Equal(t, "files/f1/u1", key)

	for _, bad := range []string{"", "f1", "_u1", "f1_"} {
		_, ok := fileKeyFromID(bad)
		assert.False(t, ok, bad)
	}

	assert.Equal(t, "abc", lastSegment("folders/root/abc"))
	assert.Equal(t, "Identidad visual", metaValue(map[string]string{"Folder-Name": "Identidad+visual"}, metaFolderName))
	assert.Equal(t, "", metaValue(map[string]string{}, metaFolderName))
}
