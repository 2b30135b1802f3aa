package mocks

import (
	"context"
	"io"

	"onboardapi/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

var _ storage.Client = (*MockClient)(nil)

func (m *MockClient) Ready() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockClient) CreateFolder(ctx context.Context, name, parentID string) (storage.FolderRef, error) {
	args := m.Called(ctx, name, parentID)
	return args.Get(0).(storage.FolderRef), args.Error(1)
}

func (m *MockClient) SearchFolders(ctx context.Context, name, parentID string) ([]storage.FolderRef, error) {
	args := m.Called(ctx, name, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.FolderRef), args.Error(1)
}

func (m *MockClient) CreateFile(ctx context.Context, name, parentID, mimeType string, r io.Reader, size int64) (storage.Object, error) {
	args := m.Called(ctx, name, parentID, mimeType, r, size)
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockClient) ListChildren(ctx context.Context, parentID string) ([]storage.Object, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Object), args.Error(1)
}

func (m *MockClient) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
