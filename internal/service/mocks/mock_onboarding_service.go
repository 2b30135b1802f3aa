package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"onboardapi/internal/model"
	"onboardapi/internal/service"
)

type MockOnboardingService struct {
	mock.Mock
}

var _ service.OnboardingService = (*MockOnboardingService)(nil)

func (m *MockOnboardingService) UploadFiles(ctx context.Context, req service.UploadFilesRequest) (*service.UploadFilesResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadFilesResult), args.Error(1)
}

func (m *MockOnboardingService) CompanyFiles(ctx context.Context, companyName string) (*service.CompanyFilesResult, error) {
	args := m.Called(ctx, companyName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompanyFilesResult), args.Error(1)
}

func (m *MockOnboardingService) DeleteFile(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

func (m *MockOnboardingService) Submit(ctx context.Context, req service.SubmitRequest) (*service.SubmitResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockOnboardingService) ListSubmissions(ctx context.Context, limit, offset int) (*service.SubmissionListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmissionListResult), args.Error(1)
}

func (m *MockOnboardingService) GetSubmission(ctx context.Context, id string) (*model.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockOnboardingService) StorageStatus() service.StorageStatus {
	args := m.Called()
	return args.Get(0).(service.StorageStatus)
}
