package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"onboardapi/internal/forwarder"
)

type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockForwarder) Forward(ctx context.Context, requestID string, p forwarder.Payload) error {
	args := m.Called(ctx, requestID, p)
	return args.Error(0)
}
