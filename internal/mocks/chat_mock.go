package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockChat mocks the chat bot client used by the delivery pipeline and dispatcher.
type MockChat struct {
	mock.Mock
}

func (m *MockChat) ChatID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockChat) SendMessage(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *MockChat) SendPhotoURL(ctx context.Context, photoURL, caption string) error {
	args := m.Called(ctx, photoURL, caption)
	return args.Error(0)
}

func (m *MockChat) SendPhotoUpload(ctx context.Context, contentType string, body []byte) error {
	args := m.Called(ctx, contentType, body)
	return args.Error(0)
}
