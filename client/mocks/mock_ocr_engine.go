package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockOCREngine struct {
	mock.Mock
}

func (m *MockOCREngine) Recognize(ctx context.Context, imageData []byte) (string, error) {
	args := m.Called(ctx, imageData)
	return args.String(0), args.Error(1)
}

func (m *MockOCREngine) Name() string {
	return "mock"
}
