package imagehost

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockHost is a mock implementation of the Host interface
type MockHost struct {
	mock.Mock
}

// Upload mocks the Upload method. The reader is drained so callers can
// assert on what was sent.
func (m *MockHost) Upload(ctx context.Context, r io.Reader) (string, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockHost) Delete(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}
