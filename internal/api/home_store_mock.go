package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dvstream/catalog/internal/models"
)

// MockHomeStore is a mock implementation of HomeStore interface
type MockHomeStore struct {
	mock.Mock
}

// Home mocks the Home method
func (m *MockHomeStore) Home(ctx context.Context) (*models.HomePageData, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(*models.HomePageData)
	return data, args.Error(1)
}

// Stats mocks the Stats method
func (m *MockHomeStore) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.Stats)
	return stats, args.Error(1)
}
