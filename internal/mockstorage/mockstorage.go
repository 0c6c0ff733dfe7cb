// Package mockstorage provides a testify-based mock of the storage consumed by
// the users service. It is used to unit test the service and the API router.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/usersignup/internal/models"
)

// StorageMock implements every storage interface of the service package.
type StorageMock struct {
	mock.Mock
}

// Ping mocks the storage health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// GetUsers mocks listing the stored records.
func (m *StorageMock) GetUsers(ctx context.Context) (models.Users, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).(models.Users)
	return users, args.Error(1)
}

// InsertUser mocks storing a new record.
func (m *StorageMock) InsertUser(ctx context.Context, record models.UserRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// UpdateUser mocks overwriting a stored record.
func (m *StorageMock) UpdateUser(ctx context.Context, record models.UserRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
