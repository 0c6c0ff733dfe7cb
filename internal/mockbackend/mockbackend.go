// Package mockbackend provides a testify-based mock of the Backend Service client
// consumed by the registration form controller.
package mockbackend

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/usersignup/internal/models"
)

// BackendMock implements the users backend interface of the form package.
type BackendMock struct {
	mock.Mock
}

// ListUsers mocks fetching every stored record.
func (m *BackendMock) ListUsers(ctx context.Context) (models.Users, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).(models.Users)
	return users, args.Error(1)
}

// CreateUser mocks storing a new record.
func (m *BackendMock) CreateUser(ctx context.Context, payload models.UserPayload) (models.UserRecord, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(models.UserRecord), args.Error(1)
}

// UpdateUser mocks overwriting the record with the given id.
func (m *BackendMock) UpdateUser(ctx context.Context, id string, payload models.UserPayload) error {
	args := m.Called(ctx, id, payload)
	return args.Error(0)
}
