// Package memorystorage keeps user records in process memory, in insertion order.
package memorystorage

import (
	"context"
	"sync"

	"github.com/patric-chuzhbe/usersignup/internal/models"
)

// MemoryStorage is safe for concurrent use.
type MemoryStorage struct {
	mu        sync.RWMutex
	users     models.Users
	positions map[string]int
}

func New() (*MemoryStorage, error) {
	return NewWithUsers(nil), nil
}

// NewWithUsers creates a storage preloaded with users, kept in the given order.
func NewWithUsers(users models.Users) *MemoryStorage {
	theStorage := &MemoryStorage{
		users:     models.Users{},
		positions: map[string]int{},
	}
	for _, record := range users {
		theStorage.positions[record.ID] = len(theStorage.users)
		theStorage.users = append(theStorage.users, record)
	}

	return theStorage
}

// GetUsers returns a copy of every record in insertion order.
func (theStorage *MemoryStorage) GetUsers(ctx context.Context) (models.Users, error) {
	theStorage.mu.RLock()
	defer theStorage.mu.RUnlock()

	return append(models.Users{}, theStorage.users...), nil
}

// InsertUser appends record. Its id must not be stored yet.
func (theStorage *MemoryStorage) InsertUser(ctx context.Context, record models.UserRecord) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	if _, exists := theStorage.positions[record.ID]; exists {
		return ErrDuplicateID
	}
	theStorage.positions[record.ID] = len(theStorage.users)
	theStorage.users = append(theStorage.users, record)

	return nil
}

// UpdateUser replaces the record with the same id in place.
func (theStorage *MemoryStorage) UpdateUser(ctx context.Context, record models.UserRecord) error {
	theStorage.mu.Lock()
	defer theStorage.mu.Unlock()

	position, exists := theStorage.positions[record.ID]
	if !exists {
		return models.ErrUserNotFound
	}
	theStorage.users[position] = record

	return nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
