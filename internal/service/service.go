// Package service implements the reference Backend Service: listing, creating and
// updating user records on top of a storage.
package service

import (
	"context"
	"errors"
	"fmt"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/patric-chuzhbe/usersignup/internal/models"
	"github.com/patric-chuzhbe/usersignup/internal/validation"
)

type usersKeeper interface {
	GetUsers(ctx context.Context) (models.Users, error)
	InsertUser(ctx context.Context, record models.UserRecord) error
	UpdateUser(ctx context.Context, record models.UserRecord) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type storage interface {
	usersKeeper
	pinger
}

// ErrInvalidPayload wraps the validator's report when a payload is rejected.
var ErrInvalidPayload = errors.New("invalid user payload")

// ErrUserNotFound is returned by UpdateUser for an unknown id.
var ErrUserNotFound = models.ErrUserNotFound

type Service struct {
	db       storage
	validate *validator.Validate
	newID    func() string
}

type InitOption func(*initOptions)

type initOptions struct {
	idGenerator func() string
}

// WithIDGenerator replaces the random UUID generator, e.g. for deterministic tests.
func WithIDGenerator(idGenerator func() string) InitOption {
	return func(options *initOptions) {
		options.idGenerator = idGenerator
	}
}

func New(db storage, optionsProto ...InitOption) (*Service, error) {
	options := &initOptions{
		idGenerator: func() string { return uuid.New().String() },
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	validate, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("in internal/service/service.go/New(): error while `validation.New()` calling: %w", err)
	}

	return &Service{
		db:       db,
		validate: validate,
		newID:    options.idGenerator,
	}, nil
}

func (s *Service) check(payload models.UserPayload) error {
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// ListUsers returns every record in insertion order.
func (s *Service) ListUsers(ctx context.Context) (models.Users, error) {
	users, err := s.db.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = models.Users{}
	}
	return users, nil
}

// CreateUser validates the payload, assigns a new id and stores the record.
func (s *Service) CreateUser(ctx context.Context, payload models.UserPayload) (models.UserRecord, error) {
	if err := s.check(payload); err != nil {
		return models.UserRecord{}, err
	}

	record := models.NewUserRecord(s.newID(), payload)
	if err := s.db.InsertUser(ctx, record); err != nil {
		return models.UserRecord{}, err
	}

	return record, nil
}

// UpdateUser validates the payload and overwrites the record with the given id.
func (s *Service) UpdateUser(ctx context.Context, id string, payload models.UserPayload) (models.UserRecord, error) {
	if err := s.check(payload); err != nil {
		return models.UserRecord{}, err
	}

	record := models.NewUserRecord(id, payload)
	if err := s.db.UpdateUser(ctx, record); err != nil {
		return models.UserRecord{}, err
	}

	return record, nil
}

// Ping checks the health of the storage.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
