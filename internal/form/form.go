// Package form implements the registration form controller: the editable fields,
// the local cache of user records mirroring the Backend Service, and the create/update
// flow behind the Save button.
package form

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"

	validator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/usersignup/internal/geo"
	"github.com/patric-chuzhbe/usersignup/internal/logger"
	"github.com/patric-chuzhbe/usersignup/internal/models"
	"github.com/patric-chuzhbe/usersignup/internal/validation"
)

// MobileLength is the exact number of digits of a mobile number.
const MobileLength = 10

// Messages shown to the operator as blocking notifications.
const (
	MessageMissingField = "All fields are required!"
	MessageBadMobile    = "Mobile number must be exactly 10 digits!"
	MessageSaveFailed   = "Failed to save data. Please try again."
)

var (
	ErrMissingField     = errors.New("missing field")
	ErrBadMobileLength  = errors.New("bad mobile length")
	ErrUnknownState     = errors.New("unknown state")
	ErrUnknownCity      = errors.New("city does not belong to the selected state")
	ErrStateNotSelected = errors.New("state is not selected")
	ErrNoSuchRecord     = errors.New("no such record")
)

// ValidationError is returned by Save when the fields fail the local checks.
// No request is sent to the Backend Service in that case.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

type usersBackend interface {
	ListUsers(ctx context.Context) (models.Users, error)
	CreateUser(ctx context.Context, payload models.UserPayload) (models.UserRecord, error)
	UpdateUser(ctx context.Context, id string, payload models.UserPayload) error
}

// Notifier delivers blocking notifications to the operator.
type Notifier interface {
	Alert(message string)
}

type logNotifier struct{}

func (logNotifier) Alert(message string) {
	logger.Log.Infow("notification", "message", message)
}

// Fields are the five editable values of the form.
type Fields struct {
	Name    string
	Mobile  string
	State   string
	City    string
	Address string
}

func (f Fields) payload() models.UserPayload {
	return models.UserPayload{
		Name:    f.Name,
		Mobile:  f.Mobile,
		State:   f.State,
		City:    f.City,
		Address: f.Address,
	}
}

func fieldsOf(record models.UserRecord) Fields {
	return Fields{
		Name:    record.Name,
		Mobile:  record.Mobile,
		State:   record.State,
		City:    record.City,
		Address: record.Address,
	}
}

// editTarget remembers the cached record being updated by its position and backend id.
// The id is authoritative; the position is a hint.
type editTarget struct {
	index int
	id    string
}

// Controller is the registration form controller. It is safe for concurrent use;
// its lock is never held across a Backend Service call.
type Controller struct {
	mu         sync.Mutex
	backend    usersBackend
	notifier   Notifier
	validate   *validator.Validate
	fields     Fields
	users      models.Users
	editTarget *editTarget
}

type InitOption func(*initOptions)

type initOptions struct {
	notifier Notifier
}

// WithNotifier sets where blocking notifications go. By default they are only logged.
func WithNotifier(notifier Notifier) InitOption {
	return func(options *initOptions) {
		options.notifier = notifier
	}
}

// New creates a Controller with empty fields and an empty cache.
func New(backend usersBackend, optionsProto ...InitOption) (*Controller, error) {
	options := &initOptions{
		notifier: logNotifier{},
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	validate, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("in internal/form/form.go/New(): error while `validation.New()` calling: %w", err)
	}

	return &Controller{
		backend:  backend,
		notifier: options.notifier,
		validate: validate,
		users:    models.Users{},
	}, nil
}

// Initialize replaces the cache with the Backend Service's list of users.
// A failure is logged and otherwise ignored: the cache stays as it was.
func (c *Controller) Initialize(ctx context.Context) {
	users, err := c.backend.ListUsers(ctx)
	if err != nil {
		logger.Log.Errorw("unable to load users from the backend", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(models.Users{}, users...)
}

// SetName stores the name as entered.
func (c *Controller) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.Name = name
}

// SetAddress stores the address as entered.
func (c *Controller) SetAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.Address = address
}

// SetMobile keeps only the digits of raw, at most MobileLength of them.
func (c *Controller) SetMobile(raw string) {
	mobile := nonDigits.ReplaceAllString(raw, "")
	if len(mobile) > MobileLength {
		mobile = mobile[:MobileLength]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.Mobile = mobile
}

// SetState selects a state, or none when state is empty. The city is always reset.
func (c *Controller) SetState(state string) error {
	if state != "" && !geo.IsState(state) {
		return ErrUnknownState
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields.State = state
	c.fields.City = ""

	return nil
}

// SetCity selects a city of the current state, or clears it when city is empty.
func (c *Controller) SetCity(city string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fields.State == "" {
		return ErrStateNotSelected
	}
	if city != "" && !geo.HasCity(c.fields.State, city) {
		return ErrUnknownCity
	}
	c.fields.City = city

	return nil
}

// BeginEdit loads the cached record at index into the fields and switches Save to update mode.
func (c *Controller) BeginEdit(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.users) {
		return fmt.Errorf("%w: index %d", ErrNoSuchRecord, index)
	}

	record := c.users[index]
	c.fields = fieldsOf(record)
	c.editTarget = &editTarget{index: index, id: record.ID}

	return nil
}

func (c *Controller) check(fields Fields) error {
	for _, value := range []string{fields.Name, fields.Mobile, fields.State, fields.City, fields.Address} {
		if err := c.validate.Var(value, "notblank"); err != nil {
			return &ValidationError{Err: ErrMissingField}
		}
	}

	if err := c.validate.Var(fields.Mobile, fmt.Sprintf("len=%d", MobileLength)); err != nil {
		return &ValidationError{Err: ErrBadMobileLength}
	}

	return nil
}

func validationMessage(err error) string {
	if errors.Is(err, ErrBadMobileLength) {
		return MessageBadMobile
	}
	return MessageMissingField
}

// Save validates the fields and sends them to the Backend Service: an update when a
// record is being edited, a create otherwise. The cache changes only after the service
// confirms. On success the fields are cleared; on failure nothing local changes.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	fields := c.fields
	var target *editTarget
	if c.editTarget != nil {
		copied := *c.editTarget
		target = &copied
	}
	c.mu.Unlock()

	if err := c.check(fields); err != nil {
		c.notifier.Alert(validationMessage(err))
		return err
	}

	payload := fields.payload()

	if target != nil {
		if err := c.backend.UpdateUser(ctx, target.id, payload); err != nil {
			logger.Log.Errorw("unable to update user", "id", target.id, zap.Error(err))
			c.notifier.Alert(MessageSaveFailed)
			return fmt.Errorf("in internal/form/form.go/Save(): error while `c.backend.UpdateUser()` calling: %w", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if position := c.positionOf(target); position >= 0 {
			c.users[position] = c.users[position].Merge(payload)
		}
		c.editTarget = nil
		c.fields = Fields{}

		return nil
	}

	created, err := c.backend.CreateUser(ctx, payload)
	if err != nil {
		logger.Log.Errorw("unable to create user", zap.Error(err))
		c.notifier.Alert(MessageSaveFailed)
		return fmt.Errorf("in internal/form/form.go/Save(): error while `c.backend.CreateUser()` calling: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, created)
	c.fields = Fields{}

	return nil
}

// positionOf finds the cached record of target by id. Must be called with c.mu held.
func (c *Controller) positionOf(target *editTarget) int {
	if target.index >= 0 && target.index < len(c.users) && c.users[target.index].ID == target.id {
		return target.index
	}
	for i, record := range c.users {
		if record.ID == target.id {
			return i
		}
	}
	return -1
}

// Fields returns the current field values.
func (c *Controller) Fields() Fields {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields
}

// Users returns a copy of the cache in cache order.
func (c *Controller) Users() models.Users {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append(models.Users{}, c.users...)
}

// EditTarget returns the cache position being edited, if any.
func (c *Controller) EditTarget() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editTarget == nil {
		return 0, false
	}
	return c.editTarget.index, true
}
