package form

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/usersignup/internal/backend"
	"github.com/patric-chuzhbe/usersignup/internal/mockbackend"
	"github.com/patric-chuzhbe/usersignup/internal/models"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Alert(message string) {
	n.messages = append(n.messages, message)
}

func newTestController(t *testing.T) (*Controller, *mockbackend.BackendMock, *recordingNotifier) {
	t.Helper()

	backendMock := &mockbackend.BackendMock{}
	notifier := &recordingNotifier{}
	controller, err := New(backendMock, WithNotifier(notifier))
	require.NoError(t, err)

	return controller, backendMock, notifier
}

func fillFields(t *testing.T, controller *Controller, fields Fields) {
	t.Helper()

	controller.SetName(fields.Name)
	controller.SetMobile(fields.Mobile)
	require.NoError(t, controller.SetState(fields.State))
	if fields.State != "" {
		require.NoError(t, controller.SetCity(fields.City))
	}
	controller.SetAddress(fields.Address)
}

var ashaFields = Fields{
	Name:    "Asha",
	Mobile:  "9876543210",
	State:   "Delhi",
	City:    "New Delhi",
	Address: "12 MG Road",
}

var ashaPayload = models.UserPayload{
	Name:    "Asha",
	Mobile:  "9876543210",
	State:   "Delhi",
	City:    "New Delhi",
	Address: "12 MG Road",
}

func TestSetMobile(t *testing.T) {
	type tTestCase struct {
		name     string
		raw      string
		expected string
	}
	testCases := []tTestCase{
		{name: "letters are stripped", raw: "98a76", expected: "9876"},
		{name: "formatted number", raw: "+91 (987) 654-32", expected: "9198765432"},
		{name: "truncated to ten digits", raw: "98765432101234", expected: "9876543210"},
		{name: "no digits", raw: "abc", expected: ""},
		{name: "empty", raw: "", expected: ""},
		{name: "non-ascii digits are stripped", raw: "٣98", expected: "98"},
	}

	digitsOnly := regexp.MustCompile(`^[0-9]{0,10}$`)

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			controller, _, _ := newTestController(t)

			controller.SetMobile(testCase.raw)

			mobile := controller.Fields().Mobile
			assert.Equal(t, testCase.expected, mobile)
			assert.Regexp(t, digitsOnly, mobile)
		})
	}
}

func TestSetStateResetsCity(t *testing.T) {
	controller, _, _ := newTestController(t)

	require.NoError(t, controller.SetState("Karnataka"))
	require.NoError(t, controller.SetCity("Mysuru"))
	assert.Equal(t, "Mysuru", controller.Fields().City)

	require.NoError(t, controller.SetState("Karnataka"))
	assert.Equal(t, "", controller.Fields().City, "re-selecting the same state resets the city too")

	require.NoError(t, controller.SetCity("Bengaluru"))
	require.NoError(t, controller.SetState("Delhi"))
	assert.Equal(t, "", controller.Fields().City)

	require.NoError(t, controller.SetState(""))
	assert.Equal(t, "", controller.Fields().State)
}

func TestSetStateAndCityGuards(t *testing.T) {
	controller, _, _ := newTestController(t)

	assert.ErrorIs(t, controller.SetCity("Mumbai"), ErrStateNotSelected)
	assert.ErrorIs(t, controller.SetState("Atlantis"), ErrUnknownState)

	require.NoError(t, controller.SetState("Delhi"))
	assert.ErrorIs(t, controller.SetCity("Mumbai"), ErrUnknownCity)
	assert.NoError(t, controller.SetCity(""))
}

func TestSaveValidation(t *testing.T) {
	type tTestCase struct {
		name            string
		fields          Fields
		expectedErr     error
		expectedMessage string
	}
	testCases := []tTestCase{
		{
			name:            "all empty",
			fields:          Fields{},
			expectedErr:     ErrMissingField,
			expectedMessage: MessageMissingField,
		},
		{
			name:            "blank name",
			fields:          Fields{Name: "   ", Mobile: "9876543210", State: "Delhi", City: "New Delhi", Address: "12 MG Road"},
			expectedErr:     ErrMissingField,
			expectedMessage: MessageMissingField,
		},
		{
			name:            "no city",
			fields:          Fields{Name: "Asha", Mobile: "9876543210", State: "Delhi", Address: "12 MG Road"},
			expectedErr:     ErrMissingField,
			expectedMessage: MessageMissingField,
		},
		{
			name:            "no state",
			fields:          Fields{Name: "Asha", Mobile: "9876543210", Address: "12 MG Road"},
			expectedErr:     ErrMissingField,
			expectedMessage: MessageMissingField,
		},
		{
			name:            "whitespace address",
			fields:          Fields{Name: "Asha", Mobile: "9876543210", State: "Delhi", City: "New Delhi", Address: "\t\n "},
			expectedErr:     ErrMissingField,
			expectedMessage: MessageMissingField,
		},
		{
			name:            "missing field wins over short mobile",
			fields:          Fields{Name: "", Mobile: "98765", State: "Delhi", City: "New Delhi", Address: "12 MG Road"},
			expectedErr:     ErrMissingField,
			expectedMessage: MessageMissingField,
		},
		{
			name:            "short mobile",
			fields:          Fields{Name: "Asha", Mobile: "98765", State: "Delhi", City: "New Delhi", Address: "12 MG Road"},
			expectedErr:     ErrBadMobileLength,
			expectedMessage: MessageBadMobile,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			controller, backendMock, notifier := newTestController(t)
			fillFields(t, controller, testCase.fields)

			err := controller.Save(context.Background())

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.ErrorIs(t, err, testCase.expectedErr)
			assert.Equal(t, []string{testCase.expectedMessage}, notifier.messages)
			backendMock.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
			backendMock.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestSaveCreate(t *testing.T) {
	controller, backendMock, notifier := newTestController(t)
	fillFields(t, controller, ashaFields)

	created := models.NewUserRecord("64f1", ashaPayload)
	backendMock.On("CreateUser", mock.Anything, ashaPayload).Return(created, nil).Once()

	err := controller.Save(context.Background())
	require.NoError(t, err)

	backendMock.AssertNumberOfCalls(t, "CreateUser", 1)
	assert.Equal(t, models.Users{created}, controller.Users())
	assert.Equal(t, Fields{}, controller.Fields())
	assert.Empty(t, notifier.messages)
	_, editing := controller.EditTarget()
	assert.False(t, editing)
}

func TestSaveCreateFailure(t *testing.T) {
	controller, backendMock, notifier := newTestController(t)
	fillFields(t, controller, ashaFields)

	transportErr := &backend.TransportError{Op: "create", StatusCode: 500, Err: backend.ErrUnexpectedStatus}
	backendMock.On("CreateUser", mock.Anything, ashaPayload).Return(models.UserRecord{}, transportErr).Once()

	err := controller.Save(context.Background())

	assert.ErrorIs(t, err, backend.ErrUnexpectedStatus)
	assert.Equal(t, []string{MessageSaveFailed}, notifier.messages)
	assert.Empty(t, controller.Users())
	assert.Equal(t, ashaFields, controller.Fields(), "fields are kept so the operator can retry")
}

func seededController(t *testing.T) (*Controller, *mockbackend.BackendMock, *recordingNotifier, models.Users) {
	t.Helper()

	controller, backendMock, notifier := newTestController(t)
	users := models.Users{
		{ID: "a1", Name: "Asha", Mobile: "9876543210", State: "Delhi", City: "New Delhi", Address: "12 MG Road"},
		{ID: "b2", Name: "Ravi", Mobile: "9123456780", State: "Karnataka", City: "Mysuru", Address: "4 Palace Road"},
	}
	backendMock.On("ListUsers", mock.Anything).Return(users, nil).Once()
	controller.Initialize(context.Background())
	require.Equal(t, users, controller.Users())

	return controller, backendMock, notifier, users
}

func TestBeginEditThenSaveUpdates(t *testing.T) {
	controller, backendMock, notifier, users := seededController(t)

	require.NoError(t, controller.BeginEdit(1))
	index, editing := controller.EditTarget()
	require.True(t, editing)
	assert.Equal(t, 1, index)
	assert.Equal(t, "Update", controller.View().SubmitLabel)
	assert.Equal(t, Fields{Name: "Ravi", Mobile: "9123456780", State: "Karnataka", City: "Mysuru", Address: "4 Palace Road"}, controller.Fields())

	backendMock.On("UpdateUser", mock.Anything, "b2", users[1].Payload()).Return(nil).Once()

	err := controller.Save(context.Background())
	require.NoError(t, err)

	backendMock.AssertExpectations(t)
	backendMock.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	assert.Equal(t, users, controller.Users())
	assert.Equal(t, Fields{}, controller.Fields())
	_, editing = controller.EditTarget()
	assert.False(t, editing)
	assert.Empty(t, notifier.messages)
}

func TestSaveUpdateMergesFields(t *testing.T) {
	controller, backendMock, _, users := seededController(t)

	require.NoError(t, controller.BeginEdit(0))
	controller.SetName("Asha Rao")
	require.NoError(t, controller.SetState("Karnataka"))
	require.NoError(t, controller.SetCity("Bengaluru"))

	expectedPayload := models.UserPayload{
		Name:    "Asha Rao",
		Mobile:  "9876543210",
		State:   "Karnataka",
		City:    "Bengaluru",
		Address: "12 MG Road",
	}
	backendMock.On("UpdateUser", mock.Anything, "a1", expectedPayload).Return(nil).Once()

	require.NoError(t, controller.Save(context.Background()))

	cached := controller.Users()
	require.Len(t, cached, 2)
	assert.Equal(t, models.NewUserRecord("a1", expectedPayload), cached[0])
	assert.Equal(t, users[1], cached[1])
}

func TestSaveUpdateFailureKeepsState(t *testing.T) {
	controller, backendMock, notifier, users := seededController(t)

	require.NoError(t, controller.BeginEdit(0))
	controller.SetName("Changed")

	backendMock.On("UpdateUser", mock.Anything, "a1", mock.Anything).
		Return(&backend.TransportError{Op: "update", Err: errors.New("connection refused")}).
		Once()

	err := controller.Save(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{MessageSaveFailed}, notifier.messages)
	assert.Equal(t, users, controller.Users())
	assert.Equal(t, "Changed", controller.Fields().Name)
	index, editing := controller.EditTarget()
	assert.True(t, editing)
	assert.Equal(t, 0, index)
}

func TestBeginEditInvalidIndex(t *testing.T) {
	controller, _, _, _ := seededController(t)

	assert.ErrorIs(t, controller.BeginEdit(-1), ErrNoSuchRecord)
	assert.ErrorIs(t, controller.BeginEdit(2), ErrNoSuchRecord)
	_, editing := controller.EditTarget()
	assert.False(t, editing)
}

func TestInitializeFailureIsSilent(t *testing.T) {
	controller, backendMock, notifier := newTestController(t)
	backendMock.On("ListUsers", mock.Anything).
		Return(nil, &backend.TransportError{Op: "list", Err: errors.New("connection refused")}).
		Once()

	controller.Initialize(context.Background())

	assert.Empty(t, controller.Users())
	assert.Empty(t, notifier.messages)
}
