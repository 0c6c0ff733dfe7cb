// Package backend is the HTTP client of the Backend Service that stores user records.
// The service exposes:
//
//	GET  /users       ordered list of records
//	POST /users       create a record, returns it with the generated id
//	PUT  /users/{id}  update a record
//
// Every failure (network, non-2xx status, undecodable body) is reported as *TransportError.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/usersignup/internal/logger"
	"github.com/patric-chuzhbe/usersignup/internal/models"
)

// ErrUnexpectedStatus is wrapped by TransportError when the service answered with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// ErrEmptyID is wrapped by TransportError when an update is requested for a record without id.
var ErrEmptyID = errors.New("record has no backend id")

// TransportError describes a failed call to the Backend Service.
type TransportError struct {
	// Op is the operation name: "list", "create" or "update".
	Op string

	// StatusCode is the HTTP status of the response, zero when none was received.
	StatusCode int

	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client talks to the Backend Service over HTTP with JSON bodies.
type Client struct {
	http *resty.Client
}

type InitOption func(*initOptions)

type initOptions struct {
	debug      bool
	httpClient *http.Client
}

// WithDebug enables resty request/response dumps through the zap logger.
func WithDebug(debug bool) InitOption {
	return func(options *initOptions) {
		options.debug = debug
	}
}

// WithHTTPClient makes resty use the given transport client, e.g. the one of an httptest server.
func WithHTTPClient(httpClient *http.Client) InitOption {
	return func(options *initOptions) {
		options.httpClient = httpClient
	}
}

// New creates a Client for the service reachable at baseURL, e.g. "http://localhost:5000".
func New(baseURL string, optionsProto ...InitOption) *Client {
	options := &initOptions{}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	var restyClient *resty.Client
	if options.httpClient != nil {
		restyClient = resty.NewWithClient(options.httpClient)
	} else {
		restyClient = resty.New()
	}

	restyClient.
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetDebug(options.debug).
		SetLogger(logger.Log)

	return &Client{http: restyClient}
}

func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		var statusCode int
		if resp != nil {
			statusCode = resp.StatusCode()
		}
		return &TransportError{Op: op, StatusCode: statusCode, Err: err}
	}

	if !resp.IsSuccess() {
		return &TransportError{Op: op, StatusCode: resp.StatusCode(), Err: ErrUnexpectedStatus}
	}

	return nil
}

// ListUsers fetches every stored record in the service's order.
func (c *Client) ListUsers(ctx context.Context) (models.Users, error) {
	var users models.Users

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&users).
		ForceContentType("application/json").
		Get("/users")
	if err := checkResponse("list", resp, err); err != nil {
		return nil, err
	}

	if users == nil {
		users = models.Users{}
	}

	return users, nil
}

// CreateUser stores a new record and returns it as the service saved it, id included.
func (c *Client) CreateUser(ctx context.Context, payload models.UserPayload) (models.UserRecord, error) {
	var created models.UserRecord

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&created).
		ForceContentType("application/json").
		Post("/users")
	if err := checkResponse("create", resp, err); err != nil {
		return models.UserRecord{}, err
	}

	return created, nil
}

// UpdateUser overwrites the record with the given id. The response body is ignored.
func (c *Client) UpdateUser(ctx context.Context, id string, payload models.UserPayload) error {
	if id == "" {
		return &TransportError{Op: "update", Err: ErrEmptyID}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetPathParam("id", id).
		SetBody(payload).
		Put("/users/{id}")

	return checkResponse("update", resp, err)
}
