// Package router exposes the reference users backend over HTTP:
//
//	GET  /users       list of records in insertion order
//	POST /users       create a record, 201 with the stored record
//	PUT  /users/{id}  update a record, 200 with the stored record
//	GET  /ping        storage health check
package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/usersignup/internal/gzippedhttp"
	"github.com/patric-chuzhbe/usersignup/internal/logger"
	"github.com/patric-chuzhbe/usersignup/internal/models"
	"github.com/patric-chuzhbe/usersignup/internal/service"
)

type usersService interface {
	ListUsers(ctx context.Context) (models.Users, error)
	CreateUser(ctx context.Context, payload models.UserPayload) (models.UserRecord, error)
	UpdateUser(ctx context.Context, id string, payload models.UserPayload) (models.UserRecord, error)
	Ping(ctx context.Context) error
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

type Router struct {
	svc usersService
}

func New(svc usersService) *chi.Mux {
	myRouter := Router{
		svc: svc,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		logger.WithLoggingHTTPMiddleware,
		middleware.Recoverer,
		gzippedhttp.UngzipRequest,
		middleware.Compress(5, "application/json"),
	)
	router.Get(`/ping`, myRouter.GetPing)
	router.Route(`/users`, func(r chi.Router) {
		r.Get(`/`, myRouter.GetUsers)
		r.With(middleware.AllowContentType("application/json")).Post(`/`, myRouter.PostUsers)
		r.With(middleware.AllowContentType("application/json")).Put(`/{id}`, myRouter.PutUser)
	})

	return router
}

func writeJSON(response http.ResponseWriter, status int, body interface{}) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(body); err != nil {
		logger.Log.Debugw("Error calling the `json.NewEncoder(response).Encode()`", zap.Error(err))
	}
}

func writeError(response http.ResponseWriter, status int, err error) {
	writeJSON(response, status, ErrorResponse{Error: err.Error()})
}

func decodePayload(request *http.Request) (models.UserPayload, error) {
	var payload models.UserPayload

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&payload)

	return payload, err
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(response http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPayload):
		writeError(response, http.StatusBadRequest, err)
	case errors.Is(err, service.ErrUserNotFound):
		writeError(response, http.StatusNotFound, err)
	default:
		logger.Log.Errorw("users service failure", zap.Error(err))
		writeError(response, http.StatusInternalServerError, errors.New("internal error"))
	}
}

func (myRouter *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := myRouter.svc.Ping(request.Context()); err != nil {
		logger.Log.Errorw("storage ping failed", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func (myRouter *Router) GetUsers(response http.ResponseWriter, request *http.Request) {
	users, err := myRouter.svc.ListUsers(request.Context())
	if err != nil {
		writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, users)
}

func (myRouter *Router) PostUsers(response http.ResponseWriter, request *http.Request) {
	payload, err := decodePayload(request)
	if err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}

	created, err := myRouter.svc.CreateUser(request.Context(), payload)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusCreated, created)
}

func (myRouter *Router) PutUser(response http.ResponseWriter, request *http.Request) {
	payload, err := decodePayload(request)
	if err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}

	updated, err := myRouter.svc.UpdateUser(request.Context(), chi.URLParam(request, "id"), payload)
	if err != nil {
		writeServiceError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, updated)
}
