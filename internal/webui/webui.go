// Package webui serves the registration page: the user form on top, the table of
// registered users below. All state lives in the form controller; the page is a
// plain HTML form posting back to the server and redirected after every change.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/usersignup/internal/form"
	"github.com/patric-chuzhbe/usersignup/internal/geo"
	"github.com/patric-chuzhbe/usersignup/internal/logger"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

const intentSave = "save"

type formController interface {
	SetName(name string)
	SetMobile(raw string)
	SetAddress(address string)
	SetState(state string) error
	SetCity(city string) error
	BeginEdit(index int) error
	Save(ctx context.Context) error
	Fields() form.Fields
	View() form.View
}

// Alerts collects blocking notifications until the next page render shows them.
// It implements form.Notifier.
type Alerts struct {
	mu      sync.Mutex
	pending []string
}

// Alert queues a message for the next render.
func (a *Alerts) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, message)
}

// Take returns the queued messages and forgets them.
func (a *Alerts) Take() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	taken := a.pending
	a.pending = nil
	return taken
}

type pageData struct {
	form.View
	Alerts []string
}

// WebUI holds the HTTP handlers of the registration page.
type WebUI struct {
	controller formController
	alerts     *Alerts
}

// New builds the router of the registration page. alerts must be the notifier the
// controller was created with so that its messages reach the page.
func New(controller formController, alerts *Alerts) *chi.Mux {
	ui := &WebUI{
		controller: controller,
		alerts:     alerts,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		logger.WithLoggingHTTPMiddleware,
		middleware.Recoverer,
		middleware.Compress(5, "text/html", "application/json"),
	)
	router.Get(`/`, ui.GetPage)
	router.Post(`/`, ui.PostForm)
	router.Post(`/edit/{index}`, ui.PostEdit)
	router.Get(`/cities`, ui.GetCities)

	return router
}

// GetPage renders the form, the users table and any pending alerts.
func (ui *WebUI) GetPage(response http.ResponseWriter, request *http.Request) {
	data := pageData{
		View:   ui.controller.View(),
		Alerts: ui.alerts.Take(),
	}

	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(response, data); err != nil {
		logger.Log.Errorw("unable to render the page", zap.Error(err))
	}
}

func (ui *WebUI) applyFields(request *http.Request) error {
	ui.controller.SetName(request.PostFormValue("name"))
	ui.controller.SetMobile(request.PostFormValue("mobile"))
	ui.controller.SetAddress(request.PostFormValue("address"))

	state := request.PostFormValue("state")
	if state != ui.controller.Fields().State {
		// The posted city belongs to the previous state's list.
		return ui.controller.SetState(state)
	}

	if state == "" {
		return nil
	}

	return ui.controller.SetCity(request.PostFormValue("city"))
}

// PostForm stores the submitted fields and, when the Save/Update button was pressed,
// saves them. Validation and backend failures reach the operator as alerts.
func (ui *WebUI) PostForm(response http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}

	err := ui.applyFields(request)
	if errors.Is(err, form.ErrUnknownState) || errors.Is(err, form.ErrUnknownCity) {
		http.Error(response, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		logger.Log.Debugw("unable to apply the submitted fields", zap.Error(err))
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}

	if request.PostFormValue("intent") == intentSave {
		if err := ui.controller.Save(request.Context()); err != nil {
			logger.Log.Debugw("save failed", zap.Error(err))
		}
	}

	http.Redirect(response, request, "/", http.StatusSeeOther)
}

// PostEdit switches the form to update mode for the row at {index}.
func (ui *WebUI) PostEdit(response http.ResponseWriter, request *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(request, "index"))
	if err != nil {
		http.Error(response, "bad row index", http.StatusBadRequest)
		return
	}

	if err := ui.controller.BeginEdit(index); err != nil {
		http.Error(response, err.Error(), http.StatusNotFound)
		return
	}

	http.Redirect(response, request, "/", http.StatusSeeOther)
}

// GetCities returns the JSON list of cities of the ?state= query parameter.
func (ui *WebUI) GetCities(response http.ResponseWriter, request *http.Request) {
	state := request.URL.Query().Get("state")
	if state != "" && !geo.IsState(state) {
		http.Error(response, form.ErrUnknownState.Error(), http.StatusNotFound)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(geo.Cities(state)); err != nil {
		logger.Log.Errorw("unable to encode cities", zap.Error(err))
	}
}
