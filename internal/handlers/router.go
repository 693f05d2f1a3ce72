package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/xelth-com/docketgo/internal/apperr"
	"github.com/xelth-com/docketgo/internal/middleware"
	"github.com/xelth-com/docketgo/internal/response"
	"github.com/xelth-com/docketgo/internal/services/dockets"
	"github.com/xelth-com/docketgo/internal/services/jobs"
	"github.com/xelth-com/docketgo/internal/store"
	"github.com/xelth-com/docketgo/internal/validators"
	"github.com/xelth-com/docketgo/internal/websocket"
)

const msgRouteNotFound = "Route not found"

// Config carries the dependencies of the HTTP layer
type Config struct {
	Store     store.Store
	Hub       *websocket.Hub // optional live feed
	Logger    logrus.FieldLogger
	JWTSecret string // enables auth on mutating routes
}

// Router wraps the mux router and the services behind it
type Router struct {
	*mux.Router
	store   store.Store
	jobs    *jobs.Service
	dockets *dockets.Service
	hub     *websocket.Hub
	logger  logrus.FieldLogger
}

// handlerFunc is an endpoint that reports failures instead of writing them
type handlerFunc func(w http.ResponseWriter, req *http.Request) error

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	jobOpts := []jobs.Option{jobs.WithLogger(logger)}
	docketOpts := []dockets.Option{dockets.WithLogger(logger)}
	if cfg.Hub != nil {
		jobOpts = append(jobOpts, jobs.WithNotifier(cfg.Hub))
		docketOpts = append(docketOpts, dockets.WithNotifier(cfg.Hub))
	}

	r := &Router{
		Router:  mux.NewRouter(),
		store:   cfg.Store,
		jobs:    jobs.NewService(cfg.Store, jobOpts...),
		dockets: dockets.NewService(cfg.Store, docketOpts...),
		hub:     cfg.Hub,
		logger:  logger,
	}

	auth := middleware.Auth(cfg.JWTSecret)
	validate := middleware.Validate

	// Health endpoints
	r.route("/active", r.active, http.MethodGet)
	r.route("/health", r.healthCheck, http.MethodGet)

	// Job routes
	r.route("/jobs", r.createJob, http.MethodPost, auth, validate(validators.CreateJob))
	r.route("/jobs", r.listJobs, http.MethodGet, validate(validators.ListJobs))
	r.route("/jobs/{id}", r.getJob, http.MethodGet, validate(validators.GetJob))
	r.route("/jobs/{id}/close", r.closeJob, http.MethodPatch, auth, validate(validators.CloseJob))
	r.route("/jobs/{id}/report", r.jobReport, http.MethodGet, validate(validators.JobReport))

	// Docket routes
	r.route("/jobs/{jobId}/dockets", r.createDocket, http.MethodPost, auth, validate(validators.CreateDocket))
	r.route("/jobs/{jobId}/dockets", r.listDockets, http.MethodGet, validate(validators.ListDockets))
	r.route("/jobs/{jobId}/dockets/export", r.exportDockets, http.MethodGet, validate(validators.ExportDockets))
	r.route("/dockets/summary", r.docketSummary, http.MethodGet)

	// Live events
	if r.hub != nil {
		r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWs(r.hub, w, req)
		}).Methods(http.MethodGet)
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		response.Write(w, http.StatusNotFound, false, msgRouteNotFound, nil, nil)
	})
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return r
}

// Handler returns the router wrapped in the request-wide middleware. Unlike
// mux.Use, this also covers unmatched routes.
func (r *Router) Handler() http.Handler {
	return middleware.RequestLogger(r.logger)(middleware.Recover(r.Router))
}

func (r *Router) route(path string, fn handlerFunc, method string, mws ...func(http.Handler) http.Handler) {
	var h http.Handler = r.handle(fn)
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	r.Handle(path, h).Methods(method)
}

// handle is the single place where endpoint errors become responses
func (r *Router) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := fn(w, req); err != nil {
			response.Error(w, middleware.LoggerFrom(req.Context()), err)
		}
	}
}

// active reports that the API is up
func (r *Router) active(w http.ResponseWriter, req *http.Request) error {
	response.Write(w, http.StatusOK, true, "Job-Docket API is running", nil, nil)
	return nil
}

// healthCheck pings the store
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) error {
	if err := r.store.Ping(req.Context()); err != nil {
		middleware.LoggerFrom(req.Context()).WithError(err).Warn("Health check failed")
		response.Write(w, http.StatusServiceUnavailable, false, "Database unavailable", nil, nil)
		return nil
	}
	response.Success(w, http.StatusOK, "OK", nil)
	return nil
}

// decodeJSON reads a body that has already passed schema validation
func decodeJSON(req *http.Request, v interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil {
		return apperr.Validation("Invalid JSON payload")
	}
	return nil
}

// sendFile writes a generated document as a download
func sendFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
