// Package api exposes the REST surface: JSON over chi, one thin handler
// per operation, all domain decisions delegated to the service layer.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feeledger/feeledger/internal/auth"
	"github.com/feeledger/feeledger/internal/middleware"
	"github.com/feeledger/feeledger/internal/service"
	"github.com/feeledger/feeledger/internal/storage"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Server bundles the services behind the REST surface.
type Server struct {
	payments      *service.PaymentService
	fees          *service.FeeService
	students      *service.StudentService
	authenticator *auth.PasswordAuthenticator
	jwt           *auth.JWTManager
}

// New creates a Server over one storage backend.
func New(store storage.Store, jwtManager *auth.JWTManager) *Server {
	return &Server{
		payments:      service.NewPaymentService(store),
		fees:          service.NewFeeService(store),
		students:      service.NewStudentService(store),
		authenticator: auth.NewPasswordAuthenticator(store),
		jwt:           jwtManager,
	}
}

// Router assembles the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwt))

			r.Get("/students", s.handleListStudents)
			r.Post("/students", s.handleCreateStudent)
			r.Get("/students/{id}", s.handleGetStudent)
			r.Put("/students/{id}", s.handleUpdateStudent)
			r.Delete("/students/{id}", s.handleDeleteStudent)
			r.Get("/students/{id}/installments", s.handleInstallmentPlan)
			r.Get("/students/{id}/fee-records", s.handleListFeeRecords)

			r.Post("/fee-records", s.handleCreateExpectation)
			r.Put("/fee-records/{id}", s.handleUpdateFeeRecord)
			r.Delete("/fee-records/{id}", s.handleCancelFeeRecord)

			r.Post("/payments", s.handleSubmitPayment)

			r.Get("/dashboard", s.handleDashboard)
		})
	})

	return r
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// writeStoreAware maps storage errors to HTTP statuses.
func writeStoreAware(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
