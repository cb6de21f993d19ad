package server

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"
)

// Routes wires handlers, middleware and CORS.
func (s *Server) Routes() http.Handler {
	standardMiddleware := alice.New(s.recoverPanic, requestID, s.logRequest, secureHeaders)

	mux := pat.New()

	mux.Post("/api/v1/complaints", standardMiddleware.ThenFunc(s.submitComplaint))
	mux.Get("/api/v1/complaints", standardMiddleware.ThenFunc(s.listComplaints))
	mux.Get("/api/v1/complaints/:id/receipt.pdf", standardMiddleware.ThenFunc(s.complaintReceipt))
	mux.Post("/api/v1/complaints/:id/resolve", standardMiddleware.ThenFunc(s.resolveComplaint))
	mux.Get("/api/v1/complaints/:id", standardMiddleware.ThenFunc(s.trackComplaint))

	mux.Get("/api/v1/stats", standardMiddleware.ThenFunc(s.stats))
	mux.Get("/api/v1/departments", standardMiddleware.ThenFunc(s.departments))
	mux.Get("/api/v1/summary.png", standardMiddleware.ThenFunc(s.summaryImage))

	mux.Get("/health", standardMiddleware.Then(s.healthHandler()))

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept-Language", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(mux)
}

func (s *Server) healthHandler() http.Handler {
	if s.health != nil {
		return s.health
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
}
