// Package server exposes the complaint service over a JSON REST API.
//
// Routes:
//
//	POST /api/v1/complaints                  submit (JSON or multipart with "image")
//	GET  /api/v1/complaints[?status=]        list
//	GET  /api/v1/complaints/:id              track
//	POST /api/v1/complaints/:id/resolve      resolve
//	GET  /api/v1/complaints/:id/receipt.pdf  printable receipt
//	GET  /api/v1/stats                       counts by status, priority, department
//	GET  /api/v1/departments                 category → department routing table
//	GET  /api/v1/summary.png                 pending complaints table
//	GET  /health                             health check
package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"citizenhub/internal/complaint"
	"citizenhub/internal/config"
)

// Complaints is the service the handlers drive.
type Complaints interface {
	Submit(ctx context.Context, req complaint.SubmitRequest) (complaint.Record, error)
	Track(ctx context.Context, id int64) (complaint.Record, error)
	Resolve(ctx context.Context, id int64) (complaint.Record, error)
	List(ctx context.Context, status complaint.Status) ([]complaint.Record, error)
	Stats(ctx context.Context) (complaint.Stats, error)
}

// ReceiptRenderer prints a complaint receipt.
type ReceiptRenderer interface {
	RenderPDF(ctx context.Context, rec complaint.Record) ([]byte, error)
}

// Options holds the optional collaborators of a Server.
type Options struct {
	Receipts ReceiptRenderer // nil answers 501 on the receipt route
	Health   http.Handler    // nil answers a bare {"status":"healthy"}
	InfoLog  *log.Logger
	ErrorLog *log.Logger
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	complaints Complaints
	receipts   ReceiptRenderer
	health     http.Handler
	cfg        *config.Config
	infoLog    *log.Logger
	errorLog   *log.Logger
	now        func() time.Time
}

// New creates a server over complaints.
func New(complaints Complaints, cfg *config.Config, opts Options) *Server {
	infoLog := opts.InfoLog
	if infoLog == nil {
		infoLog = log.New(os.Stdout, "INFO\t", log.Ldate|log.Ltime)
	}
	errorLog := opts.ErrorLog
	if errorLog == nil {
		errorLog = log.New(os.Stderr, "ERROR\t", log.Ldate|log.Ltime|log.Lshortfile)
	}
	return &Server{
		complaints: complaints,
		receipts:   opts.Receipts,
		health:     opts.Health,
		cfg:        cfg,
		infoLog:    infoLog,
		errorLog:   errorLog,
		now:        time.Now,
	}
}

// HTTPServer builds the http.Server listening on the configured port.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.Port,
		ErrorLog:     s.errorLog,
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}
