package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/text/message"

	apperrors "citizenhub/internal/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// clientError answers with a localized message and the given status.
func clientError(w http.ResponseWriter, r *http.Request, p *message.Printer, status int, key string) {
	writeJSON(w, status, errorBody{Error: p.Sprintf(key), RequestID: RequestID(r.Context())})
}

// serverError logs err and answers 500 without leaking details.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.errorLog.Output(2, fmt.Sprintf("[%s] %s %s: %v", RequestID(r.Context()), r.Method, r.URL.Path, err))
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:     printerFor(r).Sprintf(msgInternal),
		RequestID: RequestID(r.Context()),
	})
}

// handleError maps service errors to HTTP responses.
//
// Mapping:
//   - ValidationError → 422 with the offending field
//   - NotFoundError → 404
//   - anything else → 500
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	p := printerFor(r)

	if verr, ok := apperrors.AsValidation(err); ok {
		key := msgInvalidBody
		switch verr.Field {
		case "name":
			key = msgNameRequired
		case "description":
			key = msgDescRequired
		case "image":
			key = msgBadImage
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:     p.Sprintf(key),
			Field:     verr.Field,
			RequestID: RequestID(r.Context()),
		})
		return
	}
	if apperrors.IsNotFound(err) {
		clientError(w, r, p, http.StatusNotFound, msgNotFound)
		return
	}
	s.serverError(w, r, err)
}
