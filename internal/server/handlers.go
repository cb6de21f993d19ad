package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"citizenhub/internal/complaint"
	"citizenhub/internal/summary"
)

// submitBody is the JSON form of a submission.
type submitBody struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// submitResponse echoes the created complaint with a localized message.
type submitResponse struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Complaint complaint.Record `json:"complaint"`
}

type resolveResponse struct {
	Message   string           `json:"message"`
	Complaint complaint.Record `json:"complaint"`
}

type listResponse struct {
	Count      int                `json:"count"`
	Complaints []complaint.Record `json:"complaints"`
}

// submitComplaint accepts application/json or multipart/form-data.
//
// The multipart form carries name, description, category and an optional
// "image" file.
func (s *Server) submitComplaint(w http.ResponseWriter, r *http.Request) {
	p := printerFor(r)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var req complaint.SubmitRequest
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
			s.bodyError(w, r, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		req = complaint.SubmitRequest{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
		}

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer file.Close()
			req.Image = &complaint.Attachment{Filename: header.Filename, Data: file}
		case errors.Is(err, http.ErrMissingFile):
		default:
			s.bodyError(w, r, err)
			return
		}
	default:
		var body submitBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.bodyError(w, r, err)
			return
		}
		req = complaint.SubmitRequest{Name: body.Name, Description: body.Description, Category: body.Category}
	}

	rec, err := s.complaints.Submit(r.Context(), req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/complaints/"+rec.IDString())
	writeJSON(w, http.StatusCreated, submitResponse{
		ID:        rec.IDString(),
		Message:   p.Sprintf(msgSubmitted, rec.IDString()),
		Complaint: rec,
	})
}

// bodyError answers 413 for oversized bodies and 400 for anything unparsable.
func (s *Server) bodyError(w http.ResponseWriter, r *http.Request, err error) {
	p := printerFor(r)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		clientError(w, r, p, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	clientError(w, r, p, http.StatusBadRequest, msgInvalidBody)
}

func (s *Server) trackComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := complaint.ParseID(r.URL.Query().Get(":id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	rec, err := s.complaints.Track(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) resolveComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := complaint.ParseID(r.URL.Query().Get(":id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	rec, err := s.complaints.Resolve(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resolveResponse{
		Message:   printerFor(r).Sprintf(msgResolved, rec.IDString()),
		Complaint: rec,
	})
}

func (s *Server) listComplaints(w http.ResponseWriter, r *http.Request) {
	var status complaint.Status
	switch strings.ToLower(r.URL.Query().Get("status")) {
	case "":
	case "pending":
		status = complaint.StatusPending
	case "resolved":
		status = complaint.StatusResolved
	default:
		clientError(w, r, printerFor(r), http.StatusUnprocessableEntity, msgInvalidStatus)
		return
	}

	records, err := s.complaints.List(r.Context(), status)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if records == nil {
		records = []complaint.Record{}
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(records), Complaints: records})
}

func (s *Server) complaintReceipt(w http.ResponseWriter, r *http.Request) {
	if s.receipts == nil {
		clientError(w, r, printerFor(r), http.StatusNotImplemented, msgReceiptDisabled)
		return
	}

	id, err := complaint.ParseID(r.URL.Query().Get(":id"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	rec, err := s.complaints.Track(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	pdf, err := s.receipts.RenderPDF(r.Context(), rec)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="complaint-`+rec.IDString()+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.complaints.Stats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) departments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, complaint.Routes())
}

func (s *Server) summaryImage(w http.ResponseWriter, r *http.Request) {
	pending, err := s.complaints.List(r.Context(), complaint.StatusPending)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if len(pending) == 0 {
		clientError(w, r, printerFor(r), http.StatusNotFound, msgNothingPending)
		return
	}

	img, err := summary.RenderTable(pending, s.now())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(img)
}
