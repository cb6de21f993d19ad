// Package complaint provides the complaint record and the intake pipeline:
// validation, identifier assignment, department routing, priority tiers and
// sentiment labelling.
package complaint

import (
	"io"
	"strconv"
)

// Priority is the coarse urgency tier derived from the description.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Status is the lifecycle state of a complaint. Pending → Resolved is the
// only transition and Resolved is terminal.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusResolved Status = "Resolved"
)

// Sentiment is the label produced from the description's polarity score.
type Sentiment string

const (
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentPositive Sentiment = "Positive"
	SentimentAngry    Sentiment = "Angry"
	SentimentCalm     Sentiment = "Calm"
)

// Record represents a single complaint as persisted in the store.
//
// Fields map to the table columns:
//   - ID: Tracking identifier handed back to the citizen
//   - Name: Submitter name
//   - Category: Category as submitted (English or Urdu)
//   - Department: Derived from Category at creation
//   - Priority, Sentiment: Derived from Description at creation
//   - Status: Pending until resolved
//   - Image: Attachment path or URL, empty when none was uploaded
type Record struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Department  string    `json:"department"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Description string    `json:"description"`
	Sentiment   Sentiment `json:"sentiment"`
	Image       string    `json:"image,omitempty"`
}

// IDString returns the identifier in the textual form used by the store and URLs.
func (r Record) IDString() string {
	return strconv.FormatInt(r.ID, 10)
}

// IsResolved reports whether the complaint reached its terminal state.
func (r Record) IsResolved() bool {
	return r.Status == StatusResolved
}

// Attachment is an optional image uploaded alongside a submission.
type Attachment struct {
	Filename string
	Data     io.Reader
}

// SubmitRequest carries the citizen-provided fields of a submission.
type SubmitRequest struct {
	Name        string
	Description string
	Category    string
	Image       *Attachment
}

// Stats summarises the store for dashboards.
type Stats struct {
	Total        int              `json:"total"`
	ByStatus     map[Status]int   `json:"by_status"`
	ByPriority   map[Priority]int `json:"by_priority"`
	ByDepartment map[string]int   `json:"by_department"`
}
