package summary

import (
	"fmt"
	"time"

	"citizenhub/internal/complaint"
)

// Pending keeps the complaints that are not yet resolved, in input order.
func Pending(records []complaint.Record) []complaint.Record {
	var out []complaint.Record
	for _, r := range records {
		if !r.IsResolved() {
			out = append(out, r)
		}
	}
	return out
}

// RenderPending renders the summary table for the unresolved complaints.
func RenderPending(records []complaint.Record, now time.Time) ([]byte, error) {
	pending := Pending(records)
	if len(pending) == 0 {
		return nil, fmt.Errorf("no pending complaints")
	}
	return RenderTable(pending, now)
}
