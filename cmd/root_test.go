package cmd

import (
	"bytes"
	"testing"

	"citizenhub/internal/complaint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootHasCommands(t *testing.T) {
	root := GetRootCmd()

	for _, name := range []string{"serve", "submit", "track", "resolve", "list", "summary", "receipt"} {
		t.Run(name, func(t *testing.T) {
			found, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, found.Name())
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := map[string]complaint.Status{
		"":          "",
		"pending":   complaint.StatusPending,
		" Resolved": complaint.StatusResolved,
	}
	for in, want := range tests {
		got, err := parseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := parseStatus("closed")
	assert.Error(t, err)
}

func TestTrackRejectsBadID(t *testing.T) {
	root := GetRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"track", "abc"})
	t.Cleanup(func() { root.SetArgs(nil) })

	assert.Error(t, root.Execute())
}

func TestRenderRecordAndTable(t *testing.T) {
	rec := complaint.Record{
		ID:          1760000000123,
		Name:        "Ali",
		Category:    "Water",
		Department:  "Water Board",
		Priority:    complaint.PriorityHigh,
		Status:      complaint.StatusPending,
		Description: "urgent water leak flooding street",
		Sentiment:   complaint.SentimentNeutral,
	}

	block := renderRecord(rec)
	assert.Contains(t, block, "1760000000123")
	assert.Contains(t, block, "Water Board")
	assert.NotContains(t, block, "Image")

	tbl := renderTable([]complaint.Record{rec})
	assert.Contains(t, tbl, "Department")
	assert.Contains(t, tbl, "Ali")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "a b", shorten("a \n b", 10))
	assert.Equal(t, "abcd…", shorten("abcdefgh", 5))
	assert.Equal(t, "کچرا…", shorten("کچرا نہیں اٹھایا", 5))
}
