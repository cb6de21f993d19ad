package receipt

import (
	"context"
	"strings"
	"testing"
	"time"

	"citizenhub/internal/complaint"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML(t *testing.T) {
	rec := complaint.Record{
		ID:          1760000000123,
		Name:        "Ali <b>",
		Category:    "Water",
		Department:  "Water Board",
		Priority:    complaint.PriorityHigh,
		Status:      complaint.StatusPending,
		Description: "urgent water leak flooding street",
	}

	out, err := RenderHTML(rec, time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "#1760000000123")
	assert.Contains(t, html, "Water Board")
	assert.Contains(t, html, "15 Jan 2026, 09:30 AM")
	assert.Contains(t, html, "Ali &lt;b&gt;")
	assert.False(t, strings.Contains(html, "Ali <b>"))
}

func TestContextHolderSetCancelsPrevious(t *testing.T) {
	first, cancelFirst := context.WithCancel(context.Background())
	h := &ContextHolder{ctx: first, cancel: cancelFirst}

	second, cancelSecond := context.WithCancel(context.Background())
	h.Set(second, cancelSecond)

	assert.Error(t, first.Err())
	assert.Equal(t, second, h.Get())

	h.Cancel()
	assert.Error(t, second.Err())
	h.Cancel()
}
