package receipt

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"citizenhub/internal/complaint"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// receiptTemplate is the printable acknowledgement handed to the citizen.
var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Complaint {{.Record.ID}}</title>
<style>
  body { font-family: "DejaVu Sans", Arial, sans-serif; color: #1e293b; margin: 40px; }
  h1 { color: #2563eb; font-size: 24px; margin-bottom: 4px; }
  .sub { color: #64748b; margin-top: 0; }
  .id { font-size: 32px; font-weight: bold; letter-spacing: 2px; margin: 24px 0; }
  table { border-collapse: collapse; width: 100%; }
  th, td { text-align: left; padding: 10px; border-bottom: 1px solid #cbd5e1; vertical-align: top; }
  th { width: 30%; color: #475569; }
  .urdu { direction: rtl; font-size: 14px; color: #64748b; }
  .footer { margin-top: 32px; font-size: 12px; color: #64748b; }
</style>
</head>
<body>
<h1>Citizen Complaint Receipt</h1>
<p class="sub">Issued {{.Issued}}</p>
<p class="urdu">شکایت کی رسید</p>
<div class="id">#{{.Record.ID}}</div>
<table>
  <tr><th>Name</th><td>{{.Record.Name}}</td></tr>
  <tr><th>Category</th><td>{{.Record.Category}}</td></tr>
  <tr><th>Department</th><td>{{.Record.Department}}</td></tr>
  <tr><th>Priority</th><td>{{.Record.Priority}}</td></tr>
  <tr><th>Status</th><td>{{.Record.Status}}</td></tr>
  <tr><th>Description</th><td>{{.Record.Description}}</td></tr>
</table>
<p class="footer">Keep this number to track your complaint. اپنی شکایت کی پیروی کے لیے یہ نمبر محفوظ رکھیں۔</p>
</body>
</html>
`))

// RenderHTML renders the receipt page for rec.
func RenderHTML(rec complaint.Record, issued time.Time) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		Record complaint.Record
		Issued string
	}{
		Record: rec,
		Issued: issued.Format("02 Jan 2006, 03:04 PM"),
	}
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render receipt html: %w", err)
	}
	return buf.Bytes(), nil
}

// Renderer prints receipts to PDF in the shared browser.
type Renderer struct {
	browser *ContextHolder
}

// NewRenderer creates a renderer over browser.
func NewRenderer(browser *ContextHolder) *Renderer {
	return &Renderer{browser: browser}
}

// RenderPDF returns the receipt for rec as PDF bytes.
//
// Flow:
//  1. Render the receipt HTML
//  2. Open a new tab on the shared browser and load the HTML
//  3. Print the page to PDF (A4, backgrounds on)
//
// The tab is closed when ctx is cancelled or printing finishes. A browser
// failure triggers a restart so the next receipt gets a fresh process.
func (r *Renderer) RenderPDF(ctx context.Context, rec complaint.Record) ([]byte, error) {
	htmlDoc, err := RenderHTML(rec, time.Now())
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(r.browser.Get())
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(htmlDoc)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == nil {
			r.browser.Restart()
		}
		return nil, fmt.Errorf("print receipt %d: %w", rec.ID, err)
	}

	log.Printf("   🧾 Receipt PDF rendered for complaint %d (%d bytes)", rec.ID, len(pdf))
	return pdf, nil
}
