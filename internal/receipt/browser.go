// Package receipt renders printable complaint receipts as PDF using a
// headless Chrome driven by ChromeDP.
//
// Key features:
//   - One shared browser process, one tab per receipt
//   - Thread-safe context holder so the browser can be restarted after errors
//   - Receipt HTML is rendered separately and can be served without Chrome
package receipt

import (
	"context"
	"log"
	"sync"

	"github.com/chromedp/chromedp"
)

// ContextHolder provides thread-safe access to a browser context.
//
// Thread-safety:
//   - All methods use mutex locking
//   - Context updates are atomic
type ContextHolder struct {
	mu     sync.RWMutex       // Protects ctx and cancel
	ctx    context.Context    // Current browser context
	cancel context.CancelFunc // Cancels browser and allocator
}

// NewContextHolder creates a holder around a fresh headless browser context.
// Chrome itself is launched lazily by the first chromedp.Run.
func NewContextHolder() *ContextHolder {
	ctx, cancel := NewContext()
	return &ContextHolder{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Get returns the current browser context.
func (h *ContextHolder) Get() context.Context {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ctx
}

// Set swaps in a new browser context, cancelling the old one.
func (h *ContextHolder) Set(ctx context.Context, cancel context.CancelFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
	}
	h.ctx = ctx
	h.cancel = cancel
}

// Restart replaces the browser after it became unusable.
func (h *ContextHolder) Restart() {
	log.Println("  ⚠️  Restarting browser context...")
	ctx, cancel := NewContext()
	h.Set(ctx, cancel)
}

// Cancel shuts the browser down. Call on application shutdown.
func (h *ContextHolder) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// NewContext creates a headless Chrome browser context.
//
// Browser configuration:
//   - Headless mode with GPU disabled (server hosts have none)
//   - ChromeDP errors routed to the standard logger
func NewContext() (context.Context, context.CancelFunc) {
	log.Println("  → Creating new browser context...")

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancel := chromedp.NewContext(allocCtx, chromedp.WithErrorf(log.Printf))

	log.Println("  ✓ Browser context created successfully")
	return ctx, func() {
		cancel()
		allocCancel()
	}
}
