package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citizenhub/internal/server"

	"github.com/spf13/cobra"
)

// shutdownTimeout bounds in-flight requests on SIGINT/SIGTERM.
const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the complaint REST API, the /health endpoint and, when
TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are set, the Telegram bot handler.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Println("🚀 Starting Citizen Hub...")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer a.Close()

		if port, _ := cmd.Flags().GetString("port"); port != "" {
			a.cfg.Port = port
		}

		opts := server.Options{Health: a.monitor.Handler()}
		if a.cfg.ReceiptPDFEnabled {
			opts.Receipts = a.receiptRenderer()
		}
		srv := server.New(a.service, a.cfg, opts).HTTPServer()

		go a.telegram.HandleUpdates(ctx, a.service)

		errCh := make(chan error, 1)
		go func() {
			log.Printf("✓ API server listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		log.Println("═══════════════════════════════════════════════════════════")

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Println("✓ Server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("port", "", "Listen port (overrides PORT)")
}
