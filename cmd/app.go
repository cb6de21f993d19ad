package cmd

import (
	"context"
	"log"
	"time"

	"citizenhub/internal/complaint"
	"citizenhub/internal/config"
	"citizenhub/internal/health"
	"citizenhub/internal/httpclient"
	"citizenhub/internal/notify"
	"citizenhub/internal/receipt"
	"citizenhub/internal/storage"
	"citizenhub/internal/telegram"
	"citizenhub/internal/translate"
	"citizenhub/internal/upload"
)

// app holds the wired components shared by every command.
type app struct {
	cfg        *config.Config
	store      storage.Store
	service    *complaint.Service
	monitor    *health.Monitor
	telegram   *telegram.Client
	dispatcher *notify.Dispatcher
	translator *translate.Translator
	browser    *receipt.ContextHolder
}

// newApp loads configuration and wires the complaint service.
//
// Initialization order:
//  1. Configuration (embedded .env, external .env, environment)
//  2. Complaint store (+ optional Redis cache)
//  3. Upload store (S3 when S3_BUCKET is set, local directory otherwise)
//  4. Translation (optional)
//  5. Telegram + notification workers (optional)
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	log.Println("✓ Configuration loaded")

	httpclient.Configure(cfg.HTTPTimeout)

	log.Println("📋 Initializing complaint storage...")
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, store: store, monitor: health.NewMonitor()}
	if p, ok := store.(interface{ Ping(context.Context) error }); ok {
		a.monitor.AddCheck("store", p.Ping)
	}

	images, err := newImageStore(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	opts := complaint.Options{
		Images: images,
		Labels: complaint.ParseLabelSet(cfg.SentimentLabels),
	}

	a.translator, err = translate.NewTranslator(ctx, cfg.TranslateAPIKey)
	if err != nil {
		log.Printf("⚠️  Translation disabled: %v", err)
	}
	if a.translator != nil {
		opts.Translator = a.translator
	}

	notifiers := notify.Multi{a.monitor}
	log.Println("📨 Initializing Telegram...")
	a.telegram = telegram.NewClient(cfg)
	if a.telegram != nil {
		messages, err := storage.NewMessageIndex(cfg.TelegramMessagesFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.telegram.Messages = messages
		a.dispatcher = notify.NewDispatcher(a.telegram, cfg.NotifyWorkers, cfg.HTTPTimeout)
		notifiers = append(notifiers, a.dispatcher)
	}
	opts.Notifier = notifiers

	a.service = complaint.NewService(store, opts)
	return a, nil
}

func newImageStore(cfg *config.Config) (complaint.ImageStore, error) {
	if cfg.S3Bucket != "" {
		s3Store, err := upload.NewS3(upload.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("✓ Attachments go to S3 bucket %s", cfg.S3Bucket)
		return s3Store, nil
	}

	local, err := upload.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	log.Printf("✓ Attachments go to %s", cfg.UploadDir)
	return local, nil
}

// receiptRenderer starts the headless browser on first use.
func (a *app) receiptRenderer() *receipt.Renderer {
	if a.browser == nil {
		log.Println("📋 Initializing browser context...")
		a.browser = receipt.NewContextHolder()
	}
	return receipt.NewRenderer(a.browser)
}

// Close drains notifications and releases every resource.
func (a *app) Close() {
	if a.dispatcher != nil {
		done := make(chan struct{})
		go func() {
			a.dispatcher.Close()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(a.cfg.HTTPTimeout + 5*time.Second):
			log.Println("⚠️  Timed out waiting for notifications to drain")
		}
	}
	if a.browser != nil {
		a.browser.Cancel()
	}
	if err := a.translator.Close(); err != nil {
		log.Printf("⚠️  Error closing translator: %v", err)
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("⚠️  Error closing store: %v", err)
		}
	}
}
