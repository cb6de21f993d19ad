// Package telegram provides Telegram bot integration for department staff.
//
// This package handles:
//   - Posting new complaints with a "Mark as Resolved" inline button
//   - Editing the posted message once a complaint is resolved
//   - Receiving button clicks and /track commands through long polling
//
// Architecture:
//   - Client: bot token, chat ID and the complaint → message ID index
//   - MessageIndex: where message IDs live (memory by default, a CSV file
//     in production so edits survive restarts and CLI resolves)
//   - Sender methods: called by the notification workers
//   - Update handler: background goroutine resolving complaints on click
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"citizenhub/internal/complaint"
	"citizenhub/internal/config"
	apperrors "citizenhub/internal/errors"
	"citizenhub/internal/httpclient"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// MessageIndex remembers which Telegram message announced a complaint.
//
// Implementations must be safe for concurrent use.
type MessageIndex interface {
	MessageID(complaintID int64) (int, bool)
	SetMessageID(complaintID int64, messageID int) error
	DeleteMessageID(complaintID int64) error
}

// memoryIndex is the default MessageIndex; it forgets everything on exit.
type memoryIndex struct {
	mu  sync.Mutex
	ids map[int64]int
}

func newMemoryIndex() *memoryIndex {
	return &memoryIndex{ids: make(map[int64]int)}
}

func (m *memoryIndex) MessageID(complaintID int64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.ids[complaintID]
	return id, ok
}

func (m *memoryIndex) SetMessageID(complaintID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[complaintID] = messageID
	return nil
}

func (m *memoryIndex) DeleteMessageID(complaintID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ids, complaintID)
	return nil
}

// Client represents a Telegram bot client.
//
// Thread-safety:
//   - Messages must be safe for concurrent use
//   - Safe for concurrent use by notification workers and the update handler
//
// Fields:
//   - BotToken: Telegram bot API token
//   - ChatID: Target chat ID for notifications
//   - BaseURL: Bot API root, overridden in tests
//   - DebugMode: If true, skip actual API calls and log instead
//   - Messages: complaint ID → message ID index, set before first use
type Client struct {
	BotToken  string
	ChatID    string
	BaseURL   string
	DebugMode bool
	Messages  MessageIndex

	mu        sync.Mutex
	nextDebug int
}

// Message represents a Telegram message for sending.
type Message struct {
	ChatID                string      `json:"chat_id"`
	Text                  string      `json:"text"`
	ParseMode             string      `json:"parse_mode"`
	DisableWebPagePreview bool        `json:"disable_web_page_preview"`
	ReplyMarkup           interface{} `json:"reply_markup,omitempty"`
	ReplyToMessageID      int         `json:"reply_to_message_id,omitempty"`
}

// InlineKeyboardMarkup represents an inline keyboard.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton represents a button in an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// EditMessageRequest represents a request to edit a message.
type EditMessageRequest struct {
	ChatID      string                `json:"chat_id"`
	MessageID   int                   `json:"message_id"`
	Text        string                `json:"text"`
	ParseMode   string                `json:"parse_mode"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// apiResponse is the envelope of every Bot API reply.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// NewClient creates a Telegram client from configuration.
//
// Returns nil when the bot token or chat ID is missing; every method is
// safe to call on a nil client.
func NewClient(cfg *config.Config) *Client {
	if !cfg.TelegramEnabled() {
		log.Println("⚠️  TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set. Telegram notifications disabled.")
		if cfg.TelegramBotToken == "" {
			log.Println("   → Missing: TELEGRAM_BOT_TOKEN")
		}
		if cfg.TelegramChatID == "" {
			log.Println("   → Missing: TELEGRAM_CHAT_ID")
		}
		return nil
	}

	log.Println("✓ Telegram configured successfully")
	if cfg.DebugMode {
		log.Println("🐛 DEBUG MODE ENABLED - Telegram calls will be simulated")
	}

	return &Client{
		BotToken:  cfg.TelegramBotToken,
		ChatID:    cfg.TelegramChatID,
		BaseURL:   DefaultBaseURL,
		DebugMode: cfg.DebugMode,
		Messages:  newMemoryIndex(),
	}
}

// doRequest posts payload to a Bot API method and decodes the result into out.
func (c *Client) doRequest(ctx context.Context, client *http.Client, method string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", strings.TrimRight(c.BaseURL, "/"), c.BotToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to parse response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram API error on %s: %s", method, envelope.Description)
	}

	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// SendSubmitted posts a new complaint with a "Mark as Resolved" button.
//
// Message format:
//
//	📋 Complaint #1760000000123
//	👤 Ali
//	🏢 Water Board (Water)
//	🔥 Priority: High
//	🙂 Sentiment: Neutral
//	💬 Details:
//	[description]
func (c *Client) SendSubmitted(ctx context.Context, rec complaint.Record) error {
	if c == nil {
		return nil
	}

	keyboard := &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{
					Text:         "✅ Mark as Resolved",
					CallbackData: resolveCallbackPrefix + rec.IDString(),
				},
			},
		},
	}

	msg := Message{
		ChatID:                c.ChatID,
		Text:                  FormatComplaint(rec),
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
		ReplyMarkup:           keyboard,
	}

	messageID, err := c.sendMessage(ctx, msg)
	if err != nil {
		return apperrors.NewNotificationError(fmt.Sprintf("send complaint %d", rec.ID), err)
	}

	if err := c.Messages.SetMessageID(rec.ID, messageID); err != nil {
		log.Printf("   ⚠️  Could not record message %d for complaint %d: %v", messageID, rec.ID, err)
	}

	log.Printf("   ✓ Complaint %d sent to Telegram", rec.ID)
	return nil
}

// SendResolved replaces the posted complaint with its resolved form and
// removes the button. When no message is indexed for the complaint a fresh
// message is sent instead.
func (c *Client) SendResolved(ctx context.Context, rec complaint.Record) error {
	if c == nil {
		return nil
	}

	messageID, ok := c.Messages.MessageID(rec.ID)
	text := FormatResolved(rec, time.Now())

	if !ok {
		if _, err := c.sendMessage(ctx, Message{ChatID: c.ChatID, Text: text, ParseMode: "HTML"}); err != nil {
			return apperrors.NewNotificationError(fmt.Sprintf("send resolution %d", rec.ID), err)
		}
		return nil
	}

	req := EditMessageRequest{
		ChatID:      c.ChatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{}},
	}
	if err := c.call(ctx, "editMessageText", req, nil); err != nil {
		return apperrors.NewNotificationError(fmt.Sprintf("edit message for %d", rec.ID), err)
	}
	if err := c.Messages.DeleteMessageID(rec.ID); err != nil {
		log.Printf("   ⚠️  Could not forget message for complaint %d: %v", rec.ID, err)
	}

	log.Printf("   ✓ Telegram message for complaint %d marked resolved", rec.ID)
	return nil
}

// MessageID returns the Telegram message posted for a complaint.
func (c *Client) MessageID(complaintID int64) (int, bool) {
	if c == nil {
		return 0, false
	}
	return c.Messages.MessageID(complaintID)
}

func (c *Client) sendMessage(ctx context.Context, msg Message) (int, error) {
	if c.DebugMode {
		c.mu.Lock()
		c.nextDebug++
		id := c.nextDebug
		c.mu.Unlock()
		log.Printf("   🐛 [debug] sendMessage to %s:\n%s", c.ChatID, msg.Text)
		return id, nil
	}

	var sent struct {
		MessageID int `json:"message_id"`
	}
	if err := c.doRequest(ctx, httpclient.Shared(), "sendMessage", msg, &sent); err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// call performs a method whose result is optional, honouring DebugMode.
func (c *Client) call(ctx context.Context, method string, payload, out interface{}) error {
	if c.DebugMode {
		log.Printf("   🐛 [debug] %s skipped", method)
		return nil
	}
	return c.doRequest(ctx, httpclient.Shared(), method, payload, out)
}

// FormatComplaint renders the HTML body of a new-complaint message.
func FormatComplaint(rec complaint.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Complaint #%d\n\n", rec.ID)
	fmt.Fprintf(&b, "👤 %s\n", html.EscapeString(rec.Name))
	fmt.Fprintf(&b, "🏢 %s (%s)\n", html.EscapeString(rec.Department), html.EscapeString(rec.Category))
	fmt.Fprintf(&b, "%s Priority: %s\n", priorityIcon(rec.Priority), rec.Priority)
	fmt.Fprintf(&b, "💭 Sentiment: %s\n\n", rec.Sentiment)
	fmt.Fprintf(&b, "💬 <b>Details:</b>\n%s", html.EscapeString(rec.Description))
	if rec.Image != "" {
		fmt.Fprintf(&b, "\n\n🖼 %s", html.EscapeString(rec.Image))
	}
	return b.String()
}

// FormatResolved renders the HTML body shown once a complaint is closed.
func FormatResolved(rec complaint.Record, at time.Time) string {
	return fmt.Sprintf(
		"✅ <b>RESOLVED</b>\n\n"+
			"Complaint #%d\n"+
			"👤 %s\n"+
			"🏢 %s\n"+
			"🕐 %s",
		rec.ID,
		html.EscapeString(rec.Name),
		html.EscapeString(rec.Department),
		at.Format("02 Jan 2006, 03:04 PM"),
	)
}

func priorityIcon(p complaint.Priority) string {
	switch p {
	case complaint.PriorityHigh:
		return "🔴"
	case complaint.PriorityMedium:
		return "🟠"
	default:
		return "🟢"
	}
}
