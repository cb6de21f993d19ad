package telegram

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"citizenhub/internal/complaint"
	apperrors "citizenhub/internal/errors"
	"citizenhub/internal/httpclient"
)

const (
	resolveCallbackPrefix = "resolve:"
	trackCommand          = "/track"

	// pollTimeout is the server-side long polling window in seconds.
	pollTimeout = 30
)

// Desk is the part of the complaint service the bot acts on.
type Desk interface {
	Track(ctx context.Context, id int64) (complaint.Record, error)
	Resolve(ctx context.Context, id int64) (complaint.Record, error)
}

// Update represents a Telegram update from getUpdates.
type Update struct {
	UpdateID      int              `json:"update_id"`
	Message       *IncomingMessage `json:"message,omitempty"`
	CallbackQuery *CallbackQuery   `json:"callback_query,omitempty"`
}

// IncomingMessage represents a received Telegram message.
type IncomingMessage struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      *Chat  `json:"chat,omitempty"`
	Text      string `json:"text"`
}

// Chat represents a Telegram chat.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CallbackQuery represents a callback query from an inline button.
type CallbackQuery struct {
	ID      string           `json:"id"`
	From    User             `json:"from"`
	Message *IncomingMessage `json:"message"`
	Data    string           `json:"data"`
}

// User represents a Telegram user.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// HandleUpdates long-polls the Bot API until ctx is cancelled.
//
// Update processing loop:
//  1. Long poll for updates (30s timeout)
//  2. Resolve complaints on button clicks, answer /track commands
//  3. Advance the offset to acknowledge processed updates
func (c *Client) HandleUpdates(ctx context.Context, desk Desk) {
	if c == nil {
		log.Println("⚠️  Telegram not configured, callback handler disabled")
		return
	}
	if c.DebugMode {
		log.Println("🐛 Telegram callback handler disabled in debug mode")
		return
	}

	log.Println("✓ Starting Telegram callback handler...")

	// long polling holds the connection open for pollTimeout seconds
	pollClient := httpclient.New(2 * pollTimeout * time.Second)
	offset := 0

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Telegram callback handler stopped")
			return
		default:
		}

		var updates []Update
		payload := map[string]interface{}{
			"offset":          offset,
			"timeout":         pollTimeout,
			"allowed_updates": []string{"message", "callback_query"},
		}
		if err := c.doRequest(ctx, pollClient, "getUpdates", payload, &updates); err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.Printf("⚠️  Error getting Telegram updates: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			c.handleUpdate(ctx, desk, update)
			offset = update.UpdateID + 1
		}
	}
}

func (c *Client) handleUpdate(ctx context.Context, desk Desk, update Update) {
	switch {
	case update.CallbackQuery != nil:
		c.handleCallbackQuery(ctx, desk, update.CallbackQuery)
	case update.Message != nil:
		c.handleMessage(ctx, desk, update.Message)
	}
}

// handleCallbackQuery resolves the complaint named in "resolve:<id>".
//
// The message itself is edited by the resolution notification, so this
// only acknowledges the click.
func (c *Client) handleCallbackQuery(ctx context.Context, desk Desk, query *CallbackQuery) {
	log.Printf("📞 Received callback query: %s from %s", query.Data, query.From.FirstName)

	raw, ok := strings.CutPrefix(query.Data, resolveCallbackPrefix)
	if !ok {
		log.Println("⚠️  Invalid callback data format")
		c.answerCallbackQuery(ctx, query.ID, "Invalid action")
		return
	}

	id, err := complaint.ParseID(raw)
	if err != nil {
		c.answerCallbackQuery(ctx, query.ID, "Invalid complaint number")
		return
	}

	rec, err := desk.Resolve(ctx, id)
	switch {
	case apperrors.IsNotFound(err):
		c.answerCallbackQuery(ctx, query.ID, "Complaint not found")
	case err != nil:
		log.Printf("⚠️  Failed to resolve complaint %d from Telegram: %v", id, err)
		c.answerCallbackQuery(ctx, query.ID, "Error: could not resolve, try again")
	default:
		log.Printf("✅ Complaint %d resolved by %s via Telegram", rec.ID, query.From.FirstName)
		c.answerCallbackQuery(ctx, query.ID, "Marked as resolved")
	}
}

// handleMessage answers "/track <id>" with the complaint's current state.
func (c *Client) handleMessage(ctx context.Context, desk Desk, message *IncomingMessage) {
	fields := strings.Fields(message.Text)
	if len(fields) == 0 {
		return
	}
	// commands in groups arrive as /track@BotName
	command, _, _ := strings.Cut(fields[0], "@")
	if command != trackCommand {
		return
	}

	var reply string
	if len(fields) < 2 {
		reply = "Usage: /track &lt;complaint number&gt;"
	} else {
		reply = c.trackReply(ctx, desk, fields[1])
	}

	msg := Message{
		ChatID:           c.ChatID,
		Text:             reply,
		ParseMode:        "HTML",
		ReplyToMessageID: message.MessageID,
	}
	if message.Chat != nil {
		msg.ChatID = fmt.Sprintf("%d", message.Chat.ID)
	}
	if _, err := c.sendMessage(ctx, msg); err != nil {
		log.Printf("⚠️  Failed to answer /track: %v", err)
	}
}

func (c *Client) trackReply(ctx context.Context, desk Desk, raw string) string {
	id, err := complaint.ParseID(raw)
	if err == nil {
		var rec complaint.Record
		rec, err = desk.Track(ctx, id)
		if err == nil {
			return fmt.Sprintf("📋 Complaint #%d\n🏢 %s\n📌 Status: <b>%s</b>\n%s Priority: %s",
				rec.ID, html.EscapeString(rec.Department), rec.Status, priorityIcon(rec.Priority), rec.Priority)
		}
	}
	if apperrors.IsNotFound(err) {
		return fmt.Sprintf("❌ Complaint <b>%s</b> not found.", html.EscapeString(raw))
	}
	log.Printf("⚠️  /track %s failed: %v", raw, err)
	return "❌ Could not look up the complaint right now."
}

// answerCallbackQuery acknowledges a button click with a short toast.
func (c *Client) answerCallbackQuery(ctx context.Context, callbackQueryID, text string) {
	payload := map[string]interface{}{
		"callback_query_id": callbackQueryID,
		"text":              text,
		"show_alert":        false,
	}
	if err := c.call(ctx, "answerCallbackQuery", payload, nil); err != nil {
		log.Printf("⚠️  Failed to answer callback query: %v", err)
	}
}
