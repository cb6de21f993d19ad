// Package translate provides Google Cloud Translation for classification.
//
// Complaints written in Urdu (or any non-Latin script) are translated to
// English before the keyword and sentiment classifiers run. The stored
// description is never replaced. For example:
//   - "پانی کا پائپ پھٹ گیا ہے" → "The water pipe has burst"
//
// Graceful degradation: if the API key is not set, translation is disabled
// and classification runs on the original text.
package translate

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// requestTimeout bounds one translation call so a slow API never stalls a
// submission for long.
const requestTimeout = 10 * time.Second

// api is the subset of *translate.Client used here.
type api interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	Close() error
}

// Translator wraps the Cloud Translation client.
type Translator struct {
	client api
}

// NewTranslator creates a Cloud Translation backed Translator.
//
// Returns nil if apiKey is empty (graceful degradation).
func NewTranslator(ctx context.Context, apiKey string) (*Translator, error) {
	if apiKey == "" {
		log.Println("⚠️  GOOGLE_TRANSLATE_API_KEY not set. Urdu translation disabled.")
		return nil, nil
	}

	client, err := translate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create translate client: %w", err)
	}

	log.Println("✓ Google translation configured successfully")
	return &Translator{client: client}, nil
}

// ToEnglish translates text to English, auto-detecting the source language.
func (t *Translator) ToEnglish(ctx context.Context, text string) (string, error) {
	if t == nil {
		return text, nil
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	out, err := t.client.Translate(ctx, []string{text}, language.English, &translate.Options{Format: translate.Text})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("translate: empty response")
	}

	// the v2 API can return HTML entities even in text format
	translated := html.UnescapeString(out[0].Text)
	log.Printf("   🌐 Translated description from %s", out[0].Source)
	return translated, nil
}

// Close releases the underlying client.
func (t *Translator) Close() error {
	if t == nil {
		return nil
	}
	return t.client.Close()
}
