package server

import (
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English catalog entry doubles as the key.
const (
	msgSubmitted       = "Complaint submitted. Your tracking number is %s."
	msgResolved        = "Complaint %s marked as resolved."
	msgNotFound        = "Complaint not found."
	msgNameRequired    = "Name is required."
	msgDescRequired    = "Description is required."
	msgInvalidBody     = "Invalid request body."
	msgInvalidStatus   = "Unknown status filter."
	msgInternal        = "Something went wrong, please try again."
	msgReceiptDisabled = "Receipts are not available."
	msgNothingPending  = "No pending complaints."
	msgTooLarge        = "Upload is too large."
	msgBadImage        = "The attached image has an invalid file name."
)

var supportedLanguages = []language.Tag{language.English, language.Urdu}

var languageMatcher = language.NewMatcher(supportedLanguages)

func init() {
	urdu := map[string]string{
		msgSubmitted:       "شکایت درج ہو گئی۔ آپ کا ٹریکنگ نمبر %s ہے۔",
		msgResolved:        "شکایت %s حل شدہ قرار دی گئی۔",
		msgNotFound:        "شکایت نہیں ملی۔",
		msgNameRequired:    "نام درکار ہے۔",
		msgDescRequired:    "تفصیل درکار ہے۔",
		msgInvalidBody:     "درخواست درست نہیں۔",
		msgInvalidStatus:   "نامعلوم حیثیت۔",
		msgInternal:        "کچھ غلط ہو گیا، دوبارہ کوشش کریں۔",
		msgReceiptDisabled: "رسید دستیاب نہیں۔",
		msgNothingPending:  "کوئی زیر التواء شکایت نہیں۔",
		msgTooLarge:        "فائل بہت بڑی ہے۔",
		msgBadImage:        "منسلک تصویر کا نام درست نہیں۔",
	}
	for key, translation := range urdu {
		message.SetString(language.English, key, key)
		message.SetString(language.Urdu, key, translation)
	}
}

// printerFor picks the response language: ?lang= first, then Accept-Language.
// Anything unsupported falls back to English.
func printerFor(r *http.Request) *message.Printer {
	var candidates []language.Tag
	if lang := r.URL.Query().Get("lang"); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			candidates = append(candidates, tag)
		}
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			candidates = append(candidates, tags...)
		}
	}

	_, index, confidence := languageMatcher.Match(candidates...)
	if confidence == language.No {
		index = 0
	}
	return message.NewPrinter(supportedLanguages[index])
}
