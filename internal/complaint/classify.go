package complaint

import (
	"strings"
	"unicode"
)

// Keyword tiers, checked in order. The first tier with a substring match wins.
var priorityTiers = []struct {
	priority Priority
	keywords []string
}{
	{PriorityHigh, []string{"urgent", "immediately", "danger", "fire", "flood"}},
	{PriorityMedium, []string{"delay", "broken", "issue", "problem"}},
}

// ClassifyPriority derives the priority tier from free text.
//
// Matching is a case-insensitive substring test, so "flooding" and
// "Fire-fighters" count as High.
func ClassifyPriority(text string) Priority {
	lower := strings.ToLower(text)
	for _, tier := range priorityTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(lower, kw) {
				return tier.priority
			}
		}
	}
	return PriorityLow
}

// Polarity thresholds. Scores strictly outside (-0.2, 0.2) are polar.
const (
	negativeThreshold = -0.2
	positiveThreshold = 0.2
)

// LabelSet selects the vocabulary used for sentiment labels.
type LabelSet int

const (
	// LabelsStandard yields Negative / Neutral / Positive.
	LabelsStandard LabelSet = iota
	// LabelsMood yields Angry / Neutral / Calm.
	LabelsMood
)

// ParseLabelSet maps a configuration value to a LabelSet. Unknown values
// fall back to LabelsStandard.
func ParseLabelSet(s string) LabelSet {
	if strings.EqualFold(strings.TrimSpace(s), "mood") {
		return LabelsMood
	}
	return LabelsStandard
}

// ClassifySentiment buckets the polarity of text into a label.
func ClassifySentiment(text string, labels LabelSet) Sentiment {
	return LabelFor(Polarity(text), labels)
}

// LabelFor buckets an already computed polarity score.
func LabelFor(polarity float64, labels LabelSet) Sentiment {
	switch {
	case polarity < negativeThreshold:
		if labels == LabelsMood {
			return SentimentAngry
		}
		return SentimentNegative
	case polarity > positiveThreshold:
		if labels == LabelsMood {
			return SentimentCalm
		}
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// lexicon scores are in [-1, 1].
var lexicon = map[string]float64{
	// negative
	"bad": -0.7, "worse": -0.8, "worst": -1.0, "terrible": -1.0, "horrible": -1.0,
	"awful": -1.0, "poor": -0.4, "angry": -0.5, "furious": -0.9, "frustrated": -0.6,
	"frustrating": -0.6, "disgusting": -1.0, "dirty": -0.6, "filthy": -0.8,
	"useless": -0.5, "sad": -0.5, "unacceptable": -0.8, "annoying": -0.8,
	"annoyed": -0.6, "hate": -0.8, "pathetic": -1.0, "careless": -0.6,
	"dangerous": -0.6, "unsafe": -0.5, "broken": -0.4, "sick": -0.7,
	"painful": -0.7, "stinking": -0.8, "smelly": -0.5, "shameful": -0.8,
	"corrupt": -0.5, "rude": -0.5, "negligent": -0.6, "miserable": -0.8,
	"fail": -0.5, "failed": -0.5, "nobody": -0.3,
	"upset": -0.5, "worried": -0.4, "helpless": -0.5, "ignored": -0.4,
	// positive
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.6, "wonderful": 1.0,
	"nice": 0.6, "happy": 0.8, "glad": 0.5, "thank": 0.4, "thanks": 0.4,
	"thankful": 0.5, "grateful": 0.6, "appreciate": 0.5, "helpful": 0.5,
	"clean": 0.4, "safe": 0.5, "quick": 0.3, "fast": 0.2, "kind": 0.6,
	"polite": 0.6, "satisfied": 0.5, "pleased": 0.5, "fine": 0.4, "better": 0.5,
	"best": 1.0, "love": 0.5, "perfect": 1.0, "calm": 0.3, "please": 0.2,
	"hope": 0.3, "hopeful": 0.4, "efficient": 0.5, "resolved": 0.3,
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "without": true, "hardly": true,
}

var intensifiers = map[string]float64{
	"very": 1.3, "extremely": 1.5, "really": 1.2, "so": 1.2, "too": 1.2,
	"completely": 1.4, "totally": 1.4, "absolutely": 1.5, "highly": 1.3,
}

// modifierWindow is how many tokens a negator or intensifier reaches forward.
const modifierWindow = 3

// Polarity scores free text in [-1, 1] using a word lexicon.
//
// The score is the mean of the scored words. A preceding negator flips
// and halves a word's score ("not good" → -0.35); a preceding intensifier
// scales it. Text with no scored words is 0.
func Polarity(text string) float64 {
	tokens := tokenize(text)

	var (
		sum       float64
		count     int
		negate    bool
		scale     = 1.0
		sinceMods = modifierWindow + 1
	)

	for _, tok := range tokens {
		sinceMods++
		if sinceMods > modifierWindow {
			negate = false
			scale = 1.0
		}

		if negators[tok] || strings.HasSuffix(tok, "n't") {
			negate = true
			sinceMods = 0
			continue
		}
		if f, ok := intensifiers[tok]; ok {
			scale *= f
			sinceMods = 0
			continue
		}

		score, ok := lexicon[tok]
		if !ok {
			continue
		}
		score *= scale
		if negate {
			score *= -0.5
		}
		sum += clamp(score)
		count++
		negate = false
		scale = 1.0
		sinceMods = modifierWindow + 1
	}

	if count == 0 {
		return 0
	}
	return clamp(sum / float64(count))
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
