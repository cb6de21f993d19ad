package complaint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Priority
	}{
		{"fire is high", "there is a fire near the market", PriorityHigh},
		{"case insensitive", "FIRE in block 4", PriorityHigh},
		{"substring flooding", "urgent water leak flooding street", PriorityHigh},
		{"danger", "live wire is a danger to kids", PriorityHigh},
		{"immediately", "please come immediately", PriorityHigh},
		{"high tier wins over medium", "broken pipe caused a flood", PriorityHigh},
		{"problem only", "water pressure problem since monday", PriorityMedium},
		{"delay", "delay in garbage pickup", PriorityMedium},
		{"broken", "street light broken", PriorityMedium},
		{"issue", "billing Issue", PriorityMedium},
		{"no keywords", "request for new streetlight", PriorityLow},
		{"empty", "", PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyPriority(tt.text))
		})
	}
}

func TestDepartmentFor(t *testing.T) {
	tests := []struct {
		category string
		expected string
	}{
		{"Electricity", "QESCO"},
		{"Water", "Water Board"},
		{"Health", "Health Dept"},
		{"Roads", "Public Works"},
		{"Sanitation", "Municipal"},
		{"Other", "General Affairs"},
		{"water", "Water Board"},
		{" Roads ", "Public Works"},
		{"بجلی", "QESCO"},
		{"پانی", "Water Board"},
		{"صفائی", "Municipal"},
		{"Parks", "General Affairs"},
		{"", "General Affairs"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.expected, DepartmentFor(tt.category))
		})
	}
}

func TestRoutesCoverEveryCategory(t *testing.T) {
	routes := Routes()
	assert.Len(t, routes, 6)
	assert.Equal(t, DepartmentRoute{Category: "Electricity", Department: "QESCO"}, routes[0])
	assert.Equal(t, DefaultDepartment, routes[len(routes)-1].Department)
}

func TestPolarity(t *testing.T) {
	assert.Equal(t, 0.0, Polarity("the pipe near the school"))
	assert.Greater(t, Polarity("thank you, the staff were very helpful"), 0.2)
	assert.Less(t, Polarity("this is terrible and disgusting"), -0.2)
	assert.InDelta(t, -0.35, Polarity("not good"), 1e-9)
	assert.InDelta(t, -0.35, Polarity("the road isn't good"), 1e-9)
	assert.InDelta(t, 0.91, Polarity("very good"), 1e-9)
	assert.Equal(t, -1.0, Polarity("extremely awful"))
}

func TestPolarityModifierWindow(t *testing.T) {
	// the negator is too far away to reach "good"
	assert.InDelta(t, 0.7, Polarity("not once in all these years good"), 1e-9)
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		labels   LabelSet
		expected Sentiment
	}{
		{"negative", "the service is terrible", LabelsStandard, SentimentNegative},
		{"positive", "great work, thanks", LabelsStandard, SentimentPositive},
		{"neutral", "streetlight on 5th road", LabelsStandard, SentimentNeutral},
		{"angry", "the service is terrible", LabelsMood, SentimentAngry},
		{"calm", "great work, thanks", LabelsMood, SentimentCalm},
		{"mood neutral", "streetlight on 5th road", LabelsMood, SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifySentiment(tt.text, tt.labels))
		})
	}
}

func TestLabelForThresholdsAreExclusive(t *testing.T) {
	assert.Equal(t, SentimentNeutral, LabelFor(-0.2, LabelsStandard))
	assert.Equal(t, SentimentNeutral, LabelFor(0.2, LabelsStandard))
	assert.Equal(t, SentimentNegative, LabelFor(-0.21, LabelsStandard))
	assert.Equal(t, SentimentPositive, LabelFor(0.21, LabelsStandard))
}

func TestParseLabelSet(t *testing.T) {
	assert.Equal(t, LabelsMood, ParseLabelSet("Mood"))
	assert.Equal(t, LabelsStandard, ParseLabelSet("standard"))
	assert.Equal(t, LabelsStandard, ParseLabelSet("unknown"))
}
