package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
)

func TestClassifyParsesVerdict(t *testing.T) {
	svc := NewIntentService(jsonLLM(
		`{"intent":"explanation","confidence":0.85,"reasoning":"asks what photosynthesis is"}`,
	), newTestLogger())

	out := svc.Classify(context.Background(), "what is photosynthesis?")

	assert.Equal(t, models.IntentExplanation, out.Intent)
	assert.Equal(t, 0.85, out.Confidence)
	assert.NotEmpty(t, out.Reasoning)
}

func TestClassifyClampsConfidence(t *testing.T) {
	svc := NewIntentService(jsonLLM(`{"intent":"grading","confidence":1.7}`), newTestLogger())

	out := svc.Classify(context.Background(), "grade my essay")
	assert.Equal(t, models.IntentGrading, out.Intent)
	assert.Equal(t, 1.0, out.Confidence)
}

func TestClassifyDegradesToGeneral(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeLLM
	}{
		{"call failure", &fakeLLM{completeFn: func(llm.Request) (string, error) { return "", errBoom }}},
		{"unparseable response", jsonLLM("definitely grading, trust me")},
		{"unknown label", jsonLLM(`{"intent":"translation","confidence":0.9}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewIntentService(tt.provider, newTestLogger())

			out := svc.Classify(context.Background(), "hello")
			assert.Equal(t, models.IntentGeneral, out.Intent)
			assert.Equal(t, 0.0, out.Confidence)
		})
	}
}

func TestClassifyNoProvider(t *testing.T) {
	svc := NewIntentService(nil, newTestLogger())

	out := svc.Classify(context.Background(), "hello")
	assert.Equal(t, models.IntentGeneral, out.Intent)
	assert.Equal(t, 0.0, out.Confidence)
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		name   string
		intent models.IntentOutput
		hasDoc bool
		want   models.RoutingDecision
	}{
		{"confident grading with document", models.IntentOutput{Intent: models.IntentGrading, Confidence: 0.9}, true, models.RouteGradeDocument},
		{"confident grading without document", models.IntentOutput{Intent: models.IntentGrading, Confidence: 0.9}, false, models.RouteGeneralReply},
		{"confident explanation", models.IntentOutput{Intent: models.IntentExplanation, Confidence: 0.8}, false, models.RouteExplainTopic},
		{"confidence exactly at threshold stays general", models.IntentOutput{Intent: models.IntentExplanation, Confidence: 0.5}, false, models.RouteGeneralReply},
		{"low confidence grading", models.IntentOutput{Intent: models.IntentGrading, Confidence: 0.4}, true, models.RouteGeneralReply},
		{"general intent", models.IntentOutput{Intent: models.IntentGeneral, Confidence: 0.99}, false, models.RouteGeneralReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.RouteFor(tt.intent, tt.hasDoc))
		})
	}
}
