package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/forms"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

func questionsJSON(t *testing.T, valid, invalid int) string {
	t.Helper()
	var qs []models.MCQ
	for i := 0; i < valid; i++ {
		qs = append(qs, models.MCQ{
			Question:    fmt.Sprintf("Question %d?", i),
			Options:     []string{"A", "B", "C", "D"},
			AnswerIndex: i % 4,
			Explanation: "because",
			Difficulty:  "medium",
		})
	}
	for i := 0; i < invalid; i++ {
		qs = append(qs, models.MCQ{
			Question:    fmt.Sprintf("Broken %d?", i),
			Options:     []string{"A", "B"},
			AnswerIndex: 0,
		})
	}
	raw, err := json.Marshal(map[string][]models.MCQ{"questions": qs})
	require.NoError(t, err)
	return string(raw)
}

func TestQuizGenerateValidation(t *testing.T) {
	svc := NewQuizService(jsonLLM(`{}`), &fakeBuilder{}, newTestLogger())

	tests := []struct {
		name       string
		topic      string
		difficulty string
		wantMsg    string
	}{
		{"empty topic", "", "easy", "topic is required"},
		{"topic too long", strings.Repeat("x", 101), "easy", "100 characters"},
		{"bad difficulty", "algebra", "impossible", "difficulty must be one of"},
		{"missing difficulty", "algebra", "", "difficulty must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.topic, tt.difficulty)
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestQuizGenerateFullSet(t *testing.T) {
	provider := jsonLLM(questionsJSON(t, 20, 0))
	builder := &fakeBuilder{info: forms.FormInfo{
		FormID:       "form-123",
		ResponderURL: "https://docs.google.com/forms/d/form-123/viewform",
	}}
	svc := NewQuizService(provider, builder, newTestLogger())

	out, err := svc.Generate(context.Background(), "linear algebra", "Medium")
	require.NoError(t, err)

	assert.Equal(t, "form-123", out.Info.FormID)
	assert.Equal(t, 20, out.Info.QuestionCount)
	assert.Equal(t, "medium", out.Info.Difficulty)
	assert.Equal(t, "EdRoom Quiz: Linear Algebra (Medium)", out.Info.Title)
	assert.Len(t, builder.questions, 20)
	assert.NotContains(t, out.Message, "filtered")
	assert.Len(t, provider.requests, 1, "a full first response needs no repair pass")
}

func TestQuizGenerateAcceptsPartialAfterRetries(t *testing.T) {
	// Every attempt yields 12 valid questions out of 20 requested. After the
	// retry budget the partial set is accepted since it clears the minimum.
	provider := jsonLLM(questionsJSON(t, 12, 3))
	builder := &fakeBuilder{info: forms.FormInfo{FormID: "f", ResponderURL: "u"}}
	svc := NewQuizService(provider, builder, newTestLogger())

	out, err := svc.Generate(context.Background(), "chemistry", "hard")
	require.NoError(t, err)

	assert.Equal(t, 12, out.Info.QuestionCount)
	assert.Len(t, builder.questions, 12)
	assert.Contains(t, out.Message, "filtered")
	assert.Len(t, provider.requests, 6, "three attempts with a repair pass each")
}

func TestQuizGenerateTooFewQuestions(t *testing.T) {
	provider := jsonLLM(questionsJSON(t, 4, 0))
	builder := &fakeBuilder{}
	svc := NewQuizService(provider, builder, newTestLogger())

	_, err := svc.Generate(context.Background(), "history", "easy")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeQuizGenerationFailed))
	assert.Equal(t, 0, builder.calls)
}

func TestQuizGenerateBuilderFailure(t *testing.T) {
	provider := jsonLLM(questionsJSON(t, 20, 0))
	builder := &fakeBuilder{err: errBoom}
	svc := NewQuizService(provider, builder, newTestLogger())

	_, err := svc.Generate(context.Background(), "physics", "easy")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeQuizGenerationFailed))
}

func TestQuizGenerateCallFailure(t *testing.T) {
	provider := &fakeLLM{completeFn: func(llm.Request) (string, error) { return "", errBoom }}
	svc := NewQuizService(provider, &fakeBuilder{}, newTestLogger())

	_, err := svc.Generate(context.Background(), "physics", "easy")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeQuizGenerationFailed))
}

func TestQuizRequirements(t *testing.T) {
	svc := NewQuizService(nil, nil, newTestLogger())
	req := svc.Requirements()

	assert.Equal(t, []string{"topic", "difficulty"}, req.RequiredFields)
	assert.Equal(t, 100, req.TopicRequirements.MaxLength)
	assert.Equal(t, []string{"easy", "medium", "hard"}, req.DifficultyOptions.Values)
	assert.Equal(t, 20, req.Output.QuestionCount)
	assert.Equal(t, 4, req.Output.OptionsPerQuestion)
	assert.Equal(t, "Google Forms", req.Output.Platform)
}

func TestParseMCQsEmbeddedJSON(t *testing.T) {
	raw := "Sure, here you go:\n" + questionsJSON(t, 2, 0) + "\nHope that helps!"
	qs := parseMCQs(raw)
	assert.Len(t, qs, 2)
}
