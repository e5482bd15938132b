package services

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
)

const intentSystemPrompt = `You are an intelligent intent classifier for an educational platform. Analyze the user's message and determine their primary intent.

Classify the intent as one of these categories:
1. "grading" - User wants to grade, evaluate, assess, score, or get feedback on their work/assignment
2. "explanation" - User wants to learn about, understand, or get an explanation of a concept/topic
3. "general" - General conversation, greetings, or unclear intent

Consider context clues like:
- Grading: mentions of assignments, homework, tests, scores, evaluation, feedback, "how did I do", "grade this", "assess my work"
- Explanation: questions about concepts, "what is", "how does", "explain", "tell me about", learning requests
- General: greetings, casual conversation, unclear requests

Respond with a JSON object containing:
{
  "intent": "grading|explanation|general",
  "confidence": 0.0-1.0,
  "reasoning": "brief explanation of why you chose this intent"
}`

// IntentService classifies what the user is asking for. Classification is
// advisory: any failure degrades to general intent with zero confidence
// instead of surfacing an error.
type IntentService interface {
	Classify(ctx context.Context, text string) models.IntentOutput
}

type intentService struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewIntentService(provider llm.Provider, log *logrus.Logger) IntentService {
	return &intentService{llm: provider, log: log}
}

func (s *intentService) Classify(ctx context.Context, text string) models.IntentOutput {
	fallback := models.IntentOutput{Intent: models.IntentGeneral, Confidence: 0}

	if s.llm == nil {
		fallback.Reasoning = "intent classifier not available"
		return fallback
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		System:      intentSystemPrompt,
		User:        "Classify this message: '" + text + "'",
		JSONMode:    true,
		Temperature: 0.1,
		MaxTokens:   200,
	})
	if err != nil {
		s.log.WithError(err).Warn("intent classification failed, defaulting to general")
		fallback.Reasoning = "classification failed"
		return fallback
	}

	var parsed struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.WithError(err).Warn("intent response was not valid JSON, defaulting to general")
		fallback.Reasoning = "unparseable classification response"
		return fallback
	}

	out := models.IntentOutput{
		Confidence: clamp01(parsed.Confidence),
		Reasoning:  parsed.Reasoning,
	}
	switch models.Intent(parsed.Intent) {
	case models.IntentGrading, models.IntentExplanation, models.IntentGeneral:
		out.Intent = models.Intent(parsed.Intent)
	default:
		out.Intent = models.IntentGeneral
		out.Confidence = 0
	}

	s.log.WithFields(logrus.Fields{
		"intent":     out.Intent,
		"confidence": out.Confidence,
	}).Info("intent classified")

	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
