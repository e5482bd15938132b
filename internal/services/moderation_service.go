package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const (
	maxModerationInput = 10000

	// Approval requires no flagged categories AND severity strictly below
	// this. Policy constant, not tunable per call.
	severityThreshold = 0.3
)

const moderationSystemPrompt = `You are a professional content moderation AI. Your job is to analyze text content and identify any inappropriate material.

Analyze the provided text for the following categories of inappropriate content:
1. VULGAR: Profanity, crude language, offensive words
2. SEXUAL: Sexual content, adult themes, inappropriate sexual references
3. HATEFUL: Hate speech, discrimination, harassment based on race, gender, religion, etc.
4. VIOLENT: Graphic violence, threats, harmful content
5. HARASSMENT: Bullying, personal attacks, intimidation
6. ILLEGAL: Content promoting illegal activities
7. SPAM: Repetitive, promotional, or spam-like content
8. MISINFORMATION: False or misleading information that could cause harm

Respond with a JSON object containing:
{
    "analysis": "Detailed analysis of the content",
    "inappropriate_categories": ["list", "of", "flagged", "categories"],
    "severity_score": 0.0-1.0,
    "confidence": 0.0-1.0,
    "explanation": "Clear explanation of why content was flagged or approved"
}

Be thorough but fair. Consider context and intent. Minor profanity in casual conversation may be acceptable, but hate speech or explicit sexual content should be flagged.`

// ModerationService screens translated text for inappropriate content.
type ModerationService interface {
	Moderate(ctx context.Context, text string) (*models.ModerationOutput, error)
}

type moderationService struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewModerationService(provider llm.Provider, log *logrus.Logger) ModerationService {
	return &moderationService{llm: provider, log: log}
}

type moderationVerdict struct {
	Analysis                string   `json:"analysis"`
	InappropriateCategories []string `json:"inappropriate_categories"`
	SeverityScore           float64  `json:"severity_score"`
	Confidence              float64  `json:"confidence"`
	Explanation             string   `json:"explanation"`
}

func (s *moderationService) Moderate(ctx context.Context, text string) (*models.ModerationOutput, error) {
	const op = "ModerationService.Moderate"

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, utils.E(utils.CodeEmptyInput, op, "input text is empty or whitespace only", nil)
	}
	if len(trimmed) > maxModerationInput {
		return nil, utils.E(utils.CodeInputTooLong, op, "input text exceeds the moderation limit", nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeModerationFailed, op, "moderation provider is not configured", nil)
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		System:      moderationSystemPrompt,
		User:        "Please analyze this text for inappropriate content:\n\n" + trimmed,
		JSONMode:    true,
		Temperature: 0.1,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, utils.E(utils.CodeModerationFailed, op, "moderation call failed", err)
	}

	verdict := decodeVerdict(raw, s.log)

	return &models.ModerationOutput{
		Approved:          len(verdict.InappropriateCategories) == 0 && verdict.SeverityScore < severityThreshold,
		Confidence:        verdict.Confidence,
		FlaggedCategories: verdict.InappropriateCategories,
		Explanation:       verdict.Explanation,
		SeverityScore:     verdict.SeverityScore,
	}, nil
}

// decodeVerdict never fails: format drift from the model downgrades to an
// unstructured analysis with no flags and mid-range confidence.
func decodeVerdict(raw string, log *logrus.Logger) moderationVerdict {
	var v moderationVerdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.WithField("response_prefix", prefix(raw, 120)).
			Warn("moderation response was not valid JSON, using fallback analysis")
		return moderationVerdict{
			Analysis:                raw,
			InappropriateCategories: []string{},
			SeverityScore:           0,
			Confidence:              0.5,
			Explanation:             "Analysis completed but response format was unexpected",
		}
	}
	if v.InappropriateCategories == nil {
		v.InappropriateCategories = []string{}
	}
	return v
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
