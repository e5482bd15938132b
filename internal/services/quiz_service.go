package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/forms"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const (
	quizTitlePrefix  = "EdRoom Quiz"
	quizTargetCount  = 20
	quizMinimumCount = 10
	maxQuizTopic     = 100
)

var validDifficulties = []string{"easy", "medium", "hard"}

const quizPromptFormat = `You are an expert assessment designer. Create EXACTLY %d high-quality multiple-choice questions for the topic "%s" at "%s" difficulty.

CRITICAL: You must generate exactly %d questions, no more, no less.

Output JSON only with this exact structure (no markdown):
{
  "questions": [
    {
      "question": "...",
      "options": ["A", "B", "C", "D"],
      "answer_index": 0,
      "explanation": "...",
      "difficulty": "%s"
    }
  ]
}

STRICT Constraints:
- EXACTLY %d questions (count them carefully)
- EXACTLY 4 options per question
- The correct option index is 0-3 in "answer_index"
- Keep questions unambiguous and not opinion-based
- Prefer varied cognitive levels (recall, apply, analyze) within the given difficulty
- Double-check the question count before responding`

// QuizCreation is a successful quiz build: the published form plus a
// human-readable summary.
type QuizCreation struct {
	Info    models.QuizInfo
	Message string
}

// QuizService generates an MCQ set with the LLM collaborator and publishes
// it through the forms builder.
type QuizService interface {
	Generate(ctx context.Context, topic, difficulty string) (*QuizCreation, error)
	Requirements() models.QuizRequirements
}

type quizService struct {
	llm     llm.Provider
	builder forms.Builder
	log     *logrus.Logger
}

func NewQuizService(provider llm.Provider, builder forms.Builder, log *logrus.Logger) QuizService {
	return &quizService{llm: provider, builder: builder, log: log}
}

func (s *quizService) Generate(ctx context.Context, topic, difficulty string) (*QuizCreation, error) {
	const op = "QuizService.Generate"

	topic = strings.TrimSpace(topic)
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))

	if msg := validateQuizInputs(topic, difficulty); msg != "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, msg, nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeQuizGenerationFailed, op, "quiz generation provider is not configured", nil)
	}
	if s.builder == nil {
		return nil, utils.E(utils.CodeQuizGenerationFailed, op, "forms provider is not configured", nil)
	}

	mcqs, err := s.generateMCQs(ctx, topic, difficulty)
	if err != nil {
		return nil, err
	}

	titleCaser := cases.Title(language.English)
	title := fmt.Sprintf("%s: %s (%s)", quizTitlePrefix, titleCaser.String(topic), titleCaser.String(difficulty))
	description := fmt.Sprintf(
		"Auto-generated quiz on %s at %s difficulty level. This quiz contains %d multiple-choice questions.",
		topic, difficulty, len(mcqs))

	info, err := s.builder.CreateQuizForm(ctx, title, description, mcqs)
	if err != nil {
		return nil, utils.E(utils.CodeQuizGenerationFailed, op, "failed to publish quiz form", err)
	}

	s.log.WithFields(logrus.Fields{
		"form_id":   info.FormID,
		"topic":     topic,
		"questions": len(mcqs),
	}).Info("quiz created")

	message := fmt.Sprintf("Quiz successfully created! %d questions generated.", len(mcqs))
	if len(mcqs) < quizTargetCount {
		message = fmt.Sprintf(
			"Quiz successfully created! %d questions generated (filtered from AI output to ensure quality).",
			len(mcqs))
	}

	return &QuizCreation{
		Info: models.QuizInfo{
			FormID:        info.FormID,
			ResponderURL:  info.ResponderURL,
			Title:         title,
			Description:   description,
			Topic:         topic,
			Difficulty:    difficulty,
			QuestionCount: len(mcqs),
		},
		Message: message,
	}, nil
}

func (s *quizService) Requirements() models.QuizRequirements {
	return models.QuizRequirements{
		RequiredFields: []string{"topic", "difficulty"},
		TopicRequirements: models.TopicRequirements{
			Type:        "string",
			MinLength:   1,
			MaxLength:   maxQuizTopic,
			Description: "The subject or topic for the quiz questions",
		},
		DifficultyOptions: models.DifficultyOptions{
			Type:        "enum",
			Values:      validDifficulties,
			Description: "The difficulty level for the quiz questions",
		},
		Output: models.QuizOutputSpec{
			QuestionCount:      quizTargetCount,
			QuestionType:       "multiple_choice",
			OptionsPerQuestion: 4,
			Platform:           "Google Forms",
		},
	}
}

func validateQuizInputs(topic, difficulty string) string {
	var errs []string
	if topic == "" {
		errs = append(errs, "topic is required and cannot be empty")
	}
	if len(topic) > maxQuizTopic {
		errs = append(errs, fmt.Sprintf("topic must be %d characters or less", maxQuizTopic))
	}
	valid := false
	for _, d := range validDifficulties {
		if difficulty == d {
			valid = true
		}
	}
	if !valid {
		errs = append(errs, "difficulty must be one of: "+strings.Join(validDifficulties, ", "))
	}
	return strings.Join(errs, "; ")
}

// generateMCQs asks the model for exactly quizTargetCount questions, filters
// out malformed ones, and runs a repair pass re-prompting with the prior
// output when the count is off. After the retry budget it accepts a partial
// set of at least quizMinimumCount.
func (s *quizService) generateMCQs(ctx context.Context, topic, difficulty string) ([]models.MCQ, error) {
	const op = "QuizService.generateMCQs"

	prompt := fmt.Sprintf(quizPromptFormat,
		quizTargetCount, topic, difficulty, quizTargetCount, difficulty, quizTargetCount)

	var lastContent string
	var lastValid []models.MCQ

	for attempt := 0; attempt < 3; attempt++ {
		raw, err := s.llm.Complete(ctx, llm.Request{
			System:      "You output strict JSON, no markdown or commentary.",
			User:        prompt,
			JSONMode:    true,
			Temperature: 0.4,
			MaxTokens:   4000,
		})
		if err != nil {
			return nil, utils.E(utils.CodeQuizGenerationFailed, op, "question generation call failed", err)
		}
		lastContent = raw

		valid := filterValidMCQs(parseMCQs(raw))
		if len(valid) >= quizTargetCount {
			return valid[:quizTargetCount], nil
		}
		if len(valid) > len(lastValid) {
			lastValid = valid
		}

		repaired, err := s.llm.Complete(ctx, llm.Request{
			System: "You output strict JSON, no markdown or commentary.",
			User: fmt.Sprintf(
				"Fix the following JSON so it strictly matches the schema and contains exactly %d questions with 4 options each. "+
					"Use indices 0-3 for answer_index. Output JSON only.\n\n%s",
				quizTargetCount, prefix(lastContent, 6000)),
			JSONMode:    true,
			Temperature: 0.2,
			MaxTokens:   4000,
		})
		if err != nil {
			return nil, utils.E(utils.CodeQuizGenerationFailed, op, "question repair call failed", err)
		}
		lastContent = repaired

		valid = filterValidMCQs(parseMCQs(repaired))
		if len(valid) >= quizTargetCount {
			return valid[:quizTargetCount], nil
		}
		if len(valid) > len(lastValid) {
			lastValid = valid
		}
	}

	if len(lastValid) >= quizMinimumCount {
		return lastValid, nil
	}
	return nil, utils.E(utils.CodeQuizGenerationFailed, op,
		fmt.Sprintf("could not generate %d valid questions after retries (got %d)", quizTargetCount, len(lastValid)), nil)
}

var outerJSONRe = regexp.MustCompile(`(?s)\{.*\}`)

func parseMCQs(raw string) []models.MCQ {
	var payload struct {
		Questions []models.MCQ `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		m := outerJSONRe.FindString(raw)
		if m == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(m), &payload); err != nil {
			return nil
		}
	}
	return payload.Questions
}

func filterValidMCQs(in []models.MCQ) []models.MCQ {
	out := make([]models.MCQ, 0, len(in))
	for _, q := range in {
		if q.Valid() {
			out = append(out, q)
		}
	}
	return out
}
