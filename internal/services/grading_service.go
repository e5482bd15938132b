package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/pdfextract"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const defaultTotalMarks = 100

const defaultRubric = `General Assignment Grading Criteria:
- Content Quality and Accuracy (40 marks)
- Clarity of Explanation (30 marks)
- Organization and Structure (20 marks)
- Grammar and Presentation (10 marks)

Instructions:
- Ignore minor syntax/grammar mistakes
- Provide constructive feedback
- Focus on overall understanding and presentation`

const contextualRubricFormat = `Based on the user's request: "%s"

Grading Criteria:
- Content Quality and Relevance (40 marks)
- Clarity and Understanding (25 marks)
- Organization and Structure (20 marks)
- Grammar and Presentation (15 marks)

Instructions:
- Provide specific feedback related to the user's request
- Ignore minor syntax/grammar mistakes
- Focus on content accuracy and comprehension
- Give constructive suggestions for improvement`

// GradingService grades an uploaded PDF assignment: validate, extract text,
// score it against a rubric with the LLM collaborator.
type GradingService interface {
	GradeDocument(ctx context.Context, doc []byte, userContext string) (*models.GradingResult, error)
}

type gradingService struct {
	llm       llm.Provider
	extractor pdfextract.Extractor
	log       *logrus.Logger
}

func NewGradingService(provider llm.Provider, extractor pdfextract.Extractor, log *logrus.Logger) GradingService {
	return &gradingService{llm: provider, extractor: extractor, log: log}
}

func (s *gradingService) GradeDocument(ctx context.Context, doc []byte, userContext string) (*models.GradingResult, error) {
	const op = "GradingService.GradeDocument"

	if !pdfextract.ValidateDocument(doc) {
		return nil, utils.E(utils.CodeDocumentInvalid, op, "document is not a valid PDF", nil)
	}
	if s.llm == nil {
		return nil, utils.E(utils.CodeGradingFailed, op, "grading provider is not configured", nil)
	}

	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return buildGradingResult(0, defaultTotalMarks,
			"No readable text found in the PDF. Please check the file."), nil
	}

	rubric := defaultRubric
	if strings.TrimSpace(userContext) != "" {
		rubric = fmt.Sprintf(contextualRubricFormat, userContext)
	}

	prompt := fmt.Sprintf(`Here is the grading rubric and questions:
%s

Assignment Text:
%s

Please provide:
1. A numeric score out of %d
2. Short constructive feedback (3-4 sentences)

Respond with a JSON object: {"marks_obtained": <integer>, "feedback": "<string>"}`,
		rubric, text, defaultTotalMarks)

	raw, err := s.llm.Complete(ctx, llm.Request{
		User:        prompt,
		JSONMode:    true,
		Temperature: 0.2,
		MaxTokens:   1000,
	})
	if err != nil {
		return nil, utils.E(utils.CodeGradingFailed, op, "grading call failed", err)
	}

	marks, feedback, ok := parseGradeResponse(raw)
	if !ok {
		s.log.WithField("response_prefix", prefix(raw, 120)).
			Warn("grading response was not valid JSON")
		return buildGradingResult(0, defaultTotalMarks, "Raw response: "+raw), nil
	}
	if marks < 0 {
		marks = 0
	}
	if marks > defaultTotalMarks {
		marks = defaultTotalMarks
	}
	return buildGradingResult(marks, defaultTotalMarks, feedback), nil
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// parseGradeResponse tries strict JSON first, then JSON inside markdown
// fences.
func parseGradeResponse(raw string) (marks int, feedback string, ok bool) {
	var parsed struct {
		MarksObtained int    `json:"marks_obtained"`
		Feedback      string `json:"feedback"`
	}
	candidate := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		m := fencedJSONRe.FindStringSubmatch(raw)
		if m == nil {
			return 0, "", false
		}
		if err := json.Unmarshal([]byte(m[1]), &parsed); err != nil {
			return 0, "", false
		}
	}
	return parsed.MarksObtained, parsed.Feedback, true
}

func buildGradingResult(marks, total int, feedback string) *models.GradingResult {
	pct := float64(marks) / float64(total) * 100
	return &models.GradingResult{
		MarksObtained: marks,
		TotalMarks:    total,
		Percentage:    pct,
		Band:          gradeBand(pct),
		Feedback:      feedback,
	}
}

func gradeBand(pct float64) string {
	switch {
	case pct >= 90:
		return "Excellent"
	case pct >= 80:
		return "Very Good"
	case pct >= 70:
		return "Good"
	case pct >= 60:
		return "Satisfactory"
	case pct >= 50:
		return "Needs Improvement"
	default:
		return "Unsatisfactory"
	}
}
