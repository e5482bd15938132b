package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

var validPDF = []byte("%PDF-1.4 fake body")

func TestGradeDocumentRejectsInvalidPDF(t *testing.T) {
	provider := jsonLLM(`{}`)
	svc := NewGradingService(provider, &fakeExtractor{}, newTestLogger())

	_, err := svc.GradeDocument(context.Background(), []byte("not a pdf"), "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeDocumentInvalid))
	assert.Empty(t, provider.requests, "invalid documents must be rejected before any model call")
}

func TestGradeDocumentHappyPath(t *testing.T) {
	provider := jsonLLM(`{"marks_obtained": 85, "feedback": "Solid work with minor gaps."}`)
	svc := NewGradingService(provider, &fakeExtractor{text: "essay text"}, newTestLogger())

	result, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.NoError(t, err)

	assert.Equal(t, 85, result.MarksObtained)
	assert.Equal(t, 100, result.TotalMarks)
	assert.InDelta(t, 85.0, result.Percentage, 0.001)
	assert.Equal(t, "Very Good", result.Band)
	assert.Equal(t, "Solid work with minor gaps.", result.Feedback)
}

func TestGradeDocumentUsesContextualRubric(t *testing.T) {
	provider := jsonLLM(`{"marks_obtained": 70, "feedback": "ok"}`)
	svc := NewGradingService(provider, &fakeExtractor{text: "essay"}, newTestLogger())

	_, err := svc.GradeDocument(context.Background(), validPDF, "focus on the thesis statement")
	require.NoError(t, err)
	require.Len(t, provider.requests, 1)
	assert.Contains(t, provider.requests[0].User, "focus on the thesis statement")
}

func TestGradeDocumentEmptyExtraction(t *testing.T) {
	provider := jsonLLM(`{}`)
	svc := NewGradingService(provider, &fakeExtractor{text: ""}, newTestLogger())

	result, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.NoError(t, err)

	assert.Equal(t, 0, result.MarksObtained)
	assert.Equal(t, "Unsatisfactory", result.Band)
	assert.Contains(t, result.Feedback, "No readable text")
	assert.Empty(t, provider.requests)
}

func TestGradeDocumentFencedJSON(t *testing.T) {
	provider := jsonLLM("Here is the grade:\n```json\n{\"marks_obtained\": 92, \"feedback\": \"Excellent analysis.\"}\n```")
	svc := NewGradingService(provider, &fakeExtractor{text: "essay"}, newTestLogger())

	result, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.NoError(t, err)
	assert.Equal(t, 92, result.MarksObtained)
	assert.Equal(t, "Excellent", result.Band)
}

func TestGradeDocumentUnparseableResponse(t *testing.T) {
	provider := jsonLLM("I would give this about a B+")
	svc := NewGradingService(provider, &fakeExtractor{text: "essay"}, newTestLogger())

	result, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.NoError(t, err)
	assert.Equal(t, 0, result.MarksObtained)
	assert.Contains(t, result.Feedback, "Raw response: ")
}

func TestGradeDocumentClampsMarks(t *testing.T) {
	provider := jsonLLM(`{"marks_obtained": 140, "feedback": "over-enthusiastic"}`)
	svc := NewGradingService(provider, &fakeExtractor{text: "essay"}, newTestLogger())

	result, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.NoError(t, err)
	assert.Equal(t, 100, result.MarksObtained)
}

func TestGradeDocumentCallFailure(t *testing.T) {
	provider := &fakeLLM{completeFn: func(llm.Request) (string, error) { return "", errBoom }}
	svc := NewGradingService(provider, &fakeExtractor{text: "essay"}, newTestLogger())

	_, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeGradingFailed))
}

func TestGradeDocumentExtractionError(t *testing.T) {
	extractErr := utils.E(utils.CodeDocumentExtraction, "PDFExtractor.Extract", "corrupt xref table", nil)
	svc := NewGradingService(jsonLLM(`{}`), &fakeExtractor{err: extractErr}, newTestLogger())

	_, err := svc.GradeDocument(context.Background(), validPDF, "")
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeDocumentExtraction))
}

func TestGradeBands(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{85, "Very Good"},
		{80, "Very Good"},
		{75, "Good"},
		{65, "Satisfactory"},
		{55, "Needs Improvement"},
		{50, "Needs Improvement"},
		{49.9, "Unsatisfactory"},
		{0, "Unsatisfactory"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeBand(tt.pct), "pct=%v", tt.pct)
	}
}
