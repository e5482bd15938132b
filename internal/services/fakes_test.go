package services

import (
	"context"
	"errors"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/forms"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/translate"
)

var errBoom = errors.New("boom")

// Provider-level fakes.

type fakeTranslator struct {
	detection      translate.Detection
	detectErr      error
	translateFn    func(text, source, target string) (string, error)
	detectCalls    int
	translateCalls int
}

func (f *fakeTranslator) Detect(ctx context.Context, text string) (translate.Detection, error) {
	f.detectCalls++
	return f.detection, f.detectErr
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	f.translateCalls++
	if f.translateFn != nil {
		return f.translateFn(text, source, target)
	}
	return text, nil
}

func (f *fakeTranslator) Close() error { return nil }

type fakeLLM struct {
	completeFn func(req llm.Request) (string, error)
	requests   []llm.Request
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.completeFn(req)
}

func (f *fakeLLM) Close() error { return nil }

// jsonLLM always answers with the same payload.
func jsonLLM(payload string) *fakeLLM {
	return &fakeLLM{completeFn: func(llm.Request) (string, error) { return payload, nil }}
}

type fakeBuilder struct {
	info      forms.FormInfo
	err       error
	questions []models.MCQ
	calls     int
}

func (f *fakeBuilder) CreateQuizForm(ctx context.Context, title, description string, questions []models.MCQ) (forms.FormInfo, error) {
	f.calls++
	f.questions = questions
	return f.info, f.err
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, doc []byte) (string, error) {
	return f.text, f.err
}

// Service-level fakes for orchestrator tests.

type fakeLanguage struct {
	processFn func(text string) (*models.TranslationOutput, error)
	backFn    func(text, target string) (string, error)
}

func (f *fakeLanguage) ProcessText(ctx context.Context, text string) (*models.TranslationOutput, error) {
	return f.processFn(text)
}

func (f *fakeLanguage) TranslateBack(ctx context.Context, text, target string) (string, error) {
	if f.backFn != nil {
		return f.backFn(text, target)
	}
	return text, nil
}

func englishLanguage() *fakeLanguage {
	return &fakeLanguage{
		processFn: func(text string) (*models.TranslationOutput, error) {
			return &models.TranslationOutput{
				DetectedLanguage:     "English",
				DetectedLanguageCode: "en",
				Confidence:           0.99,
				TranslatedText:       text,
				IsEnglish:            true,
			}, nil
		},
	}
}

type fakeModeration struct {
	out *models.ModerationOutput
	err error
}

func (f *fakeModeration) Moderate(ctx context.Context, text string) (*models.ModerationOutput, error) {
	return f.out, f.err
}

func approvingModeration() *fakeModeration {
	return &fakeModeration{out: &models.ModerationOutput{
		Approved:          true,
		Confidence:        0.95,
		FlaggedCategories: []string{},
	}}
}

type fakeIntent struct {
	out models.IntentOutput
}

func (f *fakeIntent) Classify(ctx context.Context, text string) models.IntentOutput {
	return f.out
}

type fakeGrading struct {
	result *models.GradingResult
	err    error
	ctx    string
	calls  int
}

func (f *fakeGrading) GradeDocument(ctx context.Context, doc []byte, userContext string) (*models.GradingResult, error) {
	f.calls++
	f.ctx = userContext
	return f.result, f.err
}

type fakeExplanation struct {
	text  string
	err   error
	topic string
}

func (f *fakeExplanation) Explain(ctx context.Context, userID, topic string, includeHistory bool) (string, error) {
	f.topic = topic
	return f.text, f.err
}

func (f *fakeExplanation) Healthy() bool         { return f.err == nil }
func (f *fakeExplanation) ClearHistory(s string) {}
