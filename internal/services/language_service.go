package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/translate"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const (
	englishCode = "en"

	// Cloud Translation request ceiling.
	maxTranslationInput = 30000

	// Back-translation falls back to the uncleaned text when cleaning
	// leaves less than this.
	minCleanedLength = 10
)

// LanguageService is the translation stage: detect the source language,
// translate inbound text to English, and translate composed replies back to
// the user's language.
type LanguageService interface {
	ProcessText(ctx context.Context, text string) (*models.TranslationOutput, error)
	TranslateBack(ctx context.Context, text, targetCode string) (string, error)
}

type languageService struct {
	translator translate.Provider
	log        *logrus.Logger
}

func NewLanguageService(translator translate.Provider, log *logrus.Logger) LanguageService {
	return &languageService{translator: translator, log: log}
}

func (s *languageService) ProcessText(ctx context.Context, text string) (*models.TranslationOutput, error) {
	const op = "LanguageService.ProcessText"

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, utils.E(utils.CodeEmptyInput, op, "input text is empty or whitespace only", nil)
	}
	if len(trimmed) > maxTranslationInput {
		return nil, utils.E(utils.CodeInputTooLong, op, "input text exceeds the translation limit", nil)
	}
	if s.translator == nil {
		return nil, utils.E(utils.CodeTranslationFailed, op, "translation provider is not configured", nil)
	}

	det, err := s.translator.Detect(ctx, trimmed)
	if err != nil {
		return nil, utils.E(utils.CodeTranslationFailed, op, "language detection failed", err)
	}

	out := &models.TranslationOutput{
		DetectedLanguage:     det.LanguageName,
		DetectedLanguageCode: det.LanguageCode,
		Confidence:           det.Confidence,
	}

	if strings.EqualFold(det.LanguageCode, englishCode) {
		out.IsEnglish = true
		out.TranslatedText = trimmed
		return out, nil
	}

	s.log.WithFields(logrus.Fields{
		"language":   det.LanguageName,
		"code":       det.LanguageCode,
		"confidence": det.Confidence,
	}).Info("translating input to English")

	translated, err := s.translator.Translate(ctx, trimmed, det.LanguageCode, englishCode)
	if err != nil {
		return nil, utils.E(utils.CodeTranslationFailed, op, "translation to English failed", err)
	}
	out.TranslatedText = translated
	return out, nil
}

// TranslateBack re-translates an English reply into the user's language.
// Formatting that survives translation poorly is stripped first; English
// targets are returned untouched with their formatting intact.
func (s *languageService) TranslateBack(ctx context.Context, text, targetCode string) (string, error) {
	const op = "LanguageService.TranslateBack"

	code := strings.ToLower(strings.TrimSpace(targetCode))
	if code == "" || code == englishCode || code == "english" {
		return text, nil
	}
	if s.translator == nil {
		return "", utils.E(utils.CodeTranslationFailed, op, "translation provider is not configured", nil)
	}

	toTranslate := CleanFormatting(text)
	if len(strings.TrimSpace(toTranslate)) < minCleanedLength {
		toTranslate = text
	}

	translated, err := s.translator.Translate(ctx, toTranslate, englishCode, code)
	if err != nil {
		return "", utils.E(utils.CodeTranslationFailed, op, "back-translation failed", err)
	}
	return translated, nil
}

var (
	boldRe  = regexp.MustCompile(`\*\*(.*?)\*\*`)
	emojiRe = regexp.MustCompile(`[\x{1F300}-\x{1F5FF}\x{1F600}-\x{1F64F}\x{1F680}-\x{1F6FF}\x{1F900}-\x{1F9FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{27BF}]+`)
	spaceRe = regexp.MustCompile(` +`)
	paraRe  = regexp.MustCompile(`\n[ \t]*\n+`)
)

// CleanFormatting removes bold markers, emoji and decorative symbols that do
// not translate well, then collapses the leftover whitespace.
func CleanFormatting(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = emojiRe.ReplaceAllString(text, "")
	text = paraRe.ReplaceAllString(text, "\n\n")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
