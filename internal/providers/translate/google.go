package translate

import (
	"context"
	"fmt"
	"sync"

	gtranslate "cloud.google.com/go/translate"
	"golang.org/x/text/language"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

// GoogleTranslate wraps the Cloud Translation v2 client. Language display
// names are fetched once and cached for the life of the provider.
type GoogleTranslate struct {
	client *gtranslate.Client

	namesOnce sync.Once
	names     map[string]string
	namesErr  error
}

func NewGoogleTranslate(ctx context.Context) (*GoogleTranslate, error) {
	c, err := gtranslate.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GoogleTranslate{client: c}, nil
}

func (g *GoogleTranslate) Close() error { return g.client.Close() }

func (g *GoogleTranslate) Detect(ctx context.Context, text string) (Detection, error) {
	const op = "GoogleTranslate.Detect"

	detections, err := g.client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return Detection{}, utils.E(utils.CodeTranslationFailed, op, "language detection failed", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return Detection{}, utils.E(utils.CodeTranslationFailed, op, "no detection result", nil)
	}

	d := detections[0][0]
	code := d.Language.String()
	return Detection{
		LanguageCode: code,
		LanguageName: g.languageName(ctx, code),
		Confidence:   d.Confidence,
	}, nil
}

func (g *GoogleTranslate) Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error) {
	const op = "GoogleTranslate.Translate"

	target, err := language.Parse(targetCode)
	if err != nil {
		return "", utils.E(utils.CodeTranslationFailed, op, "invalid target language code", err)
	}

	opts := &gtranslate.Options{Format: gtranslate.Text}
	if sourceCode != "" {
		source, err := language.Parse(sourceCode)
		if err != nil {
			return "", utils.E(utils.CodeTranslationFailed, op, "invalid source language code", err)
		}
		opts.Source = source
	}

	out, err := g.client.Translate(ctx, []string{text}, target, opts)
	if err != nil {
		return "", utils.E(utils.CodeTranslationFailed, op, "translation failed", err)
	}
	if len(out) == 0 {
		return "", utils.E(utils.CodeTranslationFailed, op, "empty translation result", nil)
	}
	return out[0].Text, nil
}

func (g *GoogleTranslate) languageName(ctx context.Context, code string) string {
	g.namesOnce.Do(func() {
		langs, err := g.client.SupportedLanguages(ctx, language.English)
		if err != nil {
			g.namesErr = err
			return
		}
		g.names = make(map[string]string, len(langs))
		for _, l := range langs {
			g.names[l.Tag.String()] = l.Name
		}
	})
	if name, ok := g.names[code]; ok {
		return name
	}
	return fmt.Sprintf("Language (%s)", code)
}
