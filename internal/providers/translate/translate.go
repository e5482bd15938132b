package translate

import "context"

type Detection struct {
	LanguageCode string
	LanguageName string
	Confidence   float64
}

// Provider is the translation collaborator: language detection plus
// translation between explicit source/target codes.
type Provider interface {
	Detect(ctx context.Context, text string) (Detection, error)
	Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error)
	Close() error
}
