package models

// ProcessResult is the translation+moderation breakdown behind POST /process.
type ProcessResult struct {
	InputText             string   `json:"input_text"`
	OriginalLanguage      string   `json:"original_language"`
	OriginalLanguageCode  string   `json:"original_language_code"`
	TranslationConfidence float64  `json:"translation_confidence"`
	TranslatedText        string   `json:"translated_text"`
	IsEnglish             bool     `json:"is_english"`
	ModerationApproved    bool     `json:"moderation_approved"`
	ModerationConfidence  float64  `json:"moderation_confidence"`
	FlaggedCategories     []string `json:"flagged_categories"`
	ModerationExplanation string   `json:"moderation_explanation"`
	FinalApproved         bool     `json:"final_approved"`
}
