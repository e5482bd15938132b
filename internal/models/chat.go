package models

// ChatRequest is the body of POST /chat. Document carries raw PDF bytes
// (base64 on the wire). At least one of Message/Document must be present.
type ChatRequest struct {
	Message   string `json:"message"`
	Document  []byte `json:"document,omitempty"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

func (r ChatRequest) HasDocument() bool { return len(r.Document) > 0 }

type TranslationInfo struct {
	OriginalLanguage     string  `json:"original_language"`
	OriginalLanguageCode string  `json:"original_language_code"`
	TranslatedText       string  `json:"translated_text"`
	Confidence           float64 `json:"confidence"`
}

type ModerationInfo struct {
	Approved          bool     `json:"approved"`
	Confidence        float64  `json:"confidence"`
	FlaggedCategories []string `json:"flagged_categories"`
	Explanation       string   `json:"explanation"`
	SeverityScore     float64  `json:"severity_score"`
}

type GradingResult struct {
	MarksObtained int     `json:"marks_obtained"`
	TotalMarks    int     `json:"total_marks"`
	Percentage    float64 `json:"percentage"`
	Band          string  `json:"band"`
	Feedback      string  `json:"feedback"`
}

type ExplanationResult struct {
	Topic            string  `json:"topic"`
	Explanation      string  `json:"explanation"`
	IntentConfidence float64 `json:"intent_confidence"`
	Reasoning        string  `json:"reasoning,omitempty"`
}

type ChatResponse struct {
	Success           bool               `json:"success"`
	UserMessage       string             `json:"user_message"`
	Reply             string             `json:"reply"`
	TranslationInfo   *TranslationInfo   `json:"translation_info,omitempty"`
	ModerationInfo    *ModerationInfo    `json:"moderation_info,omitempty"`
	GradingResult     *GradingResult     `json:"grading_result,omitempty"`
	ExplanationResult *ExplanationResult `json:"explanation_result,omitempty"`
	FinalApproved     bool               `json:"final_approved"`
	Cached            bool               `json:"cached,omitempty"`
	Fallback          bool               `json:"fallback,omitempty"`
	Timestamp         string             `json:"timestamp"`
	Error             string             `json:"error,omitempty"`
}
