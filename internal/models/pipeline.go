package models

// Intent labels produced by the intent classification collaborator.
type Intent string

const (
	IntentGrading     Intent = "grading"
	IntentExplanation Intent = "explanation"
	IntentGeneral     Intent = "general"
)

// RoutingConfidenceThreshold gates acting on a classified intent.
const RoutingConfidenceThreshold = 0.5

type RoutingDecision string

const (
	RouteGradeDocument RoutingDecision = "grade_document"
	RouteExplainTopic  RoutingDecision = "explain_topic"
	RouteGeneralReply  RoutingDecision = "general_reply"
)

type TranslationOutput struct {
	DetectedLanguage     string
	DetectedLanguageCode string
	Confidence           float64
	TranslatedText       string
	IsEnglish            bool
}

type ModerationOutput struct {
	Approved          bool
	Confidence        float64
	FlaggedCategories []string
	Explanation       string
	SeverityScore     float64
}

type IntentOutput struct {
	Intent     Intent
	Confidence float64
	Reasoning  string
}

// RouteFor maps a classification onto the routing decision. Grading demands
// an attached document; without one the orchestrator prompts for it instead.
func RouteFor(in IntentOutput, hasDocument bool) RoutingDecision {
	switch {
	case in.Intent == IntentGrading && in.Confidence > RoutingConfidenceThreshold && hasDocument:
		return RouteGradeDocument
	case in.Intent == IntentExplanation && in.Confidence > RoutingConfidenceThreshold:
		return RouteExplainTopic
	default:
		return RouteGeneralReply
	}
}

// PipelineState is threaded through one orchestration run. It is owned by a
// single request and never shared.
type PipelineState struct {
	Message  string
	Document []byte
	UserID   string

	Translation *TranslationOutput
	Moderation  *ModerationOutput
	Intent      *IntentOutput

	// Source language code to translate the final reply back into.
	// Empty when the input was English or had no message.
	SourceLanguageCode string

	Parts         []string
	FinalApproved bool
	Warnings      []string
}

func (p *PipelineState) AddPart(part string) { p.Parts = append(p.Parts, part) }
