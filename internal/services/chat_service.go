package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/cache"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const (
	cachedReplyPrefix    = "[Cached Response] "
	cachedFallbackPrefix = "[Cached Fallback] "

	defaultStageTimeout = 30 * time.Second
)

// ChatService runs the full conversational pipeline: translate the message to
// English, moderate it, classify intent, dispatch to grading or explanation,
// compose the reply and translate it back. Chat never returns an error: every
// failure mode degrades to a fallback response the caller can present.
type ChatService interface {
	Chat(ctx context.Context, req models.ChatRequest) models.ChatResponse
	Process(ctx context.Context, text string) (*models.ProcessResult, error)
}

type chatService struct {
	language    LanguageService
	moderation  ModerationService
	intent      IntentService
	grading     GradingService
	explanation ExplanationService
	cache       *cache.ResponseCache
	timeout     time.Duration
	log         *logrus.Logger
	now         func() time.Time
}

type ChatDeps struct {
	Language    LanguageService
	Moderation  ModerationService
	Intent      IntentService
	Grading     GradingService
	Explanation ExplanationService
	Cache       *cache.ResponseCache
	Timeout     time.Duration
	Log         *logrus.Logger
}

func NewChatService(deps ChatDeps) ChatService {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = defaultStageTimeout
	}
	log := deps.Log
	if log == nil {
		log = logrus.New()
	}
	return &chatService{
		language:    deps.Language,
		moderation:  deps.Moderation,
		intent:      deps.Intent,
		grading:     deps.Grading,
		explanation: deps.Explanation,
		cache:       deps.Cache,
		timeout:     timeout,
		log:         log,
		now:         time.Now,
	}
}

func (s *chatService) Chat(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	message := strings.TrimSpace(req.Message)
	req.Message = message

	if message == "" && !req.HasDocument() {
		return models.ChatResponse{
			Success:     false,
			UserMessage: message,
			Reply:       "Please enter a message or attach a PDF document to process.",
			Error:       "empty input",
			Timestamp:   s.timestamp(),
		}
	}

	// Replay identical message-only requests straight from the cache.
	if message != "" && !req.HasDocument() {
		if p, ok := s.cache.Get(message, false); ok {
			s.log.WithField("user_id", req.UserID).Info("serving cached chat response")
			resp := responseFromPayload(message, p, s.timestamp())
			resp.Reply = cachedReplyPrefix + p.Reply
			resp.Cached = true
			return resp
		}
	}

	resp, err := s.runPipelineSafe(ctx, req)
	if err != nil {
		s.log.WithError(err).WithField("user_id", req.UserID).
			Error("chat pipeline failed, serving fallback")
		return s.fallback(req)
	}

	if message != "" && !req.HasDocument() && resp.FinalApproved {
		s.cache.Put(message, cache.Payload{
			Reply:             resp.Reply,
			TranslationInfo:   resp.TranslationInfo,
			ExplanationResult: resp.ExplanationResult,
			FinalApproved:     resp.FinalApproved,
			Success:           resp.Success,
		}, false)
	}
	return *resp
}

// runPipelineSafe shields the orchestrator from panics in collaborators so a
// bad response body can never take the request down without a fallback.
func (s *chatService) runPipelineSafe(ctx context.Context, req models.ChatRequest) (resp *models.ChatResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = utils.E(utils.CodeWorkflowFailed, "ChatService.Chat", fmt.Sprintf("pipeline panic: %v", r), nil)
		}
	}()
	return s.runPipeline(ctx, req)
}

func (s *chatService) runPipeline(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	state := &models.PipelineState{
		Message:       req.Message,
		Document:      req.Document,
		UserID:        req.UserID,
		FinalApproved: true,
	}
	hasMessage := state.Message != ""

	var (
		gradingResult     *models.GradingResult
		explanationResult *models.ExplanationResult
		shouldGrade       bool
		shouldExplain     bool
	)

	if hasMessage && s.processText(ctx, state) {
		var err error
		shouldGrade, shouldExplain, err = s.moderateAndRoute(ctx, state, req.HasDocument())
		if err != nil {
			return nil, err
		}
	}

	if shouldExplain {
		explanationResult = s.explainTopic(ctx, state)
	}

	if req.HasDocument() && (shouldGrade || !hasMessage) {
		userContext := ""
		if shouldGrade && state.Translation != nil {
			userContext = state.Translation.TranslatedText
		}
		if !hasMessage {
			state.AddPart("Document received. Grading with the default rubric.")
		}
		gradingResult = s.gradeDocument(ctx, state, userContext)
	}

	// A non-English message that produced nothing beyond the translation
	// banner still deserves an acknowledgment before back-translation.
	if hasMessage && state.FinalApproved && !shouldGrade && !shouldExplain &&
		state.SourceLanguageCode != "" && len(state.Parts) == 1 {
		state.AddPart("Thank you for your message. It has been received and processed.")
	}

	reply := composeReply(state.Parts)
	reply = s.translateReplyBack(ctx, state, reply)

	resp := &models.ChatResponse{
		Success:           true,
		UserMessage:       req.Message,
		Reply:             reply,
		GradingResult:     gradingResult,
		ExplanationResult: explanationResult,
		FinalApproved:     state.FinalApproved,
		Timestamp:         s.timestamp(),
	}
	if state.Translation != nil {
		resp.TranslationInfo = &models.TranslationInfo{
			OriginalLanguage:     state.Translation.DetectedLanguage,
			OriginalLanguageCode: state.Translation.DetectedLanguageCode,
			TranslatedText:       state.Translation.TranslatedText,
			Confidence:           state.Translation.Confidence,
		}
	}
	if state.Moderation != nil {
		resp.ModerationInfo = &models.ModerationInfo{
			Approved:          state.Moderation.Approved,
			Confidence:        state.Moderation.Confidence,
			FlaggedCategories: state.Moderation.FlaggedCategories,
			Explanation:       state.Moderation.Explanation,
			SeverityScore:     state.Moderation.SeverityScore,
		}
	}
	return resp, nil
}

// processText runs the translation stage and reports whether the pipeline
// can continue to moderation. A translation failure does not abort the
// pipeline: the reply apologizes and the response is marked unapproved, but
// composition still happens.
func (s *chatService) processText(ctx context.Context, state *models.PipelineState) bool {
	sctx, cancel := s.stageCtx(ctx)
	defer cancel()

	tr, err := s.language.ProcessText(sctx, state.Message)
	if err != nil {
		s.log.WithError(err).Warn("translation stage failed")
		state.AddPart("Sorry, your message could not be processed for translation at this time. Please try again later.")
		state.FinalApproved = false
		state.Warnings = append(state.Warnings, "translation failed: "+utils.Message(err))
		return false
	}

	state.Translation = tr
	if !tr.IsEnglish {
		state.SourceLanguageCode = tr.DetectedLanguageCode
		state.AddPart(fmt.Sprintf(
			"Your message was detected as %s and translated to English for processing.",
			tr.DetectedLanguage))
	}
	return true
}

// moderateAndRoute runs moderation and, when approved, intent classification.
// A moderation transport failure is a pipeline error: without a verdict the
// message cannot be dispatched, so the caller falls back.
func (s *chatService) moderateAndRoute(ctx context.Context, state *models.PipelineState, hasDocument bool) (shouldGrade, shouldExplain bool, err error) {
	mctx, cancel := s.stageCtx(ctx)
	defer cancel()

	mod, err := s.moderation.Moderate(mctx, state.Translation.TranslatedText)
	if err != nil {
		return false, false, err
	}
	state.Moderation = mod

	if !mod.Approved {
		notice := "Your message was flagged by content moderation and cannot be processed."
		if len(mod.FlaggedCategories) > 0 {
			notice += " Flagged categories: " + strings.Join(mod.FlaggedCategories, ", ") + "."
		}
		if mod.Explanation != "" {
			notice += " " + mod.Explanation
		}
		state.AddPart(notice)
		state.FinalApproved = false
		return false, false, nil
	}

	ictx, cancel := s.stageCtx(ctx)
	defer cancel()

	in := s.intent.Classify(ictx, state.Translation.TranslatedText)
	state.Intent = &in

	switch models.RouteFor(in, hasDocument) {
	case models.RouteGradeDocument:
		return true, false, nil
	case models.RouteExplainTopic:
		return false, true, nil
	default:
		if in.Intent == models.IntentGrading && in.Confidence > models.RoutingConfidenceThreshold {
			state.AddPart("It looks like you'd like your work graded. Please attach a PDF document so I can grade it.")
		} else if in.Intent != models.IntentGeneral && in.Confidence > 0 &&
			in.Confidence <= models.RoutingConfidenceThreshold {
			state.AddPart("I'm not entirely sure what you're looking for. Could you clarify whether you'd like an explanation, a grading of your work, or something else?")
		}
		return false, false, nil
	}
}

// explainTopic dispatches to the explanation collaborator. An outage there is
// stage-local: the reply apologizes and the rest of the pipeline proceeds.
func (s *chatService) explainTopic(ctx context.Context, state *models.PipelineState) *models.ExplanationResult {
	ectx, cancel := s.stageCtx(ctx)
	defer cancel()

	explanation, err := s.explanation.Explain(ectx, state.UserID, state.Translation.TranslatedText, true)
	if err != nil {
		s.log.WithError(err).Warn("explanation stage failed")
		state.AddPart("The explanation service is temporarily unavailable. Please try again later.")
		state.Warnings = append(state.Warnings, "explanation failed: "+utils.Message(err))
		return nil
	}
	state.AddPart(explanation)

	result := &models.ExplanationResult{
		Topic:            state.Message,
		Explanation:      explanation,
		IntentConfidence: state.Intent.Confidence,
		Reasoning:        state.Intent.Reasoning,
	}
	// The structured result carries its own back-translated copy so clients
	// that render it standalone show the user's language.
	if state.SourceLanguageCode != "" {
		bctx, cancel := s.stageCtx(ctx)
		defer cancel()
		if translated, err := s.language.TranslateBack(bctx, explanation, state.SourceLanguageCode); err == nil {
			result.Explanation = translated
		} else {
			s.log.WithError(err).Warn("explanation back-translation failed, keeping English")
		}
	}
	return result
}

// gradeDocument dispatches to the grading collaborator. Document problems and
// grader outages are stage-local.
func (s *chatService) gradeDocument(ctx context.Context, state *models.PipelineState, userContext string) *models.GradingResult {
	gctx, cancel := s.stageCtx(ctx)
	defer cancel()

	result, err := s.grading.GradeDocument(gctx, state.Document, userContext)
	if err != nil {
		s.log.WithError(err).Warn("grading stage failed")
		switch {
		case utils.IsCode(err, utils.CodeDocumentInvalid):
			state.AddPart("The attached document is not a valid PDF. Please attach a PDF file and try again.")
		case utils.IsCode(err, utils.CodeDocumentExtraction):
			state.AddPart("The attached PDF could not be read. Please check the file and try again.")
		default:
			state.AddPart("Grading is temporarily unavailable. Please try again later.")
		}
		state.FinalApproved = false
		state.Warnings = append(state.Warnings, "grading failed: "+utils.Message(err))
		return nil
	}

	state.AddPart(fmt.Sprintf("Your grade: %d/%d (%.1f%%) - %s\n\nFeedback: %s",
		result.MarksObtained, result.TotalMarks, result.Percentage, result.Band, result.Feedback))
	return result
}

// translateReplyBack renders the composed reply in the user's language. This
// covers every final text, rejection notices included. Failure keeps the
// English reply rather than losing it.
func (s *chatService) translateReplyBack(ctx context.Context, state *models.PipelineState, reply string) string {
	if state.SourceLanguageCode == "" {
		return reply
	}
	bctx, cancel := s.stageCtx(ctx)
	defer cancel()

	translated, err := s.language.TranslateBack(bctx, reply, state.SourceLanguageCode)
	if err != nil {
		s.log.WithError(err).Warn("reply back-translation failed, keeping English")
		state.Warnings = append(state.Warnings, "back-translation failed: "+utils.Message(err))
		return reply
	}
	return translated
}

// fallback is the degraded path when the pipeline errors out entirely:
// an exact cached response first, then a similarity-based or synthesized
// fallback, and as a last resort a static apology.
func (s *chatService) fallback(req models.ChatRequest) models.ChatResponse {
	if req.Message != "" {
		if p, ok := s.cache.Get(req.Message, req.HasDocument()); ok {
			resp := responseFromPayload(req.Message, p, s.timestamp())
			resp.Reply = cachedFallbackPrefix + p.Reply
			resp.Cached = true
			resp.Fallback = true
			return resp
		}

		p := s.cache.FallbackResponse(req.Message, "service_error")
		resp := responseFromPayload(req.Message, p, s.timestamp())
		resp.Fallback = true
		return resp
	}

	return models.ChatResponse{
		Success:     false,
		UserMessage: req.Message,
		Reply:       "I'm sorry, something went wrong while processing your request. Please try again later.",
		Fallback:    true,
		Error:       "pipeline failure",
		Timestamp:   s.timestamp(),
	}
}

// Process exposes the translation+moderation front of the pipeline on its
// own, returning the full breakdown instead of a composed reply.
func (s *chatService) Process(ctx context.Context, text string) (*models.ProcessResult, error) {
	tctx, cancel := s.stageCtx(ctx)
	defer cancel()

	tr, err := s.language.ProcessText(tctx, text)
	if err != nil {
		return nil, err
	}

	mctx, cancel := s.stageCtx(ctx)
	defer cancel()

	mod, err := s.moderation.Moderate(mctx, tr.TranslatedText)
	if err != nil {
		return nil, err
	}

	return &models.ProcessResult{
		InputText:             strings.TrimSpace(text),
		OriginalLanguage:      tr.DetectedLanguage,
		OriginalLanguageCode:  tr.DetectedLanguageCode,
		TranslationConfidence: tr.Confidence,
		TranslatedText:        tr.TranslatedText,
		IsEnglish:             tr.IsEnglish,
		ModerationApproved:    mod.Approved,
		ModerationConfidence:  mod.Confidence,
		FlaggedCategories:     mod.FlaggedCategories,
		ModerationExplanation: mod.Explanation,
		FinalApproved:         mod.Approved,
	}, nil
}

func (s *chatService) stageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *chatService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func responseFromPayload(message string, p cache.Payload, ts string) models.ChatResponse {
	return models.ChatResponse{
		Success:           p.Success,
		UserMessage:       message,
		Reply:             p.Reply,
		TranslationInfo:   p.TranslationInfo,
		ExplanationResult: p.ExplanationResult,
		FinalApproved:     p.FinalApproved,
		Timestamp:         ts,
	}
}
