package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/config"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/api/handlers"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/api/middleware"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/api/routes"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/cache"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/logger"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/pdfextract"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/forms"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/translate"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New()
	ctx := context.Background()

	// Collaborators come up independently. A missing credential degrades
	// that feature instead of failing startup; /status reports the map.
	serviceStatus := map[string]string{}

	var translator translate.Provider
	if cfg.GoogleCredentials == "" {
		serviceStatus["translation"] = "missing_credentials"
		log.Warn("GOOGLE_APPLICATION_CREDENTIALS not set, translation disabled")
	} else if gt, err := translate.NewGoogleTranslate(ctx); err != nil {
		serviceStatus["translation"] = "error"
		log.WithError(err).Error("translation client init failed")
	} else {
		translator = gt
		serviceStatus["translation"] = "healthy"
	}

	llmProvider, llmStatus := buildLLM(ctx, cfg, log)
	serviceStatus["llm"] = llmStatus
	serviceStatus["moderation"] = llmStatus
	serviceStatus["intent"] = llmStatus
	serviceStatus["grading"] = llmStatus
	serviceStatus["explanation"] = llmStatus

	var formsBuilder forms.Builder
	if cfg.FormsCredentials == "" {
		serviceStatus["quiz_forms"] = "missing_credentials"
		log.Warn("no Google Forms credentials, quiz generation disabled")
	} else if gf, err := forms.NewGoogleForms(ctx, cfg.FormsCredentials); err != nil {
		serviceStatus["quiz_forms"] = "error"
		log.WithError(err).Error("forms client init failed")
	} else {
		formsBuilder = gf
		serviceStatus["quiz_forms"] = "healthy"
	}

	respCache := cache.New(cfg.CacheMaxEntries, cfg.CacheTTL, log)
	extractor := pdfextract.NewPDFExtractor()

	languageSvc := services.NewLanguageService(translator, log)
	moderationSvc := services.NewModerationService(llmProvider, log)
	intentSvc := services.NewIntentService(llmProvider, log)
	gradingSvc := services.NewGradingService(llmProvider, extractor, log)
	explanationSvc := services.NewExplanationService(llmProvider, log)
	quizSvc := services.NewQuizService(llmProvider, formsBuilder, log)

	chatSvc := services.NewChatService(services.ChatDeps{
		Language:    languageSvc,
		Moderation:  moderationSvc,
		Intent:      intentSvc,
		Grading:     gradingSvc,
		Explanation: explanationSvc,
		Cache:       respCache,
		Timeout:     cfg.CollaboratorTimeout,
		Log:         log,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	routes.RegisterRoutes(r, routes.Deps{
		Chat:    handlers.NewChatHandler(chatSvc),
		Process: handlers.NewProcessHandler(chatSvc),
		Explain: handlers.NewExplainHandler(explanationSvc),
		Quiz:    handlers.NewQuizHandler(quizSvc),
		Status:  handlers.NewStatusHandler(serviceStatus, respCache),
	})

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

func buildLLM(ctx context.Context, cfg *config.Config, log *logrus.Logger) (llm.Provider, string) {
	switch cfg.LLMProvider {
	case "vertex":
		if cfg.VertexProject == "" {
			log.Warn("VERTEX_PROJECT_ID not set, LLM features disabled")
			return nil, "missing_credentials"
		}
		provider, err := llm.NewVertexGemini(ctx, cfg.VertexProject, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			log.WithError(err).Error("vertex client init failed")
			return nil, "error"
		}
		return provider, "healthy"
	default:
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, LLM features disabled")
			return nil, "missing_credentials"
		}
		return llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel), "healthy"
	}
}
