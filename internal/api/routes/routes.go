package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/api/handlers"
)

type Deps struct {
	Chat    *handlers.ChatHandler
	Process *handlers.ProcessHandler
	Explain *handlers.ExplainHandler
	Quiz    *handlers.QuizHandler
	Status  *handlers.StatusHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/", d.Status.Root)
	r.GET("/status", d.Status.Status)
	r.GET("/health", d.Status.Health)
	r.POST("/cache/clear", d.Status.ClearCache)

	r.POST("/chat", d.Chat.Chat)
	r.POST("/process", d.Process.Process)

	r.POST("/explain", d.Explain.Explain)
	r.POST("/explain/history/clear", d.Explain.ClearHistory)

	r.POST("/quiz/generate", d.Quiz.Generate)
	r.GET("/quiz/requirements", d.Quiz.Requirements)
}
