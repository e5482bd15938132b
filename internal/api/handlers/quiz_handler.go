package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/services"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

type QuizHandler struct {
	svc services.QuizService
}

func NewQuizHandler(svc services.QuizService) *QuizHandler {
	return &QuizHandler{svc: svc}
}

type GenerateQuizRequest struct {
	Topic      string `json:"topic" binding:"required"`
	Difficulty string `json:"difficulty" binding:"required"`
}

type GenerateQuizResponse struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Quiz      models.QuizInfo `json:"quiz"`
	Timestamp string          `json:"timestamp"`
}

func (h *QuizHandler) Generate(c *gin.Context) {
	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "QuizHandler.Generate", "invalid request body", err))
		return
	}

	out, err := h.svc.Generate(c.Request.Context(), req.Topic, req.Difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, GenerateQuizResponse{
		Success:   true,
		Message:   out.Message,
		Quiz:      out.Info,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *QuizHandler) Requirements(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Requirements())
}
