package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/services"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

type ProcessHandler struct {
	svc services.ChatService
}

func NewProcessHandler(svc services.ChatService) *ProcessHandler {
	return &ProcessHandler{svc: svc}
}

type ProcessRequest struct {
	Text string `json:"text" binding:"required"`
}

type ProcessResponse struct {
	Success          bool                  `json:"success"`
	Result           *models.ProcessResult `json:"result"`
	ProcessingTimeMS int64                 `json:"processing_time_ms"`
	Timestamp        string                `json:"timestamp"`
}

// Process exposes the translation+moderation front of the pipeline without
// composing a reply.
func (h *ProcessHandler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ProcessHandler.Process", "invalid request body", err))
		return
	}

	start := time.Now()
	result, err := h.svc.Process(c.Request.Context(), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{
		Success:          true,
		Result:           result,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	})
}
