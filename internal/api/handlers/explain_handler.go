package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/services"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

type ExplainHandler struct {
	svc services.ExplanationService
}

func NewExplainHandler(svc services.ExplanationService) *ExplainHandler {
	return &ExplainHandler{svc: svc}
}

type ExplainRequest struct {
	Topic          string `json:"topic" binding:"required"`
	UserID         string `json:"user_id"`
	IncludeHistory *bool  `json:"include_history"`
}

type ExplainResponse struct {
	Success     bool   `json:"success"`
	Topic       string `json:"topic"`
	Explanation string `json:"explanation,omitempty"`
	Error       string `json:"error,omitempty"`
	Timestamp   string `json:"timestamp"`
}

// Explain answers a standalone topic question. Validation problems are
// errors; a generation outage is reported as an unsuccessful 200 so clients
// can surface the message inline.
func (h *ExplainHandler) Explain(c *gin.Context) {
	var req ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ExplainHandler.Explain", "invalid request body", err))
		return
	}

	includeHistory := true
	if req.IncludeHistory != nil {
		includeHistory = *req.IncludeHistory
	}

	explanation, err := h.svc.Explain(c.Request.Context(), req.UserID, req.Topic, includeHistory)
	if err != nil {
		if utils.IsCode(err, utils.CodeEmptyInput) || utils.IsCode(err, utils.CodeInputTooLong) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, ExplainResponse{
			Success:   false,
			Topic:     req.Topic,
			Error:     utils.Message(err),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, ExplainResponse{
		Success:     true,
		Topic:       req.Topic,
		Explanation: explanation,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ClearHistory drops the stored conversation turns for a user.
func (h *ExplainHandler) ClearHistory(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ExplainHandler.ClearHistory", "invalid request body", err))
		return
	}

	h.svc.ClearHistory(req.UserID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
