package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/services"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message   string `json:"message"`
	Document  []byte `json:"document"` // base64-encoded PDF bytes
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
}

// Chat runs the full pipeline. The response is always 200 with a success
// flag: degraded and rejected outcomes are still deliverable replies.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.Chat", "invalid request body", err))
		return
	}

	resp := h.svc.Chat(c.Request.Context(), models.ChatRequest{
		Message:   req.Message,
		Document:  req.Document,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})

	c.JSON(http.StatusOK, resp)
}
