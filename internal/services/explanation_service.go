package services

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/providers/llm"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const maxExplanationTopic = 1000

// Last N turns kept per user (a turn is one user or assistant message).
const historyLimit = 20

const explanationSystemPrompt = `You are an expert educational AI assistant. Your role is to provide clear, comprehensive, and engaging explanations on any topic the user asks about.

Guidelines for your responses:
1. Provide accurate and well-structured explanations
2. Use simple language when possible, but don't oversimplify complex concepts
3. Include examples when helpful
4. Break down complex topics into digestible parts
5. Encourage further learning by suggesting related topics or resources
6. If the topic is very broad, ask for clarification or provide an overview with key subtopics
7. Always maintain an encouraging and supportive tone
8. If you're unsure about something, acknowledge it and provide the best information you can

Remember: Your goal is to help users learn and understand, not just provide answers.`

// ExplanationService answers topic questions, keeping a bounded per-user
// conversation history so follow-up questions have context.
type ExplanationService interface {
	Explain(ctx context.Context, userID, topic string, includeHistory bool) (string, error)
	Healthy() bool
	ClearHistory(userID string)
}

type historyTurn struct {
	role    string
	content string
}

type explanationService struct {
	llm llm.Provider
	log *logrus.Logger

	mu      sync.Mutex
	history map[string][]historyTurn
}

func NewExplanationService(provider llm.Provider, log *logrus.Logger) ExplanationService {
	return &explanationService{
		llm:     provider,
		log:     log,
		history: make(map[string][]historyTurn),
	}
}

func (s *explanationService) Healthy() bool { return s.llm != nil }

func (s *explanationService) Explain(ctx context.Context, userID, topic string, includeHistory bool) (string, error) {
	const op = "ExplanationService.Explain"

	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		return "", utils.E(utils.CodeEmptyInput, op, "topic is empty", nil)
	}
	if len(trimmed) > maxExplanationTopic {
		return "", utils.E(utils.CodeInputTooLong, op, "topic exceeds the maximum length", nil)
	}
	if s.llm == nil {
		return "", utils.E(utils.CodeExplanationDown, op, "explanation provider is not configured", nil)
	}

	user := trimmed
	if includeHistory {
		if prior := s.renderHistory(userID); prior != "" {
			user = "Previous conversation:\n" + prior + "\n\nCurrent question: " + trimmed
		}
	}

	explanation, err := s.llm.Complete(ctx, llm.Request{
		System:      explanationSystemPrompt,
		User:        user,
		Temperature: 0.7,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", utils.E(utils.CodeExplanationDown, op, "explanation generation failed", err)
	}
	explanation = strings.TrimSpace(explanation)

	s.remember(userID, trimmed, explanation)
	return explanation, nil
}

func (s *explanationService) ClearHistory(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, userID)
}

func (s *explanationService) renderHistory(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.history[userID]
	if len(turns) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, t := range turns {
		sb.WriteString(t.role)
		sb.WriteString(": ")
		sb.WriteString(t.content)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (s *explanationService) remember(userID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.history[userID],
		historyTurn{role: "user", content: question},
		historyTurn{role: "assistant", content: answer},
	)
	if len(turns) > historyLimit {
		turns = turns[len(turns)-historyLimit:]
	}
	s.history[userID] = turns
}
