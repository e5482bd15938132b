package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	const op = "OpenAI.Complete"

	ccr := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		ccr.Messages = append(ccr.Messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	ccr.Messages = append(ccr.Messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})
	if req.JSONMode {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", utils.E(utils.CodeUnavailable, op, "empty completion response", nil)
	}
	return resp.Choices[0].Message.Content, nil
}
