package summarize

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Summarize(ctx context.Context, readme string) (*Summary, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(promptTemplate, readme)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai summarize: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai summarize: empty response")
	}
	return parseOutput(resp.Choices[0].Message.Content), nil
}
