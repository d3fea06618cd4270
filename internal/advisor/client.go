package advisor

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// CompletionRequest is one structured-output chat completion.
type CompletionRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     map[string]any
}

// LLMClient returns the raw JSON content of the model's reply.
type LLMClient interface {
	CompleteJSON(ctx context.Context, req CompletionRequest) (string, error)
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type openAIClient struct {
	client openai.Client
	model  string
}

// NewOpenAIClient returns nil when no API key is configured.
func NewOpenAIClient(cfg OpenAIConfig) LLMClient {
	if cfg.APIKey == "" {
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIClient{client: openai.NewClient(opts...), model: cfg.Model}
}

func (c *openAIClient) CompleteJSON(ctx context.Context, req CompletionRequest) (string, error) {
	chat, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   req.SchemaName,
					Schema: req.Schema,
					Strict: openai.Bool(true),
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	msg := chat.Choices[0].Message
	if msg.Refusal != "" {
		return "", errors.New("model refused: " + msg.Refusal)
	}
	return msg.Content, nil
}
