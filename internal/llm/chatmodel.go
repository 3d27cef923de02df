package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/config"
)

// ChatModel adapts an eino chat model to the TextGenerator contract so any
// supported provider can back the interview generator.
type ChatModel struct {
	chatModel model.ToolCallingChatModel
	provider  string
}

// NewChatModel builds a provider-specific chat model from config. Supported
// providers: openai, claude, gemini.
func NewChatModel(ctx context.Context, provider string, provCfg config.ProviderConfig) (*ChatModel, error) {
	var chatModel model.ToolCallingChatModel
	var err error

	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create genai client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &ChatModel{chatModel: chatModel, provider: provider}, nil
}

// GenerateText runs one blocking generation for the prompt.
func (c *ChatModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.chatModel == nil {
		return "", errors.New("chat model is not initialized")
	}
	resp, err := c.chatModel.Generate(ctx, []*schema.Message{
		{Role: schema.User, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if resp == nil || resp.Content == "" {
		return "", errors.New("chat model returned empty response")
	}
	return resp.Content, nil
}

// Provider reports which provider backs this model.
func (c *ChatModel) Provider() string {
	if c == nil {
		return ""
	}
	return c.provider
}
