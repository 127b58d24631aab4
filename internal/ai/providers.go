package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"echoboard/internal/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// openAIGenerator covers OpenAI and every OpenAI compatible endpoint.
type openAIGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func newOpenAI(cfg config.AIConfig) *openAIGenerator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &openAIGenerator{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     modelOr(cfg, openai.GPT4oMini),
		maxTokens: cfg.MaxTokens,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", errorf("OpenAI", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropic(cfg config.AIConfig) *anthropicGenerator {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}
	return &anthropicGenerator{
		client:    anthropic.NewClient(opts...),
		model:     modelOr(cfg, "claude-sonnet-4-20250514"),
		maxTokens: maxTokens,
	}
}

func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", errorf("Anthropic", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	return content.String(), nil
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func newGemini(cfg config.AIConfig) (*geminiGenerator, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini client error: %w", err)
	}
	return &geminiGenerator{client: client, model: modelOr(cfg, "gemini-2.5-flash")}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", errorf("Gemini", err)
	}
	return resp.Text(), nil
}

type ollamaGenerator struct {
	client *api.Client
	model  string
}

func newOllama(cfg config.AIConfig) (*ollamaGenerator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	return &ollamaGenerator{
		client: api.NewClient(u, http.DefaultClient),
		model:  modelOr(cfg, "llama3"),
	}, nil
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var content strings.Builder
	err := g.client.Chat(ctx, &api.ChatRequest{
		Model: g.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", errorf("Ollama", err)
	}
	return content.String(), nil
}
