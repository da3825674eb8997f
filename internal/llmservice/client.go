package llmservice

import (
	"context"
	"fmt"
	"strings"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-embed/internal/config"
	"pdf-embed/internal/errortypes"
)

const (
	ProviderOpenAI     = "openai"
	ProviderAzure      = "azure"
	ProviderOllama     = "ollama"
	ProviderCompletion = "completion"
)

// Generator turns a single prompt into text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatGenerator sends prompts to a langchaingo chat model
type ChatGenerator struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
}

func NewChatGenerator(llm llms.Model, maxTokens int, temperature float64) *ChatGenerator {
	return &ChatGenerator{llm: llm, maxTokens: maxTokens, temperature: temperature}
}

func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	log.Debug().Str("prompt", prompt).Msg("Generating content")
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithMaxTokens(g.maxTokens),
		llms.WithTemperature(g.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CompletionGenerator uses the legacy completions endpoint
type CompletionGenerator struct {
	client      oai.Client
	model       string
	maxTokens   int
	temperature float64
}

func NewCompletionGenerator(llmConfig *config.LLMConfig, maxTokens int, temperature float64) *CompletionGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		option.WithMaxRetries(0),
	}
	if llmConfig.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(llmConfig.BaseURL))
	}
	return &CompletionGenerator{
		client:      oai.NewClient(opts...),
		model:       llmConfig.Model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

func (g *CompletionGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	log.Debug().Str("model", g.model).Str("prompt", prompt).Msg("Requesting completion")
	resp, err := g.client.Completions.New(ctx, oai.CompletionNewParams{
		Model:       oai.CompletionNewParamsModel(g.model),
		Prompt:      oai.CompletionNewParamsPromptUnion{OfString: oai.String(prompt)},
		MaxTokens:   oai.Int(int64(g.maxTokens)),
		Temperature: oai.Float(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion: empty response from model %s", g.model)
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

// NewGenerator builds a generator for llmConfig.Provider
func NewGenerator(llmConfig *config.LLMConfig, maxTokens int, temperature float64) (Generator, error) {
	log.Debug().Str("provider", llmConfig.Provider).Str("model", llmConfig.Model).Msg("Creating generator")
	switch strings.ToLower(llmConfig.Provider) {
	case ProviderCompletion:
		return NewCompletionGenerator(llmConfig, maxTokens, temperature), nil
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(llmConfig.Model)}
		if llmConfig.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(llmConfig.BaseURL))
		}
		llm, err := ollama.New(opts...)
		if err != nil {
			return nil, err
		}
		return NewChatGenerator(llm, maxTokens, temperature), nil
	case "", ProviderOpenAI, ProviderAzure:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
			openai.WithModel(llmConfig.Model),
		}
		if llmConfig.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(llmConfig.BaseURL))
		}
		if strings.EqualFold(llmConfig.Provider, ProviderAzure) || strings.EqualFold(llmConfig.APIType, ProviderAzure) {
			opts = append(opts, openai.WithAPIType(openai.APITypeAzure), openai.WithAPIVersion(llmConfig.APIVersion))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, err
		}
		return NewChatGenerator(llm, maxTokens, temperature), nil
	default:
		return nil, errortypes.Newf(errortypes.Config, "unknown llm provider %q", llmConfig.Provider)
	}
}
