package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-embed/internal/config"
	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/models"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultOpenAIModel = "text-embedding-3-small"
	defaultGeminiModel = "text-embedding-004"
)

// NewEmbedder builds the embedder for the configured provider. Embedders
// holding a connection also implement io.Closer.
func NewEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (embeddings.Embedder, error) {
	log.Debug().Interface("config", map[string]interface{}{
		"provider":   cfg.Provider,
		"base_url":   cfg.BaseURL,
		"model":      cfg.Model,
		"batch_size": cfg.BatchSize,
	}).Msg("Creating embedder")

	var (
		embedder embeddings.Embedder
		err      error
	)
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOllama:
		embedder, err = NewOllamaEmbedder(cfg)
	case ProviderOpenAI:
		embedder, err = NewOpenAIEmbedder(cfg)
	case ProviderGemini:
		embedder, err = NewGeminiEmbedder(ctx, cfg)
	default:
		return nil, errortypes.Newf(errortypes.Config, "unknown embedding provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, errortypes.NewEmbedding("create "+cfg.Provider+" embedder", err)
	}
	return embedder, nil
}

// new ollama embedder
func NewOllamaEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	model := cfg.Model
	if model == "" {
		model = models.DefaultEmbeddingModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm, embeddings.WithBatchSize(batchSize(cfg)))
}

// NewOpenAIEmbedder works against OpenAI, Azure OpenAI and any compatible endpoint
func NewOpenAIEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(model),
		openai.WithEmbeddingModel(model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if strings.EqualFold(cfg.APIType, "azure") {
		opts = append(opts, openai.WithAPIType(openai.APITypeAzure))
		if cfg.APIVersion != "" {
			opts = append(opts, openai.WithAPIVersion(cfg.APIVersion))
		}
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return embeddings.NewEmbedder(llm, embeddings.WithBatchSize(batchSize(cfg)))
}

func batchSize(cfg *config.EmbeddingConfig) int {
	if cfg.BatchSize <= 0 {
		return models.DefaultBatchSize
	}
	return cfg.BatchSize
}

// EmbedChunks embeds every chunk text in one ordered EmbedDocuments call and
// stores the vectors on the chunks. All vectors must share one length; dims,
// when positive, is the length every vector must have.
func EmbedChunks(ctx context.Context, embedder embeddings.Embedder, chunks []models.ChunkRecord, dims int) error {
	if len(chunks) == 0 {
		log.Info().Msg("No chunks to embed")
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return errortypes.NewEmbedding("embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return errortypes.NewEmbedding("", fmt.Errorf("got %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	want := dims
	if want <= 0 {
		want = len(vectors[0])
	}
	for i, vector := range vectors {
		if len(vector) == 0 {
			return errortypes.NewEmbedding("", fmt.Errorf("empty vector for chunk %d", i)).WithField("chunk", i)
		}
		if len(vector) != want {
			return errortypes.NewEmbedding("", fmt.Errorf("vector for chunk %d has %d dimensions, expected %d", i, len(vector), want)).
				WithField("chunk", i)
		}
	}

	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
	log.Debug().Int("chunks", len(chunks)).Int("dimensions", want).Msg("Embedded chunks")
	return nil
}
