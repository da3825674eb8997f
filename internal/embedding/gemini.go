package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/tmc/langchaingo/embeddings"
	"google.golang.org/api/option"

	"pdf-embed/internal/config"
)

// GeminiEmbedder adapts a Gemini embedding model to embeddings.Embedder
type GeminiEmbedder struct {
	client    *genai.Client
	model     *genai.EmbeddingModel
	batchSize int
	// embedBatch sends one batch; set to the model's BatchEmbedContents by default
	embedBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

var _ embeddings.Embedder = (*GeminiEmbedder)(nil)

func NewGeminiEmbedder(ctx context.Context, cfg *config.EmbeddingConfig) (*GeminiEmbedder, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.Key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	name := cfg.Model
	if name == "" {
		name = defaultGeminiModel
	}
	model := client.EmbeddingModel(name)
	model.TaskType = genai.TaskTypeRetrievalDocument

	e := &GeminiEmbedder{client: client, model: model, batchSize: batchSize(cfg)}
	e.embedBatch = e.batchEmbedContents
	return e, nil
}

// EmbedDocuments sends texts in batches of batchSize and keeps their order
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for _, batchTexts := range embeddings.BatchTexts(texts, e.batchSize) {
		batch, err := e.embedBatch(ctx, batchTexts)
		if err != nil {
			return nil, err
		}
		if len(batch) != len(batchTexts) {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d texts", len(batch), len(batchTexts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *GeminiEmbedder) batchEmbedContents(ctx context.Context, texts []string) ([][]float32, error) {
	batch := e.model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}
	res, err := e.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	vectors := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}

func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("gemini returned no embedding")
	}
	return res.Embedding.Values, nil
}

func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
