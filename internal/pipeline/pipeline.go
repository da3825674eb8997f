// Package pipeline runs load -> segment -> chunk -> embed -> write over one document.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdf-embed/internal/chunker"
	"pdf-embed/internal/config"
	"pdf-embed/internal/embedding"
	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/helper"
	"pdf-embed/internal/models"
	"pdf-embed/internal/parser"
	"pdf-embed/internal/report"
	"pdf-embed/internal/segmenter"
	"pdf-embed/internal/table"
)

type Pipeline struct {
	cfg       *config.Config
	segmenter segmenter.Segmenter
	embedder  embeddings.Embedder
}

type Result struct {
	RunID      string
	Source     string
	Pages      []models.PageRecord
	Chunks     []models.ChunkRecord
	OutputPath string
	ReportPath string
}

// New validates cfg and wires the stages. embedder may be nil for dry runs.
func New(cfg *config.Config, seg segmenter.Segmenter, embedder embeddings.Embedder) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if seg == nil {
		seg = segmenter.NewSentencizer()
	}
	if embedder == nil && !cfg.Output.DryRun {
		return nil, errortypes.Newf(errortypes.Config, "an embedder is required unless dry_run is set")
	}
	return &Pipeline{cfg: cfg, segmenter: seg, embedder: embedder}, nil
}

// RunFile opens the document at path and runs the pipeline over it
func (p *Pipeline) RunFile(ctx context.Context, path string) (*Result, error) {
	doc, err := parser.Open(path, p.cfg.Input.PDFBackend)
	if err != nil {
		return nil, err
	}
	defer doc.Close()
	return p.run(ctx, doc, path)
}

// Run processes an already opened document
func (p *Pipeline) Run(ctx context.Context, doc parser.Document) (*Result, error) {
	return p.run(ctx, doc, "")
}

func (p *Pipeline) run(ctx context.Context, doc parser.Document, source string) (*Result, error) {
	runID, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	logger := log.With().Str("run_id", runID).Logger()
	res := &Result{RunID: runID, Source: source}

	logger.Info().Str("source", source).Msg("1. Loading the document")
	res.Pages, err = parser.LoadPages(doc)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("pages", len(res.Pages)).Msg("Loaded pages")

	logger.Info().Msg("2. Splitting the text into sentences")
	if err := segmenter.SegmentPages(p.segmenter, res.Pages); err != nil {
		return nil, err
	}

	logger.Info().Int("sentences_per_chunk", p.cfg.Chunking.SentencesPerChunk).Msg("Chunking the text")
	res.Chunks, err = chunker.ChunkPages(res.Pages, p.cfg.Chunking.SentencesPerChunk)
	if err != nil {
		return nil, err
	}
	logSample(logger, res.Chunks)
	logger.Info().Int("chunks", len(res.Chunks)).Msg("Chunked pages")

	if !p.cfg.Output.DryRun {
		logger.Info().Int("batch_size", p.cfg.EmbedLLM.BatchSize).Msg("3. Embedding the chunks of text")
		if err := embedding.EmbedChunks(ctx, p.embedder, res.Chunks, p.cfg.EmbedLLM.Dimensions); err != nil {
			return nil, err
		}

		logger.Info().Str("path", p.cfg.Output.Path).Msg("Saving embeddings to a file")
		if err := table.Write(p.cfg.Output.Path, res.Chunks); err != nil {
			return nil, err
		}
		res.OutputPath = p.cfg.Output.Path
	} else {
		logger.Info().Msg("Dry run, skipping embedding and output")
	}

	if p.cfg.Output.ReportPath != "" {
		if err := report.Write(p.cfg.Output.ReportPath, report.Build(source, res.Pages, res.Chunks)); err != nil {
			return nil, err
		}
		res.ReportPath = p.cfg.Output.ReportPath
		logger.Info().Str("path", res.ReportPath).Msg("Saved report")
	}
	return res, nil
}

func logSample(logger zerolog.Logger, chunks []models.ChunkRecord) {
	if len(chunks) == 0 {
		return
	}
	logger.Debug().Interface("chunk", chunks[0]).Msg("First chunk")
}
