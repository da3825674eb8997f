package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"pdf-embed/internal/config"
	"pdf-embed/internal/embedding"
	"pdf-embed/internal/helper"
	"pdf-embed/internal/pipeline"
	"pdf-embed/internal/segmenter"
	"pdf-embed/internal/table"
)

const (
	configFilePath = "./configs/config.yaml"
	inspectRows    = 5
)

func main() {
	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the document file (.pdf, .docx, .txt)")
	outPath := flag.String("out", "", "Output table (.csv or .xlsx), overrides output.path")
	chunkSize := flag.Int("chunk-size", 0, "Sentences per chunk, overrides chunking.sentences_per_chunk")
	dryRun := flag.Bool("dry-run", false, "Dry run, chunk the document but do not embed or save")
	reportPath := flag.String("report", "", "Write a statistics report (.md or .html)")
	inspect := flag.String("inspect", "", "Print the first rows of a saved embeddings table")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		helper.InitLogger("info")
		log.Fatal().Err(err).Msg("Error loading config")
	}
	helper.InitLogger(cfg.LogLevel)

	if *inspect != "" {
		inspectTable(*inspect)
		return
	}

	if *filePath == "" {
		log.Fatal().Msg("Please provide a document file using the -file flag")
	}

	if *outPath != "" {
		cfg.Output.Path = *outPath
	}
	if *chunkSize != 0 {
		cfg.Chunking.SentencesPerChunk = *chunkSize
	}
	if *reportPath != "" {
		cfg.Output.ReportPath = *reportPath
	}
	cfg.Output.DryRun = cfg.Output.DryRun || *dryRun
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
	log.Debug().Interface("config", cfg).Msg("Loaded config")

	embedChunks(context.Background(), cfg, *filePath)
}

func embedChunks(ctx context.Context, cfg *config.Config, filePath string) {
	var embedder embeddings.Embedder
	if !cfg.Output.DryRun {
		var err error
		embedder, err = embedding.NewEmbedder(ctx, &cfg.EmbedLLM)
		if err != nil {
			log.Fatal().Err(err).Msg("Error initializing embedder")
		}
		if closer, ok := embedder.(io.Closer); ok {
			defer closer.Close()
		}
	}

	p, err := pipeline.New(cfg, segmenter.NewSentencizer(), embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing pipeline")
	}

	res, err := p.RunFile(ctx, filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error running pipeline")
	}

	log.Info().
		Str("run_id", res.RunID).
		Int("pages", len(res.Pages)).
		Int("chunks", len(res.Chunks)).
		Str("output", res.OutputPath).
		Str("report", res.ReportPath).
		Msg("Done")
}

func inspectTable(path string) {
	rows, err := table.Read(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading embeddings table")
	}
	log.Info().Int("rows", len(rows)).Msg("Loaded embeddings table")

	head := rows[:min(inspectRows, len(rows))]
	for i := range head {
		fmt.Printf("%d. page %d, %d dims\n", i, head[i].PageIndex, len(head[i].Embedding))
		helper.PrettyPrint(head[i].Text)
	}
}
