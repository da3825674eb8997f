package pipeline

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pdf-embed/internal/config"
	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/parser/parsertest"
	"pdf-embed/internal/table"
)

type pagesDocument []string

func (d pagesDocument) NumPage() int                       { return len(d) }
func (d pagesDocument) PageText(index int) (string, error) { return d[index], nil }
func (d pagesDocument) Close() error                       { return nil }

// hashEmbedder gives the same vector for the same text
type hashEmbedder struct {
	dims  int
	calls int
	err   error
}

func (e *hashEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		hash := md5.Sum([]byte(text))
		v := make([]float32, e.dims)
		for d := range v {
			idx := (d * 4) % len(hash)
			seed := binary.LittleEndian.Uint32(append(hash[idx:], hash[:4]...))
			v[d] = float32(seed%1000)/500.0 - 1.0
		}
		out[i] = v
	}
	return out, nil
}

func (e *hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	v, err := e.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func numbered(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("This is sentence %d.", i+1)
	}
	return strings.Join(parts, "\n")
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Path = filepath.Join(t.TempDir(), "embeddings", "chunks.csv")
	cfg.EmbedLLM.Dimensions = 0
	return cfg
}

func TestRun_TwelveSentencesMakeTwoChunks(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, nil, &hashEmbedder{dims: 768})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := p.Run(context.Background(), pagesDocument{numbered(12)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(res.Chunks))
	}

	first := strings.Fields(numbered(10))
	if res.Chunks[0].Text != strings.Join(first, " ") {
		t.Fatalf("unexpected first chunk %q", res.Chunks[0].Text)
	}
	if res.Chunks[1].Text != "This is sentence 11. This is sentence 12." {
		t.Fatalf("unexpected second chunk %q", res.Chunks[1].Text)
	}
	for _, c := range res.Chunks {
		if c.PageIndex != 0 {
			t.Fatalf("expected page index 0, got %d", c.PageIndex)
		}
	}
	if res.OutputPath != cfg.Output.Path || res.RunID == "" {
		t.Fatalf("unexpected result metadata %+v", res)
	}
}

func TestRun_EmptyFirstPage(t *testing.T) {
	p, err := New(testConfig(t), nil, &hashEmbedder{dims: 768})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := p.Run(context.Background(), pagesDocument{"", numbered(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(res.Pages))
	}
	if len(res.Chunks) != 1 || res.Chunks[0].PageIndex != 1 {
		t.Fatalf("expected a single chunk on page 1, got %+v", res.Chunks)
	}
}

func TestRun_OutputTable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Chunking.SentencesPerChunk = 2
	p, err := New(cfg, nil, &hashEmbedder{dims: 768})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 + 2 sentences with chunks of 2 -> 2 + 1 chunks
	if _, err := p.Run(context.Background(), pagesDocument{numbered(3), numbered(2)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := table.Read(cfg.Output.Path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row.Embedding) != 768 {
			t.Fatalf("row %d: expected 768 dims, got %d", i, len(row.Embedding))
		}
	}
	if rows[0].PageIndex != 0 || rows[1].PageIndex != 0 || rows[2].PageIndex != 1 {
		t.Fatalf("unexpected page indices %d %d %d", rows[0].PageIndex, rows[1].PageIndex, rows[2].PageIndex)
	}
}

func TestRun_Idempotent(t *testing.T) {
	cfg := testConfig(t)
	doc := pagesDocument{numbered(14), "", "Short page. With two sentences."}

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		p, err := New(cfg, nil, &hashEmbedder{dims: 16})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := p.Run(context.Background(), doc); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		data, err := os.ReadFile(cfg.Output.Path)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
		outputs = append(outputs, data)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Fatalf("expected identical output for identical runs")
	}
}

func TestRun_EmbeddingFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	p, err := New(cfg, nil, &hashEmbedder{dims: 8, err: errors.New("out of memory")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = p.Run(context.Background(), pagesDocument{numbered(3)})
	if !errortypes.Is(err, errortypes.Embedding) {
		t.Fatalf("expected embedding error, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Output.Path); !os.IsNotExist(statErr) {
		t.Fatalf("expected no output file after a failed run")
	}
}

func TestRun_DimensionMismatch(t *testing.T) {
	cfg := testConfig(t)
	cfg.EmbedLLM.Dimensions = 768
	p, err := New(cfg, nil, &hashEmbedder{dims: 384})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Run(context.Background(), pagesDocument{numbered(3)}); !errortypes.Is(err, errortypes.Embedding) {
		t.Fatalf("expected embedding error, got %v", err)
	}
}

func TestRun_DryRunWithReport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.DryRun = true
	cfg.Output.ReportPath = filepath.Join(t.TempDir(), "report.md")

	p, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.Run(context.Background(), pagesDocument{numbered(4)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Chunks) != 1 || res.Chunks[0].Embedding != nil {
		t.Fatalf("expected one unembedded chunk, got %+v", res.Chunks)
	}
	if res.OutputPath != "" {
		t.Fatalf("dry run must not write output")
	}
	if _, err := os.Stat(cfg.Output.Path); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create %s", cfg.Output.Path)
	}
	md, err := os.ReadFile(cfg.Output.ReportPath)
	if err != nil || !strings.Contains(string(md), "- chunks: 1") {
		t.Fatalf("expected a report, got %q (%v)", md, err)
	}
}

func TestNew_RequiresEmbedder(t *testing.T) {
	if _, err := New(testConfig(t), nil, nil); !errortypes.Is(err, errortypes.Config) {
		t.Fatalf("expected config error, got %v", err)
	}
	cfg := testConfig(t)
	cfg.Chunking.SentencesPerChunk = 0
	if _, err := New(cfg, nil, &hashEmbedder{dims: 4}); !errortypes.Is(err, errortypes.Config) {
		t.Fatalf("expected config error for chunk size 0, got %v", err)
	}
}

func TestRunFile_TextDocument(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Path = filepath.Join(t.TempDir(), "out.xlsx")
	src := filepath.Join(t.TempDir(), "policy.txt")
	if err := os.WriteFile(src, []byte(numbered(12)+"\f"+numbered(5)), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	embedder := &hashEmbedder{dims: 32}
	p, err := New(cfg, nil, embedder)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.RunFile(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Source != src || len(res.Chunks) != 3 {
		t.Fatalf("expected 3 chunks from %s, got %d", src, len(res.Chunks))
	}
	if embedder.calls != 1 {
		t.Fatalf("expected a single ordered embedding call, got %d", embedder.calls)
	}
	rows, err := table.Read(cfg.Output.Path)
	if err != nil || len(rows) != 3 {
		t.Fatalf("expected 3 rows in xlsx output, got %d (%v)", len(rows), err)
	}
}

func TestRunFile_MissingInput(t *testing.T) {
	p, err := New(testConfig(t), nil, &hashEmbedder{dims: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = p.RunFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	if !errortypes.Is(err, errortypes.Input) {
		t.Fatalf("expected input error, got %v", err)
	}
}

func TestRunFile_PDFEmptyFirstPage(t *testing.T) {
	cfg := testConfig(t)
	src := parsertest.WritePDF(t, t.TempDir(), "plan.pdf", "", "One. Two. Three. Four. Five.")

	p, err := New(cfg, nil, &hashEmbedder{dims: 768})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.RunFile(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Pages) != 2 || res.Pages[0].Text != "" {
		t.Fatalf("expected 2 pages with an empty first page, got %+v", res.Pages)
	}
	if len(res.Chunks) != 1 || res.Chunks[0].PageIndex != 1 {
		t.Fatalf("expected a single chunk on page 1, got %+v", res.Chunks)
	}
	if res.Chunks[0].Text != "One. Two. Three. Four. Five." {
		t.Fatalf("unexpected chunk text %q", res.Chunks[0].Text)
	}

	rows, err := table.Read(cfg.Output.Path)
	if err != nil || len(rows) != 1 || rows[0].PageIndex != 1 || len(rows[0].Embedding) != 768 {
		t.Fatalf("expected one 768-dim row for page 1, got %+v (%v)", rows, err)
	}
}
