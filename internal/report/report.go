// Package report summarises page and chunk statistics of a run.
package report

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/helper"
	"pdf-embed/internal/models"
)

// Summary holds descriptive statistics for one column
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Describe summarises values. Std is the sample standard deviation and is
// NaN for fewer than two values; percentiles interpolate linearly.
func Describe(values []float64) Summary {
	s := Summary{Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(len(sorted))

	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			sq += (v - s.Mean) * (v - s.Mean)
		}
		s.Std = math.Sqrt(sq / float64(len(sorted)-1))
	} else {
		s.Std = math.NaN()
	}

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P25 = percentile(sorted, 0.25)
	s.P50 = percentile(sorted, 0.50)
	s.P75 = percentile(sorted, 0.75)
	return s
}

func percentile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

type column struct {
	name   string
	values []float64
}

// Build renders the markdown report for one run
func Build(source string, pages []models.PageRecord, chunks []models.ChunkRecord) string {
	var b strings.Builder
	b.WriteString("# Chunking report\n\n")
	if source != "" {
		fmt.Fprintf(&b, "Source: `%s`\n\n", source)
	}
	fmt.Fprintf(&b, "- pages: %d\n- chunks: %d\n", len(pages), len(chunks))
	if len(chunks) > 0 && len(chunks[0].Embedding) > 0 {
		fmt.Fprintf(&b, "- embedding dimensions: %d\n", len(chunks[0].Embedding))
	}
	b.WriteString("\n")

	pageCols := []column{
		{name: "page_char_count"},
		{name: "page_word_count"},
		{name: "page_sentence_count_raw"},
		{name: "page_token_count"},
		{name: "page_sentence_count"},
	}
	for _, p := range pages {
		pageCols[0].values = append(pageCols[0].values, float64(p.CharCount))
		pageCols[1].values = append(pageCols[1].values, float64(p.WordCount))
		pageCols[2].values = append(pageCols[2].values, float64(p.SentenceCountRaw))
		pageCols[3].values = append(pageCols[3].values, p.TokenCount)
		pageCols[4].values = append(pageCols[4].values, float64(p.SentenceCount))
	}
	b.WriteString("## Pages\n\n")
	writeTable(&b, pageCols)

	chunkCols := []column{
		{name: "chunk_char_count"},
		{name: "chunk_word_count"},
		{name: "chunk_token_count"},
	}
	for _, c := range chunks {
		chunkCols[0].values = append(chunkCols[0].values, float64(c.CharCount))
		chunkCols[1].values = append(chunkCols[1].values, float64(c.WordCount))
		chunkCols[2].values = append(chunkCols[2].values, c.TokenCount)
	}
	b.WriteString("\n## Chunks\n\n")
	writeTable(&b, chunkCols)
	return b.String()
}

func writeTable(b *strings.Builder, cols []column) {
	summaries := make([]Summary, len(cols))
	b.WriteString("| |")
	for i, col := range cols {
		summaries[i] = Describe(col.values)
		fmt.Fprintf(b, " %s |", col.name)
	}
	b.WriteString("\n|---|")
	for range cols {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	rows := []struct {
		label string
		value func(Summary) float64
	}{
		{"count", func(s Summary) float64 { return float64(s.Count) }},
		{"mean", func(s Summary) float64 { return s.Mean }},
		{"std", func(s Summary) float64 { return s.Std }},
		{"min", func(s Summary) float64 { return s.Min }},
		{"25%", func(s Summary) float64 { return s.P25 }},
		{"50%", func(s Summary) float64 { return s.P50 }},
		{"75%", func(s Summary) float64 { return s.P75 }},
		{"max", func(s Summary) float64 { return s.Max }},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "| %s |", row.label)
		for _, s := range summaries {
			fmt.Fprintf(b, " %s |", formatValue(row.value(s)))
		}
		b.WriteString("\n")
	}
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}

// Write saves the report as markdown, or as HTML when path ends in .html
func Write(path, markdown string) error {
	if err := helper.CreateFolder(filepath.Dir(path)); err != nil {
		return errortypes.NewOutput("create report folder", err).WithField("path", path)
	}

	content := []byte(markdown)
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".html" || ext == ".htm" {
		rendered, err := RenderHTML(markdown)
		if err != nil {
			return errortypes.NewOutput("render report", err).WithField("path", path)
		}
		content = []byte(rendered)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return errortypes.NewOutput("write report", err).WithField("path", path)
	}
	return nil
}

// RenderHTML converts GitHub flavoured markdown to a standalone HTML page
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Chunking report</title></head><body>\n")
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	buf.WriteString("</body></html>\n")
	return buf.String(), nil
}
