// Package table persists chunk records as one row per chunk.
package table

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/helper"
	"pdf-embed/internal/models"
)

var Columns = []string{
	"page_index",
	"sentence_chunk",
	"chunk_char_count",
	"chunk_word_count",
	"chunk_token_count",
	"embedding",
}

const (
	formatCSV  = ".csv"
	formatXLSX = ".xlsx"
)

type encoder func(w io.Writer, chunks []models.ChunkRecord) error

// Write replaces the file at path with one row per chunk. The format comes
// from the extension (.csv or .xlsx). Missing directories are created and
// the file only appears once it is complete.
func Write(path string, chunks []models.ChunkRecord) error {
	var encode encoder
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case formatCSV:
		encode = writeCSV
	case formatXLSX:
		encode = writeXLSX
	default:
		return errortypes.Newf(errortypes.Output, "unsupported output format %q", ext)
	}

	dir := filepath.Dir(path)
	if err := helper.CreateFolder(dir); err != nil {
		return errortypes.NewOutput("create output folder", err).WithField("path", dir)
	}

	if err := writeAtomic(path, func(w io.Writer) error { return encode(w, chunks) }); err != nil {
		return errortypes.NewOutput("write "+path, err).WithField("path", path)
	}
	log.Info().Str("path", path).Int("rows", len(chunks)).Msg("Saved chunk table")
	return nil
}

func writeAtomic(path string, fill func(io.Writer) error) (err error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+base+"-*"+ext)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Read loads a table written by Write
func Read(path string) ([]models.ChunkRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case formatCSV:
		rows, err = readCSV(path)
	case formatXLSX:
		rows, err = readXLSX(path)
	default:
		return nil, errortypes.Newf(errortypes.Input, "unsupported table format %q", ext)
	}
	if err != nil {
		return nil, errortypes.NewInput("read "+path, err).WithField("path", path)
	}
	if len(rows) == 0 {
		return nil, errortypes.Newf(errortypes.Input, "%s has no header row", path)
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, errortypes.NewInput("read "+path, err).WithField("path", path)
	}

	chunks := make([]models.ChunkRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		chunk, err := parseRow(row)
		if err != nil {
			return nil, errortypes.NewInput(fmt.Sprintf("row %d", i+1), err).WithField("path", path)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

func checkHeader(header []string) error {
	if len(header) < len(Columns) {
		return fmt.Errorf("expected %d columns, got %d", len(Columns), len(header))
	}
	for i, col := range Columns {
		if strings.TrimSpace(header[i]) != col {
			return fmt.Errorf("column %d: expected %q, got %q", i, col, header[i])
		}
	}
	return nil
}

func toRow(chunk models.ChunkRecord) []string {
	return []string{
		strconv.Itoa(chunk.PageIndex),
		chunk.Text,
		strconv.Itoa(chunk.CharCount),
		strconv.Itoa(chunk.WordCount),
		strconv.FormatFloat(chunk.TokenCount, 'f', -1, 64),
		FormatEmbedding(chunk.Embedding),
	}
}

func parseRow(row []string) (models.ChunkRecord, error) {
	var chunk models.ChunkRecord
	if len(row) < len(Columns) {
		return chunk, fmt.Errorf("expected %d fields, got %d", len(Columns), len(row))
	}
	var err error
	if chunk.PageIndex, err = strconv.Atoi(row[0]); err != nil {
		return chunk, fmt.Errorf("page_index: %w", err)
	}
	chunk.Text = row[1]
	if chunk.CharCount, err = strconv.Atoi(row[2]); err != nil {
		return chunk, fmt.Errorf("chunk_char_count: %w", err)
	}
	if chunk.WordCount, err = strconv.Atoi(row[3]); err != nil {
		return chunk, fmt.Errorf("chunk_word_count: %w", err)
	}
	if chunk.TokenCount, err = strconv.ParseFloat(row[4], 64); err != nil {
		return chunk, fmt.Errorf("chunk_token_count: %w", err)
	}
	if chunk.Embedding, err = ParseEmbedding(row[5]); err != nil {
		return chunk, fmt.Errorf("embedding: %w", err)
	}
	return chunk, nil
}

// FormatEmbedding renders a vector as "[v1 v2 ...]"
func FormatEmbedding(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// ParseEmbedding reverses FormatEmbedding. "[]" and "" give a nil vector.
func ParseEmbedding(s string) ([]float32, error) {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(s), "[]"))
	if len(fields) == 0 {
		return nil, nil
	}
	vector := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		vector[i] = float32(v)
	}
	return vector, nil
}
