package table

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/models"
)

func embeddedChunks() []models.ChunkRecord {
	texts := []struct {
		page int
		text string
	}{
		{0, "Regular care covers GP visits. Prescriptions are included."},
		{0, `Quoted "specialist" fees, capped at $1,000.`},
		{2, "Kiwi care starts on day one."},
	}
	chunks := make([]models.ChunkRecord, len(texts))
	for i, tt := range texts {
		chunks[i] = models.NewChunkRecord(tt.page, tt.text, 1)
		chunks[i].Embedding = []float32{0.125, -1.5, float32(i), 3e-7}
	}
	return chunks
}

func TestFormatAndParseEmbedding(t *testing.T) {
	v := []float32{0.1, -2, 3.25e-5}
	s := FormatEmbedding(v)
	if s != "[0.1 -2 3.25e-05]" {
		t.Fatalf("unexpected format %q", s)
	}
	back, err := ParseEmbedding(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(back, v) {
		t.Fatalf("expected %v, got %v", v, back)
	}
	if empty, err := ParseEmbedding("[]"); err != nil || empty != nil {
		t.Fatalf("expected nil vector for [], got %v, %v", empty, err)
	}
	if _, err := ParseEmbedding("[0.1 abc]"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestWrite_CSVRowsAndHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "chunks.csv")
	chunks := embeddedChunks()

	if err := Write(path, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output not created: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], Columns) {
		t.Fatalf("unexpected header %v", rows[0])
	}
	if rows[3][0] != "2" || rows[3][1] != "Kiwi care starts on day one." {
		t.Fatalf("unexpected last row %v", rows[3])
	}
	if rows[1][2] != "58" || rows[1][3] != "8" || rows[1][4] != "14.5" {
		t.Fatalf("unexpected stats in first row: %v", rows[1][2:5])
	}
	if !strings.HasPrefix(rows[1][5], "[0.125 -1.5 0 ") {
		t.Fatalf("unexpected embedding cell %q", rows[1][5])
	}
}

func TestWriteRead_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.csv")
	chunks := embeddedChunks()

	if err := Write(path, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range chunks {
		chunks[i].SentenceCount = 0 // not persisted
	}
	if !reflect.DeepEqual(got, chunks) {
		t.Fatalf("round trip mismatch:\nwant %+v\n got %+v", chunks, got)
	}
}

func TestWriteRead_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chunks.xlsx")
	chunks := embeddedChunks()

	if err := Write(path, chunks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("expected %d rows, got %d", len(chunks), len(got))
	}
	for i := range chunks {
		if got[i].PageIndex != chunks[i].PageIndex || got[i].Text != chunks[i].Text {
			t.Fatalf("row %d mismatch: %+v", i, got[i])
		}
		if got[i].CharCount != chunks[i].CharCount || got[i].WordCount != chunks[i].WordCount {
			t.Fatalf("row %d stats mismatch: %+v", i, got[i])
		}
		if !reflect.DeepEqual(got[i].Embedding, chunks[i].Embedding) {
			t.Fatalf("row %d embedding mismatch: %v", i, got[i].Embedding)
		}
	}
}

func TestWrite_OverwritesPreviousOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.csv")

	if err := Write(path, embeddedChunks()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Write(path, embeddedChunks()[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected the second run to replace the first, got %d rows", len(got))
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "unsupported format", path: filepath.Join(dir, "chunks.parquet")},
		{name: "parent is a file", path: filepath.Join(blocker, "chunks.csv")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := Write(test.path, embeddedChunks())
			if !errortypes.Is(err, errortypes.Output) {
				t.Fatalf("expected output error, got %v", err)
			}
		})
	}
}

func TestRead_BadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.csv")
	if err := os.WriteFile(path, []byte("a,b,c,d,e,f\n1,2,3,4,5,6\n"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	_, err := Read(path)
	if !errortypes.Is(err, errortypes.Input) {
		t.Fatalf("expected input error, got %v", err)
	}
}
