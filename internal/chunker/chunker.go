package chunker

import (
	"strings"

	"github.com/rs/zerolog/log"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/models"
)

// SplitList cuts sentences into consecutive runs of size n; the last run may
// be shorter. The runs share the backing array of sentences.
func SplitList(sentences []string, n int) [][]string {
	if n <= 0 || len(sentences) == 0 {
		return nil
	}
	runs := make([][]string, 0, (len(sentences)+n-1)/n)
	for i := 0; i < len(sentences); i += n {
		end := min(i+n, len(sentences))
		runs = append(runs, sentences[i:end])
	}
	return runs
}

// JoinSentences concatenates a run of sentences, collapses doubled spaces
// in a single pass and trims the ends.
func JoinSentences(sentences []string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.Join(sentences, ""), "  ", " "))
}

// ChunkPage turns one page's sentences into chunk records
func ChunkPage(page models.PageRecord, n int) []models.ChunkRecord {
	runs := SplitList(page.Sentences, n)
	chunks := make([]models.ChunkRecord, 0, len(runs))
	for _, run := range runs {
		chunks = append(chunks, models.NewChunkRecord(page.PageIndex, JoinSentences(run), len(run)))
	}
	return chunks
}

// ChunkPages chunks every page separately; chunks never cross a page break
func ChunkPages(pages []models.PageRecord, n int) ([]models.ChunkRecord, error) {
	if n <= 0 {
		return nil, errortypes.Newf(errortypes.Config, "sentences per chunk must be positive, got %d", n)
	}
	var chunks []models.ChunkRecord
	for _, page := range pages {
		chunks = append(chunks, ChunkPage(page, n)...)
	}
	log.Debug().Int("pages", len(pages)).Int("chunks", len(chunks)).Int("sentences_per_chunk", n).Msg("Chunked pages")
	return chunks, nil
}
