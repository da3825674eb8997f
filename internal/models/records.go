package models

// PageRecord is one page of the source document after text formatting.
type PageRecord struct {
	PageIndex        int      `json:"page_index"`
	Text             string   `json:"text"`
	CharCount        int      `json:"page_char_count"`
	WordCount        int      `json:"page_word_count"`
	SentenceCountRaw int      `json:"page_sentence_count_raw"`
	TokenCount       float64  `json:"page_token_count"`
	Sentences        []string `json:"sentences,omitempty"`
	SentenceCount    int      `json:"page_sentence_count"`
}

// ChunkRecord is a run of consecutive sentences from a single page.
// PageIndex refers back to the PageRecord the sentences came from.
type ChunkRecord struct {
	PageIndex     int       `json:"page_index"`
	Text          string    `json:"sentence_chunk"`
	CharCount     int       `json:"chunk_char_count"`
	WordCount     int       `json:"chunk_word_count"`
	TokenCount    float64   `json:"chunk_token_count"`
	SentenceCount int       `json:"-"`
	Embedding     []float32 `json:"embedding,omitempty"`
}
