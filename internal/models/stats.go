package models

import (
	"strings"
	"unicode/utf8"
)

// The counts below are deliberately approximate and follow fixed formulas:
// words are split on single spaces, tokens are characters/4.

func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// WordCount is len(strings.Split(text, " ")), so "" counts as one word.
func WordCount(text string) int {
	return len(strings.Split(text, " "))
}

// RawSentenceCount is the number of ". "-separated pieces.
func RawSentenceCount(text string) int {
	return len(strings.Split(text, ". "))
}

func TokenCount(text string) float64 {
	return float64(CharCount(text)) / CharsPerToken
}

// NewPageRecord builds a page record and its statistics from formatted text
func NewPageRecord(pageIndex int, text string) PageRecord {
	return PageRecord{
		PageIndex:        pageIndex,
		Text:             text,
		CharCount:        CharCount(text),
		WordCount:        WordCount(text),
		SentenceCountRaw: RawSentenceCount(text),
		TokenCount:       TokenCount(text),
	}
}

// NewChunkRecord builds a chunk record and its statistics from joined text
func NewChunkRecord(pageIndex int, text string, sentenceCount int) ChunkRecord {
	return ChunkRecord{
		PageIndex:     pageIndex,
		Text:          text,
		CharCount:     CharCount(text),
		WordCount:     WordCount(text),
		TokenCount:    TokenCount(text),
		SentenceCount: sentenceCount,
	}
}
