// Package segmenter splits page text into sentences.
package segmenter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"pdf-embed/internal/errortypes"
	"pdf-embed/internal/models"
)

var errInvalidUTF8 = errors.New("text is not valid UTF-8")

// Segmenter turns a block of text into ordered sentences
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// Sentencizer is a punctuation driven segmenter. Every sentence keeps the
// whitespace that follows it, so joining the output gives back the input.
type Sentencizer struct {
	abbreviations map[string]struct{}
}

var defaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs", "etc", "inc", "ltd", "co",
	"no", "nos", "fig", "approx", "dept", "est", "vol", "pp", "ref", "cf", "al",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
}

func NewSentencizer(extraAbbreviations ...string) *Sentencizer {
	abbr := make(map[string]struct{}, len(defaultAbbreviations)+len(extraAbbreviations))
	for _, a := range defaultAbbreviations {
		abbr[a] = struct{}{}
	}
	for _, a := range extraAbbreviations {
		abbr[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}
	return &Sentencizer{abbreviations: abbr}
}

func (s *Sentencizer) Segment(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, errortypes.NewSegmentation("segment text", errInvalidUTF8)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isTerminal(r) {
			i += size
			continue
		}

		// a single period may belong to an abbreviation, "?!" or "..." never does
		singlePeriod := r == '.'
		end := i + size
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isTerminal(r) {
				break
			}
			singlePeriod = false
			end += size
		}
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isCloser(r) {
				break
			}
			end += size
		}
		next := end
		for next < len(text) {
			r, size := utf8.DecodeRuneInString(text[next:])
			if !unicode.IsSpace(r) {
				break
			}
			next += size
		}

		if next == end || next == len(text) {
			i = end
			continue
		}
		following, _ := utf8.DecodeRuneInString(text[next:])
		if !startsSentence(following) || (singlePeriod && s.isAbbreviation(text[start:i])) {
			i = end
			continue
		}

		sentences = append(sentences, text[start:next])
		start = next
		i = next
	}
	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences, nil
}

// isAbbreviation looks at the word right before a period
func (s *Sentencizer) isAbbreviation(before string) bool {
	word := before
	if idx := strings.LastIndexFunc(before, unicode.IsSpace); idx >= 0 {
		word = before[idx+1:]
	}
	word = strings.TrimLeftFunc(word, isOpener)
	if word == "" {
		return false
	}
	// initials and dotted forms such as "J." or "e.g."
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsLetter(r)
	}
	if strings.Contains(word, ".") {
		return true
	}
	_, ok := s.abbreviations[strings.ToLower(word)]
	return ok
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '’', '”', '»':
		return true
	}
	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '(', '[', '{', '‘', '“', '«':
		return true
	}
	return false
}

func startsSentence(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsDigit(r) || isOpener(r)
}

// SegmentPages fills the sentence list and count of every page in place
func SegmentPages(seg Segmenter, pages []models.PageRecord) error {
	for i := range pages {
		sentences, err := seg.Segment(pages[i].Text)
		if err != nil {
			if errortypes.TypeOf(err) != errortypes.Segmentation {
				err = errortypes.NewSegmentation("", err)
			}
			return errortypes.NewSegmentation(fmt.Sprintf("page %d", pages[i].PageIndex), err).
				WithField("page_index", pages[i].PageIndex)
		}
		pages[i].Sentences = sentences
		pages[i].SentenceCount = len(sentences)
	}
	log.Debug().Int("pages", len(pages)).Msg("Segmented pages")
	return nil
}
