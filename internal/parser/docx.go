package parser

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>`)
	textRunRe      = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
)

// docxDocument holds the whole document body as a single page: DOCX has
// no fixed page breaks.
type docxDocument struct {
	text string
}

func openDOCX(filePath string) (*docxDocument, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	return &docxDocument{text: extractTextFromXML(content)}, nil
}

func (d *docxDocument) NumPage() int {
	return 1
}

func (d *docxDocument) PageText(index int) (string, error) {
	if index != 0 {
		return "", fmt.Errorf("page %d out of range", index)
	}
	return d.text, nil
}

func (d *docxDocument) Close() error {
	return nil
}

// extractTextFromXML keeps the <w:t> runs of a document.xml body, one
// line per paragraph.
func extractTextFromXML(xmlContent string) string {
	var text strings.Builder
	for _, paragraph := range paragraphEndRe.Split(xmlContent, -1) {
		var line strings.Builder
		for _, m := range textRunRe.FindAllStringSubmatch(paragraph, -1) {
			line.WriteString(html.UnescapeString(m[1]))
		}
		if strings.TrimSpace(line.String()) == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString("\n")
		}
		text.WriteString(line.String())
	}
	return text.String()
}
