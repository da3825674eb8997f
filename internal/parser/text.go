package parser

import (
	"fmt"
	"os"
	"strings"
)

// pageBreak separates pages in plain text exports
const pageBreak = "\f"

type textDocument struct {
	pages []string
}

func openText(filePath string) (*textDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return newTextDocument(string(data)), nil
}

func newTextDocument(content string) *textDocument {
	if content == "" {
		return &textDocument{}
	}
	return &textDocument{pages: strings.Split(content, pageBreak)}
}

func (d *textDocument) NumPage() int {
	return len(d.pages)
}

func (d *textDocument) PageText(index int) (string, error) {
	if index < 0 || index >= len(d.pages) {
		return "", fmt.Errorf("page %d out of range", index)
	}
	return d.pages[index], nil
}

func (d *textDocument) Close() error {
	return nil
}
