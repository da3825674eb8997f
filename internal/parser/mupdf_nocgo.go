//go:build !cgo

package parser

import "errors"

func openMuPDF(filePath string) (Document, error) {
	return nil, errors.New("mupdf backend requires a cgo build")
}
