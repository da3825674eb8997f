package table

import (
	"encoding/csv"
	"io"
	"os"

	"pdf-embed/internal/models"
)

func writeCSV(w io.Writer, chunks []models.ChunkRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, chunk := range chunks {
		if err := cw.Write(toRow(chunk)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csv.NewReader(f).ReadAll()
}
