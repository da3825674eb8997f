package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"pdf-embed/internal/models"
)

const sheetName = "Sheet1"

// writeXLSX keeps counts numeric so the sheet can be filtered and summed
func writeXLSX(w io.Writer, chunks []models.ChunkRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, chunk := range chunks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			chunk.PageIndex,
			chunk.Text,
			chunk.CharCount,
			chunk.WordCount,
			chunk.TokenCount,
			FormatEmbedding(chunk.Embedding),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return f.Write(w)
}

func readXLSX(path string) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, err
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var rows [][]string
	for _, row := range f.Sheets[0].Rows {
		if row == nil {
			continue
		}
		values := make([]string, 0, len(row.Cells))
		empty := true
		for _, cell := range row.Cells {
			v := cell.String()
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			values = append(values, v)
		}
		if empty {
			continue
		}
		rows = append(rows, values)
	}
	return rows, nil
}
