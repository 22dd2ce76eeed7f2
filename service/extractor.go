package service

import (
	"context"
	"strings"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/Aashish23092/taxease-analyzer/utils"
)

// Extractor turns the raw bytes of one document into candidate amounts.
// Row and line level problems are tallied in Extraction.Skipped; a returned
// error means the document as a whole could not be read.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*dto.Extraction, error)
}

const contextSeparator = " | "

// tableAmounts applies the ledger rules shared by CSV and XLSX: the first
// row is a header when none of its cells is numeric, and every numeric cell
// becomes one amount whose context is the rest of the row.
// firstRow is the 1-based row number of rows[0].
func tableAmounts(rows [][]string, firstRow int, prefix string) []dto.ExtractedAmount {
	var out []dto.ExtractedAmount
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		out = append(out, rowAmounts(row, firstRow+i, prefix)...)
	}
	return out
}

func rowAmounts(row []string, rowNo int, prefix string) []dto.ExtractedAmount {
	var out []dto.ExtractedAmount
	for col, cell := range row {
		value, ok := utils.ParseAmount(cell)
		if !ok {
			continue
		}
		out = append(out, dto.ExtractedAmount{
			Value:          value,
			Raw:            strings.TrimSpace(cell),
			SourceContext:  prefix + rowContext(row, col),
			SourceLocation: dto.Row(rowNo),
		})
	}
	return out
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if _, ok := utils.ParseAmount(cell); ok {
			return false
		}
	}
	return true
}

func rowContext(row []string, skip int) string {
	parts := make([]string, 0, len(row))
	for i, cell := range row {
		if i == skip {
			continue
		}
		if c := strings.TrimSpace(cell); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, contextSeparator)
}

func textAmounts(text string, location func(lineNo int) *dto.SourceLocation) []dto.ExtractedAmount {
	matches := utils.ScanAmounts(text)
	out := make([]dto.ExtractedAmount, 0, len(matches))
	for _, m := range matches {
		out = append(out, dto.ExtractedAmount{
			Value:          m.Value,
			Raw:            m.Raw,
			SourceContext:  m.Line,
			SourceLocation: location(m.LineNo),
		})
	}
	return out
}
