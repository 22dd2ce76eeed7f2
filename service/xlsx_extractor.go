package service

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/xuri/excelize/v2"
)

type XLSXExtractor struct {
	logger *slog.Logger
}

func NewXLSXExtractor(logger *slog.Logger) *XLSXExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExtractor{logger: logger}
}

// Extract runs every sheet through the ledger row rules. The context of
// each amount is prefixed with its sheet name; the location is the sheet
// row number.
func (e *XLSXExtractor) Extract(ctx context.Context, data []byte) (*dto.Extraction, error) {
	if len(data) == 0 {
		return nil, dto.NewExtractionError(dto.FormatXLSX, "open", errEmptyDocument)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, dto.NewExtractionError(dto.FormatXLSX, "open", err)
	}
	defer f.Close()

	out := &dto.Extraction{}
	for _, sheet := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			out.Skipped++
			out.Warn("sheet %q skipped: %v", sheet, err)
			continue
		}
		out.Amounts = append(out.Amounts, tableAmounts(rows, 1, sheet+": ")...)
	}

	e.logger.Debug("xlsx extracted", "sheets", len(f.GetSheetList()), "amounts", len(out.Amounts))
	return out, nil
}
