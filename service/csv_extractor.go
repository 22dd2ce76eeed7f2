package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Aashish23092/taxease-analyzer/dto"
)

var (
	errEmptyDocument = errors.New("document is empty")
	errNoRecords     = errors.New("no readable records")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVExtractor struct {
	logger *slog.Logger
}

func NewCSVExtractor(logger *slog.Logger) *CSVExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExtractor{logger: logger}
}

// Extract emits one amount per numeric cell. Records the CSV reader rejects
// (bad quoting) are skipped and counted. Rows may have any number of fields.
func (e *CSVExtractor) Extract(ctx context.Context, data []byte) (*dto.Extraction, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, dto.NewExtractionError(dto.FormatCSV, "read", errEmptyDocument)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	out := &dto.Extraction{}
	rowNo, read := 0, 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNo++

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, dto.NewExtractionError(dto.FormatCSV, "read", err)
			}
			out.Skipped++
			out.Warn("row %d skipped: %v", rowNo, parseErr.Err)
			continue
		}

		read++
		if rowNo == 1 && isHeaderRow(record) {
			continue
		}
		out.Amounts = append(out.Amounts, rowAmounts(record, rowNo, "")...)
	}

	if read == 0 {
		return nil, dto.NewExtractionError(dto.FormatCSV, "read", fmt.Errorf("%w (%d rejected)", errNoRecords, out.Skipped))
	}

	e.logger.Debug("csv extracted", "rows", rowNo, "amounts", len(out.Amounts), "skipped", out.Skipped)
	return out, nil
}
