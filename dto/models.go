package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type DocumentFormat string

const (
	FormatCSV         DocumentFormat = "csv"
	FormatXLSX        DocumentFormat = "xlsx"
	FormatPDF         DocumentFormat = "pdf"
	FormatImage       DocumentFormat = "image"
	FormatUnsupported DocumentFormat = "unsupported"
)

// Document is a single uploaded file. It lives only for the request that
// carried it and is never written anywhere.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

type LocationKind string

const (
	LocationRow  LocationKind = "row"
	LocationPage LocationKind = "page"
	LocationLine LocationKind = "line"
	LocationQR   LocationKind = "qr"
)

// SourceLocation points back into the document: a CSV/XLSX row, a PDF page,
// an OCR line or a decoded QR payload.
type SourceLocation struct {
	Kind  LocationKind `json:"kind"`
	Index int          `json:"index"`
}

type ExtractedAmount struct {
	Value          decimal.Decimal `json:"value"`
	Raw            string          `json:"raw"`
	SourceContext  string          `json:"source_context"`
	SourceLocation *SourceLocation `json:"source_location,omitempty"`
}

type FlaggedResult struct {
	Amount    ExtractedAmount `json:"amount"`
	Flagged   bool            `json:"flagged"`
	Threshold decimal.Decimal `json:"threshold"`
}

// Extraction is what an extractor hands to the flagging stage.
// Skipped counts rows or lines that could not be read.
type Extraction struct {
	Amounts  []ExtractedAmount
	Skipped  int
	Warnings []string
}

// MaxWarnings bounds the warnings kept for one document.
const MaxWarnings = 50

func (e *Extraction) Warn(format string, args ...any) {
	if len(e.Warnings) >= MaxWarnings {
		return
	}
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

func Row(i int) *SourceLocation  { return &SourceLocation{Kind: LocationRow, Index: i} }
func Page(i int) *SourceLocation { return &SourceLocation{Kind: LocationPage, Index: i} }
func Line(i int) *SourceLocation { return &SourceLocation{Kind: LocationLine, Index: i} }
func QR(i int) *SourceLocation   { return &SourceLocation{Kind: LocationQR, Index: i} }
