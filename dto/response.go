package dto

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type DocumentStatus string

const (
	StatusOK                DocumentStatus = "OK"
	StatusUnsupportedFormat DocumentStatus = "UNSUPPORTED_FORMAT"
	StatusExtractionFailed  DocumentStatus = "EXTRACTION_FAILED"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrExtractionFailed  = errors.New("extraction failed")
	ErrFileRequired      = errors.New("file is required")
)

// ExtractionError is a document-level failure raised by a parsing or OCR library.
type ExtractionError struct {
	Format DocumentFormat
	Stage  string
	Err    error
}

func NewExtractionError(format DocumentFormat, stage string, err error) *ExtractionError {
	return &ExtractionError{Format: format, Stage: stage, Err: err}
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction failed during %s: %v", e.Format, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Is lets callers match any ExtractionError with errors.Is(err, ErrExtractionFailed).
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// AnalysisResponse is the pipeline outcome for one document.
type AnalysisResponse struct {
	Filename     string          `json:"filename"`
	Format       DocumentFormat  `json:"format"`
	Status       DocumentStatus  `json:"status"`
	Threshold    decimal.Decimal `json:"threshold"`
	Results      []FlaggedResult `json:"results"`
	FlaggedCount int             `json:"flagged_count"`
	SkippedCount int             `json:"skipped_count"`
	Warnings     []string        `json:"warnings,omitempty"`
	Error        string          `json:"error,omitempty"`
	ProcessedAt  string          `json:"processed_at,omitempty"`
}

// Flagged returns only the results that need manual review.
func (r *AnalysisResponse) Flagged() []FlaggedResult {
	out := make([]FlaggedResult, 0, r.FlaggedCount)
	for _, res := range r.Results {
		if res.Flagged {
			out = append(out, res)
		}
	}
	return out
}
