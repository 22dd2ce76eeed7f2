package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/Aashish23092/taxease-analyzer/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Aashish23092/taxease-analyzer/service"

// sniffLen is how much of the document the format detector may look at.
const sniffLen = 3072

// AnalyzerService runs one document through detection, extraction and
// flagging. It holds no per-document state and is safe for concurrent use.
type AnalyzerService struct {
	extractors map[dto.DocumentFormat]Extractor
	flagger    *FlaggingEngine
	metrics    *Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

type AnalyzerOption func(*AnalyzerService)

func WithMetrics(m *Metrics) AnalyzerOption {
	return func(s *AnalyzerService) { s.metrics = m }
}

func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(s *AnalyzerService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) AnalyzerOption {
	return func(s *AnalyzerService) {
		if t != nil {
			s.tracer = t
		}
	}
}

func NewAnalyzerService(flagger *FlaggingEngine, extractors map[dto.DocumentFormat]Extractor, opts ...AnalyzerOption) *AnalyzerService {
	s := &AnalyzerService{
		extractors: extractors,
		flagger:    flagger,
		tracer:     otel.Tracer(tracerName),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AnalyzerService) Threshold() decimal.Decimal { return s.flagger.Threshold() }

// Analyze never returns a nil response. Document-level failures are reported
// through Status and Error with no results.
func (s *AnalyzerService) Analyze(ctx context.Context, doc dto.Document) *dto.AnalysisResponse {
	ctx, span := s.tracer.Start(ctx, "analyze", trace.WithAttributes(
		attribute.String("document.filename", doc.Filename),
		attribute.Int("document.size", len(doc.Data)),
	))
	defer span.End()

	resp := &dto.AnalysisResponse{
		Filename:  doc.Filename,
		Threshold: s.flagger.Threshold(),
		Results:   []dto.FlaggedResult{},
	}
	defer s.metrics.observe(resp)

	format := s.detect(ctx, doc)
	resp.Format = format
	span.SetAttributes(attribute.String("document.format", string(format)))

	extractor, ok := s.extractors[format]
	if !ok {
		err := utils.FormatError(doc.Filename)
		resp.Status = dto.StatusUnsupportedFormat
		resp.Error = err.Error()
		span.SetStatus(codes.Error, resp.Error)
		s.logger.Info("unsupported document", "filename", doc.Filename, "content_type", doc.ContentType)
		return resp
	}

	extraction, err := s.extract(ctx, extractor, format, doc.Data)
	if err != nil {
		resp.Status = dto.StatusExtractionFailed
		resp.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		s.logger.Warn("extraction failed", "filename", doc.Filename, "format", format, "error", err)
		return resp
	}

	resp.Results = s.flag(ctx, format, extraction.Amounts)
	for _, r := range resp.Results {
		if r.Flagged {
			resp.FlaggedCount++
		}
	}
	resp.SkippedCount = extraction.Skipped
	resp.Warnings = extraction.Warnings
	resp.Status = dto.StatusOK

	span.SetAttributes(
		attribute.Int("amounts.extracted", len(resp.Results)),
		attribute.Int("amounts.flagged", resp.FlaggedCount),
		attribute.Int("items.skipped", resp.SkippedCount),
	)
	s.logger.Info("document analyzed",
		"filename", doc.Filename,
		"format", format,
		"amounts", len(resp.Results),
		"flagged", resp.FlaggedCount,
		"skipped", resp.SkippedCount,
	)
	return resp
}

func (s *AnalyzerService) detect(ctx context.Context, doc dto.Document) dto.DocumentFormat {
	_, span := s.tracer.Start(ctx, "detect")
	defer span.End()
	start := time.Now()

	head := doc.Data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	format := utils.DetectFormat(doc.Filename, doc.ContentType, head)

	s.metrics.observeStage("detect", string(format), time.Since(start).Seconds())
	return format
}

func (s *AnalyzerService) extract(ctx context.Context, extractor Extractor, format dto.DocumentFormat, data []byte) (*dto.Extraction, error) {
	ctx, span := s.tracer.Start(ctx, "extract", trace.WithAttributes(attribute.String("document.format", string(format))))
	defer span.End()
	start := time.Now()

	extraction, err := extractor.Extract(ctx, data)
	s.metrics.observeStage("extract", string(format), time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if extraction == nil {
		extraction = &dto.Extraction{}
	}
	return extraction, nil
}

func (s *AnalyzerService) flag(ctx context.Context, format dto.DocumentFormat, amounts []dto.ExtractedAmount) []dto.FlaggedResult {
	_, span := s.tracer.Start(ctx, "flag")
	defer span.End()
	start := time.Now()

	results := s.flagger.FlagAll(amounts)

	s.metrics.observeStage("flag", string(format), time.Since(start).Seconds())
	return results
}
