package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Aashish23092/taxease-analyzer/client"
	"github.com/Aashish23092/taxease-analyzer/dto"
)

type PDFExtractor struct {
	processor   PDFProcessor
	ocr         client.OCREngine
	ocrFallback bool
	logger      *slog.Logger
}

// NewPDFExtractor scans the text layer of every page. When ocrFallback is
// set and an OCR engine is given, pages without text are OCRed instead.
func NewPDFExtractor(processor PDFProcessor, ocr client.OCREngine, ocrFallback bool, logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{
		processor:   processor,
		ocr:         ocr,
		ocrFallback: ocrFallback && ocr != nil,
		logger:      logger,
	}
}

func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (*dto.Extraction, error) {
	pages, err := e.processor.ExtractPages(data)
	if err != nil {
		return nil, dto.NewExtractionError(dto.FormatPDF, "open", err)
	}

	out := &dto.Extraction{}
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if page.Err != nil {
			out.Skipped++
			out.Warn("page %d skipped: %v", page.Number, page.Err)
			continue
		}

		text := page.Text
		if strings.TrimSpace(text) == "" {
			if !e.ocrFallback {
				continue
			}
			text, err = e.ocrPage(ctx, data, page.Number)
			if err != nil {
				out.Warn("page %d: OCR fallback failed: %v", page.Number, err)
				continue
			}
			e.logger.Debug("pdf page OCRed", "page", page.Number, "engine", e.ocr.Name(), "chars", len(text))
		}

		pageNo := page.Number
		out.Amounts = append(out.Amounts, textAmounts(text, func(int) *dto.SourceLocation {
			return dto.Page(pageNo)
		})...)
	}

	e.logger.Debug("pdf extracted", "engine", e.processor.Name(), "pages", len(pages), "amounts", len(out.Amounts))
	return out, nil
}

func (e *PDFExtractor) ocrPage(ctx context.Context, data []byte, page int) (string, error) {
	images, err := e.processor.PageImages(data, page)
	if err != nil {
		return "", err
	}
	if len(images) == 0 {
		return "", fmt.Errorf("no decodable images on page %d", page)
	}

	var texts []string
	for i, img := range images {
		png, err := client.EncodePNG(img)
		if err != nil {
			return "", fmt.Errorf("image %d: %w", i+1, err)
		}
		text, err := e.ocr.Recognize(ctx, png)
		if err != nil {
			return "", fmt.Errorf("image %d: %w", i+1, err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n"), nil
}
