package service

import (
	"fmt"
	"log/slog"

	"github.com/Aashish23092/taxease-analyzer/client"
	"github.com/Aashish23092/taxease-analyzer/config"
	"github.com/Aashish23092/taxease-analyzer/dto"
)

// NewOCREngine returns the engine selected by OCR_ENGINE.
func NewOCREngine(cfg config.OCRConfig, logger *slog.Logger) (client.OCREngine, error) {
	switch cfg.Engine {
	case config.OCREngineTesseract:
		return client.NewTesseractClient(cfg.TesseractDataPath, cfg.TesseractLanguage, logger), nil
	case config.OCREngineAzure:
		return client.NewAzureClient(cfg.AzureEndpoint, cfg.AzureKey, logger), nil
	default:
		return nil, fmt.Errorf("unknown OCR engine %q", cfg.Engine)
	}
}

// NewPDFProcessorFor returns the processor selected by PDF_ENGINE.
func NewPDFProcessorFor(engine string) (PDFProcessor, error) {
	switch engine {
	case config.PDFEngineLedongthuc:
		return NewPDFProcessor(), nil
	case config.PDFEngineFitz:
		return NewFitzProcessor(), nil
	default:
		return nil, fmt.Errorf("unknown PDF engine %q", engine)
	}
}

// NewExtractors wires one extractor per supported format.
func NewExtractors(cfg *config.Config, ocr client.OCREngine, pdf PDFProcessor, logger *slog.Logger) map[dto.DocumentFormat]Extractor {
	var qr QRScanner
	if cfg.OCR.ScanQRCodes {
		qr = client.NewQRDecoder()
	}

	return map[dto.DocumentFormat]Extractor{
		dto.FormatCSV:   NewCSVExtractor(logger),
		dto.FormatXLSX:  NewXLSXExtractor(logger),
		dto.FormatPDF:   NewPDFExtractor(pdf, ocr, cfg.PDF.OCRFallback, logger),
		dto.FormatImage: NewImageExtractor(ocr, qr, cfg.OCR.Preprocess, logger),
	}
}

// NewPipeline builds the full analyzer from configuration.
func NewPipeline(cfg *config.Config, ocr client.OCREngine, metrics *Metrics, logger *slog.Logger) (*AnalyzerService, error) {
	pdf, err := NewPDFProcessorFor(cfg.PDF.Engine)
	if err != nil {
		return nil, err
	}

	return NewAnalyzerService(
		NewFlaggingEngine(cfg.FlagThreshold),
		NewExtractors(cfg, ocr, pdf, logger),
		WithMetrics(metrics),
		WithLogger(logger),
	), nil
}
