package service

import (
	"context"
	"image"
	"io"
	"log/slog"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/stretchr/testify/mock"
)

type mockPDFProcessor struct {
	mock.Mock
}

func (m *mockPDFProcessor) ExtractPages(pdfData []byte) ([]PDFPage, error) {
	args := m.Called(pdfData)
	pages, _ := args.Get(0).([]PDFPage)
	return pages, args.Error(1)
}

func (m *mockPDFProcessor) PageImages(pdfData []byte, page int) ([]image.Image, error) {
	args := m.Called(pdfData, page)
	images, _ := args.Get(0).([]image.Image)
	return images, args.Error(1)
}

func (m *mockPDFProcessor) Name() string { return "mock" }

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, data []byte) (*dto.Extraction, error) {
	args := m.Called(ctx, data)
	extraction, _ := args.Get(0).(*dto.Extraction)
	return extraction, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
