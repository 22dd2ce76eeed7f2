package service

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

type fitzProcessor struct{}

// NewFitzProcessor uses MuPDF for both the text layer and page rendering.
func NewFitzProcessor() PDFProcessor {
	return &fitzProcessor{}
}

func (p *fitzProcessor) Name() string { return "fitz" }

func (p *fitzProcessor) ExtractPages(pdfData []byte) ([]PDFPage, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages := make([]PDFPage, 0, n)
	for i := 0; i < n; i++ {
		page := PDFPage{Number: i + 1}
		page.Text, page.Err = doc.Text(i)
		pages = append(pages, page)
	}
	return pages, nil
}

func (p *fitzProcessor) PageImages(pdfData []byte, page int) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range", page)
	}

	img, err := doc.Image(page - 1)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return []image.Image{img}, nil
}
