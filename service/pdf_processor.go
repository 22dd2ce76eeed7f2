package service

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFPage is the text layer of one page. Number is 1-based. Err is set when
// the page exists but its content stream could not be read.
type PDFPage struct {
	Number int
	Text   string
	Err    error
}

type PDFProcessor interface {
	ExtractPages(pdfData []byte) ([]PDFPage, error)
	// PageImages returns raster images for a page so it can be OCRed.
	PageImages(pdfData []byte, page int) ([]image.Image, error)
	Name() string
}

type pdfProcessor struct{}

// NewPDFProcessor reads positioned text with ledongthuc/pdf and pulls
// embedded page images out with pdfcpu.
func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

func (p *pdfProcessor) Name() string { return "ledongthuc" }

func (p *pdfProcessor) ExtractPages(pdfData []byte) (pages []PDFPage, err error) {
	// ledongthuc/pdf panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, err
	}

	totalPage := r.NumPage()
	if totalPage == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = make([]PDFPage, 0, totalPage)
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		pages = append(pages, readPage(r.Page(pageIndex), pageIndex))
	}
	return pages, nil
}

func readPage(p pdf.Page, number int) (page PDFPage) {
	page.Number = number
	defer func() {
		if r := recover(); r != nil {
			page.Text, page.Err = "", fmt.Errorf("unreadable content: %v", r)
		}
	}()

	if p.V.IsNull() {
		return page
	}
	page.Text = layoutText(p.Content().Text)
	return page
}

// textLine collects the glyphs sharing one baseline.
type textLine struct {
	y       float64
	text    strings.Builder
	end     float64
	pending bool
}

func (l *textLine) add(t pdf.Text) {
	if l.text.Len() > 0 {
		gap := math.Max(t.FontSize, 1) * 0.2
		if l.pending || math.Abs(t.X-l.end) > gap {
			l.text.WriteByte(' ')
		}
	}
	l.text.WriteString(t.S)
	l.end = t.X + t.W
	l.pending = false
}

// layoutText rebuilds page lines from positioned glyphs. Glyphs are grouped
// by baseline, a space is inserted where the pen jumps horizontally, and
// lines are emitted top to bottom. Glyph order within a line follows the
// content stream because fonts without a Widths array report zero advance.
func layoutText(glyphs []pdf.Text) string {
	var lines []*textLine
	lineAt := func(t pdf.Text) *textLine {
		tolerance := math.Max(t.FontSize*0.5, 1)
		for _, l := range lines {
			if math.Abs(l.y-t.Y) <= tolerance {
				return l
			}
		}
		return nil
	}

	for _, t := range glyphs {
		l := lineAt(t)
		if strings.TrimSpace(t.S) == "" {
			if l != nil {
				l.pending = true
			}
			continue
		}
		if l == nil {
			l = &textLine{y: t.Y}
			lines = append(lines, l)
		}
		l.add(t)
	}

	sort.SliceStable(lines, func(i, j int) bool { return lines[i].y > lines[j].y })

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text.String()
	}
	return strings.Join(out, "\n")
}

func (p *pdfProcessor) PageImages(pdfData []byte, page int) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "taxease-pdf-images")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile := filepath.Join(tempDir, "doc.pdf")
	if err := os.WriteFile(tempFile, pdfData, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write pdf data: %w", err)
	}

	outDir := filepath.Join(tempDir, "out")
	if err := os.Mkdir(outDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile, outDir, []string{strconv.Itoa(page)}, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		img, err := imaging.Open(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return images, nil
}
