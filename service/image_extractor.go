package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log/slog"

	"github.com/Aashish23092/taxease-analyzer/client"
	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/Aashish23092/taxease-analyzer/utils"
	"github.com/gen2brain/heic"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// QRScanner decodes a QR payload from an image.
type QRScanner interface {
	Decode(img image.Image) (string, error)
}

type ImageExtractor struct {
	ocr        client.OCREngine
	qr         QRScanner
	preprocess bool
	logger     *slog.Logger
}

// NewImageExtractor OCRs receipt images. qr may be nil to skip QR payloads.
func NewImageExtractor(ocr client.OCREngine, qr QRScanner, preprocess bool, logger *slog.Logger) *ImageExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageExtractor{
		ocr:        ocr,
		qr:         qr,
		preprocess: preprocess,
		logger:     logger,
	}
}

func (e *ImageExtractor) Extract(ctx context.Context, data []byte) (*dto.Extraction, error) {
	img, format, err := decodeImage(data)
	if err != nil {
		return nil, dto.NewExtractionError(dto.FormatImage, "decode", err)
	}

	ocrInput := data
	if e.preprocess || !ocrReadable[format] {
		toOCR := img
		if e.preprocess {
			toOCR = PreprocessForOCR(img)
		}
		if ocrInput, err = client.EncodePNG(toOCR); err != nil {
			return nil, dto.NewExtractionError(dto.FormatImage, "encode", err)
		}
	}

	text, err := e.ocr.Recognize(ctx, ocrInput)
	if err != nil {
		return nil, dto.NewExtractionError(dto.FormatImage, "ocr", err)
	}

	out := &dto.Extraction{
		Amounts: textAmounts(text, dto.Line),
	}

	if e.qr != nil {
		payload, err := e.qr.Decode(img)
		if err != nil {
			e.logger.Debug("no QR payload", "error", err)
		} else {
			out.Amounts = append(out.Amounts, textAmounts(payload, dto.QR)...)
		}
	}

	e.logger.Debug("image extracted", "engine", e.ocr.Name(), "chars", len(text), "amounts", len(out.Amounts))
	return out, nil
}

// ocrReadable lists the encodings every OCR engine accepts as is. Anything
// else is re-encoded as PNG before recognition.
var ocrReadable = map[string]bool{
	"png":  true,
	"jpeg": true,
}

// decodeImage returns the image and the name of its encoding.
func decodeImage(data []byte) (image.Image, string, error) {
	if utils.IsHEIC(data) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, "heic", nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}
