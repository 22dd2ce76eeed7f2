package utils

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/gabriel-vasile/mimetype"
)

var extensionFormats = map[string]dto.DocumentFormat{
	".csv":  dto.FormatCSV,
	".pdf":  dto.FormatPDF,
	".xlsx": dto.FormatXLSX,
	".png":  dto.FormatImage,
	".jpg":  dto.FormatImage,
	".jpeg": dto.FormatImage,
	".gif":  dto.FormatImage,
	".bmp":  dto.FormatImage,
	".tif":  dto.FormatImage,
	".tiff": dto.FormatImage,
	".webp": dto.FormatImage,
	".heic": dto.FormatImage,
	".heif": dto.FormatImage,
}

var mediaTypeFormats = map[string]dto.DocumentFormat{
	"text/csv":          dto.FormatCSV,
	"application/csv":   dto.FormatCSV,
	"application/pdf":   dto.FormatPDF,
	"application/x-pdf": dto.FormatPDF,

	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": dto.FormatXLSX,
}

// DetectFormat classifies an upload. The file extension wins when there is
// one; otherwise the declared content type is used, and finally the leading
// bytes are sniffed. Anything unrecognised is FormatUnsupported.
func DetectFormat(filename, contentType string, head []byte) dto.DocumentFormat {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		if f, ok := extensionFormats[ext]; ok {
			return f
		}
		return dto.FormatUnsupported
	}

	if f := formatFromMediaType(contentType); f != dto.FormatUnsupported {
		return f
	}

	if len(head) == 0 {
		return dto.FormatUnsupported
	}
	for m := mimetype.Detect(head); m != nil; m = m.Parent() {
		if f := formatFromMediaType(m.String()); f != dto.FormatUnsupported {
			return f
		}
	}
	return dto.FormatUnsupported
}

func formatFromMediaType(contentType string) dto.DocumentFormat {
	if contentType == "" {
		return dto.FormatUnsupported
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return dto.FormatUnsupported
	}
	if f, ok := mediaTypeFormats[mediaType]; ok {
		return f
	}
	if strings.HasPrefix(mediaType, "image/") {
		return dto.FormatImage
	}
	return dto.FormatUnsupported
}

// FormatError describes why a document was not dispatched to any extractor.
func FormatError(filename string) error {
	ext := filepath.Ext(filename)
	if ext == "" {
		return fmt.Errorf("%s: %w", filename, dto.ErrUnsupportedFormat)
	}
	return fmt.Errorf("%s: extension %q: %w", filename, ext, dto.ErrUnsupportedFormat)
}

// IsHEIC reports whether the bytes look like a HEIC/HEIF container, which the
// standard image decoders cannot read.
func IsHEIC(data []byte) bool {
	m := mimetype.Detect(data)
	return m.Is("image/heic") || m.Is("image/heif") || m.Is("image/heic-sequence") || m.Is("image/heif-sequence")
}
