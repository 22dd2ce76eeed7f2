package client

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// OCREngine turns a raster image into plain text, one recognised line per
// text line. Implementations must not keep state between calls.
type OCREngine interface {
	Recognize(ctx context.Context, imageData []byte) (string, error)
	Name() string
}

// EncodePNG re-encodes a decoded image so it can be handed to an OCREngine.
func EncodePNG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image to PNG: %w", err)
	}
	return buf.Bytes(), nil
}
