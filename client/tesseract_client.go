package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otiai10/gosseract/v2"
)

type TesseractClient struct {
	dataPath string
	language string
	logger   *slog.Logger
}

func NewTesseractClient(dataPath, language string, logger *slog.Logger) *TesseractClient {
	if language == "" {
		language = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractClient{
		dataPath: dataPath,
		language: language,
		logger:   logger,
	}
}

func (tc *TesseractClient) Name() string { return "tesseract" }

// Recognize runs Tesseract on an encoded image. A fresh gosseract client is
// used per call so concurrent requests never share engine state.
func (tc *TesseractClient) Recognize(ctx context.Context, imageData []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	if err := client.SetLanguage(tc.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	tc.logger.Debug("tesseract recognised text", "chars", len(text))
	return text, nil
}
