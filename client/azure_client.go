package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

type printedTextRecognizer interface {
	RecognizePrintedTextInStream(ctx context.Context, detectOrientation bool, imageParameter io.ReadCloser, language computervision.OcrLanguages) (computervision.OcrResult, error)
}

// AzureClient recognises printed text with Azure Computer Vision.
type AzureClient struct {
	client printedTextRecognizer
	logger *slog.Logger
}

func NewAzureClient(endpoint, apiKey string, logger *slog.Logger) *AzureClient {
	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)

	if logger == nil {
		logger = slog.Default()
	}
	return &AzureClient{client: client, logger: logger}
}

func (a *AzureClient) Name() string { return "azure" }

func (a *AzureClient) Recognize(ctx context.Context, imageData []byte) (string, error) {
	result, err := a.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(bytes.NewReader(imageData)),
		computervision.OcrLanguages(computervision.En),
	)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	lines := linesFromOCRResult(result)
	a.logger.Debug("azure recognised text", "lines", len(lines))
	return strings.Join(lines, "\n"), nil
}

// linesFromOCRResult flattens regions into text lines in reading order.
func linesFromOCRResult(result computervision.OcrResult) []string {
	var lines []string
	if result.Regions == nil {
		return lines
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			words := make([]string, 0, len(*line.Words))
			for _, word := range *line.Words {
				if word.Text != nil {
					words = append(words, *word.Text)
				}
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
	}
	return lines
}
