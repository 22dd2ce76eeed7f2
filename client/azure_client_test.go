package client

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	result computervision.OcrResult
	err    error
	got    []byte
}

func (f *fakeRecognizer) RecognizePrintedTextInStream(_ context.Context, _ bool, r io.ReadCloser, _ computervision.OcrLanguages) (computervision.OcrResult, error) {
	f.got, _ = io.ReadAll(r)
	return f.result, f.err
}

func words(ws ...string) *[]computervision.OcrWord {
	out := make([]computervision.OcrWord, 0, len(ws))
	for i := range ws {
		out = append(out, computervision.OcrWord{Text: &ws[i]})
	}
	return &out
}

func TestAzureClientRecognize(t *testing.T) {
	fake := &fakeRecognizer{
		result: computervision.OcrResult{
			Regions: &[]computervision.OcrRegion{
				{Lines: &[]computervision.OcrLine{
					{Words: words("ACME", "Hardware")},
					{Words: words("Total:", "$12,500.00")},
				}},
				{Lines: &[]computervision.OcrLine{
					{Words: words()},
					{Words: nil},
					{Words: words("Thank", "you")},
				}},
				{Lines: nil},
			},
		},
	}
	a := &AzureClient{client: fake, logger: discardLogger()}

	text, err := a.Recognize(context.Background(), []byte("img"))
	require.NoError(t, err)

	assert.Equal(t, "ACME Hardware\nTotal: $12,500.00\nThank you", text)
	assert.Equal(t, []byte("img"), fake.got)
	assert.Equal(t, "azure", a.Name())
}

func TestAzureClientRecognizeError(t *testing.T) {
	fake := &fakeRecognizer{err: errors.New("401 unauthorized")}
	a := &AzureClient{client: fake, logger: discardLogger()}

	_, err := a.Recognize(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 unauthorized")
}

func TestLinesFromEmptyResult(t *testing.T) {
	assert.Empty(t, linesFromOCRResult(computervision.OcrResult{}))
}
