package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/Aashish23092/taxease-analyzer/client"
	"github.com/Aashish23092/taxease-analyzer/client/mocks"
	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func receiptPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.RGBA{R: 200, G: 30, B: 30, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageExtractorNoNumbers(t *testing.T) {
	ocr := new(mocks.MockOCREngine)
	ocr.On("Recognize", mock.Anything, mock.Anything).Return("", nil)

	out, err := NewImageExtractor(ocr, nil, true, discardLogger()).Extract(context.Background(), receiptPNG(t))
	require.NoError(t, err)
	assert.Empty(t, out.Amounts)
	assert.Zero(t, out.Skipped)
	ocr.AssertExpectations(t)
}

func TestImageExtractorLines(t *testing.T) {
	data := receiptPNG(t)

	ocr := new(mocks.MockOCREngine)
	ocr.On("Recognize", mock.Anything, data).Return("ACME HARDWARE\n01/15/2024 10:42\nSubtotal $9,800.00\nTOTAL $10,584.00\n", nil)

	out, err := NewImageExtractor(ocr, nil, false, discardLogger()).Extract(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, out.Amounts, 2)

	assert.True(t, decimal.NewFromInt(9800).Equal(out.Amounts[0].Value))
	assert.Equal(t, dto.Line(3), out.Amounts[0].SourceLocation)
	assert.Equal(t, "Subtotal $9,800.00", out.Amounts[0].SourceContext)

	assert.True(t, decimal.NewFromInt(10584).Equal(out.Amounts[1].Value))
	assert.Equal(t, dto.Line(4), out.Amounts[1].SourceLocation)
	ocr.AssertExpectations(t)
}

func TestImageExtractorPreprocessReencodes(t *testing.T) {
	data := receiptPNG(t)

	var got []byte
	ocr := new(mocks.MockOCREngine)
	ocr.On("Recognize", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).([]byte) }).
		Return("Total 5", nil)

	_, err := NewImageExtractor(ocr, nil, true, discardLogger()).Extract(context.Background(), data)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(got))
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 10).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestImageExtractorReencodesWithoutPreprocess(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	src.Set(5, 5, color.RGBA{R: 200, A: 255})

	var gifData, bmpData bytes.Buffer
	require.NoError(t, gif.Encode(&gifData, src, nil))
	require.NoError(t, bmp.Encode(&bmpData, src))

	tests := []struct {
		name      string
		data      []byte
		reencoded bool
	}{
		{name: "png passes through", data: receiptPNG(t), reencoded: false},
		{name: "gif", data: gifData.Bytes(), reencoded: true},
		{name: "bmp", data: bmpData.Bytes(), reencoded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []byte
			ocr := new(mocks.MockOCREngine)
			ocr.On("Recognize", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) { got = args.Get(1).([]byte) }).
				Return("Total $42.00", nil)

			out, err := NewImageExtractor(ocr, nil, false, discardLogger()).Extract(context.Background(), tt.data)
			require.NoError(t, err)
			require.Len(t, out.Amounts, 1)

			if tt.reencoded {
				_, err := png.Decode(bytes.NewReader(got))
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.data, got)
			}
		})
	}
}

func TestImageExtractorFailures(t *testing.T) {
	t.Run("undecodable", func(t *testing.T) {
		ocr := new(mocks.MockOCREngine)
		_, err := NewImageExtractor(ocr, nil, true, discardLogger()).Extract(context.Background(), []byte("not an image"))
		require.Error(t, err)

		var extErr *dto.ExtractionError
		require.True(t, errors.As(err, &extErr))
		assert.Equal(t, "decode", extErr.Stage)
		ocr.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
	})

	t.Run("ocr error", func(t *testing.T) {
		ocr := new(mocks.MockOCREngine)
		ocr.On("Recognize", mock.Anything, mock.Anything).Return("", errors.New("tesseract crashed"))

		_, err := NewImageExtractor(ocr, nil, true, discardLogger()).Extract(context.Background(), receiptPNG(t))
		require.Error(t, err)
		assert.True(t, errors.Is(err, dto.ErrExtractionFailed))
		assert.Contains(t, err.Error(), "tesseract crashed")
	})
}

func TestImageExtractorQRPayload(t *testing.T) {
	matrix, err := qrcode.NewQRCodeWriter().Encode("ACME STORE\nTOTAL $12,500.00", gozxing.BarcodeFormat_QR_CODE, 240, 240, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, matrix))

	ocr := new(mocks.MockOCREngine)
	ocr.On("Recognize", mock.Anything, mock.Anything).Return("Thank you", nil)

	out, err := NewImageExtractor(ocr, client.NewQRDecoder(), true, discardLogger()).Extract(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Len(t, out.Amounts, 1)
	assert.True(t, decimal.NewFromInt(12500).Equal(out.Amounts[0].Value))
	assert.Equal(t, dto.QR(2), out.Amounts[0].SourceLocation)
}

func TestPreprocessForOCR(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4000, 1000))
	out := PreprocessForOCR(src)
	assert.Equal(t, 3000, out.Bounds().Dx())
	assert.Equal(t, 750, out.Bounds().Dy())

	small := image.NewRGBA(image.Rect(0, 0, 50, 20))
	assert.Equal(t, small.Bounds().Size(), PreprocessForOCR(small).Bounds().Size())
}
