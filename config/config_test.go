package config

import (
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "MAX_UPLOAD_BYTES", "FLAG_THRESHOLD", "OCR_ENGINE",
		"PDF_ENGINE", "OCR_PREPROCESS", "SCAN_QR_CODES", "PDF_OCR_FALLBACK",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxUploadBytes)
	assert.True(t, cfg.FlagThreshold.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, OCREngineTesseract, cfg.OCR.Engine)
	assert.Equal(t, PDFEngineLedongthuc, cfg.PDF.Engine)
	assert.True(t, cfg.OCR.Preprocess)
	assert.False(t, cfg.OCR.ScanQRCodes)
	assert.True(t, cfg.PDF.OCRFallback)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FLAG_THRESHOLD", "2500.50")
	t.Setenv("PDF_ENGINE", "FITZ")
	t.Setenv("SCAN_QR_CODES", "true")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "2500.5", cfg.FlagThreshold.String())
	assert.Equal(t, PDFEngineFitz, cfg.PDF.Engine)
	assert.True(t, cfg.OCR.ScanQRCodes)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "bad threshold",
			env:  map[string]string{"FLAG_THRESHOLD": "ten thousand"},
			want: "invalid FLAG_THRESHOLD",
		},
		{
			name: "unknown ocr engine",
			env:  map[string]string{"OCR_ENGINE": "paddle"},
			want: "unknown OCR_ENGINE",
		},
		{
			name: "azure without credentials",
			env:  map[string]string{"OCR_ENGINE": "azure", "AZURE_VISION_ENDPOINT": "", "AZURE_VISION_KEY": ""},
			want: "requires AZURE_VISION_ENDPOINT",
		},
		{
			name: "unknown pdf engine",
			env:  map[string]string{"PDF_ENGINE": "poppler"},
			want: "unknown PDF_ENGINE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_BOOL_VAR", "invalid")
	assert.True(t, getEnvBool("TEST_BOOL_VAR", true))

	t.Setenv("TEST_BOOL_VAR", "false")
	assert.False(t, getEnvBool("TEST_BOOL_VAR", true))

	t.Setenv("TEST_INT_VAR", "abc")
	assert.Equal(t, int64(7), getEnvInt64("TEST_INT_VAR", 7))

	t.Setenv("TEST_INT_VAR", "42")
	assert.Equal(t, int64(42), getEnvInt64("TEST_INT_VAR", 7))

	assert.Equal(t, "default", getEnv("NON_EXISTENT_TAXEASE_VAR", "default"))
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel(), in)
	}
}
