package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
)

// DefaultThreshold is the amount above which extracted values are flagged for review.
const DefaultThreshold = "10000"

// OCR engine identifiers accepted by OCR_ENGINE.
const (
	OCREngineTesseract = "tesseract"
	OCREngineAzure     = "azure"
)

// PDF engine identifiers accepted by PDF_ENGINE.
const (
	PDFEngineLedongthuc = "ledongthuc"
	PDFEngineFitz       = "fitz"
)

type Config struct {
	ServerPort     string
	MaxUploadBytes int64
	FlagThreshold  decimal.Decimal
	LogLevel       string
	MetricsEnabled bool

	OCR OCRConfig
	PDF PDFConfig
}

type OCRConfig struct {
	Engine            string
	TesseractDataPath string
	TesseractLanguage string
	AzureEndpoint     string
	AzureKey          string
	Preprocess        bool
	ScanQRCodes       bool
}

type PDFConfig struct {
	Engine      string
	OCRFallback bool
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real env vars take precedence.
func LoadConfig() (*Config, error) {
	threshold, err := decimal.NewFromString(getEnv("FLAG_THRESHOLD", DefaultThreshold))
	if err != nil {
		return nil, fmt.Errorf("invalid FLAG_THRESHOLD: %w", err)
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024), // 10 MB
		FlagThreshold:  threshold,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		OCR: OCRConfig{
			Engine:            strings.ToLower(getEnv("OCR_ENGINE", OCREngineTesseract)),
			TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
			TesseractLanguage: getEnv("TESSERACT_LANGUAGE", "eng"),
			AzureEndpoint:     getEnv("AZURE_VISION_ENDPOINT", ""),
			AzureKey:          getEnv("AZURE_VISION_KEY", ""),
			Preprocess:        getEnvBool("OCR_PREPROCESS", true),
			ScanQRCodes:       getEnvBool("SCAN_QR_CODES", false),
		},
		PDF: PDFConfig{
			Engine:      strings.ToLower(getEnv("PDF_ENGINE", PDFEngineLedongthuc)),
			OCRFallback: getEnvBool("PDF_OCR_FALLBACK", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints that defaults cannot guarantee.
func (c *Config) Validate() error {
	switch c.OCR.Engine {
	case OCREngineTesseract:
	case OCREngineAzure:
		if c.OCR.AzureEndpoint == "" || c.OCR.AzureKey == "" {
			return fmt.Errorf("OCR_ENGINE=azure requires AZURE_VISION_ENDPOINT and AZURE_VISION_KEY")
		}
	default:
		return fmt.Errorf("unknown OCR_ENGINE %q (want %s or %s)", c.OCR.Engine, OCREngineTesseract, OCREngineAzure)
	}

	switch c.PDF.Engine {
	case PDFEngineLedongthuc, PDFEngineFitz:
	default:
		return fmt.Errorf("unknown PDF_ENGINE %q (want %s or %s)", c.PDF.Engine, PDFEngineLedongthuc, PDFEngineFitz)
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL (debug, info, warn, error) to a slog level.
// Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}
