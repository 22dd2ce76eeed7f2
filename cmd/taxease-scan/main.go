// Command taxease-scan runs the analysis pipeline against local files and
// prints every extracted amount, marking the ones that need manual review.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Aashish23092/taxease-analyzer/config"
	"github.com/Aashish23092/taxease-analyzer/dto"
	"github.com/Aashish23092/taxease-analyzer/service"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/shopspring/decimal"
)

// Exit codes. A run over several files exits with the worst one.
const (
	exitOK               = 0
	exitUsage            = 1
	exitUnsupported      = 2
	exitExtractionFailed = 3
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := ff.NewFlagSet("taxease-scan")
	var (
		threshold   = fs.StringLong("threshold", "", "Flag amounts strictly above this value (default FLAG_THRESHOLD or 10000)")
		ocrEngine   = fs.StringLong("ocr-engine", "", "OCR engine: 'tesseract' or 'azure'")
		pdfEngine   = fs.StringLong("pdf-engine", "", "PDF engine: 'ledongthuc' or 'fitz'")
		scanQR      = fs.BoolLong("scan-qr", "Decode QR codes in images")
		flaggedOnly = fs.BoolLong("flagged-only", "Only print flagged amounts")
		jsonOut     = fs.BoolLong("json", "Print one JSON document per file")
		verbose     = fs.BoolLong("verbose", "Log pipeline progress to stderr")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("TAXEASE")); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	files := fs.GetArgs()
	if len(files) == 0 {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(stderr, "error: at least one file is required")
		return exitUsage
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if err := applyFlags(cfg, *threshold, *ocrEngine, *pdfEngine, *scanQR); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	ocr, err := service.NewOCREngine(cfg.OCR, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	analyzer, err := service.NewPipeline(cfg, ocr, nil, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	code := exitOK
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			code = max(code, exitUsage)
			continue
		}

		resp := analyzer.Analyze(ctx, dto.Document{Filename: filepath.Base(path), Data: data})
		resp.ProcessedAt = time.Now().UTC().Format(time.RFC3339)

		if *jsonOut {
			err = writeJSON(stdout, resp)
		} else {
			err = writeTable(stdout, resp, *flaggedOnly)
		}
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitUsage
		}
		code = max(code, exitCode(resp.Status))
	}
	return code
}

// applyFlags layers command-line choices over the environment configuration.
func applyFlags(cfg *config.Config, threshold, ocrEngine, pdfEngine string, scanQR bool) error {
	if threshold != "" {
		t, err := decimal.NewFromString(threshold)
		if err != nil {
			return fmt.Errorf("invalid --threshold: %w", err)
		}
		cfg.FlagThreshold = t
	}
	if ocrEngine != "" {
		cfg.OCR.Engine = strings.ToLower(ocrEngine)
	}
	if pdfEngine != "" {
		cfg.PDF.Engine = strings.ToLower(pdfEngine)
	}
	if scanQR {
		cfg.OCR.ScanQRCodes = true
	}
	return cfg.Validate()
}

func exitCode(status dto.DocumentStatus) int {
	switch status {
	case dto.StatusUnsupportedFormat:
		return exitUnsupported
	case dto.StatusExtractionFailed:
		return exitExtractionFailed
	default:
		return exitOK
	}
}

func writeJSON(w io.Writer, resp *dto.AnalysisResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func writeTable(w io.Writer, resp *dto.AnalysisResponse, flaggedOnly bool) error {
	fmt.Fprintf(w, "%s (%s): %s\n", resp.Filename, resp.Format, resp.Status)
	if resp.Error != "" {
		fmt.Fprintf(w, "  error: %s\n", resp.Error)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  FLAG\tAMOUNT\tLOCATION\tCONTEXT")
	results := resp.Results
	if flaggedOnly {
		results = resp.Flagged()
	}
	for _, r := range results {
		mark := ""
		if r.Flagged {
			mark = "!"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", mark, r.Amount.Value.StringFixed(2), location(r.Amount.SourceLocation), r.Amount.SourceContext)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %d amounts, %d flagged above %s, %d skipped\n",
		len(resp.Results), resp.FlaggedCount, resp.Threshold.String(), resp.SkippedCount)
	for _, warning := range resp.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	return nil
}

func location(loc *dto.SourceLocation) string {
	if loc == nil {
		return "-"
	}
	return fmt.Sprintf("%s %d", loc.Kind, loc.Index)
}
